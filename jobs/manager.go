package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/docmill/pdf2word/convert"
	"github.com/docmill/pdf2word/observability"
)

// Converter runs one document conversion. *convert.Converter satisfies it.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string, progress convert.ProgressFunc) error
}

// Manager starts and tracks conversions. Each Begin call runs its job on a
// dedicated goroutine and feeds progress back into the Registry.
type Manager struct {
	registry  *Registry
	converter Converter
	outDir    string
	log       observability.Logger
}

// NewManager builds a Manager writing converted documents under outDir.
func NewManager(registry *Registry, converter Converter, outDir string, log observability.Logger) *Manager {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Manager{
		registry:  registry,
		converter: converter,
		outDir:    outDir,
		log:       log,
	}
}

// Registry exposes the underlying job table.
func (m *Manager) Registry() *Registry { return m.registry }

// Begin registers a job for the uploaded file and starts converting it in
// the background. The returned ID is the handle for status polling and
// download.
func (m *Manager) Begin(inputPath, originalFilename string) string {
	id := uuid.New().String()
	m.registry.Create(id, originalFilename, inputPath)

	outputPath := filepath.Join(m.outDir, id+"_"+DownloadName(originalFilename))
	go m.run(id, inputPath, outputPath)
	return id
}

func (m *Manager) run(id, inputPath, outputPath string) {
	m.registry.Apply(id, Patch{
		Status:   statusPtr(StatusProcessing),
		Progress: intPtr(10),
		Message:  strPtr("Analyzing PDF structure..."),
	})

	err := m.converter.Convert(context.Background(), inputPath, outputPath, func(percent int, message string) {
		m.registry.Apply(id, Patch{Progress: intPtr(percent), Message: strPtr(message)})
	})
	if err != nil {
		m.log.Error("conversion failed",
			observability.String("job_id", id),
			observability.Error(err))
		m.registry.Apply(id, Patch{
			Status:  statusPtr(StatusFailed),
			Message: strPtr(fmt.Sprintf("Conversion failed: %v", err)),
			Err:     strPtr(err.Error()),
		})
		return
	}

	m.log.Info("conversion completed",
		observability.String("job_id", id),
		observability.String("output", outputPath))
	m.registry.Apply(id, Patch{
		Status:     statusPtr(StatusCompleted),
		Progress:   intPtr(100),
		Message:    strPtr("Conversion completed successfully!"),
		OutputPath: strPtr(outputPath),
	})
}

// DownloadName maps an uploaded filename to the name the converted
// document is served under.
func DownloadName(originalFilename string) string {
	base := filepath.Base(originalFilename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "converted"
	}
	return base + ".docx"
}
