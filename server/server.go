// Package server exposes the conversion service over HTTP: upload, status
// polling, download, and health.
package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docmill/pdf2word/convert"
	"github.com/docmill/pdf2word/docx"
	"github.com/docmill/pdf2word/jobs"
	"github.com/docmill/pdf2word/observability"
	"github.com/docmill/pdf2word/pdfread"
)

// Server wires the HTTP handlers to a job manager.
type Server struct {
	manager   *jobs.Manager
	uploadDir string
	maxBytes  int64
	log       observability.Logger

	// validate is a seam for tests; defaults to convert.ValidatePDF.
	validate func(path string) (bool, string)
}

// New builds a Server storing uploads under uploadDir and rejecting files
// over maxUploadMB megabytes.
func New(manager *jobs.Manager, uploadDir string, maxUploadMB int, log observability.Logger) *Server {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Server{
		manager:   manager,
		uploadDir: uploadDir,
		maxBytes:  int64(maxUploadMB) << 20,
		log:       log,
		validate:  convert.ValidatePDF,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.maxBytes

	r.POST("/upload", s.handleUpload)
	r.GET("/api/status/:id", s.handleStatus)
	r.GET("/download/:id", s.handleDownload)
	r.GET("/health", s.handleHealth)
	return r
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part in the request"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if !pdfread.HasPDFExtension(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}
	if file.Size > s.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("File too large (maximum %d MB)", s.maxBytes>>20),
		})
		return
	}

	dst := filepath.Join(s.uploadDir, safeFilename(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.log.Error("save upload failed",
			observability.String("filename", file.Filename),
			observability.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store the uploaded file"})
		return
	}

	ok, msg := s.validate(dst)
	if !ok {
		os.Remove(dst)
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	id := s.manager.Begin(dst, file.Filename)
	s.log.Info("upload accepted",
		observability.String("job_id", id),
		observability.String("filename", file.Filename))
	c.JSON(http.StatusOK, gin.H{
		"job_id":   id,
		"filename": file.Filename,
		"message":  "File uploaded successfully",
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	snap, ok := s.manager.Registry().Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDownload(c *gin.Context) {
	job, ok := s.manager.Registry().Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if job.Status != jobs.StatusCompleted || job.OutputPath == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Conversion not completed"})
		return
	}
	if _, err := os.Stat(job.OutputPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Converted file not found"})
		return
	}
	c.Header("Content-Type", docx.MIMEType)
	c.FileAttachment(job.OutputPath, jobs.DownloadName(job.OriginalFilename))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// safeFilename flattens an uploaded filename to a timestamped, path-safe
// name so uploads can never escape the upload directory or collide.
func safeFilename(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := b.String()
	if strings.Trim(cleaned, "._") == "" {
		cleaned = "upload.pdf"
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), cleaned)
}
