// Package observability provides the logging seam used by the conversion
// pipeline. Library packages log through the Logger interface so they stay
// silent by default; the service binary plugs in a zap-backed implementation.
package observability

// Field is a single structured logging attribute.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field      { return Field{Key: key, Value: value} }
func Int(key string, value int) Field     { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}
func Error(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the minimal contract the pipeline needs. Implementations must be
// safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// NopLogger discards everything. It is the default for library use.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }
