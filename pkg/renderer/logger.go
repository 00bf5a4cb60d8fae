package renderer

import "log"

// DefaultLogger implements core.Logger by writing to the standard logger,
// carried in spirit from the teacher's renderer.DefaultLogger (stdout
// writer for rendering progress output).
type DefaultLogger struct{}

// Printf implements core.Logger.
func (DefaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// NewDefaultLogger returns the default logger.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{}
}
