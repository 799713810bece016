package dwjdbc

import "testing"

// Light smoke tests ensuring exported logger APIs do not panic and remain
// callable with and without key-value pairs.
func TestSimpleLoggerLevels(t *testing.T) {
	logger := NewSimpleLogger()

	logger.Debug("debug message")
	logger.Info("info message", "endpoint", "https://example.com/q")
	logger.Warn("warn message", "status", 500)
	logger.Error("error message", "dangling key")
}

func TestSimpleLoggerReusability(t *testing.T) {
	logger := NewSimpleLogger()
	for i := 0; i < 5; i++ {
		logger.Info("loop message", "i", i)
	}
}
