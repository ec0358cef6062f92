package interfaces

// Logger defines the interface for logging throughout the application.
// It is constructed once at process start and threaded through every
// component via Dependencies; nothing in the core logs through a global.
//
// Example usage:
//
//	logger.Info("Source refreshed", map[string]interface{}{
//		"source":   "AWS",
//		"articles": 42,
//	})
//
//	logger.Warn("Unparseable publish date, using processing time", map[string]interface{}{
//		"source": "Azure",
//		"value":  "yesterday-ish",
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Recovered failures (bad dates, missing extractors) are logged here.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards every message. Used when no logger is configured.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}

// LoggerOrNop returns l, or a NopLogger when l is nil.
func LoggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
