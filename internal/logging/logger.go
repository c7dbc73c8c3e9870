// Package logging is the structured logging layer of sms-ledger. Components
// depend on the Logger interface; the logrus-backed adapter is wired in by the
// container and MockLogger is used by tests.
package logging

// Logger is the structured logger handed to every component through its constructor.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs and exits the process.
	Fatal(msg string, fields ...Field)

	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// OrDefault returns logger, or a text logger at info level when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger != nil {
		return logger
	}
	return NewLogrusAdapter("info", "text")
}
