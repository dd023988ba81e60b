package core

// Logger is any service that can log messages with optional structured args.
// Implementations may inspect args for well-known types (errors, users).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
