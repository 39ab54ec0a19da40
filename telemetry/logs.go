package telemetry

import "log"

type Logger interface {
	Info(msg string)
	Debug(msg string)
	Warn(msg string)
	Error(msg string, err error)
}

type NOPLogger struct {
}

func (n NOPLogger) Info(msg string) {
}
func (n NOPLogger) Debug(msg string) {
}
func (n NOPLogger) Warn(msg string) {
}
func (n NOPLogger) Error(msg string, err error) {
}

// StdLogger writes through the standard library logger, one line per call.
type StdLogger struct {
	prefix string
}

func NewStdLogger(prefix string) StdLogger {
	return StdLogger{prefix: prefix}
}

func (l StdLogger) Info(msg string) {
	log.Printf("INFO  %s%s", l.prefix, msg)
}
func (l StdLogger) Debug(msg string) {
	log.Printf("DEBUG %s%s", l.prefix, msg)
}
func (l StdLogger) Warn(msg string) {
	log.Printf("WARN  %s%s", l.prefix, msg)
}
func (l StdLogger) Error(msg string, err error) {
	log.Printf("ERROR %s%s: %v", l.prefix, msg, err)
}
