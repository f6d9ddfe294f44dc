package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level controls logger verbosity
type Level logging.Level

const (
	Debug Level = iota
	Info
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module} %{level:.4s}%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Logger is the leveled logging interface used throughout the commands
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink overrides the backend output sink
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	withFormat := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(withFormat)
	leveledBackend.SetLevel(logging.INFO, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the global logger verbosity
func SetLevel(level Level) {
	var loggerLevel logging.Level

	switch level {
	case Debug:
		loggerLevel = logging.DEBUG
	case Info:
		loggerLevel = logging.INFO
	case Warning:
		loggerLevel = logging.WARNING
	case Error:
		loggerLevel = logging.ERROR
	}

	leveledBackend.SetLevel(loggerLevel, "")
}

func init() {
	SetSink(os.Stderr)
	SetLevel(Info)
}
