package framevk

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger holds one stdlib logger per level. Trace output is only written
// when Trace is set.
type Logger struct {
	Trace bool

	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	trace *log.Logger
}

// NewLogger creates a Logger writing every level to w.
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		info:  log.New(w, "INFO: ", flags),
		warn:  log.New(w, "WARNING: ", flags),
		err:   log.New(w, "ERROR: ", flags),
		trace: log.New(w, "TRACE: ", flags),
	}
}

// Std returns the info logger, for collaborators that take a *log.Logger.
func (l *Logger) Std() *log.Logger { return l.info }

func (l *Logger) Infof(format string, args ...interface{}) {
	l.info.Output(2, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.warn.Output(2, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.err.Output(2, fmt.Sprintf(format, args...))
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.Trace {
		l.trace.Output(2, fmt.Sprintf(format, args...))
	}
}
