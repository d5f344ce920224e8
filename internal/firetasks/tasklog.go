package firetasks

import (
	"fmt"
	"strings"

	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// taskLog forwards task log lines to the service logger and, when
// capturing, keeps them for the launch's stored data.
type taskLog struct {
	log     logger.Logger
	capture bool
	lines   []string
}

func newTaskLog(log logger.Logger, capture bool) *taskLog {
	return &taskLog{log: log, capture: capture}
}

func (l *taskLog) Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.capture {
		l.lines = append(l.lines, "INFO "+msg)
	}
	if l.log != nil {
		l.log.Info(msg)
	}
}

func (l *taskLog) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.capture {
		l.lines = append(l.lines, "WARNING "+msg)
	}
	if l.log != nil {
		l.log.Warn(msg)
	}
}

func (l *taskLog) String() string {
	return strings.Join(l.lines, "\n")
}
