// Package diag implements spec.md §6's development-mode hook: an advisory
// warning when EnqueueUpdate is called reentrantly from inside a reducer,
// plus a bounded ring of recent processing passes per node for
// inspection. None of it has any bearing on processQueue's return value —
// it is purely observational, exactly as spec.md §6 requires.
package diag

import (
	"github.com/go-stack/stack"

	"github.com/fiberqueue/updatequeue/core"
	"github.com/fiberqueue/updatequeue/logging"
)

// Logger implements core.ReentrancyHook: it captures the call-site stack
// of a reentrant EnqueueUpdate call with github.com/go-stack/stack —
// go-ethereum's own dependency for exactly this kind of diagnostic — and
// logs it at Warn via the logging package.
type Logger struct {
	log logging.Logger
}

// NewLogger returns a Logger that reports through log (logging.Default()
// if the zero value).
func NewLogger(log logging.Logger) *Logger {
	if log.Slog() == nil {
		log = logging.Default()
	}
	return &Logger{log: log}
}

// WarnReentrantEnqueue implements core.ReentrancyHook.
func (l *Logger) WarnReentrantEnqueue(node *core.Node) {
	callers := stack.Trace().TrimRuntime()
	l.log.Warn("enqueueUpdate called reentrantly from inside a reducer",
		"node", node.TraceID,
		"stack", callers.String(),
	)
}
