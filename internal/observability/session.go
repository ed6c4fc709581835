package observability

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionLogger tags every entry of base with a fresh session id and returns both.
func SessionLogger(base *zap.Logger) (*zap.Logger, string) {
	id := uuid.NewString()
	return base.With(zap.String("session_id", id)), id
}

// OnceReporter logs the first error it is given and drops the rest, so a fault
// that repeats every frame produces a single diagnostic.
type OnceReporter struct {
	logger *zap.Logger
	once   sync.Once
	fired  atomic.Bool
}

// NewOnceReporter reports through logger.
func NewOnceReporter(logger *zap.Logger) *OnceReporter {
	return &OnceReporter{logger: logger}
}

// Report logs msg at error level the first time it is called.
func (r *OnceReporter) Report(msg string, fields ...zap.Field) {
	r.once.Do(func() {
		r.fired.Store(true)
		r.logger.Error(msg, fields...)
	})
}

// Fired reports whether a message has been logged.
func (r *OnceReporter) Fired() bool { return r.fired.Load() }
