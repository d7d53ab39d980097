package observer

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-darkness-grader/internal/logger"
)

// StageEvent describes one completed stage invocation, success or failure.
type StageEvent struct {
	Stage     string        `json:"stage"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// StageObserver receives stage completion events
type StageObserver interface {
	OnStageCompleted(event StageEvent)
}

// Registry manages stage observers and fans events out to them
type Registry struct {
	mu        sync.RWMutex
	observers []StageObserver
}

// NewRegistry creates an observer registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers an observer
func (r *Registry) Add(o StageObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Notify delivers an event to all registered observers
func (r *Registry) Notify(event StageEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.observers {
		o.OnStageCompleted(event)
	}
}

// LoggingObserver writes stage events to the structured log
type LoggingObserver struct{}

// NewLoggingObserver creates a logging observer
func NewLoggingObserver() *LoggingObserver {
	return &LoggingObserver{}
}

// OnStageCompleted logs the stage outcome
func (o *LoggingObserver) OnStageCompleted(event StageEvent) {
	entry := logger.WithStage(event.Stage).WithFields(logrus.Fields{
		"duration_ms": event.Duration.Milliseconds(),
		"success":     event.Success,
	})
	if event.Success {
		entry.Info("Stage completed")
		return
	}
	entry.WithField("error", event.Error).Warn("Stage produced an error result")
}
