package view

import (
	"sync"
	"time"
)

// ErrorTimer owns the error message's auto-dismiss window. At most one timer
// is outstanding at a time: scheduling while one is pending restarts the
// window instead of stacking a second timer.
type ErrorTimer struct {
	mutex    sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// NewErrorTimer creates a timer with the configured display duration
func NewErrorTimer(duration time.Duration) *ErrorTimer {
	return &ErrorTimer{duration: duration}
}

// Schedule arms the dismiss callback, replacing any pending one
func (e *ErrorTimer) Schedule(dismiss func()) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.duration, dismiss)
}

// Cancel stops the pending dismiss, if any
func (e *ErrorTimer) Cancel() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
