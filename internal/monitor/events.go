package monitor

import (
	"github.com/social-monitor/internal/models"
)

// Event is a progress or result notification emitted by the Coordinator
// during a fetch cycle. Consumers type-switch on the concrete kinds.
type Event interface {
	event()
}

// ProgressEvent reports a human-readable fetch stage
type ProgressEvent struct {
	Platform string
	UserID   string
	Message  string
}

// NewPostEvent carries one fetched post, enriched with platform and
// username. Emitted for every returned post regardless of dedup status;
// dedup and keyword matching happen downstream in the scheduler.
type NewPostEvent struct {
	Post models.Post
}

// ErrorEvent reports a failed fetch cycle. Already-persisted upserts from
// the same cycle are retained.
type ErrorEvent struct {
	Platform string
	UserID   string
	Err      error
}

// FinishedEvent reports a completed fetch cycle and the number of posts
// processed. Zero posts is not an error.
type FinishedEvent struct {
	Platform string
	UserID   string
	Count    int
}

func (ProgressEvent) event() {}
func (NewPostEvent) event()  {}
func (ErrorEvent) event()    {}
func (FinishedEvent) event() {}

// Notification is the payload delivered to the notification sink when a
// newly observed post matches the configured keywords.
type Notification struct {
	Post     models.Post `json:"post"`
	Keywords []string    `json:"keywords"`
}
