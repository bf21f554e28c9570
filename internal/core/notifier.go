package core

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"catalogcore/pkg/domain"
)

// NotificationLevel distinguishes success and failure notifications.
type NotificationLevel string

// Notification levels.
const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is the user-visible outcome of one mutation attempt. The
// presentation layer renders these; the engine only emits them.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Entity    domain.EntityType `json:"entity"`
	Operation string            `json:"operation"`
	Message   string            `json:"message"`
	// Dependents carries the blocking-dependent count for refused deletes.
	Dependents int       `json:"dependents,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier receives notifications from the mutation controllers.
type Notifier interface {
	Notify(n Notification)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Notification) {}

// LogNotifier serializes notifications as JSON lines to a writer and retains
// them for inspection.
type LogNotifier struct {
	mu      sync.Mutex
	entries []Notification
	enc     *json.Encoder
}

// NewLogNotifier constructs a notifier writing JSON lines to w. A nil writer
// only retains entries.
func NewLogNotifier(w io.Writer) *LogNotifier {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &LogNotifier{enc: enc}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(n Notification) {
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, n)
	if l.enc != nil {
		_ = l.enc.Encode(n)
	}
}

// Entries returns a copy of all retained notifications.
func (l *LogNotifier) Entries() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.entries))
	copy(out, l.entries)
	return out
}
