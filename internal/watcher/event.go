package watcher

import "time"

// EventType represents the type of file system event
type EventType int

const (
	// EventModified is emitted when a watched file is written or replaced (after settling)
	EventModified EventType = iota
	// EventRemoved is emitted when a watched file is deleted or moved away
	EventRemoved
)

// String returns the string representation of the event type
func (t EventType) String() string {
	switch t {
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event represents a change to a watched file
type Event struct {
	Type EventType

	// Path is the watched file path
	Path string

	// Size and ModTime describe the settled file (zero for removals)
	Size    int64
	ModTime time.Time
}
