// Package timeline records worktree lifecycle events and groups them by age.
package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/raphi011/wtm/internal/state"
	"github.com/raphi011/wtm/internal/tree"
)

// MaxEvents is how many events are kept.
const MaxEvents = 100

// EventType is the kind of lifecycle event.
type EventType string

const (
	Created  EventType = "created"
	Deleted  EventType = "deleted"
	Switched EventType = "switched"
)

// Event is one recorded lifecycle event.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Path      string    `json:"path"`
	Branch    string    `json:"branch"`
	Timestamp time.Time `json:"timestamp"`
}

// Label reads like "Created feature/x" or "Switched to main".
func (e Event) Label() string {
	var verb string
	switch e.Type {
	case Created:
		verb = "Created"
	case Deleted:
		verb = "Deleted"
	default:
		verb = "Switched to"
	}
	return verb + " " + e.Branch
}

// Icon returns the icon name for the event type.
func (e Event) Icon() string {
	switch e.Type {
	case Created:
		return "add"
	case Deleted:
		return "trash"
	default:
		return "arrow-right"
	}
}

// Store is the persistence the timeline needs.
type Store interface {
	Events(ctx context.Context) ([]state.EventRow, error)
	AppendEvent(ctx context.Context, e state.EventRow, limit int) error
}

// Timeline records and lists events.
type Timeline struct {
	store Store
	now   func() time.Time
}

// New returns a timeline backed by store.
func New(store Store) *Timeline {
	return &Timeline{store: store, now: time.Now}
}

// Record stores a new event, newest first, keeping MaxEvents.
func (t *Timeline) Record(ctx context.Context, typ EventType, path, branch string) (Event, error) {
	if branch == "" {
		branch = "detached"
	}
	e := Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Path:      path,
		Branch:    branch,
		Timestamp: t.now(),
	}
	row := state.EventRow{ID: e.ID, Type: string(e.Type), Path: e.Path, Branch: e.Branch, Timestamp: e.Timestamp}
	if err := t.store.AppendEvent(ctx, row, MaxEvents); err != nil {
		return e, fmt.Errorf("record %s event: %w", typ, err)
	}
	return e, nil
}

// Events returns stored events, newest first.
func (t *Timeline) Events(ctx context.Context) ([]Event, error) {
	rows, err := t.store.Events(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, Event{
			ID:        r.ID,
			Type:      EventType(r.Type),
			Path:      r.Path,
			Branch:    r.Branch,
			Timestamp: r.Timestamp,
		})
	}
	return events, nil
}

// Section is a group of events of similar age.
type Section struct {
	Name   string  `json:"name"`
	Events []Event `json:"events"`
}

// Label reads like "Today (3)".
func (s Section) Label() string {
	return fmt.Sprintf("%s (%d)", s.Name, len(s.Events))
}

const day = 24 * time.Hour

// Group buckets events into Today (< 1 day), This Week (< 7 days),
// This Month (< 30 days) and Older, in that order. Empty groups are omitted
// and events keep their input order.
func Group(events []Event, now time.Time) []Section {
	buckets := []Section{{Name: "Today"}, {Name: "This Week"}, {Name: "This Month"}, {Name: "Older"}}
	for _, e := range events {
		age := now.Sub(e.Timestamp)
		var i int
		switch {
		case age < day:
			i = 0
		case age < 7*day:
			i = 1
		case age < 30*day:
			i = 2
		default:
			i = 3
		}
		buckets[i].Events = append(buckets[i].Events, e)
	}

	var sections []Section
	for _, b := range buckets {
		if len(b.Events) > 0 {
			sections = append(sections, b)
		}
	}
	return sections
}

// Sections groups the stored events relative to now.
func (t *Timeline) Sections(ctx context.Context) ([]Section, error) {
	events, err := t.Events(ctx)
	if err != nil {
		return nil, err
	}
	return Group(events, t.now()), nil
}

// Describe returns the local time plus a humanized age, e.g.
// "2024-05-01 14:03 (2 hours ago)".
func Describe(e Event, now time.Time) string {
	return fmt.Sprintf("%s (%s)", e.Timestamp.Local().Format("2006-01-02 15:04"), humanize.RelTime(e.Timestamp, now, "ago", "from now"))
}

// Nodes converts sections into expanded tree nodes.
func Nodes(sections []Section, now time.Time) []*tree.Node {
	nodes := make([]*tree.Node, 0, len(sections))
	for _, s := range sections {
		section := &tree.Node{Label: s.Label(), Kind: "section", Expanded: true}
		for _, e := range s.Events {
			section.Children = append(section.Children, &tree.Node{
				Label:       e.Label(),
				Description: Describe(e, now),
				Tooltip:     e.Path + "\n" + e.Timestamp.Local().Format(time.DateTime),
				Icon:        e.Icon(),
				Kind:        "event",
				Path:        e.Path,
			})
		}
		nodes = append(nodes, section)
	}
	return nodes
}
