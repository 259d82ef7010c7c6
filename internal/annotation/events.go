package annotation

import "github.com/inamate/annotator/internal/shape"

type EventType int

const (
	// EventSelectionChanged follows any change that needs a redraw and a
	// refresh of the controls.
	EventSelectionChanged EventType = iota
	// EventShapeKindLocked is sent on every feature change. Locked reports
	// whether the feature restricts the shape kind; Kind is then the
	// enforced kind.
	EventShapeKindLocked
)

func (t EventType) String() string {
	switch t {
	case EventSelectionChanged:
		return "selectionChanged"
	case EventShapeKindLocked:
		return "shapeKindLocked"
	default:
		return "unknown"
	}
}

type Event struct {
	Type   EventType
	Kind   shape.Kind
	Locked bool
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for store events and returns a function that removes it.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(ev Event) {
	for _, sub := range s.subs {
		sub.fn(ev)
	}
}

func (s *Store) changed() {
	s.emit(Event{Type: EventSelectionChanged})
}
