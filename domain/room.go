package domain

import "slices"

type RoomID int

// Document is the whole state of one room as it is persisted:
// the roster and the message log, both insertion-ordered.
// Rooms exist implicitly, so the zero value (empty roster, empty log)
// is the state of any room that has never been touched.
type Document struct {
	People   []string  `json:"people"`
	Messages []Message `json:"messages"`
}

func NewDocument() Document {
	return Document{People: []string{}, Messages: []Message{}}
}

// HasPerson reports whether name is on the roster. Exact string match,
// no separate identity object.
func (d Document) HasPerson(name string) bool {
	return slices.Contains(d.People, name)
}

// AddPerson appends name to the roster unless it is already present.
// It reports whether the roster changed, so callers can skip the
// persistence round trip on an idempotent re-join.
func (d *Document) AddPerson(name string) bool {
	if d.HasPerson(name) {
		return false
	}
	d.People = append(d.People, name)
	return true
}

// AppendMessage appends to the log. The log is append-only: there is
// no edit or delete, and ordering is arrival order.
func (d *Document) AppendMessage(m Message) {
	d.Messages = append(d.Messages, m)
}
