package layout

import (
	"sync"

	"github.com/go-stdlog/stdlog"

	"github.com/alexhholmes/layoutdecl/internal/analyzer"
	"github.com/alexhholmes/layoutdecl/internal/field"
)

// Snapshot is a detached, serialisable copy of a model's state.
type Snapshot struct {
	Header []field.Field     `json:"header" yaml:"header"`
	Body   map[string]string `json:"body" yaml:"body"`
}

// Model holds the fields declared during one editing session. Header order
// is insertion order. All methods are safe for concurrent use; readers
// never observe a half-applied Insert or Remove.
type Model struct {
	mu           sync.RWMutex
	header       []field.Field
	body         map[string]string
	ids          map[string]struct{}
	overlapCheck bool
	log          stdlog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used by the model. Defaults to stdlog.Discard.
func WithLogger(l stdlog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l.Named("layout")
		}
	}
}

// WithOverlapCheck makes Insert reject fields whose range overlaps a field
// already in the header. Overlaps are allowed by default.
func WithOverlapCheck() Option {
	return func(m *Model) {
		m.overlapCheck = true
	}
}

// NewModel returns an empty model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		body: make(map[string]string),
		ids:  make(map[string]struct{}),
		log:  stdlog.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert appends f to the header. Fields that break the validator's
// guarantees yield a ContractError; with the overlap check enabled an
// overlapping range yields a field.ValidationError in the range slot.
func (m *Model) Insert(f field.Field) error {
	return m.InsertAll([]field.Field{f})
}

// InsertAll appends fields in order as a single operation. Each field is
// checked as Insert would, against the header and the fields before it;
// on the first failure nothing is inserted.
func (m *Model) InsertAll(fields []field.Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	header := m.header[:len(m.header):len(m.header)]
	pending := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if err := m.admit(header, pending, f); err != nil {
			return err
		}
		header = append(header, f.Clone())
		pending[f.ID] = struct{}{}
	}

	m.header = header
	for _, f := range fields {
		m.ids[f.ID] = struct{}{}
		m.log.Debug("Field inserted",
			"id", f.ID,
			"label", f.Name,
			"start", f.Offsets.Start,
			"end", f.Offsets.End,
		)
	}
	return nil
}

// admit reports whether f may follow header. pending holds the ids of
// fields accepted in the same operation but not yet recorded in m.ids.
func (m *Model) admit(header []field.Field, pending map[string]struct{}, f field.Field) error {
	if err := checkContract(f); err != nil {
		m.log.Error(err, "Rejected field insert", "id", f.ID)
		return err
	}

	_, exists := m.ids[f.ID]
	_, queued := pending[f.ID]
	if exists || queued {
		err := ContractError{FieldID: f.ID, Reason: "duplicate id"}
		m.log.Error(err, "Rejected field insert", "id", f.ID)
		return err
	}

	if m.overlapCheck {
		if c, found := analyzer.FindCollision(header, f); found {
			m.log.Debug("Field overlaps existing declaration", "id", f.ID, "other", c.First.ID)
			return field.ValidationError{Slot: field.SlotRange, Message: c.Error()}
		}
	}
	return nil
}

func checkContract(f field.Field) error {
	switch {
	case f.ID == "":
		return ContractError{FieldID: f.ID, Reason: "empty id"}
	case f.Offsets.Type != field.StaticOffsets:
		return ContractError{FieldID: f.ID, Reason: "unsupported offsets type " + f.Offsets.Type}
	case f.Offsets.Start < 0:
		return ContractError{FieldID: f.ID, Reason: "negative start offset"}
	case f.Offsets.End > field.MaxOffset:
		return ContractError{FieldID: f.ID, Reason: "end offset above maximum"}
	case f.Offsets.Start >= f.Offsets.End:
		return ContractError{FieldID: f.ID, Reason: "start offset not below end offset"}
	}
	return nil
}

// Remove deletes the field with the given id and reports whether one was
// found. Unknown ids are ignored.
func (m *Model) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ids[id]; !exists {
		m.log.Debug("Remove of unknown field ignored", "id", id)
		return false
	}

	for i, f := range m.header {
		if f.ID != id {
			continue
		}
		m.header = append(m.header[:i:i], m.header[i+1:]...)
		break
	}
	delete(m.ids, id)
	m.log.Debug("Field removed", "id", id)
	return true
}

// Field returns a copy of the field with the given id.
func (m *Model) Field(id string) (field.Field, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.header {
		if f.ID == id {
			return f.Clone(), true
		}
	}
	return field.Field{}, false
}

// Len returns the number of declared fields.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.header)
}

// SetBody stores an instance data value under a field id.
func (m *Model) SetBody(id, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body[id] = value
}

// Snapshot returns a deep copy of the current state.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Header: make([]field.Field, len(m.header)),
		Body:   make(map[string]string, len(m.body)),
	}
	for i, f := range m.header {
		s.Header[i] = f.Clone()
	}
	for k, v := range m.body {
		s.Body[k] = v
	}
	return s
}

// Analyze reports the placement of the current header on the record.
func (m *Model) Analyze() *analyzer.Report {
	return analyzer.Analyze(m.Snapshot().Header)
}
