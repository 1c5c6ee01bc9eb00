package field

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alexhholmes/layoutdecl/internal/parser"
)

// Candidate is a field creation request as it arrives from an input
// surface. Offsets are still decimal text at this point.
type Candidate struct {
	Name        string
	Kind        string
	RawStart    string
	RawEnd      string
	Constraints map[string]string
}

// Validator turns candidates into accepted fields.
type Validator struct {
	kinds []Kind
	newID func() string
}

// Option configures a Validator.
type Option func(*Validator)

// WithKinds extends the accepted kinds beyond DefaultKinds.
func WithKinds(kinds ...Kind) Option {
	return func(v *Validator) {
		for _, k := range kinds {
			if k == "" {
				continue
			}
			if _, ok := ParseKind(string(k), v.kinds); ok {
				continue
			}
			v.kinds = append(v.kinds, k)
		}
	}
}

// WithIDGenerator replaces the random identifier source.
func WithIDGenerator(fn func() string) Option {
	return func(v *Validator) {
		if fn != nil {
			v.newID = fn
		}
	}
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		kinds: append([]Kind(nil), DefaultKinds...),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Kinds returns the kinds accepted by v, in declaration order.
func (v *Validator) Kinds() []Kind {
	return append([]Kind(nil), v.kinds...)
}

var defaultValidator = NewValidator()

// Validate checks c with the default kinds and a random identifier.
func Validate(c Candidate) (Field, error) {
	return defaultValidator.Validate(c)
}

// Validate checks c and, when it is well formed, returns the accepted
// field with a fresh identifier. Failures are ValidationError values
// attributed to a single slot.
func (v *Validator) Validate(c Candidate) (Field, error) {
	f, err := v.check(c)
	if err != nil {
		return Field{}, err
	}
	f.ID = v.newID()
	return f, nil
}

// Check re-validates a field accepted earlier, for example one read back
// from an exported document. The field's identifier is left alone.
func (v *Validator) Check(f Field) error {
	got, err := v.check(Candidate{
		Name:     f.Name,
		Kind:     string(f.Kind),
		RawStart: strconv.Itoa(f.Offsets.Start),
		RawEnd:   strconv.Itoa(f.Offsets.End),
	})
	if err != nil {
		return err
	}
	if got.Name != f.Name {
		return ValidationError{Slot: SlotName, Message: "Label has surrounding whitespace"}
	}
	if got.Kind != f.Kind {
		return ValidationError{Slot: SlotKind, Message: fmt.Sprintf("Type must be spelled %q", got.Kind)}
	}
	return nil
}

func (v *Validator) check(c Candidate) (Field, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Field{}, ValidationError{Slot: SlotName, Message: "Required"}
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return Field{}, ValidationError{
			Slot:    SlotName,
			Message: fmt.Sprintf("Name must be at most %d characters, got %d", MaxNameLength, n),
		}
	}

	if strings.TrimSpace(c.Kind) == "" {
		return Field{}, ValidationError{Slot: SlotKind, Message: "Required"}
	}
	kind, ok := ParseKind(c.Kind, v.kinds)
	if !ok {
		return Field{}, ValidationError{
			Slot:    SlotKind,
			Message: fmt.Sprintf("Unknown type %q (expected one of %s)", strings.TrimSpace(c.Kind), joinKinds(v.kinds)),
		}
	}

	start, err := parseBound(c.RawStart, SlotFrom, "From")
	if err != nil {
		return Field{}, err
	}
	end, err := parseBound(c.RawEnd, SlotTo, "To")
	if err != nil {
		return Field{}, err
	}

	if start >= end {
		return Field{}, RangeError()
	}

	return Field{
		Kind: kind,
		Name: name,
		Offsets: Offsets{
			Type:  StaticOffsets,
			Start: start,
			End:   end,
		},
		Constraints: cloneConstraints(c.Constraints),
	}, nil
}

func parseBound(raw, slot, label string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, ValidationError{Slot: slot, Message: "Required"}
	}
	n, err := parser.ParseOffset(raw)
	if err != nil {
		return 0, ValidationError{Slot: slot, Message: fmt.Sprintf("%s must be an integer between 0 and %d", label, MaxOffset)}
	}
	return n, nil
}

func joinKinds(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
