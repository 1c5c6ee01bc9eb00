package field

import (
	"errors"
	"fmt"
)

// Slots a ValidationError can be attributed to. They mirror the inputs of
// the field declaration form, plus the shared "range" slot used for
// cross-bound failures.
const (
	SlotName  = "name"
	SlotKind  = "type"
	SlotFrom  = "from"
	SlotTo    = "to"
	SlotRange = "range"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("invalid field")

// RangeMessage is reported when a field's start is not below its end.
const RangeMessage = "From must be less than To"

// ValidationError indicates a field declaration was rejected. Slot names
// the offending input and Message is meant to be shown next to it.
type ValidationError struct {
	Slot    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Slot, v.Message)
}

func (v ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// RangeError builds the shared range failure.
func RangeError() ValidationError {
	return ValidationError{Slot: SlotRange, Message: RangeMessage}
}
