package layout

import "fmt"

// ContractError indicates a caller handed the model a field that could not
// have come from the validator, such as a reused identifier. It is a
// programming error: the operation is aborted and the model is unchanged.
type ContractError struct {
	FieldID string
	Reason  string
}

func (c ContractError) Error() string {
	return fmt.Sprintf("layout contract violated by field %q: %s", c.FieldID, c.Reason)
}
