package mmd

import "fmt"

// FormatError is returned when the input is not a valid document.
// No partial document is returned with it.
type FormatError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mmd: %s (offset %d): %v", e.Op, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// CapacityError is returned when an index category needs a wider index than
// the format supports.
type CapacityError struct {
	Category IndexCategory
	Count    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("mmd: too many %s entries: %d", e.Category, e.Count)
}

// IndexError reports a reference to a position outside of the referenced array.
type IndexError struct {
	Where    string
	Category IndexCategory
	Index    int
	Count    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("mmd: %s: %s index %d out of range [0, %d)", e.Where, e.Category, e.Index, e.Count)
}
