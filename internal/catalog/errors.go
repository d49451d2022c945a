package catalog

import "fmt"

// OutOfRangeError reports a section index outside [0, Len).
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("section index %d out of range [0, %d)", e.Index, e.Len)
}
