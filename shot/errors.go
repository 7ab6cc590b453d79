package shot

import "fmt"

// IntegrityError reports misuse of the engine by its caller, such as a death
// signalled twice or a template with dangling indices.
type IntegrityError struct {
	Op  string
	Msg string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("shot: %s: %s", e.Op, e.Msg)
}

func integrityErrorf(op, format string, args ...interface{}) error {
	return &IntegrityError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
