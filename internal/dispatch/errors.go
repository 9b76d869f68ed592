package dispatch

import "fmt"

// MalformedEventError indicates a notification that is missing required
// fields or is otherwise unparseable. It is never worth redelivering.
type MalformedEventError struct {
	Reason string
}

func (e *MalformedEventError) Error() string {
	return "malformed event: " + e.Reason
}

// UnsupportedFormatError indicates an object whose suffix is not in the
// supported media format set. The object is never submitted.
type UnsupportedFormatError struct {
	Key    string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("no media format suffix in key '%s'", e.Key)
	}
	return fmt.Sprintf("unsupported media format '%s' in key '%s'", e.Format, e.Key)
}

// ServiceError wraps a failure of an external collaborator. Transient
// failures may succeed if the invoking runtime redelivers the event.
type ServiceError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *ServiceError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
