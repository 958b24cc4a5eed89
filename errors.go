package statement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructure is matched by every error caused by a malformed Layout.
	ErrStructure = errors.New("invalid statement layout")
	// ErrMissingInput is matched by errors caused by an incomplete or
	// unusable Input.
	ErrMissingInput = errors.New("missing statement input")
)

// LayoutError reports a structural defect found while allocating a layout.
type LayoutError struct {
	Context string
	Reason  string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout %s: %s", e.Context, e.Reason)
}

func (e *LayoutError) Unwrap() error { return ErrStructure }

// ResolutionError reports a rule referencing a row that is not in the plan.
type ResolutionError struct {
	Reference string
	Context   string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unresolved reference %q in %s", e.Reference, e.Context)
}

func (e *ResolutionError) Unwrap() error { return ErrStructure }

// InputError lists the figures a layout needs that the input lacks, and
// the figures that are not finite numbers.
type InputError struct {
	Layout  string
	Keys    []string
	Invalid []string
}

func (e *InputError) Error() string {
	var parts []string
	if len(e.Keys) > 0 {
		parts = append(parts, "missing input "+strings.Join(e.Keys, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "non-finite input "+strings.Join(e.Invalid, ", "))
	}
	msg := strings.Join(parts, "; ")
	if e.Layout == "" {
		return msg
	}
	return e.Layout + ": " + msg
}

func (e *InputError) Unwrap() error { return ErrMissingInput }

// SinkError wraps an error returned by the grid sink.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("sink %s: %v", e.Op, e.Err) }

func (e *SinkError) Unwrap() error { return e.Err }
