package registry

import (
	"errors"
	"fmt"

	"github.com/agext/levenshtein"
)

// Kind is the closed set of error categories a registry operation can
// fail with (§7).
type Kind int

const (
	KindNotFound Kind = iota
	KindTypeMismatch
	KindPortBusy
	KindValidation
	KindLoadFailed
	KindReloadFailed
	KindNodeRuntime
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindPortBusy:
		return "PortBusy"
	case KindValidation:
		return "Validation"
	case KindLoadFailed:
		return "LoadFailed"
	case KindReloadFailed:
		return "ReloadFailed"
	case KindNodeRuntime:
		return "NodeRuntime"
	default:
		return "Unknown"
	}
}

// Error is the typed error every registry operation returns on failure,
// errors.Is/As friendly via Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// newErr builds an *Error of the given kind. *Error has no Is method;
// callers test the kind with IsKind, or with errors.As and Kind.
func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, wrapped error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: wrapped}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// suggestClosest returns the candidate string closest to query by
// Levenshtein distance, for "did you mean" NotFound messages, or ""
// if candidates is empty.
func suggestClosest(query string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.Distance(query, c, nil)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func notFoundWithSuggestion(kind string, query string, candidates []string) *Error {
	suggestion := suggestClosest(query, candidates)
	if suggestion == "" {
		return newErr(KindNotFound, "%s %q not found", kind, query)
	}
	return newErr(KindNotFound, "%s %q not found (did you mean %q?)", kind, query, suggestion)
}
