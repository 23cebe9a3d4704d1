package diag

import "fmt"

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		panic(fmt.Sprintf("unmapped severity: %d", int(s)))
	}
}

// Location points at the origin of an annotation within
// some source (a file, a URL, an API response).
type Location struct {
	File   string
	Line   int
	// Column is 1-based. Zero means unknown.
	Column int
}

func (l Location) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// Annotation is a single node in a diagnostic tree. Parsers
// attach one annotation per problem they find rather than
// returning on the first error.
type Annotation struct {
	Severity    Severity
	ID          string
	Title       string
	Message     string
	Locations   []Location
	Description string
	Inner       []Annotation
	// Err is the underlying fault, if one exists.
	Err error
}

// Errorf builds an error-severity annotation from a format string.
func Errorf(id, title string, locs []Location, format string, args ...any) Annotation {
	return Annotation{
		Severity:  SeverityError,
		ID:        id,
		Title:     title,
		Message:   fmt.Sprintf(format, args...),
		Locations: locs,
	}
}

func (a Annotation) Unwrap() error {
	return a.Err
}
