package diag

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the annotation tree to w, one annotation per
// line, nested annotations indented below their parent.
func Render(w io.Writer, annotations []Annotation) {
	render(w, annotations, 0)
}

func render(w io.Writer, annotations []Annotation, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, a := range annotations {
		_, _ = fmt.Fprintf(w, "%s%s", indent, a.Severity)
		if a.ID != "" {
			_, _ = fmt.Fprintf(w, "[%s]", a.ID)
		}
		if a.Title != "" {
			_, _ = fmt.Fprintf(w, " %s:", a.Title)
		}
		_, _ = fmt.Fprintf(w, " %s", a.Message)
		for _, l := range a.Locations {
			_, _ = fmt.Fprintf(w, " (%s)", l)
		}
		_, _ = fmt.Fprintln(w)
		if a.Description != "" {
			_, _ = fmt.Fprintf(w, "%s  %s\n", indent, a.Description)
		}
		render(w, a.Inner, depth+1)
	}
}
