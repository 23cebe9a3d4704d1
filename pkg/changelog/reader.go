// Package changelog parses Debian changelog files into
// structured entries. The grammar matches what the reference
// tooling (dpkg-parsechangelog) accepts: a header line, a
// free-form indented body, and a maintainer trailer per entry.
package changelog

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/djcass44/launchpad-tracker/pkg/debian"
	"github.com/djcass44/launchpad-tracker/pkg/diag"
)

// dateLayout is the RFC-2822-style trailer date. Parsing keeps
// the numeric offset as a fixed zone rather than converting to
// UTC.
const dateLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

var trailerPattern = regexp.MustCompile(`^ -- (.*\S) <([^<>]*)>  (.+?)\s*$`)

// Reader is a forward-only changelog parser. It owns its source
// for its whole lifetime and is not safe for concurrent use;
// callers must serialise ReadEntry and eventually call Close.
type Reader struct {
	name        string
	src         io.Closer
	br          *bufio.Reader
	line        int
	err         error
	errReported bool
}

// NewReader wraps a line-oriented source. The name is only used
// in diagnostic locations.
func NewReader(name string, src io.ReadCloser) *Reader {
	return &Reader{
		name: name,
		src:  src,
		br:   bufio.NewReader(src),
	}
}

// Open opens a changelog file on disk.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(path, f), nil
}

// Close releases the underlying source. Safe to call more than
// once.
func (r *Reader) Close() error {
	if r.src == nil {
		return nil
	}
	err := r.src.Close()
	r.src = nil
	return err
}

// readLine returns the next line including its terminator, or
// false when the source is exhausted. Read errors are stashed
// on the reader and also terminate iteration.
func (r *Reader) readLine() (string, bool) {
	line, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		r.err = err
		return "", false
	}
	if line == "" {
		return "", false
	}
	r.line++
	return line, true
}

func (r *Reader) location() diag.Location {
	return diag.Location{File: r.name, Line: r.line}
}

// ReadEntry parses the next entry. It returns success with no
// value at a clean end of input, and failure with every
// diagnostic it could collect when the entry is malformed. A
// failed entry consumes input up to and including its trailer
// so that the caller may skip it and carry on.
func (r *Reader) ReadEntry() diag.Result[*Entry] {
	// skip leading blank lines
	var header string
	for {
		line, ok := r.readLine()
		if !ok {
			if r.err != nil && !r.errReported {
				r.errReported = true
				return diag.Fail[*Entry](diag.Annotation{
					Severity:  diag.SeverityError,
					ID:        "read-failed",
					Title:     "cannot read changelog",
					Message:   r.err.Error(),
					Locations: []diag.Location{r.location()},
					Err:       r.err,
				})
			}
			// clean end of input
			return diag.Empty[*Entry]()
		}
		if strings.TrimSpace(line) != "" {
			header = strings.TrimRight(line, "\r\n")
			break
		}
	}

	entry := &Entry{metadata: map[string]string{}}
	res := r.parseHeader(entry, header)

	// the body runs until the trailer, which belongs to this
	// entry even when the header was bad
	var body strings.Builder
	for {
		line, ok := r.readLine()
		if !ok {
			return diag.Status[*Entry](diag.Merge(res, diag.Fail[*Entry](diag.Errorf(
				"unterminated-entry", "unterminated changelog entry",
				[]diag.Location{r.location()},
				"entry for %q has no trailer line", header))))
		}
		if strings.HasPrefix(line, " -- ") {
			res = diag.Merge(res, r.parseTrailer(entry, strings.TrimRight(line, "\r\n")))
			break
		}
		body.WriteString(line)
	}
	entry.description = body.String()

	if !res.OK() {
		return diag.Status[*Entry](res)
	}
	return diag.OK(entry, res.Annotations()...)
}

// parseHeader parses "<name> (<version>) <dist>... ; <k>=<v>,..."
// best-effort: every field is attempted so a single bad header
// reports all of its problems at once.
func (r *Reader) parseHeader(entry *Entry, header string) diag.Result[*Entry] {
	loc := r.location()
	open := strings.Index(header, " (")
	closing := strings.Index(header, ")")
	semi := strings.Index(header, ";")
	if open < 0 || closing < open || semi < closing {
		return diag.Fail[*Entry](diag.Errorf(
			"malformed-header", "malformed changelog header",
			[]diag.Location{loc},
			"expected '<name> (<version>) <distribution>...; <metadata>', got %q", header))
	}

	res := diag.Empty[*Entry]()

	nameLoc := loc
	nameLoc.Column = 1
	name := debian.ParseName(header[:open], nameLoc)
	res = diag.Merge(res, diag.Status[*Entry](name))
	if v, ok := name.Value(); ok {
		entry.name = v
	}

	versionLoc := loc
	versionLoc.Column = open + 3
	version := debian.ParseVersion(header[open+2:closing], versionLoc)
	res = diag.Merge(res, diag.Status[*Entry](version))
	if v, ok := version.Value(); ok {
		entry.version = v
	}

	for _, field := range strings.Fields(header[closing+1 : semi]) {
		dist := debian.ParseDistribution(field, loc)
		res = diag.Merge(res, diag.Status[*Entry](dist))
		if v, ok := dist.Value(); ok {
			entry.distributions = append(entry.distributions, v)
		}
	}
	if len(entry.distributions) == 0 {
		res = diag.Merge(res, diag.Fail[*Entry](diag.Errorf(
			"missing-distribution", "malformed changelog header",
			[]diag.Location{loc},
			"at least one distribution is required")))
	}

	for _, pair := range strings.Split(header[semi+1:], ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			res = diag.Merge(res, diag.Fail[*Entry](diag.Errorf(
				"malformed-metadata", "malformed changelog header",
				[]diag.Location{loc},
				"metadata %q is not a key=value pair", pair)))
			continue
		}
		// keys are case-insensitive; the last occurrence of a
		// duplicate key wins
		entry.metadata[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	return res
}

// parseTrailer parses " -- Name <email>  date".
func (r *Reader) parseTrailer(entry *Entry, trailer string) diag.Result[*Entry] {
	loc := r.location()
	m := trailerPattern.FindStringSubmatch(trailer)
	if m == nil {
		return diag.Fail[*Entry](diag.Errorf(
			"malformed-trailer", "malformed changelog trailer",
			[]diag.Location{loc},
			"expected ' -- <maintainer> <email>  <date>', got %q", trailer))
	}
	entry.maintainer = Maintainer{Name: m[1], Email: m[2]}

	date, err := time.Parse(dateLayout, m[3])
	if err != nil {
		return diag.Fail[*Entry](diag.Annotation{
			Severity:  diag.SeverityError,
			ID:        "invalid-date",
			Title:     "malformed changelog trailer",
			Message:   "cannot parse date " + m[3],
			Locations: []diag.Location{loc},
			Err:       err,
		})
	}
	entry.date = date
	return diag.Empty[*Entry]()
}

// ReadAll reads every remaining entry, aggregating diagnostics
// across the whole file rather than stopping at the first bad
// entry. The result fails if any entry failed.
func (r *Reader) ReadAll() diag.Result[[]*Entry] {
	res := diag.Empty[[]*Entry]()
	var entries []*Entry
	for {
		next := r.ReadEntry()
		entry, ok := next.Value()
		res = diag.Merge(res, diag.Status[[]*Entry](next))
		if !ok {
			if next.OK() {
				break
			}
			continue
		}
		entries = append(entries, entry)
	}
	if !res.OK() {
		return res
	}
	return diag.OK(entries, res.Annotations()...)
}

// ReadFile parses a whole changelog file, releasing the file on
// every path.
func ReadFile(path string) diag.Result[[]*Entry] {
	r, err := Open(path)
	if err != nil {
		return diag.Fail[[]*Entry](diag.Annotation{
			Severity: diag.SeverityError,
			ID:       "open-failed",
			Title:    "cannot open changelog",
			Message:  err.Error(),
			Locations: []diag.Location{
				{File: path},
			},
			Err: err,
		})
	}
	defer r.Close()
	return r.ReadAll()
}
