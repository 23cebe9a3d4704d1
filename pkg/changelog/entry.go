package changelog

import (
	"time"

	"github.com/djcass44/launchpad-tracker/pkg/debian"
	"golang.org/x/exp/maps"
)

const (
	keyUrgency    = "urgency"
	keyBinaryOnly = "binary-only"
)

// Maintainer identifies who signed off an upload.
type Maintainer struct {
	Name  string
	Email string
}

// Entry is one release record from a changelog file. Entries
// are read-only: they are built by a Reader and never modified
// afterwards.
type Entry struct {
	name          debian.Name
	version       debian.Version
	distributions []debian.Distribution
	metadata      map[string]string
	description   string
	maintainer    Maintainer
	date          time.Time
}

func (e *Entry) Name() debian.Name {
	return e.name
}

func (e *Entry) Version() debian.Version {
	return e.version
}

// Distributions returns the upload targets in header order.
// At least one is always present.
func (e *Entry) Distributions() []debian.Distribution {
	out := make([]debian.Distribution, len(e.distributions))
	copy(out, e.distributions)
	return out
}

// Metadata returns a copy of the header key/value pairs. Keys
// are lowercase; when a key appeared more than once the last
// occurrence won.
func (e *Entry) Metadata() map[string]string {
	return maps.Clone(e.metadata)
}

// Urgency returns the well-known "urgency" metadata value.
func (e *Entry) Urgency() (string, bool) {
	v, ok := e.metadata[keyUrgency]
	return v, ok
}

// BinaryOnly interprets the well-known "binary-only" metadata
// key. The second return is false when the key is absent or
// not "yes"/"no".
func (e *Entry) BinaryOnly() (bool, bool) {
	switch e.metadata[keyBinaryOnly] {
	case "yes":
		return true, true
	case "no":
		return false, true
	default:
		return false, false
	}
}

// Description returns the body text exactly as written,
// including line terminators and the blank line that precedes
// the trailer.
func (e *Entry) Description() string {
	return e.description
}

func (e *Entry) Maintainer() Maintainer {
	return e.maintainer
}

// Date returns the upload timestamp with the UTC offset the
// trailer declared, not normalised to UTC.
func (e *Entry) Date() time.Time {
	return e.date
}
