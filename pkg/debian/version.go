package debian

import (
	"strings"

	"github.com/djcass44/launchpad-tracker/pkg/diag"
)

// Version is a parsed dpkg version string:
//
//	[epoch ":"] upstream-version ["-" revision]
//
// Only the first colon separates the epoch, so upstream versions
// may themselves contain colons. Only the last hyphen separates
// the revision, so upstream versions may contain hyphens.
// Rendering a Version reproduces the original input exactly,
// including leading zeros in the epoch.
type Version struct {
	epoch       string
	hasEpoch    bool
	upstream    string
	revision    string
	hasRevision bool
}

// ubuntuMarker splits a revision into its Debian and Ubuntu
// halves, e.g. "1ubuntu2" is Debian revision "1" with Ubuntu
// revision "2".
const ubuntuMarker = "ubuntu"

// reallyMarker is the convention for re-uploading an older
// upstream release under a higher-sorting version, e.g.
// "2.0+really1.9" really ships 1.9.
const reallyMarker = "+really"

// ParseVersion parses a dpkg version string. The only malformed
// input is a non-numeric epoch; everything else, including the
// empty string, parses successfully.
func ParseVersion(text string, loc ...diag.Location) diag.Result[Version] {
	var v Version
	rest := text
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		v.epoch = rest[:i]
		v.hasEpoch = true
		rest = rest[i+1:]
		for j := 0; j < len(v.epoch); j++ {
			if !isDigit(v.epoch[j]) {
				return diag.Fail[Version](diag.Errorf(
					"invalid-version-epoch", "invalid version", loc,
					"epoch of %q must be numeric", text))
			}
		}
	}
	if i := strings.LastIndexByte(rest, '-'); i >= 0 {
		v.revision = rest[i+1:]
		v.hasRevision = true
		rest = rest[:i]
	}
	v.upstream = rest
	return diag.OK(v)
}

// String renders the version exactly as it was parsed.
func (v Version) String() string {
	var sb strings.Builder
	if v.hasEpoch {
		sb.WriteString(v.epoch)
		sb.WriteByte(':')
	}
	sb.WriteString(v.upstream)
	if v.hasRevision {
		sb.WriteByte('-')
		sb.WriteString(v.revision)
	}
	return sb.String()
}

// Epoch returns the epoch digits and whether an epoch was
// present. An absent epoch counts as zero when comparing.
func (v Version) Epoch() (string, bool) {
	return v.epoch, v.hasEpoch
}

// Upstream returns the upstream version.
func (v Version) Upstream() string {
	return v.upstream
}

// Revision returns the packaging revision and whether one was
// present.
func (v Version) Revision() (string, bool) {
	return v.revision, v.hasRevision
}

// DebianRevision returns the part of the revision before the
// first "ubuntu" marker, or the whole revision when there is no
// marker.
func (v Version) DebianRevision() (string, bool) {
	if !v.hasRevision {
		return "", false
	}
	if i := strings.Index(v.revision, ubuntuMarker); i >= 0 {
		return v.revision[:i], true
	}
	return v.revision, true
}

// UbuntuRevision returns the part of the revision after the
// first "ubuntu" marker, if one is present.
func (v Version) UbuntuRevision() (string, bool) {
	if !v.hasRevision {
		return "", false
	}
	if i := strings.Index(v.revision, ubuntuMarker); i >= 0 {
		return v.revision[i+len(ubuntuMarker):], true
	}
	return "", false
}

// RevertedUpstream returns the upstream version before the
// first "+really" marker, if one is present.
func (v Version) RevertedUpstream() (string, bool) {
	if i := strings.Index(v.upstream, reallyMarker); i >= 0 {
		return v.upstream[:i], true
	}
	return "", false
}

// RealUpstream returns the upstream version after the first
// "+really" marker, if one is present.
func (v Version) RealUpstream() (string, bool) {
	if i := strings.Index(v.upstream, reallyMarker); i >= 0 {
		return v.upstream[i+len(reallyMarker):], true
	}
	return "", false
}

// EffectiveUpstream returns the real upstream version when the
// "+really" marker is present, otherwise the raw upstream
// version.
func (v Version) EffectiveUpstream() string {
	if real, ok := v.RealUpstream(); ok {
		return real
	}
	return v.upstream
}

// Compare orders v against other using the dpkg algorithm:
// epoch numerically, then upstream version, then revision.
// Returns -1, 0 or 1. Note the comparison uses the raw upstream
// version; "+really" markers are not special-cased, matching dpkg.
func (v Version) Compare(other Version) int {
	if c := compareNumeric(v.epoch, other.epoch); c != 0 {
		return c
	}
	if c := verrevcmp(v.upstream, other.upstream); c != 0 {
		return c
	}
	return verrevcmp(v.revision, other.revision)
}

// Equal reports whether the versions compare equal. Distinct
// renderings can be equal: "0", "00" and "0:0" all are.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Compare orders two possibly-nil versions. A nil version sorts
// before every concrete version; two nils compare equal.
func Compare(a, b *Version) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// SortVersions stably sorts versions in ascending order with
// nils first.
func SortVersions(versions []*Version) {
	// insertion sort keeps equal (and nil) elements in their
	// original order
	for i := 1; i < len(versions); i++ {
		for j := i; j > 0 && Compare(versions[j-1], versions[j]) > 0; j-- {
			versions[j-1], versions[j] = versions[j], versions[j-1]
		}
	}
}

// compareNumeric compares two digit strings by value, tolerating
// leading zeros and treating the empty string as zero.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return sign(len(a) - len(b))
	}
	return sign(strings.Compare(a, b))
}

// verrevcmp is dpkg's segment comparison: alternately compare a
// maximal non-digit run (character by character, '~' sorting
// below end-of-string and end-of-string below everything else)
// and a maximal digit run (numerically, ignoring leading
// zeros) until a difference is found or both strings are
// exhausted.
func verrevcmp(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			var ac, bc int
			if i < len(a) {
				ac = charOrder(a[i])
			}
			if j < len(b) {
				bc = charOrder(b[j])
			}
			if ac != bc {
				return sign(ac - bc)
			}
			i++
			j++
		}
		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}
		firstDiff := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if firstDiff == 0 {
				firstDiff = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if firstDiff != 0 {
			return sign(firstDiff)
		}
	}
	return 0
}

// charOrder ranks a byte for the non-digit half of verrevcmp:
// '~' below everything, then end-of-string and digits, then
// letters by code point, then everything else.
func charOrder(c byte) int {
	switch {
	case c == '~':
		return -1
	case isDigit(c):
		return 0
	case isAlpha(c):
		return int(c)
	default:
		return int(c) + 256
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
