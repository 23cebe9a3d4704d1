// Package debian models the identifiers that make up Debian and
// Ubuntu package metadata: package names, archive components,
// series, pockets, architectures and versions. All types are
// immutable, validated at construction and safe to share between
// goroutines.
package debian

import (
	"github.com/djcass44/launchpad-tracker/pkg/diag"
)

// Name is a validated source or binary package name.
type Name struct {
	value string
}

// Component is an archive licensing/support category (e.g.
// "main", "universe", "non-free").
type Component struct {
	value string
}

// Series is a distribution release codename (e.g. "noble",
// "bookworm").
type Series struct {
	value string
}

// Distribution is a changelog upload target. It accepts the
// same lenient token set as the reference changelog tooling,
// including "UNRELEASED" and suite-style targets such as
// "noble-proposed".
type Distribution struct {
	value string
}

func (n Name) String() string         { return n.value }
func (c Component) String() string    { return c.value }
func (s Series) String() string       { return s.value }
func (d Distribution) String() string { return d.value }

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isAlpha(c byte) bool {
	return isLower(c) || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// validate checks text against a leading-character rule and a
// body rule, returning the first offending position (1-based
// column) or 0 when the text is valid. Empty text is reported
// at column 1.
func validate(text string, leading, body func(c byte) bool) int {
	if text == "" {
		return 1
	}
	if !leading(text[0]) {
		return 1
	}
	for i := 1; i < len(text); i++ {
		if !body(text[i]) {
			return i + 1
		}
	}
	return 0
}

func invalid(id, title, text string, col int, loc []diag.Location) diag.Annotation {
	locs := make([]diag.Location, len(loc))
	copy(locs, loc)
	for i := range locs {
		if locs[i].Column == 0 {
			locs[i].Column = col
		}
	}
	return diag.Errorf(id, title, locs, "%q is not valid", text)
}

// ParseName validates a package name: a lowercase letter or
// digit followed by at least one more of [a-z0-9+.-].
func ParseName(text string, loc ...diag.Location) diag.Result[Name] {
	col := validate(text,
		func(c byte) bool { return isLower(c) || isDigit(c) },
		func(c byte) bool { return isLower(c) || isDigit(c) || c == '+' || c == '.' || c == '-' },
	)
	if col == 0 && len(text) < 2 {
		col = len(text) + 1
	}
	if col != 0 {
		return diag.Fail[Name](invalid("invalid-package-name", "invalid package name", text, col, loc))
	}
	return diag.OK(Name{value: text})
}

// ParseComponent validates an archive component.
func ParseComponent(text string, loc ...diag.Location) diag.Result[Component] {
	col := validate(text,
		isLower,
		func(c byte) bool { return isLower(c) || isDigit(c) || c == '-' },
	)
	if col != 0 {
		return diag.Fail[Component](invalid("invalid-component", "invalid component", text, col, loc))
	}
	return diag.OK(Component{value: text})
}

// ParseSeries validates a series codename.
func ParseSeries(text string, loc ...diag.Location) diag.Result[Series] {
	col := validate(text,
		isLower,
		func(c byte) bool { return isLower(c) || isDigit(c) },
	)
	if col != 0 {
		return diag.Fail[Series](invalid("invalid-series", "invalid series", text, col, loc))
	}
	return diag.OK(Series{value: text})
}

// ParseDistribution validates a changelog distribution target.
func ParseDistribution(text string, loc ...diag.Location) diag.Result[Distribution] {
	col := validate(text,
		func(c byte) bool { return isAlpha(c) || isDigit(c) },
		func(c byte) bool { return isAlpha(c) || isDigit(c) || c == '+' || c == '.' || c == '-' },
	)
	if col != 0 {
		return diag.Fail[Distribution](invalid("invalid-distribution", "invalid distribution", text, col, loc))
	}
	return diag.OK(Distribution{value: text})
}

// Suite interprets the distribution as a series-pocket pair.
// The pocket half only matches known pockets, so "noble-security"
// decomposes while "rolling-rhino" stays a bare series.
func (d Distribution) Suite() (Suite, bool) {
	s, res := parseSuite(d.value)
	if !res.OK() {
		return Suite{}, false
	}
	return s, true
}

var (
	ComponentMain       = Component{value: "main"}
	ComponentRestricted = Component{value: "restricted"}
	ComponentUniverse   = Component{value: "universe"}
	ComponentMultiverse = Component{value: "multiverse"}
	ComponentContrib    = Component{value: "contrib"}
	ComponentNonFree    = Component{value: "non-free"}
)
