package debian

import (
	"fmt"
	"strings"

	"github.com/djcass44/launchpad-tracker/pkg/diag"
)

// Suite names a publication target: a series plus a pocket.
type Suite struct {
	Series Series
	Pocket Pocket
}

// String renders the canonical suite name. The release pocket
// is implied by a bare series, so "noble" rather than
// "noble-release".
func (s Suite) String() string {
	if s.Pocket == PocketRelease {
		return s.Series.String()
	}
	return fmt.Sprintf("%s-%s", s.Series, s.Pocket)
}

// ParseSuite parses a suite name of the form "<series>" or
// "<series>-<pocket>". A trailing "-<token>" only counts as a
// pocket when it names a well-known one, so "noble-security"
// decomposes while a hypothetical "new-series" does not.
func ParseSuite(text string, loc ...diag.Location) diag.Result[Suite] {
	s, res := parseSuite(text, loc...)
	if !res.OK() {
		return res
	}
	return diag.OK(s)
}

func parseSuite(text string, loc ...diag.Location) (Suite, diag.Result[Suite]) {
	if i := strings.LastIndexByte(text, '-'); i >= 0 {
		for _, p := range Pockets() {
			if text[i+1:] == p.String() {
				series := ParseSeries(text[:i], loc...)
				if !series.OK() {
					return Suite{}, diag.Status[Suite](series)
				}
				s := Suite{Series: series.MustValue(), Pocket: p}
				return s, diag.OK(s)
			}
		}
	}
	series := ParseSeries(text, loc...)
	if !series.OK() {
		return Suite{}, diag.Status[Suite](series)
	}
	s := Suite{Series: series.MustValue(), Pocket: PocketRelease}
	return s, diag.OK(s)
}
