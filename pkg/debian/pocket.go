package debian

import (
	"github.com/djcass44/launchpad-tracker/pkg/diag"
)

// Pocket is one of an archive's release channels.
type Pocket struct {
	value string
}

var (
	PocketRelease   = Pocket{value: "release"}
	PocketSecurity  = Pocket{value: "security"}
	PocketUpdates   = Pocket{value: "updates"}
	PocketProposed  = Pocket{value: "proposed"}
	PocketBackports = Pocket{value: "backports"}
)

// Pockets lists the well-known pockets in publication order.
func Pockets() []Pocket {
	return []Pocket{PocketRelease, PocketSecurity, PocketUpdates, PocketProposed, PocketBackports}
}

func (p Pocket) String() string {
	return p.value
}

// ParsePocket validates a pocket name: lowercase letters only.
func ParsePocket(text string, loc ...diag.Location) diag.Result[Pocket] {
	if col := validate(text, isLower, isLower); col != 0 {
		return diag.Fail[Pocket](invalid("invalid-pocket", "invalid pocket", text, col, loc))
	}
	return diag.OK(Pocket{value: text})
}
