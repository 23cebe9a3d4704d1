package debian

import (
	"github.com/djcass44/launchpad-tracker/pkg/diag"
)

// Architecture is a dpkg architecture name. "source" is the
// pseudo-architecture used for source packages.
type Architecture struct {
	value string
}

var (
	ArchAMD64    = Architecture{value: "amd64"}
	ArchARM64    = Architecture{value: "arm64"}
	ArchARMEL    = Architecture{value: "armel"}
	ArchARMHF    = Architecture{value: "armhf"}
	ArchI386     = Architecture{value: "i386"}
	ArchMIPS64EL = Architecture{value: "mips64el"}
	ArchPPC64EL  = Architecture{value: "ppc64el"}
	ArchS390X    = Architecture{value: "s390x"}
	ArchRISCV64  = Architecture{value: "riscv64"}
	ArchSource   = Architecture{value: "source"}
)

func (a Architecture) String() string {
	return a.value
}

// ParseArchitecture validates an architecture name.
func ParseArchitecture(text string, loc ...diag.Location) diag.Result[Architecture] {
	col := validate(text,
		func(c byte) bool { return isLower(c) || isDigit(c) },
		func(c byte) bool { return isLower(c) || isDigit(c) || c == '-' },
	)
	if col != 0 {
		return diag.Fail[Architecture](invalid("invalid-architecture", "invalid architecture", text, col, loc))
	}
	return diag.OK(Architecture{value: text})
}
