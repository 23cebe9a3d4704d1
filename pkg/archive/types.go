package archive

import "github.com/djcass44/launchpad-tracker/pkg/debian"

// Package is one stanza from a binary package index.
type Package struct {
	Package      string
	Source       string
	Version      string
	Architecture string
	Filename     string
	Sha256       string `control:"SHA256"`
}

// Index holds the decoded contents of one section's binary
// package index for a single architecture.
type Index struct {
	packages []Package
	section  debian.Section
	arch     debian.Architecture
	source   string
}
