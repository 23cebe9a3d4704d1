package debian

import "fmt"

// Section names a location within an archive where a release
// can reside: which archive, which component, which suite.
type Section struct {
	Archive   string
	Component Component
	Suite     Suite
}

func (s Section) String() string {
	return fmt.Sprintf("%s %s %s", s.Archive, s.Suite, s.Component)
}

// IndexPath returns the path of the binary package index for
// the given architecture, relative to the archive root.
func (s Section) IndexPath(arch Architecture) string {
	return fmt.Sprintf("dists/%s/%s/binary-%s", s.Suite, s.Component, arch)
}
