package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

type Track struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec TrackSpec `json:"spec"`
}

type TrackSpec struct {
	Archives []Archive `json:"archives"`
}

// Archive names one archive and the sections within it that
// should be searched for releases.
type Archive struct {
	Name string `json:"name"`
	// URL is the archive root, e.g. "http://archive.ubuntu.com/ubuntu".
	// Environment variables are expanded.
	URL           string   `json:"url"`
	Suites        []string `json:"suites"`
	Components    []string `json:"components,omitempty"`
	Architectures []string `json:"architectures,omitempty"`
}
