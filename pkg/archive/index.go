// Package archive answers release-presence questions against a
// Debian/Ubuntu package archive by downloading and decoding its
// package indices.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/djcass44/launchpad-tracker/pkg/debian"
	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"pault.ag/go/debian/control"
)

const (
	PackageFileGzip = "Packages.gz"
	PackageFileXZ   = "Packages.xz"
)

var ErrNotFound = errors.New("package file not found")

// NewIndex downloads the binary package index for the given
// section and architecture, preferring the gzip index and
// falling back to xz.
func NewIndex(ctx context.Context, repository string, section debian.Section, arch debian.Architecture) (*Index, error) {
	index, err := downloadIndex(ctx, repository, section, arch, PackageFileGzip, func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	})
	if err == nil {
		return index, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return downloadIndex(ctx, repository, section, arch, PackageFileXZ, func(r io.Reader) (io.ReadCloser, error) {
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(reader), nil
	})
}

func downloadIndex(ctx context.Context, repository string, section debian.Section, arch debian.Architecture, filename string, reader func(r io.Reader) (io.ReadCloser, error)) (*Index, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("repo", repository, "section", section.String(), "arch", arch.String(), "filename", filename)
	log.V(1).Info("downloading index")

	target := fmt.Sprintf("%s/%s/%s", repository, section.IndexPath(arch), filename)
	f, err := os.CreateTemp("", fmt.Sprintf("Packages-*%s", filepath.Ext(filename)))
	if err != nil {
		return nil, err
	}
	resp, err := http.Get(target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// return a special error on 404, so we can check for
		// other file types
		if resp.StatusCode == http.StatusNotFound {
			log.V(1).Info("failed to locate package index")
			return nil, ErrNotFound
		}
		log.V(1).Info("failed to download file", "url", target)
		return nil, fmt.Errorf("http response failed with code: %d", resp.StatusCode)
	}
	log.V(1).Info("successfully downloaded index", "code", resp.StatusCode)
	gr, err := reader(resp.Body)
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	if _, err := io.Copy(f, gr); err != nil {
		return nil, err
	}
	_ = f.Close()

	return newIndex(ctx, repository, section, arch, f.Name())
}

func newIndex(ctx context.Context, source string, section debian.Section, arch debian.Architecture, path string) (*Index, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("source", source, "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := control.NewDecoder(f, nil)
	if err != nil {
		return nil, err
	}
	var out []Package
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	log.V(1).Info("successfully decoded index", "count", len(out))
	return &Index{
		packages: out,
		section:  section,
		arch:     arch,
		source:   source,
	}, nil
}

func (idx *Index) Count() int {
	return len(idx.packages)
}

func (idx *Index) Source() string {
	return idx.source
}

func (idx *Index) Section() debian.Section {
	return idx.section
}

// Versions returns every version of the named package present
// in the index, in ascending dpkg order. Stanzas whose version
// fails to parse are skipped.
func (idx *Index) Versions(ctx context.Context, name debian.Name) []debian.Version {
	log := logr.FromContextOrDiscard(ctx)
	var versions []debian.Version
	for _, p := range idx.packages {
		if p.Package != name.String() {
			continue
		}
		res := debian.ParseVersion(p.Version)
		v, ok := res.Value()
		if !ok {
			log.V(2).Info("skipping unparseable version", "name", p.Package, "version", p.Version)
			continue
		}
		versions = append(versions, v)
	}
	slices.SortStableFunc(versions, func(a, b debian.Version) int {
		return a.Compare(b)
	})
	return versions
}

// HasRelease reports whether the exact version of the package
// is published in this index. Equality follows dpkg comparison,
// so "1.0-0" matches a published "1.0".
func (idx *Index) HasRelease(ctx context.Context, name debian.Name, version debian.Version) bool {
	for _, v := range idx.Versions(ctx, name) {
		if v.Equal(version) {
			return true
		}
	}
	return false
}

// LatestVersion returns the highest version of the package in
// the index.
func (idx *Index) LatestVersion(ctx context.Context, name debian.Name) (debian.Version, bool) {
	versions := idx.Versions(ctx, name)
	if len(versions) == 0 {
		return debian.Version{}, false
	}
	return versions[len(versions)-1], true
}
