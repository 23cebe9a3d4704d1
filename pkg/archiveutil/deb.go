package archiveutil

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	ErrNoData  = errors.New("no data archive found in package")
	ErrNoMatch = errors.New("no matching file found in archive")
)

// DebData locates the 'data.tar.X' member of a .deb (ar)
// archive and returns a decompressed reader over it. The reader
// is only valid while the underlying source stays open.
func DebData(ctx context.Context, r io.Reader) (io.Reader, error) {
	log := logr.FromContextOrDiscard(ctx)
	tr := ar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil, ErrNoData
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return nil, err
		case header == nil:
			continue
		}

		// GNU ar member names may carry a trailing slash
		name := strings.TrimRight(header.Name, "/ ")
		log.V(5).Info("found archive member", "name", name)

		switch name {
		case "data.tar":
			return tr, nil
		case "data.tar.gz":
			return gzip.NewReader(tr)
		case "data.tar.xz":
			return xz.NewReader(tr)
		case "data.tar.zst":
			zr, err := zstd.NewReader(tr)
			if err != nil {
				return nil, err
			}
			return zr.IOReadCloser(), nil
		}
	}
}

// FindFile walks a tar stream until match accepts a regular
// file, returning a reader over that file's contents and its
// name within the archive. The reader must be drained before
// the tar stream is advanced or closed.
func FindFile(ctx context.Context, r io.Reader, match func(name string) bool) (io.Reader, string, error) {
	log := logr.FromContextOrDiscard(ctx)
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil, "", ErrNoMatch
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return nil, "", err
		case header == nil:
			continue
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		name := strings.TrimPrefix(header.Name, "./")
		if match(name) {
			log.V(4).Info("found matching file", "name", name)
			return tr, name, nil
		}
	}
}
