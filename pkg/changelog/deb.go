package changelog

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/djcass44/launchpad-tracker/pkg/archiveutil"
	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
)

// OpenDeb returns a Reader over the changelog shipped inside a
// binary package (usr/share/doc/<pkg>/changelog.Debian.gz or
// changelog.gz). The .deb file is fully consumed and released
// before OpenDeb returns.
func OpenDeb(ctx context.Context, debPath string) (*Reader, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", debPath)

	f, err := os.Open(debPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := archiveutil.DebData(ctx, f)
	if err != nil {
		log.Error(err, "failed to open data archive")
		return nil, err
	}

	entry, name, err := archiveutil.FindFile(ctx, data, isChangelog)
	if err != nil {
		log.Error(err, "failed to locate changelog")
		return nil, err
	}

	gz, err := gzip.NewReader(entry)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	// changelogs are small, so buffer the whole thing and let
	// the deb go
	buf, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}
	log.V(2).Info("extracted changelog", "name", name, "size", len(buf))

	return NewReader(debPath+"!"+name, io.NopCloser(bytes.NewReader(buf))), nil
}

func isChangelog(name string) bool {
	if !strings.HasPrefix(name, "usr/share/doc/") {
		return false
	}
	base := path.Base(name)
	return base == "changelog.Debian.gz" || base == "changelog.gz"
}
