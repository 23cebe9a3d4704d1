package archiveutil

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func buildTar(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Size:     int64(len(body)),
			Mode:     0644,
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// buildDeb assembles a minimal .deb for tests: a debian-binary
// member, an empty control archive and a data archive with the
// given compression.
func buildDeb(t *testing.T, compression string, files map[string][]byte) []byte {
	t.Helper()

	data := buildTar(t, files)
	switch compression {
	case "gz":
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, err := gw.Write(data)
		require.NoError(t, err)
		require.NoError(t, gw.Close())
		data = buf.Bytes()
	case "xz":
		var buf bytes.Buffer
		xw, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, err = xw.Write(data)
		require.NoError(t, err)
		require.NoError(t, xw.Close())
		data = buf.Bytes()
	case "zst":
		var buf bytes.Buffer
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = zw.Write(data)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		data = buf.Bytes()
	case "":
		// uncompressed
	}

	name := "data.tar"
	if compression != "" {
		name += "." + compression
	}

	var buf bytes.Buffer
	aw := ar.NewWriter(&buf)
	require.NoError(t, aw.WriteGlobalHeader())
	for _, member := range []struct {
		name string
		body []byte
	}{
		{"debian-binary", []byte("2.0\n")},
		{"control.tar.gz", buildTar(t, nil)},
		{name, data},
	} {
		require.NoError(t, aw.WriteHeader(&ar.Header{
			Name:    member.name,
			Size:    int64(len(member.body)),
			Mode:    0644,
			ModTime: time.Unix(0, 0),
		}))
		_, err := aw.Write(member.body)
		require.NoError(t, err)
	}
	return buf.Bytes()
}

func TestDebData(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	for _, compression := range []string{"", "gz", "xz", "zst"} {
		t.Run("compression "+compression, func(t *testing.T) {
			deb := buildDeb(t, compression, map[string][]byte{
				"./usr/share/doc/hello/README": []byte("hi"),
			})

			data, err := DebData(ctx, bytes.NewReader(deb))
			require.NoError(t, err)

			entry, name, err := FindFile(ctx, data, func(name string) bool {
				return strings.HasSuffix(name, "README")
			})
			require.NoError(t, err)
			assert.Equal(t, "usr/share/doc/hello/README", name)

			body, err := io.ReadAll(entry)
			require.NoError(t, err)
			assert.Equal(t, "hi", string(body))
		})
	}

	t.Run("no data member", func(t *testing.T) {
		var buf bytes.Buffer
		aw := ar.NewWriter(&buf)
		require.NoError(t, aw.WriteGlobalHeader())
		require.NoError(t, aw.WriteHeader(&ar.Header{Name: "debian-binary", Size: 4, ModTime: time.Unix(0, 0)}))
		_, _ = aw.Write([]byte("2.0\n"))

		_, err := DebData(ctx, bytes.NewReader(buf.Bytes()))
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestFindFile_NoMatch(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	data := buildTar(t, map[string][]byte{"./etc/motd": []byte("hello")})
	_, _, err := FindFile(ctx, bytes.NewReader(data), func(string) bool { return false })
	assert.ErrorIs(t, err, ErrNoMatch)
}
