package changelog

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(s string) *Reader {
	return NewReader("changelog", io.NopCloser(strings.NewReader(s)))
}

func TestReader_ReadEntry(t *testing.T) {
	r, err := Open("./testdata/changelog")
	require.NoError(t, err)
	defer r.Close()

	res := r.ReadEntry()
	require.True(t, res.OK())
	entry := res.MustValue()

	assert.Equal(t, "dotnet7", entry.Name().String())
	assert.Equal(t, "7.0.118-0ubuntu1~24.04.1~ppa1", entry.Version().String())

	dists := entry.Distributions()
	require.Len(t, dists, 1)
	assert.Equal(t, "noble", dists[0].String())

	assert.Equal(t, map[string]string{"urgency": "medium"}, entry.Metadata())
	urgency, ok := entry.Urgency()
	assert.True(t, ok)
	assert.Equal(t, "medium", urgency)
	_, ok = entry.BinaryOnly()
	assert.False(t, ok)

	assert.Equal(t, "\n  * Initial release for Ubuntu 24.04 LTS (Noble Numbat):\n    - debian/control: Switch to libicu74.\n\n", entry.Description())

	assert.Equal(t, Maintainer{Name: "Dominik Viererbe", Email: "dominik.viererbe@canonical.com"}, entry.Maintainer())

	want := time.Date(2024, time.April, 5, 15, 47, 39, 0, time.FixedZone("", 3*60*60))
	assert.True(t, entry.Date().Equal(want), "got %s", entry.Date())
	// the offset must survive, not be folded into UTC
	_, offset := entry.Date().Zone()
	assert.Equal(t, 3*60*60, offset)

	// a second call cleanly reports the end of the file
	res = r.ReadEntry()
	assert.True(t, res.OK())
	_, ok = res.Value()
	assert.False(t, ok)
}

func TestReader_ReadAll(t *testing.T) {
	res := ReadFile("./testdata/changelog-multi")
	require.True(t, res.OK())
	entries := res.MustValue()
	require.Len(t, entries, 2)

	first, second := entries[0], entries[1]

	assert.Equal(t, "2.10-3ubuntu1", first.Version().String())
	assert.Equal(t, "2.10-3", second.Version().String())
	assert.Equal(t, 1, first.Version().Compare(second.Version()))

	t.Run("multiple distributions", func(t *testing.T) {
		dists := first.Distributions()
		require.Len(t, dists, 2)
		assert.Equal(t, "noble", dists[0].String())
		assert.Equal(t, "noble-proposed", dists[1].String())
	})
	t.Run("binary-only flag", func(t *testing.T) {
		binary, ok := first.BinaryOnly()
		assert.True(t, ok)
		assert.True(t, binary)
	})
	t.Run("duplicate metadata keys, last wins", func(t *testing.T) {
		urgency, ok := second.Urgency()
		assert.True(t, ok)
		assert.Equal(t, "high", urgency)
	})
	t.Run("internal blank lines survive", func(t *testing.T) {
		assert.Equal(t, "\n  * Fix greeting.\n\n    Further detail, after a blank line.\n\n", second.Description())
	})
	t.Run("negative offsets survive", func(t *testing.T) {
		_, offset := second.Date().Zone()
		assert.Equal(t, -5*60*60, offset)
	})
}

func TestReader_BlankInput(t *testing.T) {
	for _, input := range []string{"", "\n", "\n   \n\n"} {
		r := newTestReader(input)
		res := r.ReadEntry()
		assert.True(t, res.OK())
		_, ok := res.Value()
		assert.False(t, ok)
		assert.NoError(t, r.Close())
	}
}

func TestReader_BadHeader(t *testing.T) {
	t.Run("all header problems are reported together", func(t *testing.T) {
		r := newTestReader("Dotnet (a:1); urgency=medium\n\n  * body\n\n -- Someone <a@b.c>  Fri, 05 Apr 2024 15:47:39 +0300\n")
		res := r.ReadEntry()
		require.False(t, res.OK())

		ids := make([]string, 0)
		for _, a := range res.Annotations() {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"invalid-package-name", "invalid-version-epoch", "missing-distribution"}, ids)

		// the bad entry is consumed; the reader can carry on
		next := r.ReadEntry()
		assert.True(t, next.OK())
	})
	t.Run("unparseable header", func(t *testing.T) {
		r := newTestReader("not a changelog header\n\n -- Someone <a@b.c>  Fri, 05 Apr 2024 15:47:39 +0300\n")
		res := r.ReadEntry()
		require.False(t, res.OK())
		assert.Equal(t, "malformed-header", res.Annotations()[0].ID)
	})
	t.Run("locations point at the header line", func(t *testing.T) {
		r := newTestReader("\n\nhello (a:1) noble; urgency=low\n\n -- Someone <a@b.c>  Fri, 05 Apr 2024 15:47:39 +0300\n")
		res := r.ReadEntry()
		require.False(t, res.OK())
		require.NotEmpty(t, res.Annotations()[0].Locations)
		loc := res.Annotations()[0].Locations[0]
		assert.Equal(t, "changelog", loc.File)
		assert.Equal(t, 3, loc.Line)
	})
}

func TestReader_BadTrailer(t *testing.T) {
	t.Run("missing trailer", func(t *testing.T) {
		r := newTestReader("hello (1.0-1) noble; urgency=low\n\n  * body\n")
		res := r.ReadEntry()
		require.False(t, res.OK())
		assert.Equal(t, "unterminated-entry", res.Annotations()[0].ID)
	})
	t.Run("malformed trailer", func(t *testing.T) {
		r := newTestReader("hello (1.0-1) noble; urgency=low\n\n -- no email here\n")
		res := r.ReadEntry()
		require.False(t, res.OK())
		assert.Equal(t, "malformed-trailer", res.Annotations()[0].ID)
	})
	t.Run("bad date", func(t *testing.T) {
		r := newTestReader("hello (1.0-1) noble; urgency=low\n\n -- Someone <a@b.c>  yesterday\n")
		res := r.ReadEntry()
		require.False(t, res.OK())
		require.NotEmpty(t, res.Annotations())
		a := res.Annotations()[0]
		assert.Equal(t, "invalid-date", a.ID)
		assert.Error(t, a.Err)
	})
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestReader_Close(t *testing.T) {
	src := &closeTracker{Reader: strings.NewReader("")}
	r := NewReader("changelog", src)

	require.NoError(t, r.Close())
	assert.True(t, src.closed)
	// idempotent
	assert.NoError(t, r.Close())
}

func TestReader_ReadAllAggregates(t *testing.T) {
	r := newTestReader(strings.Join([]string{
		"hello (a:1) noble; urgency=low",
		"",
		" -- Someone <a@b.c>  Fri, 05 Apr 2024 15:47:39 +0300",
		"",
		"hello (1.0-2) UNRELEASED; urgency=low",
		"",
		"  * ok",
		"",
		" -- Someone <a@b.c>  Sat, 06 Apr 2024 15:47:39 +0300",
		"",
	}, "\n"))
	defer r.Close()

	res := r.ReadAll()
	assert.False(t, res.OK())
	// the second, valid entry was still parsed, so only the
	// first entry's problem is reported
	require.Len(t, res.Annotations(), 1)
	assert.Equal(t, "invalid-version-epoch", res.Annotations()[0].ID)
}

