package launchpad

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/djcass44/launchpad-tracker/pkg/debian"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PublishedSources(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	var requests []string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.String())
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("ws.start") == "2" {
			_, _ = fmt.Fprint(w, `{"entries": [
				{"source_package_name": "dotnet7", "source_package_version": "7.0.118-0ubuntu1", "status": "Published", "pocket": "Release"}
			]}`)
			return
		}
		_, _ = fmt.Fprintf(w, `{"entries": [
			{"source_package_name": "dotnet7", "source_package_version": "7.0.116-0ubuntu1", "status": "Superseded", "pocket": "Release"},
			{"source_package_name": "dotnet7", "source_package_version": "bad:version", "status": "Superseded", "pocket": "Release"}
		], "next_collection_link": "%s/ubuntu/+archive/primary?ws.op=getPublishedSources&ws.start=2"}`, srv.URL)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	name := debian.ParseName("dotnet7").MustValue()
	suite := debian.ParseSuite("noble").MustValue()

	t.Run("pagination is walked to exhaustion", func(t *testing.T) {
		requests = nil
		pubs, err := client.PublishedSources(ctx, "ubuntu", "primary", name, suite)
		require.NoError(t, err)
		require.Len(t, pubs, 3)
		assert.Equal(t, "7.0.116-0ubuntu1", pubs[0].Version)
		assert.Equal(t, "7.0.118-0ubuntu1", pubs[2].Version)
		assert.Len(t, requests, 2)
		assert.Contains(t, requests[0], "pocket=Release")
		assert.Contains(t, requests[0], "source_name=dotnet7")
	})

	t.Run("versions are parsed and sorted", func(t *testing.T) {
		versions, err := client.PublishedVersions(ctx, "ubuntu", "primary", name, suite)
		require.NoError(t, err)
		// the unparseable one is dropped
		require.Len(t, versions, 2)
		assert.Equal(t, "7.0.116-0ubuntu1", versions[0].String())
		assert.Equal(t, "7.0.118-0ubuntu1", versions[1].String())
	})
}

func TestClient_PublishedSources_Error(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.PublishedSources(ctx, "ubuntu", "primary", debian.ParseName("dotnet7").MustValue(), debian.ParseSuite("noble").MustValue())
	assert.Error(t, err)
}
