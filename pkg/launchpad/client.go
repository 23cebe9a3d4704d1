// Package launchpad is a minimal client for the Launchpad REST
// API, covering just enough surface to ask which versions of a
// source package have been published in an archive.
package launchpad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/djcass44/launchpad-tracker/pkg/debian"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

const DefaultAPI = "https://api.launchpad.net/devel"

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPI
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// SourcePublication is one record from getPublishedSources.
type SourcePublication struct {
	PackageName   string `json:"source_package_name"`
	Version       string `json:"source_package_version"`
	Status        string `json:"status"`
	Pocket        string `json:"pocket"`
	ComponentName string `json:"component_name"`
	SeriesLink    string `json:"distro_series_link"`
}

// collection is Launchpad's paginated list envelope.
type collection struct {
	Entries  []SourcePublication `json:"entries"`
	NextLink string              `json:"next_collection_link"`
}

// PublishedSources fetches every publication of the named
// source package in the given suite of a distribution archive,
// walking the paginated collection to exhaustion.
func (c *Client) PublishedSources(ctx context.Context, distribution, archive string, name debian.Name, suite debian.Suite) ([]SourcePublication, error) {
	params := url.Values{}
	params.Set("ws.op", "getPublishedSources")
	params.Set("source_name", name.String())
	params.Set("exact_match", "true")
	params.Set("distro_series", fmt.Sprintf("%s/%s/%s", c.baseURL, distribution, suite.Series))
	params.Set("pocket", titlePocket(suite.Pocket))

	target := fmt.Sprintf("%s/%s/+archive/%s?%s", c.baseURL, distribution, archive, params.Encode())

	var out []SourcePublication
	for target != "" {
		page, err := c.fetchPage(ctx, target)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Entries...)
		target = page.NextLink
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, target string) (*collection, error) {
	id := uuid.NewString()
	log := logr.FromContextOrDiscard(ctx).WithValues("url", target, "request", id)
	log.V(1).Info("fetching collection page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", id)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.V(1).Info("request failed", "code", resp.StatusCode)
		return nil, fmt.Errorf("http response failed with code: %d", resp.StatusCode)
	}

	var page collection
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		log.Error(err, "failed to decode collection page")
		return nil, err
	}
	log.V(2).Info("fetched collection page", "entries", len(page.Entries), "more", page.NextLink != "")
	return &page, nil
}

// PublishedVersions parses and sorts the versions of every
// publication, ascending. Publications with unparseable
// versions are skipped.
func (c *Client) PublishedVersions(ctx context.Context, distribution, archive string, name debian.Name, suite debian.Suite) ([]debian.Version, error) {
	log := logr.FromContextOrDiscard(ctx)
	pubs, err := c.PublishedSources(ctx, distribution, archive, name, suite)
	if err != nil {
		return nil, err
	}
	versions := make([]*debian.Version, 0, len(pubs))
	for _, p := range pubs {
		res := debian.ParseVersion(p.Version)
		v, ok := res.Value()
		if !ok {
			log.V(2).Info("skipping unparseable version", "name", p.PackageName, "version", p.Version)
			continue
		}
		versions = append(versions, &v)
	}
	debian.SortVersions(versions)
	out := make([]debian.Version, len(versions))
	for i, v := range versions {
		out[i] = *v
	}
	return out, nil
}

// titlePocket renders a pocket the way the Launchpad API spells
// it ("Release", "Security", ...).
func titlePocket(p debian.Pocket) string {
	s := p.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
