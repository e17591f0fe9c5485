package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultURL is the public Flashpoint database API.
const DefaultURL = "https://db-api.unstable.life"

// SearchFields are the record fields requested from the search endpoint.
var SearchFields = []string{
	"id", "title", "developer", "publisher", "platform", "library",
	"tags", "originalDescription", "dateAdded", "dateModified",
}

// Fetcher returns the JSON document at a URL. *cache.Cache satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (json.RawMessage, error)
}

// AddApp is an additional application shipped with a game.
type AddApp struct {
	Name            string `json:"name"`
	ApplicationPath string `json:"applicationPath"`
	LaunchCommand   string `json:"launchCommand"`
}

// Client issues catalog queries through a Fetcher.
type Client struct {
	baseURL string
	fetcher Fetcher
}

// NewClient creates a client for the catalog at baseURL (DefaultURL when empty).
func NewClient(baseURL string, f Fetcher) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), fetcher: f}
}

// SearchURL returns the search request URL for query.
func (c *Client) SearchURL(query string) string {
	return fmt.Sprintf("%s/search?smartSearch=%s&filter=true&fields=%s",
		c.baseURL, url.QueryEscape(query), strings.Join(SearchFields, ","))
}

// AddAppsURL returns the add-on applications URL for a game id.
func (c *Client) AddAppsURL(id string) string {
	return fmt.Sprintf("%s/addapps?id=%s", c.baseURL, url.QueryEscape(id))
}

// Search returns the records matching query. A response holding a single
// object rather than an array is treated as a one-element result.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	body, err := c.fetcher.Fetch(ctx, c.SearchURL(query))
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

// AddApps returns the add-on applications for a game.
func (c *Client) AddApps(ctx context.Context, id string) ([]AddApp, error) {
	body, err := c.fetcher.Fetch(ctx, c.AddAppsURL(id))
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	switch {
	case res.IsArray():
		var apps []AddApp
		if err := json.Unmarshal(body, &apps); err != nil {
			return nil, fmt.Errorf("failed to decode add-on apps: %w", err)
		}
		return apps, nil
	case res.IsObject():
		var app AddApp
		if err := json.Unmarshal(body, &app); err != nil {
			return nil, fmt.Errorf("failed to decode add-on apps: %w", err)
		}
		return []AddApp{app}, nil
	default:
		return nil, nil
	}
}

func decodeRecords(body []byte) ([]Record, error) {
	res := gjson.ParseBytes(body)
	switch {
	case res.IsArray():
		var records []Record
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("failed to decode search results: %w", err)
		}
		return records, nil
	case res.IsObject():
		var r Record
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, fmt.Errorf("failed to decode search results: %w", err)
		}
		return []Record{r}, nil
	case res.Type == gjson.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected search response: %s", res.Type)
	}
}
