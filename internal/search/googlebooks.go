package search

import (
	"context"
	"errors"
	"net/url"
	"regexp"
)

// ErrNoAPIKey marks the Google Books tier as unavailable.
var ErrNoAPIKey = errors.New("google books api key not configured")

var yearDigits = regexp.MustCompile(`\d{4}`)

type googleBooksResponse struct {
	Items []struct {
		VolumeInfo googleVolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type googleVolumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	PublishedDate       string   `json:"publishedDate"`
	Publisher           string   `json:"publisher"`
	InfoLink            string   `json:"infoLink"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
}

// searchGoogleBooks queries the commercial book API. Requires an API
// key; callers skip this tier when none is configured.
func (c *Client) searchGoogleBooks(ctx context.Context, query string) ([]Metadata, error) {
	if c.googleBooksKey == "" {
		return nil, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", "5")
	q.Set("key", c.googleBooksKey)

	var resp googleBooksResponse
	if err := c.getJSON(ctx, c.googleBooksURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	var results []Metadata
	for _, item := range resp.Items {
		info := item.VolumeInfo
		md := NewMetadata(SourceGoogleBooks, googleBooksConfidence(info))
		md.Title = info.Title
		md.Authors = info.Authors
		md.Year = yearDigits.FindString(info.PublishedDate)
		md.Publisher = info.Publisher
		md.URL = info.InfoLink
		for _, id := range info.IndustryIdentifiers {
			if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
				md.ISBN = id.Identifier
				break
			}
		}
		results = append(results, md)
	}

	return results, nil
}

// googleBooksConfidence is a completeness sum over the volume fields.
func googleBooksConfidence(info googleVolumeInfo) float64 {
	conf := 0.0
	if info.Title != "" {
		conf += 0.3
	}
	if len(info.Authors) > 0 {
		conf += 0.3
	}
	if info.PublishedDate != "" {
		conf += 0.2
	}
	if info.Publisher != "" {
		conf += 0.2
	}
	return Clamp(conf)
}
