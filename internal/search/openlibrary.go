package search

import (
	"context"
	"fmt"
	"net/url"
)

type openLibraryResponse struct {
	Docs []openLibraryDoc `json:"docs"`
}

type openLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	Publisher        []string `json:"publisher"`
	ISBN             []string `json:"isbn"`
}

// searchOpenLibrary queries the Open Library catalog, the book tier of
// the provider chain.
func (c *Client) searchOpenLibrary(ctx context.Context, query string) ([]Metadata, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "5")

	var resp openLibraryResponse
	if err := c.getJSON(ctx, c.openLibraryURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	var results []Metadata
	for _, doc := range resp.Docs {
		md := NewMetadata(SourceOpenLibrary, openLibraryConfidence(doc))
		md.Title = doc.Title
		md.Authors = doc.AuthorName
		if doc.FirstPublishYear > 0 {
			md.Year = fmt.Sprintf("%d", doc.FirstPublishYear)
		}
		if len(doc.Publisher) > 0 {
			md.Publisher = doc.Publisher[0]
		}
		if len(doc.ISBN) > 0 {
			md.ISBN = doc.ISBN[0]
		}
		if doc.Key != "" {
			md.URL = "https://openlibrary.org" + doc.Key
		}
		results = append(results, md)
	}

	return results, nil
}

// openLibraryConfidence is a completeness sum over the catalog fields.
func openLibraryConfidence(doc openLibraryDoc) float64 {
	conf := 0.0
	if doc.Title != "" {
		conf += 0.3
	}
	if len(doc.AuthorName) > 0 {
		conf += 0.3
	}
	if doc.FirstPublishYear > 0 {
		conf += 0.2
	}
	if len(doc.Publisher) > 0 {
		conf += 0.2
	}
	return Clamp(conf)
}
