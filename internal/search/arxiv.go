package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

// arxivConfidence is the fixed confidence for arXiv hits: the Atom
// feed ranks by relevance but exposes no score of its own.
const arxivConfidence = 0.7

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// searchArxiv queries the arXiv preprint API. Responses are Atom XML.
func (c *Client) searchArxiv(ctx context.Context, query string) ([]Metadata, error) {
	q := url.Values{}
	q.Set("search_query", "all:"+query)
	q.Set("max_results", "5")
	q.Set("sortBy", "relevance")

	body, err := c.get(ctx, c.arxivURL+"?"+q.Encode(), "application/atom+xml")
	if err != nil {
		return nil, err
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decoding atom feed: %w", err)
	}

	var results []Metadata
	for _, entry := range feed.Entries {
		md := NewMetadata(SourceArxiv, arxivConfidence)
		md.Title = strings.Join(strings.Fields(entry.Title), " ")
		for _, a := range entry.Authors {
			if a.Name != "" {
				md.Authors = append(md.Authors, a.Name)
			}
		}
		if len(entry.Published) >= 4 {
			md.Year = entry.Published[:4]
		}
		if entry.ID != "" {
			// The entry ID is the abs URL; keep only the arXiv identifier.
			parts := strings.Split(entry.ID, "/")
			md.URL = "https://arxiv.org/abs/" + parts[len(parts)-1]
		}
		results = append(results, md)
	}

	return results, nil
}
