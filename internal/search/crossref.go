package search

import (
	"context"
	"fmt"
	"net/url"
)

// Crossref content types worth considering as bibliography targets.
var crossrefTypes = map[string]bool{
	"journal-article":     true,
	"book":                true,
	"proceedings-article": true,
	"book-chapter":        true,
}

type crossrefResponse struct {
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	DOI    string   `json:"DOI"`
	Type   string   `json:"type"`
	Title  []string `json:"title"`
	Author []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"author"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
	Publisher      string   `json:"publisher"`
	ContainerTitle []string `json:"container-title"`
	Volume         string   `json:"volume"`
	Issue          string   `json:"issue"`
	Page           string   `json:"page"`
}

// searchCrossref queries the Crossref works API for scholarly articles
// and books. Failures yield an empty candidate list.
func (c *Client) searchCrossref(ctx context.Context, query string) ([]Metadata, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("rows", "5")
	q.Set("select", "DOI,title,author,issued,publisher,container-title,volume,issue,page,type")

	var resp crossrefResponse
	if err := c.getJSON(ctx, c.crossrefURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	var results []Metadata
	for _, item := range resp.Message.Items {
		if !crossrefTypes[item.Type] {
			continue
		}
		title := ""
		if len(item.Title) > 0 {
			title = item.Title[0]
		}
		// Short titles on non-article records are usually truncated data.
		if len(title) < 20 && item.Type != "journal-article" {
			continue
		}

		md := NewMetadata(SourceCrossref, crossrefConfidence(item, title))
		md.Title = title
		for _, a := range item.Author {
			name := trimJoin(a.Given, a.Family)
			if name != "" {
				md.Authors = append(md.Authors, name)
			}
		}
		if len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
			md.Year = fmt.Sprintf("%d", item.Issued.DateParts[0][0])
		}
		md.Publisher = item.Publisher
		if len(item.ContainerTitle) > 0 {
			md.Journal = item.ContainerTitle[0]
		}
		md.Volume = item.Volume
		md.Issue = item.Issue
		md.Pages = item.Page
		md.DOI = item.DOI
		if item.DOI != "" {
			md.URL = "https://doi.org/" + item.DOI
		}
		results = append(results, md)
	}

	return results, nil
}

// crossrefConfidence weighs identifier presence, record completeness,
// and content type. Clamped to [0.1, 1] so a matched record is never
// reported as worthless.
func crossrefConfidence(item crossrefItem, title string) float64 {
	conf := 0.0
	if item.DOI != "" {
		conf += 0.3
	}
	if title != "" {
		conf += 0.2
	}
	if len(item.Author) > 0 {
		conf += 0.2
	}
	if item.Publisher != "" {
		conf += 0.1
	}
	if len(item.Issued.DateParts) > 0 {
		conf += 0.1
	}

	switch item.Type {
	case "book":
		conf += 0.3
	case "journal-article":
		conf += 0.1
	}

	if len(title) < 30 {
		conf -= 0.2
	}

	if conf < 0.1 {
		conf = 0.1
	}
	return Clamp(conf)
}

func trimJoin(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
