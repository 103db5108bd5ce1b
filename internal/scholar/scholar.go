// Package scholar searches Semantic Scholar for prior work related to
// a paragraph's claim. Lookups are strictly best effort: any transport,
// decode, or rate-limit failure yields an empty result set so the
// analysis pipeline never stalls on the reference feature.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.semanticscholar.org"
	searchPath     = "/graph/v1/paper/search"
	searchFields   = "title,authors,year,citationCount,venue,abstract,url,externalIds"

	maxAbstractLen = 200
	fetchLimit     = 20
)

// Paper is one reference candidate with pre-rendered citations.
type Paper struct {
	Title         string `json:"title"`
	Authors       string `json:"authors"`
	Year          int    `json:"year"`
	CitationCount int    `json:"citation_count"`
	Venue         string `json:"venue"`
	Abstract      string `json:"abstract"`
	DOI           string `json:"doi"`
	DOIURL        string `json:"doi_url"`
	SSURL         string `json:"ss_url"`
	APA           string `json:"apa"`
	BibTeX        string `json:"bibtex"`
}

// Gateway looks up papers for a search query.
type Gateway interface {
	Search(ctx context.Context, query string, limit, minCitations int) []Paper
}

// Client implements Gateway against the Semantic Scholar REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKeyFn   func(ctx context.Context) string
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a Client. apiKeyFn may return "" for keyless access,
// which Semantic Scholar allows at a lower rate limit.
func NewClient(apiKeyFn func(ctx context.Context) string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKeyFn:   apiKeyFn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to limit papers with at least minCitations citations,
// most cited first. Any failure returns an empty slice.
func (c *Client) Search(ctx context.Context, query string, limit, minCitations int) []Paper {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	raw, err := c.fetch(ctx, query)
	if err != nil {
		return nil
	}

	papers := make([]Paper, 0, len(raw))
	for _, item := range raw {
		if item.CitationCount < minCitations {
			continue
		}
		papers = append(papers, buildPaper(item))
	}
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].CitationCount > papers[j].CitationCount
	})
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers
}

type apiPaper struct {
	Title         string      `json:"title"`
	Authors       []apiAuthor `json:"authors"`
	Year          int         `json:"year"`
	CitationCount int         `json:"citationCount"`
	Venue         string      `json:"venue"`
	Abstract      string      `json:"abstract"`
	URL           string      `json:"url"`
	ExternalIDs   struct {
		DOI string `json:"DOI"`
	} `json:"externalIds"`
}

type apiAuthor struct {
	Name string `json:"name"`
}

func (c *Client) fetch(ctx context.Context, query string) ([]apiPaper, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", fetchLimit))
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if key := c.apiKeyFn(ctx); strings.TrimSpace(key) != "" {
		req.Header.Set("x-api-key", strings.TrimSpace(key))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("scholar: status %d", resp.StatusCode)
	}

	var payload struct {
		Data []apiPaper `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func buildPaper(item apiPaper) Paper {
	authors := formatAuthors(item.Authors)
	abstract := strings.TrimSpace(item.Abstract)
	if runes := []rune(abstract); len(runes) > maxAbstractLen {
		abstract = string(runes[:maxAbstractLen])
	}

	p := Paper{
		Title:         strings.TrimSpace(item.Title),
		Authors:       authors,
		Year:          item.Year,
		CitationCount: item.CitationCount,
		Venue:         strings.TrimSpace(item.Venue),
		Abstract:      abstract,
		DOI:           strings.TrimSpace(item.ExternalIDs.DOI),
		SSURL:         strings.TrimSpace(item.URL),
	}
	if p.DOI != "" {
		p.DOIURL = "https://doi.org/" + p.DOI
	}
	p.APA = formatAPA(p)
	p.BibTeX = formatBibTeX(p, item.Authors)
	return p
}

// formatAuthors joins the first three names and appends "et al." when
// more follow.
func formatAuthors(authors []apiAuthor) string {
	names := make([]string, 0, 3)
	for _, a := range authors {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) == 3 {
			break
		}
	}
	joined := strings.Join(names, ", ")
	if len(authors) > 3 && joined != "" {
		joined += " et al."
	}
	return joined
}

func formatAPA(p Paper) string {
	var b strings.Builder
	if p.Authors != "" {
		b.WriteString(p.Authors)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "(%d). %s.", p.Year, p.Title)
	if p.Venue != "" {
		fmt.Fprintf(&b, " %s.", p.Venue)
	}
	if p.DOIURL != "" {
		fmt.Fprintf(&b, " %s", p.DOIURL)
	}
	return strings.TrimSpace(b.String())
}

func formatBibTeX(p Paper, authors []apiAuthor) string {
	key := bibKey(authors, p.Year)
	fullAuthors := make([]string, 0, len(authors))
	for _, a := range authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			fullAuthors = append(fullAuthors, name)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s,\n", key)
	fmt.Fprintf(&b, "  title = {%s},\n", p.Title)
	fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(fullAuthors, " and "))
	fmt.Fprintf(&b, "  year = {%d},\n", p.Year)
	if p.Venue != "" {
		fmt.Fprintf(&b, "  journal = {%s},\n", p.Venue)
	}
	if p.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", p.DOI)
	}
	b.WriteString("}")
	return b.String()
}

// bibKey derives a citation key like "kim2021" from the first author's
// last name and the year.
func bibKey(authors []apiAuthor, year int) string {
	last := "unknown"
	for _, a := range authors {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		parts := strings.Fields(name)
		last = strings.ToLower(parts[len(parts)-1])
		break
	}
	var b strings.Builder
	for _, r := range last {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	key := b.String()
	if key == "" {
		key = "unknown"
	}
	return fmt.Sprintf("%s%d", key, year)
}
