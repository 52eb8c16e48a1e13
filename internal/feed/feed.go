// Package feed imports customer reviews from RSS or Atom feeds.
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	maxBodyBytes = 5 * 1024 * 1024

	// DefaultMaxItems caps how many feed items become reviews.
	DefaultMaxItems = 100
)

var ErrNoReviews = errors.New("feed has no usable items")

type Client struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	MaxItems   int
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, parser: gofeed.NewParser(), MaxItems: DefaultMaxItems}
}

// Reviews fetches feedURL and returns one review per line, in feed order. Each
// line is the item title followed by its description as plain text.
func (c *Client) Reviews(ctx context.Context, feedURL string) (string, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return "", fmt.Errorf("feed url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("fetch feed: status=%d: %s", resp.StatusCode, msg)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read feed: %w", err)
	}

	parsed, err := c.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	var lines []string
	for _, it := range parsed.Items {
		if c.MaxItems > 0 && len(lines) >= c.MaxItems {
			break
		}
		if line := itemReview(it); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", ErrNoReviews
	}
	return strings.Join(lines, "\n"), nil
}

func itemReview(it *gofeed.Item) string {
	if it == nil {
		return ""
	}
	title := plainText(it.Title)
	body := plainText(it.Description)
	if body == "" {
		body = plainText(it.Content)
	}

	switch {
	case title == "":
		return body
	case body == "", body == title:
		return title
	default:
		return title + ": " + body
	}
}

// plainText strips markup and folds whitespace, so a review always fits on one line.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
