package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default endpoints. The oEmbed endpoint resolves titles without an API
// key; the timedtext endpoint serves caption tracks as XML.
const (
	defaultOEmbedURL    = "https://www.youtube.com/oembed"
	defaultTimedtextURL = "https://video.google.com/timedtext"

	defaultHTTPTimeout = 30 * time.Second
)

// Client fetches video metadata and captions over HTTP.
type Client struct {
	httpClient   *http.Client
	oembedURL    string
	timedtextURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoints overrides the oEmbed and timedtext base URLs (for testing).
func WithEndpoints(oembed, timedtext string) ClientOption {
	return func(c *Client) {
		if oembed != "" {
			c.oembedURL = oembed
		}
		if timedtext != "" {
			c.timedtextURL = timedtext
		}
	}
}

// NewClient creates a Client with a default timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		oembedURL:    defaultOEmbedURL,
		timedtextURL: defaultTimedtextURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Title resolves the video's display title via the oEmbed endpoint.
func (c *Client) Title(ctx context.Context, videoID string) (string, error) {
	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")

	body, status, err := c.get(ctx, c.oembedURL+"?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("fetching video title: %w", err)
	}
	if status == http.StatusNotFound || status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "", fmt.Errorf("%w: %s", ErrVideoUnavailable, videoID)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("fetching video title: unexpected status %d", status)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decoding oEmbed response: %w", err)
	}
	if payload.Title == "" {
		return "", fmt.Errorf("oEmbed response has no title for %s", videoID)
	}
	return payload.Title, nil
}

// timedtextDoc mirrors the caption track XML: <transcript><text>...</text>.
type timedtextDoc struct {
	Texts []struct {
		Content string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript fetches the English caption track and joins its snippets with
// single spaces into one raw block of text.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", "en")

	body, status, err := c.get(ctx, c.timedtextURL+"?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("fetching transcript: %w", err)
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrVideoUnavailable, videoID)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("fetching transcript: unexpected status %d", status)
	}

	// An empty body means no caption track exists for the language.
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoCaptions, videoID)
	}

	var doc timedtextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decoding caption track: %w", err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// Caption text arrives HTML-escaped on top of the XML escaping.
		snippet := strings.TrimSpace(html.UnescapeString(t.Content))
		if snippet != "" {
			parts = append(parts, snippet)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoCaptions, videoID)
	}

	return strings.Join(parts, " "), nil
}

// get performs one GET request and returns the body and status code.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
