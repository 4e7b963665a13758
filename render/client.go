package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/zlib"

	"github.com/panyam/vizsync/core"
)

// DefaultBaseURL is the public Kroki instance. Self-hosted deployments
// override it via the client constructor or the VIZSYNC_RENDER_URL env var.
const DefaultBaseURL = "https://kroki.io"

const defaultRequestTimeout = 30 * time.Second

// Client renders diagram sources against a Kroki-compatible HTTP
// backend. It implements core.Renderer.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

var _ core.Renderer = (*Client)(nil)

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Render posts the raw source and returns the SVG payload. A 400 from
// the backend carries a diagnostic body rather than a transport fault,
// so it is wrapped into a displayable SVG and returned without error;
// the caller's error detector picks it up from the content.
func (c *Client) Render(ctx context.Context, source string) ([]byte, error) {
	return c.fetch(ctx, source, "svg")
}

func (c *Client) fetch(ctx context.Context, source, format string) ([]byte, error) {
	diagramType := core.DetectDiagramType(source)
	url := fmt.Sprintf("%s/%s/%s", c.BaseURL, diagramType, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusBadRequest && format == "svg":
		return errorSVG(string(body)), nil
	default:
		return nil, fmt.Errorf("render backend returned %d: %s", resp.StatusCode, firstLine(body))
	}
}

// EncodeSource produces the URL-safe payload segment the backend
// accepts on GET requests: deflate-compressed source, base64url encoded.
func EncodeSource(source string) (string, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(source)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

// RenderURL builds a shareable GET URL for the given source and format.
func (c *Client) RenderURL(source, format string) (string, error) {
	encoded, err := EncodeSource(source)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%s", c.BaseURL, core.DetectDiagramType(source), format, encoded), nil
}

func firstLine(body []byte) string {
	line, _, _ := strings.Cut(strings.TrimSpace(string(body)), "\n")
	const maxLen = 200
	if len(line) > maxLen {
		line = line[:maxLen]
	}
	return line
}

// errorSVG wraps a backend diagnostic in a minimal SVG so it can be
// displayed in place of the diagram.
func errorSVG(message string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="600" height="120">`)
	buf.WriteString(`<text x="10" y="30" fill="red" font-family="monospace" font-size="13">Syntax Error</text>`)
	buf.WriteString(`<text x="10" y="55" font-family="monospace" font-size="12">`)
	if err := xmlEscapeTo(&buf, message); err != nil {
		buf.WriteString("render failed")
	}
	buf.WriteString(`</text></svg>`)
	return buf.Bytes()
}

func xmlEscapeTo(buf *bytes.Buffer, s string) error {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	_, err := r.WriteString(buf, firstLine([]byte(s)))
	return err
}
