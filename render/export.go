package render

import "context"

// FetchSVG returns the diagram as SVG bytes, suitable for saving to a
// file. Identical to Render; named for export call sites.
func (c *Client) FetchSVG(ctx context.Context, source string) ([]byte, error) {
	return c.fetch(ctx, source, "svg")
}

// FetchPNG returns the diagram rasterized by the backend. Not every
// diagram type supports PNG output; when the backend rejects the
// format the caller can fall back to PNGURL and let the user's browser
// do the fetch.
func (c *Client) FetchPNG(ctx context.Context, source string) ([]byte, error) {
	return c.fetch(ctx, source, "png")
}

// PNGURL is the GET fallback for diagram types the POST endpoint will
// not rasterize directly.
func (c *Client) PNGURL(source string) (string, error) {
	return c.RenderURL(source, "png")
}
