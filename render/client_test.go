package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPostsSourceToTypedEndpoint(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte("<svg>ok</svg>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out, err := c.Render(context.Background(), "@startsequence\nA -> B\n@endsequence")
	require.NoError(t, err)
	assert.Equal(t, "<svg>ok</svg>", string(out))
	assert.Equal(t, "/sequence/svg", gotPath)
	assert.Contains(t, gotBody, "A -> B")
}

func TestRenderWrapsBadRequestDiagnostic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Error 42: unexpected token at line 3", http.StatusBadRequest)
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL).Render(context.Background(), "@startstate\nbroken")
	require.NoError(t, err, "a diagnostic body is content, not a transport fault")
	assert.Contains(t, string(out), "unexpected token at line 3")

	msg, bad := DetectErrorOutput(out)
	assert.True(t, bad)
	assert.Contains(t, msg, "Syntax Error")
}

func TestRenderServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Render(context.Background(), "@startflow\nx\n@endflow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchPNGUsesFormatPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL).FetchPNG(context.Background(), "@startstate\ns\n@endstate")
	require.NoError(t, err)
	assert.Equal(t, "/state/png", gotPath)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, out)
}

func TestEncodeSourceRoundTrip(t *testing.T) {
	source := "@startsequence\nAlice -> Bob: hello\n@endsequence"
	encoded, err := EncodeSource(source)
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(encoded)
	require.NoError(t, err)
	r, err := zlib.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	decoded, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, source, string(decoded))
}

func TestRenderURL(t *testing.T) {
	c := NewClient("https://render.example.com")
	url, err := c.RenderURL("@startflow\na\n@endflow", "png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://render.example.com/flow/png/"), url)
	assert.NotContains(t, url, "+", "payload segment must be URL safe")
	assert.NotContains(t, url[len("https://"):], "//")
}
