package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	ghttp "github.com/panyam/goutils/http"
)

// getServerURL resolves the running server's URL using the priority:
// 1. Command line flag (--server)
// 2. Environment variable (VIZSYNC_SERVER_URL)
// 3. Default (http://localhost:8080)
func getServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if envURL := os.Getenv("VIZSYNC_SERVER_URL"); envURL != "" {
		return envURL
	}
	return "http://localhost:8080"
}

// getBackendURL resolves the render backend, empty meaning the
// client's built-in default.
func getBackendURL() string {
	if backendURL != "" {
		return backendURL
	}
	return os.Getenv("VIZSYNC_RENDER_URL")
}

func getServeConfig() (host string, port int) {
	host = serveHost
	if host == "" {
		host = os.Getenv("VIZSYNC_SERVE_HOST")
	}
	if host == "" {
		host = "localhost"
	}
	port = servePort
	if port == 0 {
		if p, err := strconv.Atoi(os.Getenv("VIZSYNC_SERVE_PORT")); err == nil {
			port = p
		}
	}
	if port == 0 {
		port = 8080
	}
	return
}

func apiEndpoint(endpoint string) string {
	return strings.TrimSuffix(getServerURL(), "/") + endpoint
}

// makeAPICall makes HTTP requests to a running vizsync server.
func makeAPICall[T any](method, endpoint string, body map[string]any) (out T, err error) {
	req, err := ghttp.NewJsonRequest(method, apiEndpoint(endpoint), body)
	if err != nil {
		return
	}
	resp, err := ghttp.Call(req, nil)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}
	out, _ = resp.(T)
	return
}
