package client

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultBackendPort     = 5000
	DefaultAPIPrefix       = "/api"
	DefaultWorkspaceDomain = "app.github.dev"
)

// EndpointConfig describes where the API lives. BaseURL, when set, wins over
// any hostname-based derivation.
type EndpointConfig struct {
	BaseURL         string
	WorkspaceDomain string
	BackendPort     int
	APIPrefix       string
}

func DefaultEndpointConfig() EndpointConfig {
	return EndpointConfig{
		WorkspaceDomain: DefaultWorkspaceDomain,
		BackendPort:     DefaultBackendPort,
		APIPrefix:       DefaultAPIPrefix,
	}
}

// LoadEndpointConfig reads the FUNLABS_* variables, loading a .env file first
// when one is present.
func LoadEndpointConfig() EndpointConfig {
	_ = godotenv.Load()

	cfg := DefaultEndpointConfig()
	cfg.BaseURL = strings.TrimSpace(os.Getenv("FUNLABS_API_BASE_URL"))

	if domain := strings.TrimSpace(os.Getenv("FUNLABS_WORKSPACE_DOMAIN")); domain != "" {
		cfg.WorkspaceDomain = domain
	}
	if port, err := strconv.Atoi(os.Getenv("FUNLABS_BACKEND_PORT")); err == nil && port > 0 {
		cfg.BackendPort = port
	}
	if prefix := strings.TrimSpace(os.Getenv("FUNLABS_API_PREFIX")); prefix != "" {
		cfg.APIPrefix = prefix
	}

	return cfg
}

// ResolveBaseURL picks the API base URL for a client running on hostname.
//
// Forwarded workspace hosts are named "<workspace>-<port>.<domain>". The label
// is split on its last dash and the port swapped for the backend's, so
// "my-space-5173.app.github.dev" becomes "https://my-space-5000.app.github.dev/api".
// The domain matches case-insensitively and the workspace label keeps its
// original case. Anything else falls back to the local backend.
func ResolveBaseURL(cfg EndpointConfig, hostname string) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}

	port := cfg.BackendPort
	if port <= 0 {
		port = DefaultBackendPort
	}
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}

	if workspace, ok := workspacePrefix(hostname, cfg.WorkspaceDomain); ok {
		return "https://" + workspace + "-" + strconv.Itoa(port) + "." + cfg.WorkspaceDomain + prefix
	}

	return "http://localhost:" + strconv.Itoa(port) + prefix
}

func workspacePrefix(hostname, domain string) (string, bool) {
	if domain == "" {
		return "", false
	}

	suffix := "." + domain
	if len(hostname) <= len(suffix) || !strings.EqualFold(hostname[len(hostname)-len(suffix):], suffix) {
		return "", false
	}

	label := hostname[:len(hostname)-len(suffix)]
	if strings.Contains(label, ".") {
		return "", false
	}

	i := strings.LastIndex(label, "-")
	if i <= 0 {
		return "", false
	}

	if !isDigits(label[i+1:]) {
		return "", false
	}

	return label[:i], true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
