package client

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestResolveBaseURL(t *testing.T) {
	workspace := EndpointConfig{WorkspaceDomain: "workspace-domain.dev", BackendPort: 5000, APIPrefix: "/api"}

	tests := []struct {
		name     string
		cfg      EndpointConfig
		hostname string
		want     string
	}{
		{
			name:     "explicit base url wins",
			cfg:      EndpointConfig{BaseURL: "https://api.example.com", WorkspaceDomain: "workspace-domain.dev"},
			hostname: "my-space-5173.workspace-domain.dev",
			want:     "https://api.example.com",
		},
		{
			name:     "explicit base url kept verbatim",
			cfg:      EndpointConfig{BaseURL: "http://10.0.0.2:8080/api/"},
			hostname: "localhost",
			want:     "http://10.0.0.2:8080/api/",
		},
		{
			name:     "workspace host",
			cfg:      workspace,
			hostname: "my-space-5173.workspace-domain.dev",
			want:     "https://my-space-5000.workspace-domain.dev/api",
		},
		{
			name:     "workspace host without dashes in prefix",
			cfg:      workspace,
			hostname: "space-3000.workspace-domain.dev",
			want:     "https://space-5000.workspace-domain.dev/api",
		},
		{
			name:     "default codespaces domain",
			cfg:      DefaultEndpointConfig(),
			hostname: "fluffy-robot-x7g9-5173.app.github.dev",
			want:     "https://fluffy-robot-x7g9-5000.app.github.dev/api",
		},
		{
			name:     "mixed case host keeps label case",
			cfg:      workspace,
			hostname: "My-Space-5173.Workspace-Domain.DEV",
			want:     "https://My-Space-5000.workspace-domain.dev/api",
		},
		{
			name:     "localhost fallback",
			cfg:      workspace,
			hostname: "localhost",
			want:     "http://localhost:5000/api",
		},
		{
			name:     "zero config defaults",
			cfg:      EndpointConfig{},
			hostname: "localhost",
			want:     "http://localhost:5000/api",
		},
		{
			name:     "custom port and prefix",
			cfg:      EndpointConfig{WorkspaceDomain: "workspace-domain.dev", BackendPort: 8080, APIPrefix: "/v1"},
			hostname: "box-5173.workspace-domain.dev",
			want:     "https://box-8080.workspace-domain.dev/v1",
		},
		{
			name:     "domain must be a suffix",
			cfg:      workspace,
			hostname: "my-space-5173.workspace-domain.dev.evil.com",
			want:     "http://localhost:5000/api",
		},
		{
			name:     "bare domain",
			cfg:      workspace,
			hostname: "workspace-domain.dev",
			want:     "http://localhost:5000/api",
		},
		{
			name:     "label without port",
			cfg:      workspace,
			hostname: "my-space.workspace-domain.dev",
			want:     "http://localhost:5000/api",
		},
		{
			name:     "label without dash",
			cfg:      workspace,
			hostname: "5173.workspace-domain.dev",
			want:     "http://localhost:5000/api",
		},
		{
			name:     "nested subdomain",
			cfg:      workspace,
			hostname: "a.my-space-5173.workspace-domain.dev",
			want:     "http://localhost:5000/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.cfg, tt.hostname))
		})
	}
}

func TestLoadEndpointConfig(t *testing.T) {
	t.Setenv("FUNLABS_API_BASE_URL", "")
	t.Setenv("FUNLABS_WORKSPACE_DOMAIN", "")
	t.Setenv("FUNLABS_BACKEND_PORT", "")
	t.Setenv("FUNLABS_API_PREFIX", "")

	assert.Equal(t, DefaultEndpointConfig(), LoadEndpointConfig())

	t.Setenv("FUNLABS_API_BASE_URL", " https://api.example.com ")
	t.Setenv("FUNLABS_WORKSPACE_DOMAIN", "preview.app")
	t.Setenv("FUNLABS_BACKEND_PORT", "8081")
	t.Setenv("FUNLABS_API_PREFIX", "/v2")

	assert.Equal(t, EndpointConfig{
		BaseURL:         "https://api.example.com",
		WorkspaceDomain: "preview.app",
		BackendPort:     8081,
		APIPrefix:       "/v2",
	}, LoadEndpointConfig())
}

func TestLoadEndpointConfigIgnoresInvalidPort(t *testing.T) {
	t.Setenv("FUNLABS_BACKEND_PORT", "not-a-port")
	assert.Equal(t, DefaultBackendPort, LoadEndpointConfig().BackendPort)
}

var labelGen = rapid.StringMatching(`[a-z][a-z0-9]{0,8}(-[a-z0-9]{1,8}){0,3}`)

func TestResolveBaseURLProperties(t *testing.T) {
	t.Run("explicit base url always wins", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			base := rapid.StringMatching(`https?://[a-z]{1,10}\.[a-z]{2,4}(/[a-z]{1,5})?`).Draw(t, "base")
			host := rapid.String().Draw(t, "host")
			cfg := DefaultEndpointConfig()
			cfg.BaseURL = base

			if got := ResolveBaseURL(cfg, host); got != base {
				t.Fatalf("got %q, want %q", got, base)
			}
		})
	})

	t.Run("workspace port is replaced by the backend port", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			label := labelGen.Draw(t, "label")
			frontendPort := rapid.IntRange(1, 65535).Draw(t, "frontendPort")
			backendPort := rapid.IntRange(1, 65535).Draw(t, "backendPort")
			cfg := EndpointConfig{WorkspaceDomain: "workspace-domain.dev", BackendPort: backendPort, APIPrefix: "/api"}

			host := label + "-" + strconv.Itoa(frontendPort) + ".workspace-domain.dev"
			want := "https://" + label + "-" + strconv.Itoa(backendPort) + ".workspace-domain.dev/api"

			if got := ResolveBaseURL(cfg, host); got != want {
				t.Fatalf("host %q: got %q, want %q", host, got, want)
			}
		})
	})

	t.Run("other hosts fall back to localhost", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			host := rapid.StringMatching(`[a-z0-9.-]{0,30}`).Draw(t, "host")
			if strings.HasSuffix(host, ".workspace-domain.dev") {
				t.Skip("workspace host")
			}
			cfg := EndpointConfig{WorkspaceDomain: "workspace-domain.dev"}

			if got := ResolveBaseURL(cfg, host); got != "http://localhost:5000/api" {
				t.Fatalf("host %q: got %q", host, got)
			}
		})
	})

	t.Run("idempotent", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			cfg := EndpointConfig{
				BaseURL:         rapid.SampledFrom([]string{"", "https://api.example.com"}).Draw(t, "base"),
				WorkspaceDomain: "workspace-domain.dev",
				BackendPort:     rapid.IntRange(0, 65535).Draw(t, "port"),
			}
			host := rapid.OneOf(
				rapid.Just("localhost"),
				rapid.Map(labelGen, func(l string) string { return l + "-5173.workspace-domain.dev" }),
				rapid.String(),
			).Draw(t, "host")

			first := ResolveBaseURL(cfg, host)
			if second := ResolveBaseURL(cfg, host); first != second {
				t.Fatalf("got %q then %q", first, second)
			}
		})
	})
}
