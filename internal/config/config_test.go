package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "musegate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
gateway:
  protocol: http
  host: 127.0.0.1
  port: 9999
cleveland:
  page_size: 5
  use_relay: false
http:
  timeout: 3s
search:
  debounce: 150ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gateway.Port != 9999 {
		t.Errorf("gateway port %d, want 9999", cfg.Gateway.Port)
	}
	if cfg.Cleveland.PageSize != 5 || cfg.Cleveland.UseRelay {
		t.Errorf("cleveland overrides not applied: %+v", cfg.Cleveland)
	}
	if cfg.HTTP.Timeout != 3*time.Second {
		t.Errorf("timeout %v, want 3s", cfg.HTTP.Timeout)
	}
	if cfg.Search.Debounce != 150*time.Millisecond {
		t.Errorf("debounce %v, want 150ms", cfg.Search.Debounce)
	}
}

func TestLoadFillsGapsWithDefaults(t *testing.T) {
	path := writeFile(t, "gateway:\n  port: 8081\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Cleveland.BaseURL != def.Cleveland.BaseURL {
		t.Errorf("cleveland base URL %q, want default %q", cfg.Cleveland.BaseURL, def.Cleveland.BaseURL)
	}
	if cfg.Chicago.IIIFBaseURL != def.Chicago.IIIFBaseURL {
		t.Errorf("iiif base URL %q, want default", cfg.Chicago.IIIFBaseURL)
	}
	if cfg.Session.TTL != def.Session.TTL {
		t.Errorf("session ttl %v, want default %v", cfg.Session.TTL, def.Session.TTL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "gateway: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults pass", func(c *Config) {}, ""},
		{"missing base url", func(c *Config) { c.Chicago.BaseURL = "" }, "base URLs"},
		{"zero page size", func(c *Config) { c.Cleveland.PageSize = 0 }, "page sizes"},
		{"zero debounce", func(c *Config) { c.Search.Debounce = 0 }, "debounce"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestComponentAddresses(t *testing.T) {
	c := ComponentConfig{Protocol: "http", Host: "0.0.0.0", Port: 8080}
	if got := c.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", got)
	}
	if got := c.FullURL(); got != "http://0.0.0.0:8080" {
		t.Errorf("FullURL() = %q", got)
	}
}
