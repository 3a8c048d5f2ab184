package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
api:
  http_endpoint: "https://blog.example.com/graphql"
  ws_endpoint: "wss://blog.example.com/graphql"
  access_token: "tok"
  max_retries: 3
  retry_delay: "100ms"
  timeout: "5s"
  ws_max_retries: 2
  ws_retry_delay: "2s"

console:
  posts_page_size: 25
  comments_page_size: 50
  mailbox_size: 64

snapshot:
  driver: "sqlite"
  dsn: "file:console.db"
  name: "laptop"
  compress: false

metrics:
  addr: ":9100"

log:
  level: "debug"
  format: "json"
`

// defaultsOnly runs the test from an empty directory with no CONFIG_PATH.
func defaultsOnly(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())
}

func validConfig() Config {
	return Config{
		API: APIConfig{
			HTTPEndpoint: "http://localhost:8080/graphql",
			WSEndpoint:   "ws://localhost:8080/graphql",
			MaxRetries:   1,
			Timeout:      10 * time.Second,
			WSMaxRetries: 5,
		},
		Console: ConsoleConfig{PostsPageSize: 10, CommentsPageSize: 20, MailboxSize: 256},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// API
	if cfg.API.HTTPEndpoint != "https://blog.example.com/graphql" {
		t.Errorf("api.http_endpoint = %q", cfg.API.HTTPEndpoint)
	}
	if cfg.API.MaxRetries != 3 {
		t.Errorf("api.max_retries = %d, want 3", cfg.API.MaxRetries)
	}
	if cfg.API.RetryDelay != 100*time.Millisecond {
		t.Errorf("api.retry_delay = %v, want 100ms", cfg.API.RetryDelay)
	}
	if cfg.API.WSRetryDelay != 2*time.Second {
		t.Errorf("api.ws_retry_delay = %v, want 2s", cfg.API.WSRetryDelay)
	}
	if cfg.API.TokenType != "Bearer" {
		t.Errorf("api.token_type = %q, want Bearer (default)", cfg.API.TokenType)
	}

	// Console
	if cfg.Console.PostsPageSize != 25 {
		t.Errorf("console.posts_page_size = %d, want 25", cfg.Console.PostsPageSize)
	}
	if cfg.Console.MailboxSize != 64 {
		t.Errorf("console.mailbox_size = %d, want 64", cfg.Console.MailboxSize)
	}

	// Snapshot
	if !cfg.Snapshot.Enabled() {
		t.Error("snapshot should be enabled")
	}
	if cfg.Snapshot.Compress {
		t.Error("snapshot.compress should be false")
	}
	if cfg.Snapshot.Name != "laptop" {
		t.Errorf("snapshot.name = %q, want laptop", cfg.Snapshot.Name)
	}

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("metrics.addr = %q", cfg.Metrics.Addr)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CONSOLE_POSTS_PAGE_SIZE", "40")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Console.PostsPageSize != 40 {
		t.Errorf("console.posts_page_size = %d, want 40 (ENV override)", cfg.Console.PostsPageSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	defaultsOnly(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.WSEndpoint != "ws://localhost:8080/graphql" {
		t.Errorf("api.ws_endpoint = %q (default)", cfg.API.WSEndpoint)
	}
	if cfg.Console.CommentsPageSize != 20 {
		t.Errorf("console.comments_page_size = %d, want 20 (default)", cfg.Console.CommentsPageSize)
	}
	if cfg.Snapshot.Enabled() {
		t.Error("snapshot should be disabled by default")
	}
	if !cfg.Snapshot.Compress {
		t.Error("snapshot.compress should default to true")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_FlagPathWins(t *testing.T) {
	envPath := writeYAML(t, t.TempDir(), "console:\n  posts_page_size: 30\n")
	flagPath := writeYAML(t, t.TempDir(), "console:\n  posts_page_size: 60\n")
	t.Setenv("CONFIG_PATH", envPath)

	cfg, err := Load(flagPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Console.PostsPageSize != 60 {
		t.Errorf("console.posts_page_size = %d, want 60 from --config", cfg.Console.PostsPageSize)
	}
	if cfg.Source != flagPath {
		t.Errorf("source = %q, want %q", cfg.Source, flagPath)
	}
}

func TestLoad_SourceEmptyWithoutFile(t *testing.T) {
	defaultsOnly(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("source = %q, want empty", cfg.Source)
	}
}

func TestLoad_DefaultPathPickedUp(t *testing.T) {
	defaultsOnly(t)
	writeYAML(t, ".", "log:\n  level: \"error\"\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %q, want error", cfg.Log.Level)
	}
	if cfg.Source != DefaultPath {
		t.Errorf("source = %q, want %q", cfg.Source, DefaultPath)
	}
}

func TestLoad_ExplicitFlagNotFound(t *testing.T) {
	defaultsOnly(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing --config file")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("error = %v, want the path", err)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if path, explicit := ResolvePath(""); path != DefaultPath || explicit {
		t.Errorf("ResolvePath(\"\") = %q, %v", path, explicit)
	}
	t.Setenv("CONFIG_PATH", "/etc/console.yaml")
	if path, explicit := ResolvePath(""); path != "/etc/console.yaml" || !explicit {
		t.Errorf("ResolvePath with env = %q, %v", path, explicit)
	}
	if path, _ := ResolvePath("./local.yaml"); path != "./local.yaml" {
		t.Errorf("ResolvePath with flag = %q", path)
	}
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	defaultsOnly(t)
	t.Setenv("SNAPSHOT_DRIVER", "mysql")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "snapshot.driver") {
		t.Errorf("error = %v, want snapshot.driver problem", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:   "postgres snapshot",
			mutate: func(c *Config) { c.Snapshot = SnapshotConfig{Driver: "postgres", DSN: "postgres://x", Name: "n"} },
		},
		{
			name:    "http endpoint scheme",
			mutate:  func(c *Config) { c.API.HTTPEndpoint = "ws://localhost/graphql" },
			wantErr: []string{"api.http_endpoint"},
		},
		{
			name:    "ws endpoint without host",
			mutate:  func(c *Config) { c.API.WSEndpoint = "ws:///graphql" },
			wantErr: []string{"api.ws_endpoint"},
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.API.MaxRetries = -1; c.API.WSMaxRetries = -1 },
			wantErr: []string{"api.max_retries", "api.ws_max_retries"},
		},
		{
			name:    "page sizes",
			mutate:  func(c *Config) { c.Console.PostsPageSize = 0; c.Console.CommentsPageSize = 101 },
			wantErr: []string{"console.posts_page_size", "console.comments_page_size"},
		},
		{
			name:    "snapshot without dsn",
			mutate:  func(c *Config) { c.Snapshot = SnapshotConfig{Driver: "sqlite", Name: "n"} },
			wantErr: []string{"snapshot.dsn"},
		},
		{
			name:    "all problems reported",
			mutate:  func(c *Config) { c.API.Timeout = 0; c.Console.MailboxSize = 0 },
			wantErr: []string{"api.timeout", "console.mailbox_size"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error = %v, want it to mention %s", err, want)
				}
			}
		})
	}
}
