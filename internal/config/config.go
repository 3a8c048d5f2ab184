package config

import "time"

// Config is the root application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Console  ConsoleConfig  `yaml:"console"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`

	// Source is the file the configuration was read from.
	Source string `yaml:"-"`
}

// APIConfig holds the management API endpoints and client behavior.
type APIConfig struct {
	HTTPEndpoint string        `yaml:"http_endpoint"  env:"API_HTTP_ENDPOINT"  env-default:"http://localhost:8080/graphql"`
	WSEndpoint   string        `yaml:"ws_endpoint"    env:"API_WS_ENDPOINT"    env-default:"ws://localhost:8080/graphql"`
	AccessToken  string        `yaml:"access_token"   env:"API_ACCESS_TOKEN"`
	TokenType    string        `yaml:"token_type"     env:"API_TOKEN_TYPE"     env-default:"Bearer"`
	MaxRetries   int           `yaml:"max_retries"    env:"API_MAX_RETRIES"    env-default:"1"`
	RetryDelay   time.Duration `yaml:"retry_delay"    env:"API_RETRY_DELAY"    env-default:"250ms"`
	Timeout      time.Duration `yaml:"timeout"        env:"API_TIMEOUT"        env-default:"10s"`
	WSMaxRetries int           `yaml:"ws_max_retries" env:"API_WS_MAX_RETRIES" env-default:"5"`
	WSRetryDelay time.Duration `yaml:"ws_retry_delay" env:"API_WS_RETRY_DELAY" env-default:"1s"`
}

// ConsoleConfig holds table and event handling settings.
type ConsoleConfig struct {
	PostsPageSize    int `yaml:"posts_page_size"    env:"CONSOLE_POSTS_PAGE_SIZE"    env-default:"10"`
	CommentsPageSize int `yaml:"comments_page_size" env:"CONSOLE_COMMENTS_PAGE_SIZE" env-default:"20"`
	MailboxSize      int `yaml:"mailbox_size"       env:"CONSOLE_MAILBOX_SIZE"       env-default:"256"`
}

// SnapshotConfig selects where cache snapshots are kept. An empty driver
// disables snapshots.
type SnapshotConfig struct {
	Driver   string `yaml:"driver"   env:"SNAPSHOT_DRIVER"`
	DSN      string `yaml:"dsn"      env:"SNAPSHOT_DSN"`
	Name     string `yaml:"name"     env:"SNAPSHOT_NAME"     env-default:"default"`
	Compress bool   `yaml:"compress" env:"SNAPSHOT_COMPRESS" env-default:"true"`
}

// Enabled reports whether snapshots are configured.
func (c SnapshotConfig) Enabled() bool { return c.Driver != "" }

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"METRICS_ADDR"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
