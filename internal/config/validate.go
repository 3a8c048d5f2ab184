package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically. All
// problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if err := checkURL(c.API.HTTPEndpoint, "http", "https"); err != nil {
		errs = append(errs, fmt.Errorf("api.http_endpoint: %w", err))
	}
	if err := checkURL(c.API.WSEndpoint, "ws", "wss"); err != nil {
		errs = append(errs, fmt.Errorf("api.ws_endpoint: %w", err))
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api.max_retries must be >= 0 (got %d)", c.API.MaxRetries))
	}
	if c.API.WSMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api.ws_max_retries must be >= 0 (got %d)", c.API.WSMaxRetries))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be > 0 (got %v)", c.API.Timeout))
	}

	if err := checkPageSize(c.Console.PostsPageSize); err != nil {
		errs = append(errs, fmt.Errorf("console.posts_page_size: %w", err))
	}
	if err := checkPageSize(c.Console.CommentsPageSize); err != nil {
		errs = append(errs, fmt.Errorf("console.comments_page_size: %w", err))
	}
	if c.Console.MailboxSize <= 0 {
		errs = append(errs, fmt.Errorf("console.mailbox_size must be > 0 (got %d)", c.Console.MailboxSize))
	}

	if c.Snapshot.Enabled() {
		if !slices.Contains([]string{"sqlite", "postgres"}, c.Snapshot.Driver) {
			errs = append(errs, fmt.Errorf("snapshot.driver must be sqlite or postgres (got %q)", c.Snapshot.Driver))
		}
		if strings.TrimSpace(c.Snapshot.DSN) == "" {
			errs = append(errs, errors.New("snapshot.dsn is required when snapshot.driver is set"))
		}
		if strings.TrimSpace(c.Snapshot.Name) == "" {
			errs = append(errs, errors.New("snapshot.name must not be empty"))
		}
	}

	return errors.Join(errs...)
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !slices.Contains(schemes, u.Scheme) || u.Host == "" {
		return fmt.Errorf("must be an absolute %s URL (got %q)", strings.Join(schemes, "/"), raw)
	}
	return nil
}

func checkPageSize(n int) error {
	if n < 1 || n > 100 {
		return fmt.Errorf("must be between 1 and 100 (got %d)", n)
	}
	return nil
}
