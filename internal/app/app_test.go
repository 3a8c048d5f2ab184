package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deicod/ermblog-console/internal/config"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			HTTPEndpoint: "http://127.0.0.1:1/graphql",
			WSEndpoint:   "ws://127.0.0.1:1/graphql",
			TokenType:    "Bearer",
			Timeout:      time.Second,
		},
		Console:  config.ConsoleConfig{PostsPageSize: 10, CommentsPageSize: 20, MailboxSize: 8},
		Snapshot: config.SnapshotConfig{Name: "default", Compress: true},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_WithoutSnapshots(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), testConfig(), discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Nil(t, a.Snapshots)
	assert.NoError(t, a.Restore(context.Background()))
	assert.NoError(t, a.Persist(context.Background()))

	_, ok := a.Posts.Page("")
	assert.False(t, ok, "nothing fetched yet")
}

func TestNew_SnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := testConfig()
	cfg.Snapshot.Driver = "sqlite"
	cfg.Snapshot.DSN = filepath.Join(t.TempDir(), "console.db")

	first, err := New(ctx, cfg, discard())
	require.NoError(t, err)

	// Nothing saved yet: restore is a no-op.
	require.NoError(t, first.Restore(ctx))

	seedPostsView(t, first)
	require.NoError(t, first.Posts.HandleCreated(ctx, map[string]any{
		"__typename": "Post", "id": "p2", "title": "Fresh", "status": "draft",
	}))

	require.NoError(t, first.Persist(ctx))
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	require.NoError(t, second.Restore(ctx))
	view, ok := second.Posts.Page("draft")
	require.True(t, ok)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Fresh", view.Items[0].Title)
	assert.Equal(t, "Hello", view.Items[1].Title)
	require.NotNil(t, view.TotalCount)
	assert.Equal(t, 2, *view.TotalCount)
}

func TestNew_InvalidSnapshotDSN(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Snapshot.Driver = "postgres"
	cfg.Snapshot.DSN = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	_, err := New(context.Background(), cfg, discard())
	assert.Error(t, err)
}

// seedPostsView writes a one-post draft page straight into the store.
func seedPostsView(t *testing.T, a *App) {
	t.Helper()
	total := 1
	a.Store.Update(func(tx *relaystore.Tx) {
		relaystore.WriteConnectionPage(tx, tx.Root(), "PostsTable_posts",
			relaystore.Filters{"status": "draft"},
			relaystore.ConnectionPage{
				Typename:     "PostConnection",
				EdgeTypename: "PostEdge",
				NodeTypename: "Post",
				TotalCount:   &total,
				Edges: []relaystore.PageEdge{{
					Cursor: "c1",
					Node:   map[string]any{"__typename": "Post", "id": "p1", "title": "Hello", "status": "draft"},
				}},
			}, relaystore.Replace)
	})
}

func TestCheckAccessToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	sign := func(exp time.Time) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("k"))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "expired", token: sign(now.Add(-time.Hour)), want: "access token has expired"},
		{name: "expires soon", token: sign(now.Add(2 * time.Minute)), want: "access token expires soon"},
		{name: "valid", token: sign(now.Add(24 * time.Hour))},
		{name: "opaque", token: "api-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			checkAccessToken(slog.New(slog.NewTextHandler(&buf, nil)), tt.token, now)
			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
