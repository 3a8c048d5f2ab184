package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

func openSQLite(t *testing.T, compress bool) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "console.db")
	s, err := Open(context.Background(), slog.Default(), Config{Driver: DriverSQLite, DSN: dsn, Compress: compress})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// sampleStore returns a store holding one resident posts view.
func sampleStore() *relaystore.Store {
	store := relaystore.New()
	total := 2
	store.Update(func(tx *relaystore.Tx) {
		relaystore.WriteConnectionPage(tx, tx.Root(), "PostsTable_posts", relaystore.Filters{"status": "draft"},
			relaystore.ConnectionPage{
				Typename:     "PostConnection",
				EdgeTypename: "PostEdge",
				NodeTypename: "Post",
				TotalCount:   &total,
				Edges: []relaystore.PageEdge{
					{Cursor: "c1", Node: map[string]any{"id": "p1", "title": "One", "status": "draft"}},
					{Cursor: "c2", Node: map[string]any{"id": "p2", "title": "Two", "status": "draft"}},
				},
				PageInfo: relaystore.PageInfo{HasNextPage: true, EndCursor: "c2"},
			}, relaystore.Replace)
	})
	return store
}

func assertSameSnapshot(t *testing.T, want, got relaystore.Snapshot) {
	t.Helper()
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}

func testRoundTrip(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	snap := sampleStore().Snapshot()
	require.NoError(t, s.Ping(ctx))

	info, err := s.Save(ctx, "warm", snap)
	require.NoError(t, err)
	assert.Equal(t, len(snap.Records), info.Records)
	assert.Positive(t, info.Bytes)

	got, loaded, err := s.Load(ctx, "warm")
	require.NoError(t, err)
	assertSameSnapshot(t, snap, got)
	assert.Equal(t, info.Records, loaded.Records)
	assert.Equal(t, info.Compressed, loaded.Compressed)
	assert.True(t, info.SavedAt.Equal(loaded.SavedAt))
	assert.Len(t, info.Checksum, 64)
	assert.Equal(t, info.Checksum, loaded.Checksum)

	restored := relaystore.New()
	restored.Restore(got)
	restored.View(func(tx *relaystore.Tx) {
		conn, ok := relaystore.GetConnection(tx.Root(), "PostsTable_posts", relaystore.Filters{"status": "draft"})
		require.True(t, ok)
		n, ok := relaystore.TotalCount(conn)
		require.True(t, ok)
		assert.Equal(t, 2, n)
		assert.Len(t, relaystore.EdgeNodes(conn), 2)
	})
}

// ---------------------------------------------------------------------------
// SQLite
// ---------------------------------------------------------------------------

func TestSQLite_RoundTrip(t *testing.T) {
	t.Parallel()
	testRoundTrip(t, openSQLite(t, false))
}

func TestSQLite_RoundTripCompressed(t *testing.T) {
	t.Parallel()
	testRoundTrip(t, openSQLite(t, true))
}

func TestSQLite_SaveReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openSQLite(t, false)

	_, err := s.Save(ctx, "warm", relaystore.New().Snapshot())
	require.NoError(t, err)
	_, err = s.Save(ctx, "warm", sampleStore().Snapshot())
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "warm", list[0].Name)
	assert.Equal(t, len(sampleStore().Snapshot().Records), list[0].Records)
}

func TestSQLite_LoadNotFound(t *testing.T) {
	t.Parallel()

	_, _, err := openSQLite(t, false).Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLite_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openSQLite(t, true)
	_, err := s.Save(ctx, "old", sampleStore().Snapshot())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "old"))
	assert.ErrorIs(t, s.Delete(ctx, "old"), domain.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLite_DetectsCorruptPayload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openSQLite(t, false)
	_, err := s.Save(ctx, "warm", sampleStore().Snapshot())
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `UPDATE store_snapshots SET payload = ? WHERE name = ?`, []byte(`{"records":[]}`), "warm")
	require.NoError(t, err)

	_, _, err = s.Load(ctx, "warm")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSQLite_AcceptsLegacyRowWithoutChecksum(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openSQLite(t, false)
	_, err := s.Save(ctx, "warm", sampleStore().Snapshot())
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `UPDATE store_snapshots SET checksum = '' WHERE name = ?`, "warm")
	require.NoError(t, err)

	snap, info, err := s.Load(ctx, "warm")
	require.NoError(t, err)
	assert.Empty(t, info.Checksum)
	assertSameSnapshot(t, sampleStore().Snapshot(), snap)
}

func TestSave_RequiresName(t *testing.T) {
	t.Parallel()

	_, err := openSQLite(t, false).Save(context.Background(), "  ", relaystore.Snapshot{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), slog.Default(), Config{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported")
}

func TestCodec_CompressedIsSmaller(t *testing.T) {
	t.Parallel()

	store := relaystore.New()
	store.Update(func(tx *relaystore.Tx) {
		for i := range 200 {
			rec := tx.GetOrCreate(relaystore.DataID(fmt.Sprintf("p%03d", i)), "Post")
			rec.SetValue("title", "A fairly repetitive post title")
			rec.SetValue("status", "published")
		}
	})
	snap := store.Snapshot()

	plain, err := encode(snap, false)
	require.NoError(t, err)
	packed, err := encode(snap, true)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(plain))

	back, err := decode(packed, true)
	require.NoError(t, err)
	assertSameSnapshot(t, snap, back)
}
