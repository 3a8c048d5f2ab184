package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

// Save stores snap under name, replacing any previous snapshot of that name.
func (s *Store) Save(ctx context.Context, name string, snap relaystore.Snapshot) (Info, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Info{}, domain.NewValidationError("name", "required")
	}

	payload, err := encode(snap, s.compress)
	if err != nil {
		return Info{}, fmt.Errorf("encode snapshot %s: %w", name, err)
	}
	info := Info{
		Name:       name,
		Records:    len(snap.Records),
		Compressed: s.compress,
		Bytes:      len(payload),
		Checksum:   checksum(payload),
		SavedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	query, args, err := s.builder.
		Insert(table).
		Columns("name", "payload", "compressed", "records", "checksum", "saved_at").
		Values(info.Name, payload, info.Compressed, info.Records, info.Checksum, info.SavedAt.UnixMilli()).
		Suffix("ON CONFLICT (name) DO UPDATE SET " +
			"payload = excluded.payload, compressed = excluded.compressed, " +
			"records = excluded.records, checksum = excluded.checksum, saved_at = excluded.saved_at").
		ToSql()
	if err != nil {
		return Info{}, fmt.Errorf("build save query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return Info{}, mapError(err, name)
	}

	s.log.InfoContext(ctx, "snapshot saved",
		slog.String("name", name),
		slog.Int("records", info.Records),
		slog.Int("bytes", info.Bytes),
	)
	return info, nil
}

// Load returns the snapshot stored under name, or domain.ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (relaystore.Snapshot, Info, error) {
	query, args, err := s.builder.
		Select("payload", "compressed", "records", "checksum", "saved_at").
		From(table).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return relaystore.Snapshot{}, Info{}, fmt.Errorf("build load query: %w", err)
	}

	var (
		payload []byte
		savedAt int64
		info    = Info{Name: name}
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload, &info.Compressed, &info.Records, &info.Checksum, &savedAt)
	if err != nil {
		return relaystore.Snapshot{}, Info{}, mapError(err, name)
	}
	info.Bytes = len(payload)
	info.SavedAt = time.UnixMilli(savedAt).UTC()

	if err := verify(payload, info.Checksum); err != nil {
		return relaystore.Snapshot{}, Info{}, fmt.Errorf("snapshot %s: %w", name, err)
	}
	snap, err := decode(payload, info.Compressed)
	if err != nil {
		return relaystore.Snapshot{}, Info{}, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return snap, info, nil
}

// List returns every stored snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	query, args, err := s.builder.
		Select("name", "compressed", "records", "checksum", "saved_at", "length(payload)").
		From(table).
		OrderBy("saved_at DESC", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			info    Info
			savedAt int64
		)
		if err := rows.Scan(&info.Name, &info.Compressed, &info.Records, &info.Checksum, &savedAt, &info.Bytes); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	query, args, err := s.builder.
		Delete(table).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", name, domain.ErrNotFound)
	}
	return nil
}
