package snapshot

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/deicod/ermblog-console/internal/relaystore"
)

// ErrCorrupt is returned by Load when a payload no longer matches the
// checksum recorded when it was saved.
var ErrCorrupt = errors.New("snapshot payload corrupt")

// checksum is the hex BLAKE2b-256 digest of a stored payload.
func checksum(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// verify checks payload against want. Snapshots saved before checksums
// were recorded carry an empty want and are accepted.
func verify(payload []byte, want string) error {
	if want == "" || checksum(payload) == want {
		return nil
	}
	return ErrCorrupt
}

func encode(snap relaystore.Snapshot, compress bool) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	if !compress {
		return raw, nil
	}

	var buf bytes.Buffer
	encoder, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	if _, err := encoder.Write(raw); err != nil {
		encoder.Close()
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing zstd encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(payload []byte, compressed bool) (relaystore.Snapshot, error) {
	var snap relaystore.Snapshot

	raw := payload
	if compressed {
		decoder, err := zstd.NewReader(bytes.NewReader(payload))
		if err != nil {
			return snap, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer decoder.Close()

		raw, err = io.ReadAll(decoder)
		if err != nil {
			return snap, fmt.Errorf("decompressing: %w", err)
		}
	}

	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}
