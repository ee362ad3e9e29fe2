package activation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RecordFileName is the discovery record's file name inside the data directory
const RecordFileName = "activation.json"

// DefaultRecordPath returns the well-known per-user discovery record path
func DefaultRecordPath(dataDir string) string {
	return filepath.Join(dataDir, RecordFileName)
}

// PublishRecord writes the discovery record for the given listener port and
// token. The write goes through a temp file in the same directory followed
// by a rename so a concurrent reader never observes a partial record.
func PublishRecord(path string, port int, token Token) error {
	rec := Record{
		Port:    port,
		Token:   string(token),
		Created: time.Now().UTC(),
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("failed to encode discovery record: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create discovery directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, RecordFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp discovery file: %w", err)
	}
	tmpName := tmp.Name()

	// The record carries the session token; keep it owner-only
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set discovery file permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write discovery record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close discovery file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish discovery record: %w", err)
	}

	return nil
}

// ReadRecord reads and validates the discovery record at path. A stale
// record (daemon exited without cleanup) is indistinguishable from a live
// one by content; callers detect staleness by connection failure.
func ReadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read discovery record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse discovery record: %w", err)
	}

	if rec.Port <= 0 || rec.Port > 65535 {
		return nil, fmt.Errorf("discovery record has invalid port %d", rec.Port)
	}
	if rec.Token == "" {
		return nil, fmt.Errorf("discovery record has empty token")
	}

	return &rec, nil
}

// RemoveRecord deletes the discovery record. Missing files are not an
// error; the record may never have been published.
func RemoveRecord(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove discovery record: %w", err)
	}
	return nil
}
