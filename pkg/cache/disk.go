package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Disk stores one JSON file per course URL under ~/.manabify_cache
type Disk struct {
	dir string
	ttl time.Duration
}

// NewDisk creates the cache directory in the user's home if needed
func NewDisk() (*Disk, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not find user home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".manabify_cache")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create cache directory: %w", err)
	}

	return &Disk{dir: dir, ttl: cacheDuration}, nil
}

// getCachePath derives a filesystem safe name from the course URL
func (d *Disk) getCachePath(url string) string {
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
	return filepath.Join(d.dir, name+".json")
}

// Get returns a valid, unexpired record for this URL
func (d *Disk) Get(_ context.Context, url string) (Record, bool, error) {
	data, err := os.ReadFile(d.getCachePath(url))
	if err != nil {
		return Record{}, false, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, nil
	}

	if time.Since(rec.Timestamp) > d.ttl {
		return Record{}, false, nil
	}

	return rec, true, nil
}

// Put saves the record to disk
func (d *Disk) Put(_ context.Context, url string, rec Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache record: %w", err)
	}

	if err := os.WriteFile(d.getCachePath(url), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	return nil
}

// Clear removes every cached record
func (d *Disk) Clear(_ context.Context) error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("failed to list cache directory: %w", err)
	}

	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", e.Name(), err)
		}
	}
	return nil
}
