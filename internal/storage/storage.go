// Package storage keeps a local history of rendered region records.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/covid-board/internal/domain"
)

// Entry is one rendered record.
type Entry struct {
	Country   string        `json:"country" yaml:"country"`
	Region    string        `json:"region" yaml:"region"`
	Record    domain.Record `json:"record" yaml:"record"`
	FetchedAt time.Time     `json:"fetched_at" yaml:"fetched_at"`
}

// Store records history entries and lists them per region.
type Store interface {
	Close() error
	Append(e Entry) error
	// History returns up to limit unexpired entries for region, newest first.
	History(region string, limit int) ([]Entry, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) Append(Entry) error                    { return nil }
func (noopStore) History(string, int) ([]Entry, error) { return nil, nil }
