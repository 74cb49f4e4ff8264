package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/covid-board/internal/config"
	"github.com/samvad-hq/covid-board/internal/domain"
	"github.com/samvad-hq/covid-board/internal/logger"
	"github.com/samvad-hq/covid-board/internal/render"
	"github.com/samvad-hq/covid-board/internal/storage"
	"github.com/samvad-hq/covid-board/pkg/publishers"
)

// ErrUnknownRegion is returned by a click when the selected region is not
// part of the fetched snapshot and the missing-region policy is "error".
var ErrUnknownRegion = errors.New("unknown region")

// Fetcher retrieves one statistics snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.Snapshot, error)
}

// EventPublisher forwards rendered records downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Options tunes a Board. Zero values select a single render with the
// "error" missing-region policy and no history or publishing.
type Options struct {
	Region        string
	MissingRegion string
	WatchInterval time.Duration
	Store         storage.Store
	Publisher     EventPublisher
}

// Board renders the selected region of every fetched snapshot into a table.
type Board struct {
	fetcher   Fetcher
	table     render.Table
	region    string
	missing   string
	interval  time.Duration
	store     storage.Store
	publisher EventPublisher
	log       logger.Logger
}

// NewBoard binds a fetcher to a table.
func NewBoard(fetcher Fetcher, table render.Table, opts Options, log logger.Logger) (*Board, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher must not be nil")
	}
	if table == nil {
		return nil, errors.New("table must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	missing := opts.MissingRegion
	if missing == "" {
		missing = config.MissingRegionError
	}
	switch missing {
	case config.MissingRegionError, config.MissingRegionWarn, config.MissingRegionIgnore:
	default:
		return nil, fmt.Errorf("unsupported missing region policy %q", missing)
	}

	store := opts.Store
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}

	return &Board{
		fetcher:   fetcher,
		table:     table,
		region:    opts.Region,
		missing:   missing,
		interval:  opts.WatchInterval,
		store:     store,
		publisher: opts.Publisher,
		log:       log,
	}, nil
}

// Region returns the selected region.
func (b *Board) Region() string { return b.region }

// Click performs one fetch-and-render cycle. A rendered record is appended to
// the history store and published; failures of either are logged only.
func (b *Board) Click(ctx context.Context) error {
	if b == nil || b.fetcher == nil {
		return errors.New("board is not initialized")
	}

	snap, err := b.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	rec, ok := snap.Region(b.region)
	if err := b.UpdateView(snap); err != nil {
		return err
	}
	if !ok {
		return nil
	}

	b.record(ctx, snap, rec)
	return nil
}

// UpdateView replaces the table content with the selected region's row.
func (b *Board) UpdateView(snap domain.Snapshot) error {
	rec, ok := snap.Region(b.region)
	if !ok {
		return b.missingRegion(snap)
	}

	b.table.Clear()
	b.table.AddRows(rec.Row())
	if err := b.table.Draw(); err != nil {
		return fmt.Errorf("draw table: %w", err)
	}
	return nil
}

func (b *Board) missingRegion(snap domain.Snapshot) error {
	meta := map[string]any{
		"region":  b.region,
		"country": snap.Country,
		"regions": len(snap.Records),
	}

	switch b.missing {
	case config.MissingRegionIgnore:
		b.log.DebugObj("region not in snapshot; view unchanged", "board_missing_region", meta)
		return nil
	case config.MissingRegionWarn:
		b.log.WarnObj("region not in snapshot; rendering empty table", "board_missing_region", meta)
		b.table.Clear()
		if err := b.table.Draw(); err != nil {
			return fmt.Errorf("draw table: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q in %s snapshot", ErrUnknownRegion, b.region, snap.Country)
	}
}

func (b *Board) record(ctx context.Context, snap domain.Snapshot, rec domain.Record) {
	entry := storage.Entry{
		Country:   snap.Country,
		Region:    b.region,
		Record:    rec,
		FetchedAt: snap.FetchedAt,
	}
	if err := b.store.Append(entry); err != nil {
		b.log.WarnObj("history append failed", "board_history", map[string]any{
			"region": b.region,
			"error":  err.Error(),
		})
	}

	if b.publisher == nil {
		return
	}
	n, err := b.publisher.Publish(ctx, publishers.NewEvent(snap.Country, b.region, rec))
	if err != nil {
		b.log.WarnObj("publishing record failed", "board_publish", map[string]any{
			"region":    b.region,
			"delivered": n,
			"error":     err.Error(),
		})
		return
	}
	b.log.DebugObj("record published", "board_publish", map[string]any{
		"region":    b.region,
		"delivered": n,
	})
}

// Regions fetches a snapshot and returns its region names in lexical order.
func (b *Board) Regions(ctx context.Context) ([]string, error) {
	snap, err := b.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Regions(), nil
}

// History lists up to limit stored entries of the selected region, newest first.
func (b *Board) History(limit int) ([]storage.Entry, error) {
	entries, err := b.store.History(b.region, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return entries, nil
}

// Run clicks once and then once per watch interval until ctx is cancelled.
// Without a positive interval it returns after the first click.
func (b *Board) Run(ctx context.Context) error {
	if b == nil || b.fetcher == nil {
		return errors.New("board is not initialized")
	}

	if err := b.Click(ctx); err != nil {
		return err
	}
	if b.interval <= 0 {
		return nil
	}

	b.log.InfoObj("board watch loop starting", "board_state", map[string]any{
		"region":         b.region,
		"watch_interval": b.interval.String(),
	})

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.InfoObj("board watch loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := b.Click(ctx); err != nil {
				b.log.ErrorObj("scheduled refresh failed", "error", err)
			}
		}
	}
}
