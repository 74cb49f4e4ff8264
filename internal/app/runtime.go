package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samvad-hq/covid-board/internal/config"
	"github.com/samvad-hq/covid-board/internal/domain"
	"github.com/samvad-hq/covid-board/internal/logger"
	"github.com/samvad-hq/covid-board/internal/render"
	"github.com/samvad-hq/covid-board/internal/stats"
	"github.com/samvad-hq/covid-board/internal/storage"
	"github.com/samvad-hq/covid-board/pkg/httpclient"
	"github.com/samvad-hq/covid-board/pkg/publishers"
	"github.com/samvad-hq/covid-board/pkg/xhr"
)

// Runtime owns the board together with the resources it was built from.
type Runtime struct {
	Board  *Board
	store  storage.Store
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewRuntime wires the stats service, table, history store and publishers
// described by cfg. Rendered output goes to out.
func NewRuntime(ctx context.Context, cfg *config.Config, out io.Writer, log logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	url, err := cfg.StatsURL()
	if err != nil {
		return nil, err
	}

	requester := xhr.NewRequester(httpclient.NewRestyClient(cfg.HTTPTimeout), log)
	service := stats.NewService(requester, url, cfg.Country, cfg.RequestHeaders, log)

	table, err := render.New(cfg.OutputFormat, out, domain.Columns, cfg.Color)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	fanout, err := publishers.FromFile(ctx, cfg.PublishersFile, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	if fanout.Size() > 0 {
		log.InfoObj("publishers registry loaded", "publishers", map[string]any{
			"file":  cfg.PublishersFile,
			"count": fanout.Size(),
		})
	}

	board, err := NewBoard(service, table, Options{
		Region:        cfg.Region,
		MissingRegion: cfg.MissingRegion,
		WatchInterval: cfg.WatchInterval,
		Store:         store,
		Publisher:     fanout,
	}, log)
	if err != nil {
		_ = store.Close()
		_ = fanout.Close()
		return nil, err
	}

	return &Runtime{Board: board, store: store, fanout: fanout, log: log}, nil
}

// Close releases the history store and publisher clients.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.fanout.Close(), r.store.Close())
}
