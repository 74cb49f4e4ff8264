package stats

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/samvad-hq/covid-board/internal/domain"
	"github.com/samvad-hq/covid-board/internal/logger"
	"github.com/samvad-hq/covid-board/pkg/xhr"
)

// Requester issues the underlying transfer.
type Requester interface {
	Send(ctx context.Context, url string, opts *xhr.Options) *xhr.Promise
}

// Service fetches case statistics snapshots from the statistics endpoint.
type Service struct {
	requester Requester
	url       string
	country   string
	headers   map[string]string
	log       logger.Logger
}

// NewService builds a fetcher for url. headers are sent verbatim with every request.
func NewService(requester Requester, url, country string, headers map[string]string, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		requester: requester,
		url:       url,
		country:   country,
		headers:   maps.Clone(headers),
		log:       log,
	}
}

// Fetch retrieves and decodes one snapshot.
func (s *Service) Fetch(ctx context.Context) (domain.Snapshot, error) {
	if s == nil || s.requester == nil {
		return domain.Snapshot{}, errors.New("stats service is not initialized")
	}

	start := time.Now()
	p := s.requester.Send(ctx, s.url, &xhr.Options{
		ResponseType: xhr.ResponseJSON,
		Headers:      s.headers,
	})
	payload, err := p.Await(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch statistics: %w", err)
	}

	records, err := decodeRecords(payload)
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.log.InfoObj("statistics fetched", "stats_fetch", map[string]any{
		"country":    s.country,
		"regions":    len(records),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	return domain.Snapshot{
		Country:   s.country,
		FetchedAt: time.Now().UTC(),
		Records:   records,
	}, nil
}

// decodeRecords converts the region-keyed JSON object into records. The API
// mixes strings and numbers for the same field, so decoding is weakly typed.
func decodeRecords(payload any) (map[string]domain.Record, error) {
	raw, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode statistics: expected object keyed by region, got %T", payload)
	}

	records := make(map[string]domain.Record, len(raw))
	for region, value := range raw {
		var rec domain.Record
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           &rec,
		})
		if err != nil {
			return nil, fmt.Errorf("decode statistics: %w", err)
		}
		if err := dec.Decode(value); err != nil {
			return nil, fmt.Errorf("decode region %q: %w", region, err)
		}
		records[region] = rec
	}
	return records, nil
}
