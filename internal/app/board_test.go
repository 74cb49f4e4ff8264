package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/covid-board/internal/config"
	"github.com/samvad-hq/covid-board/internal/domain"
	"github.com/samvad-hq/covid-board/internal/storage"
	"github.com/samvad-hq/covid-board/pkg/publishers"
)

type stubFetcher struct {
	mu    sync.Mutex
	snap  domain.Snapshot
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.snap, s.err
}

func (s *stubFetcher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingTable struct {
	ops  []string
	rows [][]string
	err  error
}

func (r *recordingTable) Clear() {
	r.ops = append(r.ops, "clear")
	r.rows = nil
}

func (r *recordingTable) AddRows(rows ...[]string) {
	r.ops = append(r.ops, "add")
	r.rows = append(r.rows, rows...)
}

func (r *recordingTable) Draw() error {
	r.ops = append(r.ops, "draw")
	return r.err
}

type recordingPublisher struct {
	events []publishers.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	r.events = append(r.events, evt)
	if r.err != nil {
		return 0, r.err
	}
	return 1, nil
}

func berlinSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Country:   "Germany",
		FetchedAt: time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC),
		Records: map[string]domain.Record{
			"Berlin": {Lat: "52.52", Long: "13.40", Confirmed: 120, Recovered: 100, Deaths: 3},
			"All":    {Confirmed: 1000, Recovered: 900, Deaths: 30, Country: "Germany"},
		},
	}
}

func TestClickRendersSelectedRegion(t *testing.T) {
	table := &recordingTable{}
	pub := &recordingPublisher{}
	board, err := NewBoard(&stubFetcher{snap: berlinSnapshot()}, table, Options{
		Region:    "Berlin",
		Publisher: pub,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, board.Click(context.Background()))

	assert.Equal(t, []string{"clear", "add", "draw"}, table.ops)
	assert.Equal(t, [][]string{{"52.52", "13.40", "120", "100", "3"}}, table.rows)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "Berlin", pub.events[0].Region)
	assert.Equal(t, "Germany", pub.events[0].Country)
	assert.Equal(t, int64(120), pub.events[0].Record.Confirmed)
}

func TestClickFetchErrorLeavesTableUntouched(t *testing.T) {
	table := &recordingTable{}
	boom := errors.New("fetch statistics: boom")
	board, err := NewBoard(&stubFetcher{err: boom}, table, Options{Region: "Berlin"}, nil)
	require.NoError(t, err)

	err = board.Click(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, table.ops)
}

func TestMissingRegionPolicies(t *testing.T) {
	cases := []struct {
		policy  string
		wantErr bool
		wantOps []string
	}{
		{policy: "", wantErr: true, wantOps: nil},
		{policy: config.MissingRegionError, wantErr: true, wantOps: nil},
		{policy: config.MissingRegionWarn, wantOps: []string{"clear", "draw"}},
		{policy: config.MissingRegionIgnore, wantOps: nil},
	}

	for _, tc := range cases {
		t.Run("policy="+tc.policy, func(t *testing.T) {
			table := &recordingTable{}
			pub := &recordingPublisher{}
			board, err := NewBoard(&stubFetcher{snap: berlinSnapshot()}, table, Options{
				Region:        "Atlantis",
				MissingRegion: tc.policy,
				Publisher:     pub,
			}, nil)
			require.NoError(t, err)

			err = board.Click(context.Background())
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownRegion)
				assert.Contains(t, err.Error(), "Atlantis")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantOps, table.ops)
			assert.Empty(t, pub.events)
		})
	}
}

func TestNewBoardValidation(t *testing.T) {
	_, err := NewBoard(nil, &recordingTable{}, Options{}, nil)
	assert.Error(t, err)

	_, err = NewBoard(&stubFetcher{}, nil, Options{}, nil)
	assert.Error(t, err)

	_, err = NewBoard(&stubFetcher{}, &recordingTable{}, Options{MissingRegion: "panic"}, nil)
	assert.Error(t, err)
}

func TestDrawErrorIsReturned(t *testing.T) {
	table := &recordingTable{err: errors.New("closed pipe")}
	board, err := NewBoard(&stubFetcher{snap: berlinSnapshot()}, table, Options{Region: "Berlin"}, nil)
	require.NoError(t, err)

	assert.ErrorContains(t, board.Click(context.Background()), "closed pipe")
}

func TestPublishFailureDoesNotFailClick(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("queue down")}
	board, err := NewBoard(&stubFetcher{snap: berlinSnapshot()}, &recordingTable{}, Options{
		Region:    "Berlin",
		Publisher: pub,
	}, nil)
	require.NoError(t, err)

	assert.NoError(t, board.Click(context.Background()))
	assert.Len(t, pub.events, 1)
}

func TestClickAppendsHistory(t *testing.T) {
	store, err := storage.NewStore("bbolt", filepath.Join(t.TempDir(), "history.db"), storage.Options{})
	require.NoError(t, err)
	defer store.Close()

	board, err := NewBoard(&stubFetcher{snap: berlinSnapshot()}, &recordingTable{}, Options{
		Region: "Berlin",
		Store:  store,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, board.Click(context.Background()))
	require.NoError(t, board.Click(context.Background()))

	entries, err := board.History(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Berlin", entries[0].Region)
	assert.Equal(t, int64(3), entries[0].Record.Deaths)
}

func TestRegionsSorted(t *testing.T) {
	board, err := NewBoard(&stubFetcher{snap: berlinSnapshot()}, &recordingTable{}, Options{Region: "All"}, nil)
	require.NoError(t, err)

	regions, err := board.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Berlin"}, regions)
}

func TestRunSingleShot(t *testing.T) {
	fetcher := &stubFetcher{snap: berlinSnapshot()}
	board, err := NewBoard(fetcher, &recordingTable{}, Options{Region: "Berlin"}, nil)
	require.NoError(t, err)

	require.NoError(t, board.Run(context.Background()))
	assert.Equal(t, 1, fetcher.count())
}

func TestRunWatchesUntilCancelled(t *testing.T) {
	fetcher := &stubFetcher{snap: berlinSnapshot()}
	board, err := NewBoard(fetcher, &recordingTable{}, Options{
		Region:        "Berlin",
		WatchInterval: 10 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- board.Run(ctx) }()

	require.Eventually(t, func() bool { return fetcher.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunInitialFailure(t *testing.T) {
	board, err := NewBoard(&stubFetcher{err: errors.New("offline")}, &recordingTable{}, Options{
		Region:        "Berlin",
		WatchInterval: time.Hour,
	}, nil)
	require.NoError(t, err)

	assert.ErrorContains(t, board.Run(context.Background()), "offline")
}

func TestRuntimeEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("country") != "Germany" {
			http.Error(w, "bad country", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"All": {"confirmed": 1000, "recovered": 900, "deaths": 30, "country": "Germany"},
			"Hamburg": {"lat": "53.55", "long": "9.99", "confirmed": 50, "recovered": 40, "deaths": 1}
		}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		StatsBaseURL:  srv.URL + "/v1/cases",
		Country:       "Germany",
		Region:        "Hamburg",
		MissingRegion: config.MissingRegionError,
		OutputFormat:  config.OutputCSV,
		Color:         config.ColorNever,
		StorageType:   "none",
	}

	var out bytes.Buffer
	rt, err := NewRuntime(context.Background(), cfg, &out, nil)
	require.NoError(t, err)
	defer rt.Close()

	require.NoError(t, rt.Board.Run(context.Background()))
	assert.Equal(t, "Lat,Long,Confirmed,Recovered,Deaths\n53.55,9.99,50,40,1\n", out.String())
}
