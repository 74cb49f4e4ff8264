package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/covid-board/internal/app"
	"github.com/samvad-hq/covid-board/internal/config"
	"github.com/samvad-hq/covid-board/internal/domain"
	"github.com/samvad-hq/covid-board/internal/logger"
	"github.com/samvad-hq/covid-board/internal/render"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "covid-board",
		Short:         "Render COVID-19 case statistics for one region",
		Long:          "covid-board fetches case statistics per region of a country and renders the selected region as a table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShow,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Fetch and render the selected region (default)",
			Args:  cobra.NoArgs,
			RunE:  runShow,
		},
		&cobra.Command{
			Use:   "regions",
			Short: "List the regions known to the statistics endpoint",
			Args:  cobra.NoArgs,
			RunE:  runRegions,
		},
		&cobra.Command{
			Use:   "history",
			Short: "List stored records of the selected region, newest first",
			Args:  cobra.NoArgs,
			RunE:  runHistory,
		},
	)
	return root
}

// session is the per-invocation state shared by the subcommands.
type session struct {
	cfg     *config.Config
	runtime *app.Runtime
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	logger.DebugObj("covid-board starting", "config", cfg)

	rt, err := app.NewRuntime(cmd.Context(), cfg, cmd.OutOrStdout(), log)
	if err != nil {
		logger.ErrorObj("failed to initialize board", "error", err)
		_ = logger.Close()
		return nil, err
	}
	return &session{cfg: cfg, runtime: rt}, nil
}

func (s *session) close() {
	if err := s.runtime.Close(); err != nil {
		logger.WarnObj("closing board resources failed", "error", err)
	}
	_ = logger.Close()
}

func runShow(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	return s.runtime.Board.Run(cmd.Context())
}

func runRegions(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	regions, err := s.runtime.Board.Regions(cmd.Context())
	if err != nil {
		return err
	}

	table, err := render.New(s.cfg.OutputFormat, cmd.OutOrStdout(), []string{"Region"}, s.cfg.Color)
	if err != nil {
		return err
	}
	for _, r := range regions {
		table.AddRows([]string{r})
	}
	return table.Draw()
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	entries, err := s.runtime.Board.History(s.cfg.HistoryLimit)
	if err != nil {
		return err
	}

	columns := append([]string{"Fetched At"}, domain.Columns...)
	table, err := render.New(s.cfg.OutputFormat, cmd.OutOrStdout(), columns, s.cfg.Color)
	if err != nil {
		return err
	}
	for _, e := range entries {
		table.AddRows(append([]string{e.FetchedAt.Format(time.RFC3339)}, e.Record.Row()...))
	}
	return table.Draw()
}
