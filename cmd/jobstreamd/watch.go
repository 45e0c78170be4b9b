package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jobstream/internal/jobevents"
	"jobstream/internal/jobregistry"
	"jobstream/internal/logging"
	"jobstream/internal/runtime"
	"jobstream/internal/topology"
	"jobstream/pkg/types"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Run an in-process registry and print its job events as JSON lines",
		Example: "  jobstreamd watch --jobs ingest,export --for 2s",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			d, _ := cmd.Flags().GetDuration("for")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			if d > 0 {
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}
			log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
			if err != nil {
				return err
			}
			return watch(ctx, cfg.Jobs, cmd.OutOrStdout(), log)
		},
	}
	cmd.Flags().Duration("for", 0, "Stop after this long (0 waits for a signal)")
	return cmd
}

// watch registers a record per name, streams registry events to w until ctx
// is done, and then closes the records so their removal is printed too.
func watch(ctx context.Context, names []string, w io.Writer, log zerolog.Logger) error {
	reg := jobregistry.New()
	reg.SetLogger(log)
	svcs := runtime.NewServices()
	reg.Publish(svcs)
	provider := topology.NewProvider(svcs)
	provider.SetLogger(log)

	top := provider.NewTopology("watch")
	enc := json.NewEncoder(w)
	jobevents.Source(top, jobevents.ToEvent, jobevents.WithLogger(log)).
		Sink(func(ev types.JobEvent) {
			if err := enc.Encode(ev); err != nil {
				log.Warn().Err(err).Msg("write event")
			}
		})
	e, err := provider.Submit(top)
	if err != nil {
		return fmt.Errorf("submit watch: %w", err)
	}

	records := make([]*jobregistry.Record, 0, len(names))
	for _, n := range names {
		rec := jobregistry.NewRecord(n)
		if err := reg.AddJob(rec); err != nil {
			e.Close()
			return err
		}
		rec.SetState(jobregistry.StateRunning)
		reg.UpdateJob(rec)
		records = append(records, rec)
	}

	select {
	case <-ctx.Done():
	case <-e.Done():
	}
	for _, rec := range records {
		rec.SetState(jobregistry.StateClosed)
		reg.UpdateJob(rec)
		reg.RemoveJob(rec.ID())
	}
	e.Close()
	return nil
}
