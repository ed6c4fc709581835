// -- cmd/simulate.go --
package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/config"
	"github.com/xkilldash9x/softphys/internal/engine"
	"github.com/xkilldash9x/softphys/internal/host"
	"github.com/xkilldash9x/softphys/internal/observability"
	"github.com/xkilldash9x/softphys/internal/reporting"
	"github.com/xkilldash9x/softphys/internal/store"
	"github.com/xkilldash9x/softphys/internal/tables"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type simulateOptions struct {
	frames      uint64
	realtime    bool
	trace       string
	traceFormat string
	watch       bool
	db          string
	mass        float64
	softness    float64
	quickness   float64
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Runs the control loop against the built-in simulated body",
		Long: `Runs the control loop against a simulated body swaying under Perlin noise and
prints the published physics settings and morph values when it finishes.
With --trace every frame is written as JSON lines or CSV; with --db (or
database.url) every frame is stored in PostgreSQL under the session id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := applySliderFlags(cmd, cfg, opts); err != nil {
				return err
			}
			return runSimulation(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.frames, "frames", 600, "number of frames to simulate (0 runs until interrupted)")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "pace frames at engine.tick_rate")
	cmd.Flags().StringVar(&opts.trace, "trace", "", "write every frame snapshot to this file (\"stdout\" for standard output)")
	cmd.Flags().StringVar(&opts.traceFormat, "trace-format", reporting.FormatJSONL, "trace format: jsonl or csv")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the config file on change")
	cmd.Flags().StringVar(&opts.db, "db", "", "PostgreSQL URL to store every frame in (overrides database.url)")
	cmd.Flags().Float64Var(&opts.mass, "mass", 0, "mass slider override in [0,1]")
	cmd.Flags().Float64Var(&opts.softness, "softness", 0, "softness slider override in [0,1]")
	cmd.Flags().Float64Var(&opts.quickness, "quickness", 0, "quickness slider override in [-1,1]")
	return cmd
}

// applySliderFlags copies explicitly set slider flags over the configuration.
func applySliderFlags(cmd *cobra.Command, cfg *config.Config, opts *simulateOptions) error {
	s := cfg.Sliders()
	if cmd.Flags().Changed("mass") {
		s.Mass = opts.mass
	}
	if cmd.Flags().Changed("softness") {
		s.Softness = opts.softness
	}
	if cmd.Flags().Changed("quickness") {
		s.Quickness = opts.quickness
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid slider flags: %w", err)
	}
	cfg.SetSliders(s)
	return nil
}

func simOptions(sc config.SimulationConfig) host.SimOptions {
	return host.SimOptions{
		FixedTimestep: sc.FixedTimestep,
		Seed:          sc.Seed,
		Sway: host.Sway{
			BasePitch:      sc.BasePitch,
			BaseRoll:       sc.BaseRoll,
			PitchAmplitude: sc.PitchAmplitude,
			RollAmplitude:  sc.RollAmplitude,
			Bounce:         sc.Bounce,
			Frequency:      sc.Frequency,
		},
	}
}

func runSimulation(ctx context.Context, out io.Writer, cfg *config.Config, opts *simulateOptions) error {
	logger := observability.GetLogger().Named("simulate")

	h, err := tables.NewSimHost(simOptions(cfg.Simulation()))
	if err != nil {
		return fmt.Errorf("building simulated host: %w", err)
	}
	e, err := engine.New(engine.Context{Logger: logger, Host: h}, engine.OptionsFromConfig(cfg.Engine()), engine.DefaultData())
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	if err := e.ApplyConfig(cfg); err != nil {
		// Overrides that do not resolve are reported and skipped.
		logger.Warn("Some configuration overrides were not applied", zap.Error(err))
	}

	if opts.watch {
		if v, ok := viperFromContext(ctx); ok && v.ConfigFileUsed() != "" {
			config.Watch(v, logger, func(next *config.Config) {
				if err := observability.SetLevel(next.Logger().Level); err != nil {
					logger.Warn("Keeping the current log level", zap.Error(err))
				}
				if err := e.ApplyConfig(next); err != nil {
					logger.Warn("Reloaded configuration partially applied", zap.Error(err))
				}
			})
		} else {
			logger.Warn("--watch needs a config file; hot reload disabled")
		}
	}

	// Sink resources are opened before any goroutine starts so a failure leaves nothing running.
	var rep reporting.Reporter
	if opts.trace != "" {
		if rep, err = reporting.New(opts.traceFormat, opts.trace); err != nil {
			return fmt.Errorf("creating trace: %w", err)
		}
	}

	dbURL := cfg.Database().URL
	if opts.db != "" {
		dbURL = opts.db
	}
	var writer *store.FrameWriter
	if dbURL != "" {
		writer, err = openFrameWriter(ctx, dbURL, e.SessionID(), cfg.Database().BatchSize, logger)
		if err != nil {
			if rep != nil {
				rep.Close()
			}
			return err
		}
		defer writer.Close()
	}

	g, gctx := errgroup.WithContext(ctx)
	runnerOpts := engine.RunnerOptions{
		TickRate:  cfg.Engine().TickRate,
		Realtime:  opts.realtime,
		MaxFrames: opts.frames,
		Step:      h.Step,
	}

	// Every consumer gets its own channel; the runner blocks on the slowest.
	var sinks []chan schemas.FrameSnapshot
	addSink := func(consume func(<-chan schemas.FrameSnapshot) error) {
		ch := make(chan schemas.FrameSnapshot, 64)
		sinks = append(sinks, ch)
		g.Go(func() error { return consume(ch) })
	}
	if rep != nil {
		addSink(func(frames <-chan schemas.FrameSnapshot) error { return reporting.Drain(rep, frames) })
	}
	if writer != nil {
		// The tail of an interrupted run is still committed.
		flushCtx := context.WithoutCancel(gctx)
		addSink(func(frames <-chan schemas.FrameSnapshot) error { return writer.Drain(flushCtx, frames) })
	}

	if len(sinks) > 0 {
		runnerOpts.Sink = func(s schemas.FrameSnapshot) error {
			for _, ch := range sinks {
				select {
				case ch <- s:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		}
	}

	runner := engine.NewRunner(e, runnerOpts)
	g.Go(func() error {
		defer func() {
			for _, ch := range sinks {
				close(ch)
			}
		}()
		return runner.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	logger.Info("Simulation finished",
		zap.String("session_id", e.SessionID()),
		zap.Uint64("frames", runner.Frames()),
		zap.Float64("simulated_seconds", h.Elapsed()))
	if writer != nil {
		fmt.Fprintf(out, "session\t%s (%d frames stored)\n", e.SessionID(), writer.Written())
	}
	return printSummary(out, e.Snapshot(), h.Elapsed())
}

// openFrameWriter connects to PostgreSQL, prepares the schema and returns a writer
// for the session. Closing the writer closes the pool.
func openFrameWriter(ctx context.Context, url, sessionID string, batchSize int, logger *zap.Logger) (*store.FrameWriter, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	st, err := store.New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return st.NewFrameWriter(sessionID, batchSize).OnClose(pool.Close), nil
}

func printSummary(out io.Writer, snap schemas.FrameSnapshot, elapsed float64) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "frames\t%d\n", snap.Frame)
	if elapsed > 0 {
		fmt.Fprintf(tw, "simulated\t%.2fs\n", elapsed)
	}
	fmt.Fprintf(tw, "calibration\t%s\n", snap.Calibration)
	fmt.Fprintf(tw, "pitch / roll\t%.2f / %.2f\n", snap.Pitch, snap.Roll)

	section := func(title string, values map[string]float64) {
		if len(values) == 0 {
			return
		}
		fmt.Fprintf(tw, "\n%s\t\n", title)
		for _, k := range sortedKeys(values) {
			fmt.Fprintf(tw, "  %s\t%.4f\n", k, values[k])
		}
	}
	section("settings", snap.Settings)
	section("morphs", snap.Morphs)
	section("colliders", snap.Colliders)
	return tw.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
