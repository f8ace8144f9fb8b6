// Command recap polls competitionsuite for new DCI events and posts the
// target corps' Visual caption recap.
//
// Usage:
//
//	recap poll
//	recap poll --no-post --year 2022
//	recap events --year 2022
//	recap preview --event 1c9a0f3e-...
//	recap seen list --format yaml
//	recap watch
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/dci-recap/internal/config"
	"github.com/albapepper/dci-recap/internal/metrics"
	"github.com/albapepper/dci-recap/internal/poll"
	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
	"github.com/albapepper/dci-recap/internal/publish"
	"github.com/albapepper/dci-recap/internal/seen"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "recap",
		Short:         "DCI Visual caption recap poster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(pollCmd())
	root.AddCommand(eventsCmd())
	root.AddCommand(previewCmd())
	root.AddCommand(seenCmd())
	root.AddCommand(watchCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// poll command
// --------------------------------------------------------------------------

func pollCmd() *cobra.Command {
	var noPost bool
	var year int
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Run one poll cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(cfg *config.Config) {
				if noPost {
					cfg.PublishEnabled = false
				}
				if year > 0 {
					cfg.Year = year
				}
			}, func(ctx context.Context, a *app) error {
				_, err := poll.NewRunner(a.cycle).Run(ctx)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&noPost, "no-post", false, "Render and record recaps without publishing")
	cmd.Flags().IntVar(&year, "year", 0, "Competition year (default: COMPETITION_YEAR)")
	return cmd
}

// --------------------------------------------------------------------------
// events command
// --------------------------------------------------------------------------

func eventsCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the year's upstream events and whether each has been handled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(withYear(year), func(ctx context.Context, a *app) error {
				events, err := a.cycle.Events(ctx)
				if err != nil {
					return err
				}
				return writeEvents(cmd.OutOrStdout(), events)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Competition year (default: COMPETITION_YEAR)")
	return cmd
}

// --------------------------------------------------------------------------
// preview command
// --------------------------------------------------------------------------

func previewCmd() *cobra.Command {
	var eventID string
	var year int
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render one event's recap without publishing or recording it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(withYear(year), func(ctx context.Context, a *app) error {
				p, err := a.cycle.Preview(ctx, eventID)
				if err != nil {
					return err
				}
				if !p.Found {
					fmt.Fprintf(cmd.OutOrStdout(), "%s did not compete in %s\n", a.cfg.TargetParticipant, eventID)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), p.Markdown)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&eventID, "event", "", "Upstream event id (CompetitionGuid)")
	cmd.Flags().IntVar(&year, "year", 0, "Year used to look up the event's name and date")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

// --------------------------------------------------------------------------
// seen command
// --------------------------------------------------------------------------

func seenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seen",
		Short: "Inspect the seen record",
	}
	cmd.AddCommand(seenListCmd())
	return cmd
}

func seenListCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every handled event",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(nil, func(ctx context.Context, a *app) error {
				record, err := a.store.Load(ctx)
				if err != nil {
					return err
				}
				return writeSeen(cmd.OutOrStdout(), record.Entries(), format)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}

// --------------------------------------------------------------------------
// watch command
// --------------------------------------------------------------------------

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll every POLL_INTERVAL until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(nil, func(ctx context.Context, a *app) error {
				poll.StartWorker(ctx, poll.NewRunner(a.cycle), a.cfg.PollInterval, logger)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

type app struct {
	cfg   *config.Config
	store seen.Store
	cycle *poll.Cycle
}

func withYear(year int) func(*config.Config) {
	return func(cfg *config.Config) {
		if year > 0 {
			cfg.Year = year
		}
	}
}

// run handles config loading, store and collaborator construction, and
// context cancellation.
func run(override func(*config.Config), fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level, _ := cfg.SlogLevel()
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := seen.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open seen store: %w", err)
	}
	defer store.Close()

	publisher, err := publish.New(cfg, logger.With("component", "publish"))
	if err != nil {
		return err
	}

	fetcher := competitionsuite.NewClient(cfg.UpstreamBaseURL, cfg.UserAgent, cfg.UpstreamRequestsPerMinute,
		logger.With("component", "competitionsuite"))
	cycle := poll.NewCycle(fetcher, store, publisher, poll.OptionsFromConfig(cfg),
		logger.With("component", "poll"), metrics.New())

	return fn(ctx, &app{cfg: cfg, store: store, cycle: cycle})
}
