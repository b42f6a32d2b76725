package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dawn/internal/bootstrap"
	sessiondto "dawn/internal/modules/session/dto"
	"dawn/internal/platform/config"
	"dawn/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir    string
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dawn",
		Short:         "Morning wake-up protocol with reaction scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default ~/.dawn)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <data-dir>/dawn.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newStartCmd(opts))
	root.AddCommand(newTestCmd(opts))
	root.AddCommand(newEnergyCmd(opts))
	root.AddCommand(newCompleteCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newDashboardCmd(opts))
	root.AddCommand(newProtocolCmd(opts))
	root.AddCommand(newBillingCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTUICmd(opts))
	return root
}

func loadApp(ctx context.Context, opts *rootOptions) (*bootstrap.App, error) {
	dataDir := opts.dataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		dataDir = filepath.Join(home, ".dawn")
	}
	cfg, err := config.Load(dataDir, opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging, opts.verbose)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, logger)
}

// withApp loads the app, runs fn, and releases the app afterwards.
func withApp(opts *rootOptions, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := context.Background()
	app, err := loadApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
		_ = app.Logger.Sync()
	}()
	return fn(ctx, app)
}

func newStartCmd(opts *rootOptions) *cobra.Command {
	var mode, wake string
	var maintenance bool
	start := &cobra.Command{
		Use:   "start",
		Short: "Start today's session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wakeAt, err := parseWake(wake, time.Now())
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(ctx, app.OwnerID, app.DeviceID, mode, wakeAt, maintenance)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "session started: %s day=%d/%d plan=%s protocol=%s\n", out.SessionID, out.DayIndex+1, out.ProgramDays, out.Plan, out.Protocol.ID)
				for i, s := range out.Protocol.Steps {
					_, _ = fmt.Fprintf(w, "  %d. %s (%ds)\n", i+1, s.Name, s.DurationSeconds)
				}
				return nil
			})
		},
	}
	start.Flags().StringVar(&mode, "context", "standard", "wake context: standard|low_light|gentle")
	start.Flags().StringVar(&wake, "wake", "", "reported wake time today (HH:MM)")
	start.Flags().BoolVar(&maintenance, "maintenance", false, "accept the maintenance protocol once free sessions are used up")
	return start
}

func newTestCmd(opts *rootOptions) *cobra.Command {
	var sessionID, samplesFile string
	var reactions []float64
	test := &cobra.Command{
		Use:       "test <pre|post>",
		Short:     "Record a reaction test",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pre", "post"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(reactions) == 0 && samplesFile == "" {
				return fmt.Errorf("--reactions or --samples-file is required")
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				var (
					out sessiondto.RecordTestOutput
					err error
				)
				if samplesFile != "" {
					events, rerr := readEvents(samplesFile)
					if rerr != nil {
						return rerr
					}
					out, err = app.SessionCLI.RecordReactions(ctx, app.OwnerID, sessionID, args[0], events)
				} else {
					out, err = app.SessionCLI.RecordTest(ctx, app.OwnerID, sessionID, args[0], reactions)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s test: score=%d median=%dms mean=%dms best=%dms worst=%dms samples=%d\n",
					out.Timing, out.Score, out.MedianMS, out.MeanMS, out.BestMS, out.WorstMS, out.Samples)
				return nil
			})
		},
	}
	test.Flags().StringVar(&sessionID, "session-id", "", "optional session id (defaults to active session)")
	test.Flags().Float64SliceVar(&reactions, "reactions", nil, "reaction times in ms, comma separated")
	test.Flags().StringVar(&samplesFile, "samples-file", "", "JSON file of reaction events")
	return test
}

func newEnergyCmd(opts *rootOptions) *cobra.Command {
	var sessionID string
	energy := &cobra.Command{
		Use:   "energy <pre|post> <1-5>",
		Short: "Record a self-reported energy rating",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rating int
			if _, err := fmt.Sscanf(args[1], "%d", &rating); err != nil {
				return fmt.Errorf("rating must be a number: %w", err)
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.RecordEnergy(ctx, app.OwnerID, sessionID, args[0], rating)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "energy %s=%d recorded for %s\n", args[0], rating, out.SessionID)
				return nil
			})
		},
	}
	energy.Flags().StringVar(&sessionID, "session-id", "", "optional session id (defaults to active session)")
	return energy
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	var sessionID string
	var skipPost bool
	complete := &cobra.Command{
		Use:   "complete",
		Short: "Complete the session and estimate minutes saved",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				if !skipPost && sessionID == "" {
					active, err := app.SessionCLI.GetActive(ctx, app.OwnerID)
					if err != nil {
						return err
					}
					if active.PostScore == nil {
						return fmt.Errorf("no post test recorded: run `dawn test post` or pass --skip-post-test")
					}
				}
				out, err := app.SessionCLI.Complete(ctx, app.OwnerID, sessionID)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "session complete: %s day=%d/%d\n", out.SessionID, out.DayIndex+1, out.ProgramDays)
				if out.PreScore != nil && out.PostScore != nil {
					_, _ = fmt.Fprintf(w, "  reaction %d -> %d (%+d, %d%%) improved=%t\n", *out.PreScore, *out.PostScore, out.Delta, out.PercentChange, out.Improved)
				}
				_, _ = fmt.Fprintf(w, "  minutes saved ~%d\n", out.MinutesSaved)
				if out.JournalPath != "" {
					_, _ = fmt.Fprintf(w, "  journal %s\n", out.JournalPath)
				}
				return nil
			})
		},
	}
	complete.Flags().StringVar(&sessionID, "session-id", "", "optional session id (defaults to active session)")
	complete.Flags().BoolVar(&skipPost, "skip-post-test", false, "complete without a post test")
	return complete
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	status := &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.GetActive(ctx, app.OwnerID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active: %s context=%s day=%d protocol=%s started=%s pre=%s post=%s\n",
					out.SessionID, out.Context, out.DayIndex+1, out.ProtocolID, out.StartedAt.Format(time.RFC3339), optInt(out.PreScore), optInt(out.PostScore))
				return nil
			})
		},
	}
	status.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return status
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Show progress across the program",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Dashboard(ctx, app.OwnerID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "day %d of %d  streak=%d  minutes saved=%d  recent=%v\n",
					min(out.DayIndex+1, out.ProgramDays), out.ProgramDays, out.Streak, out.TotalMinutesSaved, out.RecentDeltas)
				if len(out.Sessions) == 0 {
					_, _ = fmt.Fprintln(w, "no completed sessions")
					return nil
				}
				for _, s := range out.Sessions {
					_, _ = fmt.Fprintf(w, "%s  %-9s pre=%-4s post=%-4s energy=%s->%s saved=%s\n",
						s.StartedAt.Local().Format("2006-01-02 15:04"), s.Context,
						optInt(s.PreScore), optInt(s.PostScore), optInt(s.EnergyPre), optInt(s.EnergyPost), optInt(s.MinutesSaved))
				}
				return nil
			})
		},
	}
	dashboard.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return dashboard
}

func newProtocolCmd(opts *rootOptions) *cobra.Command {
	protocol := &cobra.Command{Use: "protocol", Short: "Protocol catalog"}

	var mode string
	var day int
	var deltas []int
	var maintenance bool
	preview := &cobra.Command{
		Use:   "preview",
		Short: "Show the protocol selected for a day and recent history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ProtocolCLI.Preview(ctx, mode, day, deltas, maintenance)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s  %s  %ds\n", out.ID, out.Name, out.TotalDurationSeconds)
				for i, s := range out.Steps {
					_, _ = fmt.Fprintf(w, "  %d. [%s] %s (%ds)\n", i+1, s.Kind, s.Name, s.DurationSeconds)
					if c := s.BreathCadence; c != nil {
						_, _ = fmt.Fprintf(w, "     in %ds hold %ds out %ds x%d\n", c.InhaleSeconds, c.HoldSeconds, c.ExhaleSeconds, c.Cycles)
					}
				}
				return nil
			})
		},
	}
	preview.Flags().StringVar(&mode, "context", "standard", "wake context: standard|low_light|gentle")
	preview.Flags().IntVar(&day, "day", 0, "zero-based day index")
	preview.Flags().IntSliceVar(&deltas, "delta", nil, "recent score deltas, oldest first")
	preview.Flags().BoolVar(&maintenance, "maintenance", false, "show the maintenance protocol")

	protocol.AddCommand(preview)
	return protocol
}

func newBillingCmd(opts *rootOptions) *cobra.Command {
	billing := &cobra.Command{Use: "billing", Short: "Plan and subscription state"}

	billing.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out := app.BillingCLI.Show(ctx, app.OwnerID)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan=%s status=%s subscribed=%s\n", out.Plan, out.Status, out.SubscribedPlan)
				return nil
			})
		},
	})

	var plan, priceID, status, periodEnd string
	set := &cobra.Command{
		Use:   "set",
		Short: "Record a subscription (plan or provider price id)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var end *time.Time
			if periodEnd != "" {
				t, err := time.Parse(time.RFC3339, periodEnd)
				if err != nil {
					return fmt.Errorf("--period-end must be RFC3339: %w", err)
				}
				end = &t
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.BillingCLI.Set(ctx, app.OwnerID, plan, priceID, status, end)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan=%s status=%s\n", out.Plan, out.Status)
				return nil
			})
		},
	}
	set.Flags().StringVar(&plan, "plan", "", "plan: plus|pro")
	set.Flags().StringVar(&priceID, "price-id", "", "provider price id")
	set.Flags().StringVar(&status, "status", "", "subscription status (default active)")
	set.Flags().StringVar(&periodEnd, "period-end", "", "current period end (RFC3339)")

	billing.AddCommand(set, &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the subscription",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.BillingCLI.Cancel(ctx, app.OwnerID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan=%s status=%s\n", out.Plan, out.Status)
				return nil
			})
		},
	})
	return billing
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a device-local session export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Import(ctx, app.OwnerID, payload)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported=%d updated=%d skipped=%d\n", out.Imported, out.Updated, out.Skipped)
				return nil
			})
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
				_ = app.Logger.Sync()
			}()
			if addr != "" {
				app.Config.HTTP.Addr = addr
			}
			app.Logger.Info("serving", zap.String("addr", app.Config.HTTP.Addr), zap.String("owner_id", app.OwnerID))
			return app.Serve(ctx)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return serve
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the guided morning session in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app)
			})
		},
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func parseWake(value string, now time.Time) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("15:04", value, now.Location())
	if err != nil {
		return nil, fmt.Errorf("--wake must be HH:MM: %w", err)
	}
	wake := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	return &wake, nil
}

// readEvents loads reaction events in the device export shape.
func readEvents(path string) ([]sessiondto.ReactionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var events []sessiondto.ReactionEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	out := make([]sessiondto.ReactionInput, 0, len(events))
	for _, e := range events {
		shown := time.UnixMilli(e.StimulusShownAt).UTC()
		out = append(out, sessiondto.ReactionInput{
			StimulusShownAt: shown,
			RespondedAt:     shown.Add(time.Duration(e.ReactionTimeMS * float64(time.Millisecond))),
		})
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
