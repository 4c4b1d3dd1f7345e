// Command devctl is the DeviceTracker operations CLI.
//
// Usage:
//
//	devctl migrate up
//	devctl devices list
//	devctl devices add --serial C02XY123 --type MACBOOK
//	devctl devices maintain <id> [<id>...]
//	devctl session import --type IPAD < serials.txt
//	devctl export --scope overdue --out devices.csv
//	devctl notify rebuild --immediate
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/devtrack/devicetracker/internal/audit"
	"github.com/devtrack/devicetracker/internal/config"
	"github.com/devtrack/devicetracker/internal/db"
	"github.com/devtrack/devicetracker/internal/device"
	"github.com/devtrack/devicetracker/internal/export"
	"github.com/devtrack/devicetracker/internal/notify"
	"github.com/devtrack/devicetracker/internal/session"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "devctl",
		Short: "DeviceTracker operations CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(devicesCmd())
	root.AddCommand(sessionCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(notifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply embedded schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := db.Migrate(cfg.DatabaseURL, args[0]); err != nil {
				return err
			}
			logger.Info("Migrations applied", "direction", args[0])
			return nil
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// devices command
// --------------------------------------------------------------------------

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage the device inventory",
	}
	cmd.AddCommand(devicesListCmd())
	cmd.AddCommand(devicesAddCmd())
	cmd.AddCommand(devicesMaintainCmd())
	cmd.AddCommand(devicesDeleteCmd())
	return cmd
}

func devicesListCmd() *cobra.Command {
	var scope string
	var horizon int
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices, optionally filtered by audit scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := device.NewStore(pool.Pool, logger)
				devices, err := store.List(ctx)
				if err != nil {
					return err
				}

				today := audit.StartOfDay(time.Now().In(cfg.Location()))
				h := audit.ClampHorizon(horizon)
				filtered := audit.Search(audit.Filter(devices, audit.ParseScope(scope), today, h), query)

				for _, d := range filtered {
					due := "-"
					if d.NextDue != nil {
						due = d.NextDue.Format("2006-01-02")
					}
					fmt.Printf("%-36s  %-12s  %-8s  due %s\n", d.ID, d.Serial, d.Type, due)
				}
				counts := audit.Count(devices, today, h)
				fmt.Printf("\n%d shown / %d total (%d overdue, %d due within %dd, %d due this month)\n",
					len(filtered), counts.Total, counts.Overdue, counts.DueSoon, h, counts.DueThisMonth)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "all", "Audit scope (all, overdue, due_soon)")
	cmd.Flags().IntVar(&horizon, "horizon", audit.DefaultHorizonDays, "Due-soon look-ahead in days (1-365)")
	cmd.Flags().StringVar(&query, "q", "", "Search serial or type")
	return cmd
}

func devicesAddCmd() *cobra.Command {
	var serial, typ string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one device maintained today",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serial == "" {
				return fmt.Errorf("--serial is required")
			}
			return mutateAndRebuild(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				t, ok := device.ParseType(typ)
				if !ok {
					logger.Warn("unknown device type, using fallback", "type", typ, "fallback", t)
				}
				now := time.Now()
				next := device.NextDueAfter(now)
				d := device.Device{
					Serial:          serial,
					Type:            t,
					LastMaintenance: now,
					NextDue:         &next,
				}
				store := device.NewStore(pool.Pool, logger)
				if err := store.Insert(ctx, &d); err != nil {
					return err
				}
				logger.Info("Device added", "id", d.ID, "serial", d.Serial, "next_due", next.Format("2006-01-02"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&serial, "serial", "", "Device serial")
	cmd.Flags().StringVar(&typ, "type", string(device.TypeMacBook), "Device type (MACBOOK, IPAD, DESKTOP)")
	return cmd
}

func devicesMaintainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintain <id> [<id>...]",
		Short: "Record a maintenance today for the given devices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateAndRebuild(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := device.NewStore(pool.Pool, logger)
				updated, err := store.MaintainToday(ctx, args, time.Now())
				if err != nil {
					return err
				}
				logger.Info("Maintenance recorded", "requested", len(args), "updated", updated)
				return nil
			})
		},
	}
	return cmd
}

func devicesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a device from the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateAndRebuild(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := device.NewStore(pool.Pool, logger)
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				logger.Info("Device deleted", "id", args[0])
				return nil
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// session command
// --------------------------------------------------------------------------

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Batch-import devices recorded during a maintenance session",
	}
	cmd.AddCommand(sessionImportCmd())
	return cmd
}

func sessionImportCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Read serials from stdin and add them maintained today",
		Long: `Reads serials from stdin (newline, comma, or whitespace separated),
normalizes them, drops empties and duplicates, and inserts the rest with
last maintenance = today and next due = today + 3 months.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			return mutateAndRebuild(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				t, _ := device.ParseType(typ)
				rows := session.ParseSerials(string(text), t, time.Now())
				valid := session.ValidRows(rows)
				if len(valid) == 0 {
					return fmt.Errorf("no valid serials on stdin")
				}

				store := device.NewStore(pool.Pool, logger)
				inserted, err := store.InsertBatch(ctx, session.Devices(valid))
				if err != nil {
					return err
				}
				logger.Info("Session imported", "parsed", len(rows), "valid", len(valid), "inserted", inserted)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(device.TypeMacBook), "Device type for all imported serials")
	return cmd
}

// --------------------------------------------------------------------------
// export command
// --------------------------------------------------------------------------

func exportCmd() *cobra.Command {
	var scope, query, out string
	var horizon int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the audit view as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := device.NewStore(pool.Pool, logger)
				devices, err := store.List(ctx)
				if err != nil {
					return err
				}

				today := audit.StartOfDay(time.Now().In(cfg.Location()))
				filtered := audit.Search(audit.Filter(devices, audit.ParseScope(scope), today, audit.ClampHorizon(horizon)), query)

				w := cmd.OutOrStdout()
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("create %s: %w", out, err)
					}
					defer f.Close()
					w = f
				}
				if err := export.WriteCSV(w, filtered); err != nil {
					return err
				}
				if out != "" {
					logger.Info("Export written", "file", out, "devices", len(filtered))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "all", "Audit scope (all, overdue, due_soon)")
	cmd.Flags().IntVar(&horizon, "horizon", audit.DefaultHorizonDays, "Due-soon look-ahead in days (1-365)")
	cmd.Flags().StringVar(&query, "q", "", "Search serial or type")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

// --------------------------------------------------------------------------
// notify command
// --------------------------------------------------------------------------

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Manage summary notifications",
	}
	cmd.AddCommand(notifyRebuildCmd())
	cmd.AddCommand(notifyPendingCmd())
	return cmd
}

func notifyRebuildCmd() *cobra.Command {
	var immediate bool
	var hour int
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild both summary notifications from the stored inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hour < 0 || hour > 23 {
				return fmt.Errorf("--hour must be 0-23, got %d", hour)
			}
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				mode := notify.MorningAt(hour)
				if immediate {
					mode = notify.Immediate()
				}
				return rebuildOnce(ctx, cfg, pool, mode)
			})
		},
	}
	cmd.Flags().BoolVar(&immediate, "immediate", false, "Fire the due-this-month summary right away")
	cmd.Flags().IntVar(&hour, "hour", notify.DefaultMorningHour, "Morning hour for the due-this-month summary")
	return cmd
}

func notifyPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List notifications still waiting to fire",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				pending, err := notify.NewStore(pool.Pool).Pending(ctx)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Println("no pending notifications")
					return nil
				}
				for _, n := range pending {
					fmt.Printf("%-24s  fires %s  %s\n",
						n.Identifier, n.FireAt.Format(time.RFC3339), strconv.Quote(n.Body))
				}
				return nil
			})
		},
	}
	return cmd
}

// rebuildOnce runs a single synchronous rebuild cycle. The CLI has no
// scheduler goroutine; one shot per invocation is the serialization.
// Declared as a variable so command tests can observe the call.
var rebuildOnce = func(ctx context.Context, cfg *config.Config, pool *db.Pool, mode notify.Mode) error {
	devices := device.NewStore(pool.Pool, logger)
	notes := notify.NewStore(pool.Pool)
	badge := notify.NewCountBadge()
	rebuilder := notify.NewRebuilder(devices, notes, badge, mode, cfg.Location(), logger)
	rebuilder.Rebuild(ctx)
	logger.Info("Summaries rebuilt", "overdue_badge", badge.Value())
	return nil
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

type poolFn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error

// andRebuild wraps a mutation so that a successful run is always followed
// by a rebuild cycle, the CLI counterpart of the API's post-mutation hook.
// A failed mutation leaves the summaries untouched.
func andRebuild(fn poolFn) poolFn {
	return func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
		if err := fn(ctx, cfg, pool); err != nil {
			return err
		}
		return rebuildOnce(ctx, cfg, pool, notify.DefaultMode())
	}
}

// mutateAndRebuild is the entry point every mutating command goes through.
func mutateAndRebuild(fn poolFn) error {
	return runWithPool(andRebuild(fn))
}

// runWithPool handles config loading, DB connection, and context cancellation.
func runWithPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
