package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chathaven/warden/guardmod"
	"github.com/chathaven/warden/guardmod/audit"
	"github.com/chathaven/warden/guardmod/countstore"
	"github.com/chathaven/warden/guardmod/flagstore"
	"github.com/chathaven/warden/guardmod/progression"
	"github.com/chathaven/warden/guardmod/raid"
	"github.com/chathaven/warden/guardmod/rules"
	"github.com/chathaven/warden/guardmod/strikes"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "warden",
		Usage:   "trust-and-safety decision engine daemon",
		Version: versioninfo.Short(),
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the admin/ingest API",
			Value:   ":3899",
			EnvVars: []string{"WARDEN_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics",
			Value:   ":3898",
			EnvVars: []string{"WARDEN_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "path of the sqlite audit database (empty disables persistence)",
			Value:   "data/warden/audit.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis URL for counters (empty uses in-process counters)",
			EnvVars: []string{"WARDEN_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "sets-json-path",
			Usage:   "file path of JSON file containing keyword sets to load",
			EnvVars: []string{"WARDEN_SETS_JSON_PATH"},
		},
		&cli.StringFlag{
			Name:    "webhook-url",
			Usage:   "URL to POST decisions to, for third-party automation",
			EnvVars: []string{"WARDEN_WEBHOOK_URL"},
		},
		&cli.IntFlag{
			Name:    "strike-threshold",
			Usage:   "number of strikes at which a user is banned",
			Value:   3,
			EnvVars: []string{"STRIKE_THRESHOLD"},
		},
		&cli.IntFlag{
			Name:    "mute-duration",
			Usage:   "automatic mute duration, in seconds",
			Value:   3600,
			EnvVars: []string{"AUTO_MUTE_DURATION"},
		},
		&cli.BoolFlag{
			Name:    "spam-filter-enabled",
			Value:   true,
			EnvVars: []string{"SPAM_FILTER_ENABLED"},
		},
		&cli.BoolFlag{
			Name:    "anti-raid-enabled",
			Value:   true,
			EnvVars: []string{"ANTI_RAID_ENABLED"},
		},
		&cli.IntFlag{
			Name:    "raid-threshold",
			Usage:   "joins within the raid window that count as a raid",
			Value:   10,
			EnvVars: []string{"RAID_THRESHOLD"},
		},
		&cli.IntFlag{
			Name:    "raid-window",
			Usage:   "raid detection window, in seconds",
			Value:   60,
			EnvVars: []string{"RAID_WINDOW"},
		},
		&cli.IntFlag{
			Name:    "message-cooldown",
			Usage:   "minimum interval between message XP rewards, in seconds",
			Value:   60,
			EnvVars: []string{"MESSAGE_COOLDOWN"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		cfg := guardmod.Config{
			StrikeThreshold:   cctx.Int("strike-threshold"),
			MuteDuration:      time.Duration(cctx.Int("mute-duration")) * time.Second,
			SpamFilterEnabled: cctx.Bool("spam-filter-enabled"),
			AntiRaidEnabled:   cctx.Bool("anti-raid-enabled"),
			RaidThreshold:     cctx.Int("raid-threshold"),
			RaidWindow:        time.Duration(cctx.Int("raid-window")) * time.Second,
			MessageCooldown:   time.Duration(cctx.Int("message-cooldown")) * time.Second,
		}

		sets := rules.DefaultSets()
		if p := cctx.String("sets-json-path"); p != "" {
			if err := sets.LoadFromFileJSON(p); err != nil {
				return fmt.Errorf("loading set config: %w", err)
			}
			logger.Info("loaded set config from JSON", "path", p)
		}

		var counters countstore.CountStore
		if redisURL := cctx.String("redis-url"); redisURL != "" {
			cnt, err := countstore.NewRedisCountStore(redisURL)
			if err != nil {
				return fmt.Errorf("initializing redis countstore: %w", err)
			}
			counters = cnt
			logger.Info("using redis countstore")
		} else {
			counters = countstore.NewMemCountStore()
		}

		var sink audit.Sink
		var store *audit.Store
		if dbPath := cctx.String("database-url"); dbPath != "" {
			var err error
			store, err = audit.OpenSQLite(dbPath, logger)
			if err != nil {
				return fmt.Errorf("initializing audit store: %w", err)
			}
			defer store.Close()
			sink = store
		} else {
			sink = audit.NewMemSink()
		}

		eng := &guardmod.Engine{
			Logger: logger,
			Config: cfg,
			Settings: guardmod.NewSettingsStore(guardmod.ChatSettings{
				SpamFilterEnabled: cfg.SpamFilterEnabled,
				AntiRaidEnabled:   cfg.AntiRaidEnabled,
			}),
			Rules:    rules.DefaultRules(),
			Strikes:  strikes.NewLedger(cfg.StrikeThreshold, cfg.MuteDuration),
			Progress: progression.NewLedger(cfg.MessageCooldown),
			Raids:    raid.NewDetector(cfg.RaidThreshold, cfg.RaidWindow),
			Sets:     sets,
			Counters: counters,
			Flags:    flagstore.NewMemFlagStore(),
			Audit:    sink,
		}
		if whURL := cctx.String("webhook-url"); whURL != "" {
			eng.Notifier = guardmod.NewWebhookNotifier(whURL)
			logger.Info("webhook notifications enabled")
		}

		srv := NewServer(eng, store, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return srv.RunAPI(ctx, cctx.String("bind"))
		})
		eg.Go(func() error {
			return srv.RunMetrics(ctx, cctx.String("metrics-listen"))
		})
		eg.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown()
		})

		logger.Info("warden running", "version", versioninfo.Short())
		if err := eg.Wait(); err != nil {
			return fmt.Errorf("service failed: %w", err)
		}
		return nil
	},
}
