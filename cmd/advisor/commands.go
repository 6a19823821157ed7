package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StockAdvisor/internal/app"
	"StockAdvisor/internal/config"
	"StockAdvisor/internal/display"
	"StockAdvisor/internal/notifier"
	"StockAdvisor/internal/pipeline"
	"StockAdvisor/internal/scheduler"
	"StockAdvisor/internal/server"
)

func newRootCmd() *cobra.Command {
	var a *app.App

	rootCmd := &cobra.Command{
		Use:           "advisor",
		Short:         "StockAdvisor - technical indicators with an AI recommendation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Path())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			a, err = app.Open(cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
		},
	}

	get := func() *app.App { return a }
	rootCmd.AddCommand(
		analyzeCmd(get),
		historyCmd(get),
		clearHistoryCmd(get),
		runsCmd(get),
		serveCmd(get),
		botCmd(get),
	)
	return rootCmd
}

// fail releases a before returning err; cobra skips PersistentPostRun when
// RunE fails.
func fail(a *app.App, err error) error {
	if a != nil {
		a.Close()
	}
	return err
}

func analyzeCmd(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze TICKER",
		Short: "Analyze a ticker and print the recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx := cmd.Context()
			an, err := a.Analyzer(ctx)
			if err != nil {
				return fail(a, err)
			}

			ticker := pipeline.NormalizeTicker(args[0])
			res, err := an.Analyze(ctx, ticker)
			if err != nil {
				if errors.Is(err, pipeline.ErrInvalidTicker) {
					return fail(a, fmt.Errorf("please enter a valid ticker, got %q", args[0]))
				}
				return fail(a, fmt.Errorf("error analyzing %s: %w", ticker, err))
			}
			if err := a.Cache.StoreTicker(ctx, ticker); err != nil {
				log.Printf("[ERROR] store history %s: %v", ticker, err)
			}
			fmt.Println(display.Analysis(res))
			return nil
		},
	}
}

func historyCmd(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recently analyzed tickers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(display.History(get().Cache.GetHistory(cmd.Context())))
		},
	}
}

func clearHistoryCmd(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-history",
		Short: "Clear the recently analyzed list (cached results are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.Cache.ClearHistory(cmd.Context()); err != nil {
				return fail(a, fmt.Errorf("clear history: %w", err))
			}
			fmt.Println("History cleared.")
			return nil
		},
	}
}

func runsCmd(get func() *app.App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded analysis attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			events, err := a.Recorder.RecentAnalyses(limit)
			if err != nil {
				return fail(a, fmt.Errorf("list runs: %w", err))
			}
			fmt.Println(display.Runs(events))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func serveCmd(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			an, err := a.Analyzer(ctx)
			if err != nil {
				return fail(a, err)
			}
			srv := server.New(an, a.Cache, a.Registry)
			if err := srv.Run(ctx, a.Config.Server.Addr); err != nil {
				return fail(a, err)
			}
			return nil
		},
	}
}

func botCmd(get func() *app.App) *cobra.Command {
	var warmOnStart bool
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot and the watchlist warmer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			cfg := a.Config
			if err := cfg.RequireTelegram(); err != nil {
				return fail(a, err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			an, err := a.Analyzer(ctx)
			if err != nil {
				return fail(a, err)
			}

			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			sched := scheduler.NewScheduler(ctx, an, a.Cache, tn, cfg.Schedule.Watchlist)
			if err := sched.RegisterAll(cfg.Schedule.WarmCron); err != nil {
				return fail(a, fmt.Errorf("register cron tasks: %w", err))
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Println("[INFO] Telegram polling started")

			if warmOnStart {
				log.Println("[INFO] warming watchlist now")
				go sched.RunWarmNow()
			}

			log.Println("[INFO] StockAdvisor bot is running. Press Ctrl+C to stop.")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
			return nil
		},
	}
	cmd.Flags().BoolVar(&warmOnStart, "warm-now", os.Getenv("RUN_ON_START") == "true", "warm the watchlist immediately")
	return cmd
}
