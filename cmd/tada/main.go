package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	fs := pflag.NewFlagSet("tada", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	groupPending := fs.Bool("group", false, "group output by pending/done")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 2
	}
	ui.SetColorMode(cfg.Color)

	opts := logging.DefaultOptions()
	opts.Level = cfg.Level
	logger := logging.New(os.Stderr, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kv, err := store.OpenStorage(ctx, store.BackendOptions{
		Backend:       cfg.Backend,
		DataFile:      cfg.DataFile,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		RedisPrefix:   cfg.Redis.Prefix,
		RedisTimeout:  cfg.Redis.TimeoutDuration,
	})
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 1
	}
	defer kv.Close()
	logger.Debug("storage ready", "backend", cfg.Backend, "file", cfg.DataFile)

	// Hand the remaining args to the CLI runner.
	code := cli.Run(ctx, fs.Args(), cli.Options{
		Group:   *groupPending,
		Storage: kv,
		Logger:  logger,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
