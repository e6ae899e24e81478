package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/feedmesh/blogroll/pkg/config"
	"github.com/feedmesh/blogroll/pkg/metadata"
	"github.com/feedmesh/blogroll/pkg/service"
	"github.com/feedmesh/blogroll/pkg/store"
	"github.com/feedmesh/blogroll/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] blogroll failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires the stores, services and HTTP server together and blocks until
// the context is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLog(opts.Debug, cfg.Email.Password)
	log.Printf("[INFO] starting blogroll version %s", revision)

	stores, err := store.NewStores(ctx, store.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer func() {
		if err := stores.DB.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	fetcher := metadata.NewFetcher(cfg.Metadata.Timeout)
	wellknown := service.NewWellknown(cfg.Site.PublicDir, cfg.SiteURL())
	mentions := NewMentionsClient(cfg.Mentions.Endpoint, cfg.Mentions.Timeout)

	svc := service.NewService(service.Params{
		Store:           stores.Recommendations,
		Clicks:          stores.ClickEvents,
		Subscribes:      stores.SubscribeEvents,
		Settings:        stores.Settings,
		Fetcher:         fetcher,
		Mentions:        mentions,
		Wellknown:       wellknown,
		RefreshInterval: cfg.Refresh.Interval,
		MaxWorkers:      cfg.Refresh.MaxWorkers,
	})
	if err := svc.Init(ctx); err != nil {
		return fmt.Errorf("failed to init recommendation service: %w", err)
	}
	defer svc.Stop()

	var sender service.EmailSender = LogSender{}
	if cfg.Email.Host != "" {
		sender = NewSMTPSender(cfg.Email)
	}

	incoming := service.NewIncoming(service.IncomingParams{
		Mentions:        mentions,
		Recommendations: svc,
		Sender:          sender,
		Recipients:      cfg.Email.Recipients,
		RefreshInterval: cfg.Refresh.Interval,
	})
	incoming.Init(ctx)
	defer incoming.Stop()

	srv := server.New(cfg, svc, incoming, revision, opts.Debug)
	return srv.Run(ctx)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	secrets := make([]string, 0, len(secs))
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
