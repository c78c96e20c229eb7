package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-storefront-client/internal/config"
	"github.com/juju/gnuflag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type globalOptions struct {
	envFile  string
	logLevel string
	offline  bool
	json     bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	var opts globalOptions
	f := gnuflag.NewFlagSet("storefront", gnuflag.ContinueOnError)
	f.StringVar(&opts.envFile, "env-file", "", "load variables from this file instead of ./.env")
	f.StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")
	f.BoolVar(&opts.offline, "offline", false, "use an in-memory cart backend")
	f.BoolVar(&opts.json, "json", false, "print results as JSON")
	if err := f.Parse(false, args); err != nil {
		return err
	}

	cfg, err := loadConfig(opts.envFile)
	if err != nil {
		return err
	}
	setupLogging(cfg, opts.logLevel, stderr)

	args = f.Args()
	if len(args) == 0 {
		displayAppname(stdout, cfg.GetAppName())
		printUsage(stdout)
		return nil
	}

	name := args[0]
	cmd, ok := lookupCommand(name)
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", name)
	}
	if err := parseCommand(cmd, args[1:]); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, cleanup, err := newEnv(ctx, cfg, opts, stdout, stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := e.app.Bootstrap(ctx); err != nil {
		log.Warn().Err(err).Msg("session check failed, continuing with stored session")
	}
	return cmd.Run(ctx, e)
}

func loadConfig(envFile string) (config.Config, error) {
	if envFile != "" {
		return config.NewFromFiles(envFile)
	}
	return config.New(), nil
}

func setupLogging(cfg config.Config, override string, w io.Writer) {
	levelName := cfg.GetLogLevel()
	if override != "" {
		levelName = override
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil || levelName == "" {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Str("app", cfg.GetAppName()).Logger()
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
