package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"subwaystatus.org/internal/appconf"
)

func main() {
	var (
		configPath  string
		port        int
		env         string
		verbose     bool
		rateLimit   int
		corsOrigins string
		stationList string
		outagesURL  string
	)

	flag.StringVar(&configPath, "config", "", "Path to a YAML config file (default: search config.yml, ./config/config.yml)")
	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|test|production)")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.IntVar(&rateLimit, "rate-limit", 0, "Requests per second per client (0 disables limiting)")
	flag.StringVar(&corsOrigins, "cors-origins", "http://localhost:5173", "Comma separated origins allowed by CORS")
	flag.StringVar(&stationList, "stations", "", "Comma separated station sources tried in order (.txt, .csv, .zip, .db)")
	flag.StringVar(&outagesURL, "outages-url", appconf.DefaultOutagesURL, "Elevator and escalator outage document URL")
	flag.Parse()

	paths := appconf.DefaultConfigPaths
	if configPath != "" {
		paths = []string{configPath}
	}
	cfg, usedPath, err := appconf.Load(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if configPath != "" && usedPath == "" {
		fmt.Fprintf(os.Stderr, "config file %s not found\n", configPath)
		os.Exit(1)
	}

	// Flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = port
		case "env":
			cfg.EnvName = env
			cfg.Env = appconf.EnvFlagToEnvironment(env)
		case "verbose":
			cfg.Verbose = verbose
		case "rate-limit":
			cfg.RateLimit = rateLimit
		case "cors-origins":
			cfg.CORSOrigins = ParseList(corsOrigins)
		case "stations":
			cfg.StationPaths = ParseList(stationList)
		case "outages-url":
			cfg.OutagesURL = outagesURL
		}
	})

	coreApp, err := BuildApplication(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if usedPath != "" {
		coreApp.Logger.Info("loaded config file", slog.String("path", usedPath))
	}

	srv, api := CreateServer(coreApp, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, srv, api, coreApp.Logger); err != nil {
		coreApp.Logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
