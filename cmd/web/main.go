package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/peterkuimelis/counterspell/internal/config"
	"github.com/peterkuimelis/counterspell/internal/deck"
	"github.com/peterkuimelis/counterspell/internal/log"
	"github.com/peterkuimelis/counterspell/internal/scryfall"
	"github.com/peterkuimelis/counterspell/internal/search"
	"github.com/peterkuimelis/counterspell/internal/web"
)

func main() {
	configFile := flag.String("config", "counterspell.yaml", "path to config YAML file")
	port := flag.Int("port", 0, "HTTP port to listen on, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.ListenAddr = fmt.Sprintf(":%d", *port)
	}

	client := scryfall.NewClient(cfg.APIBaseURL, cfg.UserAgent, cfg.RequestTimeout.Std())
	logger := log.NewTextLogger(os.Stderr)
	orchestrator := search.New(client, cfg.SimulatedLatency.Std(), logger)
	if !cfg.SearchCacheEnabled {
		orchestrator.DisableQueryCache()
	}
	store := deck.NewStore(logger)

	srv := web.NewServer(orchestrator, store)

	stdlog.Printf("counterspell web UI listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
