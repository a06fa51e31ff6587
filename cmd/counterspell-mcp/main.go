package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/counterspell/internal/config"
	"github.com/peterkuimelis/counterspell/internal/deck"
	"github.com/peterkuimelis/counterspell/internal/log"
	csmcp "github.com/peterkuimelis/counterspell/internal/mcp"
	"github.com/peterkuimelis/counterspell/internal/scryfall"
	"github.com/peterkuimelis/counterspell/internal/search"
)

func main() {
	configFile := flag.String("config", "counterspell.yaml", "path to config YAML file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := scryfall.NewClient(cfg.APIBaseURL, cfg.UserAgent, cfg.RequestTimeout.Std())
	logger := log.NewMemoryLogger()
	orchestrator := search.New(client, 0, logger)
	if !cfg.SearchCacheEnabled {
		orchestrator.DisableQueryCache()
	}
	store := deck.NewStore(logger)
	csmcp.SetSession(csmcp.NewSession(orchestrator, store, logger))

	s := server.NewMCPServer("counterspell", "1.0.0")
	csmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
