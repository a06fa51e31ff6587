package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/counterspell/internal/config"
	"github.com/peterkuimelis/counterspell/internal/deck"
	"github.com/peterkuimelis/counterspell/internal/log"
	"github.com/peterkuimelis/counterspell/internal/scryfall"
	"github.com/peterkuimelis/counterspell/internal/search"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "search":
		runSearch(os.Args[2:])
	case "build":
		runBuild(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  counterspell search -q QUERY [--config FILE]")
	fmt.Println("  counterspell build [--config FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  search  Run a one-shot card search and print the results")
	fmt.Println("  build   Start an interactive deck-building session")
}

func newOrchestrator(configFile string, logger log.EventLogger) *search.Orchestrator {
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	client := scryfall.NewClient(cfg.APIBaseURL, cfg.UserAgent, cfg.RequestTimeout.Std())
	orchestrator := search.New(client, cfg.SimulatedLatency.Std(), logger)
	if !cfg.SearchCacheEnabled {
		orchestrator.DisableQueryCache()
	}
	return orchestrator
}

func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "Scryfall search query")
	configFile := fs.String("config", "counterspell.yaml", "path to config file")
	fs.Parse(args)

	orchestrator := newOrchestrator(*configFile, nil)
	page, err := orchestrator.Search(context.Background(), *query)
	if err != nil {
		fmt.Fprintln(os.Stderr, search.UserMessage(err))
		os.Exit(1)
	}
	printPage(page)
}

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configFile := fs.String("config", "counterspell.yaml", "path to config file")
	fs.Parse(args)

	logger := log.NewMemoryLogger()
	orchestrator := newOrchestrator(*configFile, logger)
	store := deck.NewStore(logger)

	// Reprint the deck after every mutation, mirroring the web UI's
	// WebSocket-driven re-render.
	store.Subscribe(func() {
		printDeck(store.Snapshot())
	})

	fmt.Println("Counter Spell deck builder. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "help":
			printBuildHelp()
		case "quit", "exit":
			return
		case "search":
			page, err := orchestrator.Search(context.Background(), rest)
			if err != nil {
				fmt.Println(search.UserMessage(err))
				continue
			}
			printPage(page)
		case "commander":
			addCommander(orchestrator, store, rest)
		case "add":
			addCard(orchestrator, store, deck.ZoneMainboard, rest)
		case "side":
			addCard(orchestrator, store, deck.ZoneSideboard, rest)
		case "maybe":
			addCard(orchestrator, store, deck.ZoneMaybeboard, rest)
		case "remove":
			removeCard(store, rest)
		case "name":
			store.SetName(rest)
			fmt.Printf("Deck named %q\n", rest)
		case "show":
			printDeck(store.Snapshot())
		case "log":
			fmt.Print(log.FormatAll(logger.Events()))
		case "clear":
			store.Clear()
			fmt.Println("Deck cleared")
		default:
			fmt.Printf("Unknown command %q. Type 'help' for commands.\n", cmd)
		}
	}
}

func printBuildHelp() {
	fmt.Println("Commands:")
	fmt.Println("  search QUERY       search for cards")
	fmt.Println("  commander NAME     add a card from the results as commander")
	fmt.Println("  add [N] NAME       add N copies (default 1) to the mainboard")
	fmt.Println("  side [N] NAME      add N copies to the sideboard")
	fmt.Println("  maybe [N] NAME     add N copies to the maybeboard")
	fmt.Println("  remove [ZONE] NAME remove a card from a zone (default mainboard)")
	fmt.Println("  name NAME          rename the deck")
	fmt.Println("  show               print the current deck")
	fmt.Println("  clear              reset the deck")
	fmt.Println("  log                print the session's event log")
	fmt.Println("  quit               leave the builder")
}

func addCommander(orchestrator *search.Orchestrator, store *deck.Store, name string) {
	card, ok := orchestrator.CardByName(name)
	if !ok {
		fmt.Printf("Card %q not found in any search result. Search for it first.\n", name)
		return
	}
	if err := store.AddToCommander(card); err != nil {
		fmt.Println("You already have two commanders. Remove one before adding another.")
		return
	}
	fmt.Printf("Added %s as commander\n", card.Name)
}

// addCard accepts "NAME" or "N NAME" where N is a copy count.
func addCard(orchestrator *search.Orchestrator, store *deck.Store, zone deck.Zone, rest string) {
	quantity := 1
	name := rest
	if first, tail, ok := strings.Cut(rest, " "); ok {
		if n, err := strconv.Atoi(first); err == nil {
			quantity = n
			name = strings.TrimSpace(tail)
		}
	}

	card, ok := orchestrator.CardByName(name)
	if !ok {
		fmt.Printf("Card %q not found in any search result. Search for it first.\n", name)
		return
	}
	if err := store.AddToZone(zone, card, quantity); err != nil {
		fmt.Println("Quantity must be a whole number of at least 1")
		return
	}
	fmt.Printf("Added %dx %s to %s\n", quantity, card.Name, zone)
}

// removeCard accepts "NAME" or "ZONE NAME" and resolves the card against
// the deck snapshot, so anything visible in 'show' can be removed.
func removeCard(store *deck.Store, rest string) {
	zone := deck.ZoneMainboard
	name := rest
	if first, tail, ok := strings.Cut(rest, " "); ok {
		if z, err := deck.ParseZone(first); err == nil {
			zone = z
			name = strings.TrimSpace(tail)
		}
	}

	id, ok := store.Snapshot().CardID(zone, name)
	if !ok {
		fmt.Printf("Card %q is not in the %s.\n", name, zone)
		return
	}
	store.RemoveFromZone(zone, id)
	fmt.Printf("Removed %s from %s\n", name, zone)
}

func printPage(page *search.Page) {
	fmt.Printf("Found %d cards\n", page.TotalCards)
	for _, card := range page.Cards {
		line := card.Name
		if card.ManaCost != "" {
			line += "  " + card.ManaCost
		}
		fmt.Printf("  %-45s %s\n", line, card.TypeLine)
	}
}

func printDeck(view deck.View) {
	name := view.Name
	if name == "" {
		name = "(unnamed deck)"
	}
	fmt.Printf("%s (%d cards)\n", name, view.TotalCards)

	if len(view.Commander) > 0 {
		fmt.Println("Commander:")
		for _, c := range view.Commander {
			fmt.Printf("  %s\n", c.Name)
		}
	}
	printZone("Mainboard", view.Mainboard)
	printZone("Sideboard", view.Sideboard)
	printZone("Maybeboard", view.Maybeboard)
}

func printZone(label string, entries []deck.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, e := range entries {
		fmt.Printf("  %dx %s\n", e.Quantity, e.Card.Name)
	}
}
