package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/counterspell/internal/deck"
	"github.com/peterkuimelis/counterspell/internal/search"
)

// activeSession is the singleton deck session (one per stdio process).
var activeSession *Session

// SetSession installs the session the tools operate on. Called by main
// before serving.
func SetSession(s *Session) {
	activeSession = s
}

// RegisterTools adds all deck-building tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(searchCardsTool(), handleSearchCards)
	s.AddTool(showDeckTool(), handleShowDeck)
	s.AddTool(addCommanderTool(), handleAddCommander)
	s.AddTool(addToDeckTool(), handleAddToDeck)
	s.AddTool(removeFromDeckTool(), handleRemoveFromDeck)
	s.AddTool(clearDeckTool(), handleClearDeck)
}

// --- Tool definitions ---

func searchCardsTool() mcp.Tool {
	return mcp.NewTool("search_cards",
		mcp.WithDescription("Search for Magic cards by Scryfall query syntax "+
			"(e.g. 'c:blue t:instant cmc<=2'). Returns a page of cards with their "+
			"names, types, costs and oracle text. Cards must appear in a search "+
			"result before they can be added to the deck."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Scryfall search query")),
	)
}

func showDeckTool() mcp.Tool {
	return mcp.NewTool("show_deck",
		mcp.WithDescription("Show the current deck: name, commanders, mainboard, "+
			"sideboard, maybeboard and the total card count. Read-only."),
	)
}

func addCommanderTool() mcp.Tool {
	return mcp.NewTool("add_commander",
		mcp.WithDescription("Add a card from an earlier search result to the commander "+
			"zone. The zone holds at most two commanders (for partner pairs)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact card name as shown in search results")),
	)
}

func addToDeckTool() mcp.Tool {
	return mcp.NewTool("add_to_deck",
		mcp.WithDescription("Add a card from an earlier search result to the mainboard, "+
			"sideboard or maybeboard. Adding a card already in the zone increases its quantity."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact card name as shown in search results")),
		mcp.WithString("zone", mcp.Description("Target zone: mainboard (default), sideboard or maybeboard")),
		mcp.WithNumber("quantity", mcp.Description("Number of copies to add, default 1")),
	)
}

func removeFromDeckTool() mcp.Tool {
	return mcp.NewTool("remove_from_deck",
		mcp.WithDescription("Remove a card from the deck by name. Removes the whole "+
			"entry regardless of quantity."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact card name as shown in the deck")),
		mcp.WithString("zone", mcp.Description("Zone to remove from: commander, mainboard (default), sideboard or maybeboard")),
	)
}

func clearDeckTool() mcp.Tool {
	return mcp.NewTool("clear_deck",
		mcp.WithDescription("Reset the deck to empty: all zones, the name and the companion. There is no undo."),
	)
}

// --- Tool handlers ---

func handleSearchCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No session is configured."), nil
	}

	query := request.GetString("query", "")
	page, err := sess.orchestrator.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(search.UserMessage(err)), nil
	}

	return mcp.NewToolResultText(respondJSON(&ToolResponse{
		Message: fmt.Sprintf("Found %d cards", page.TotalCards),
		Page:    page,
		Events:  sess.drainEvents(),
	})), nil
}

func handleShowDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No session is configured."), nil
	}

	view := sess.store.Snapshot()
	return mcp.NewToolResultText(respondJSON(&ToolResponse{
		Deck:   &view,
		Events: sess.drainEvents(),
	})), nil
}

func handleAddCommander(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No session is configured."), nil
	}

	name := request.GetString("name", "")
	card, ok := sess.orchestrator.CardByName(name)
	if !ok {
		return mcp.NewToolResultErrorf("Card %q not found in any search result. Use search_cards first.", name), nil
	}

	if err := sess.store.AddToCommander(card); err != nil {
		if errors.Is(err, deck.ErrCommanderFull) {
			return mcp.NewToolResultError("You already have two commanders. Remove one before adding another."), nil
		}
		return mcp.NewToolResultErrorf("Failed to add commander: %v", err), nil
	}

	view := sess.store.Snapshot()
	return mcp.NewToolResultText(respondJSON(&ToolResponse{
		Message: fmt.Sprintf("Added %s as commander", card.Name),
		Deck:    &view,
		Events:  sess.drainEvents(),
	})), nil
}

func handleAddToDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No session is configured."), nil
	}

	name := request.GetString("name", "")
	card, ok := sess.orchestrator.CardByName(name)
	if !ok {
		return mcp.NewToolResultErrorf("Card %q not found in any search result. Use search_cards first.", name), nil
	}

	zone, err := deck.ParseZone(request.GetString("zone", "mainboard"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if zone == deck.ZoneCommander {
		return mcp.NewToolResultError("Use add_commander for the commander zone."), nil
	}

	quantity := request.GetInt("quantity", 1)
	if err := sess.store.AddToZone(zone, card, quantity); err != nil {
		if errors.Is(err, deck.ErrInvalidQuantity) {
			return mcp.NewToolResultError("Quantity must be a whole number of at least 1"), nil
		}
		return mcp.NewToolResultErrorf("Failed to add card: %v", err), nil
	}

	view := sess.store.Snapshot()
	return mcp.NewToolResultText(respondJSON(&ToolResponse{
		Message: fmt.Sprintf("Added %dx %s to %s", quantity, card.Name, zone),
		Deck:    &view,
		Events:  sess.drainEvents(),
	})), nil
}

func handleRemoveFromDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No session is configured."), nil
	}

	name := request.GetString("name", "")
	zone, err := deck.ParseZone(request.GetString("zone", "mainboard"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, ok := sess.store.Snapshot().CardID(zone, name)
	if !ok {
		return mcp.NewToolResultErrorf("Card %q is not in the %s.", name, zone), nil
	}
	sess.store.RemoveFromZone(zone, id)

	view := sess.store.Snapshot()
	return mcp.NewToolResultText(respondJSON(&ToolResponse{
		Message: fmt.Sprintf("Removed %s from %s", name, zone),
		Deck:    &view,
		Events:  sess.drainEvents(),
	})), nil
}

func handleClearDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No session is configured."), nil
	}

	sess.store.Clear()
	view := sess.store.Snapshot()
	return mcp.NewToolResultText(respondJSON(&ToolResponse{
		Message: "Deck cleared",
		Deck:    &view,
		Events:  sess.drainEvents(),
	})), nil
}
