// Package mcp exposes the deck builder to MCP clients over stdio. One
// session, and therefore one deck, exists per process.
package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/counterspell/internal/deck"
	"github.com/peterkuimelis/counterspell/internal/log"
	"github.com/peterkuimelis/counterspell/internal/search"
)

// Session holds the state behind the MCP tools: the search orchestrator,
// the deck it feeds, and the shared event log.
type Session struct {
	orchestrator *search.Orchestrator
	store        *deck.Store
	logger       *log.MemoryLogger

	mu      sync.Mutex
	lastSeq int
}

// NewSession wires an orchestrator, a deck store and their shared event
// logger into a tool session.
func NewSession(orchestrator *search.Orchestrator, store *deck.Store, logger *log.MemoryLogger) *Session {
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	return &Session{orchestrator: orchestrator, store: store, logger: logger}
}

// drainEvents returns formatted events recorded since the previous call.
func (s *Session) drainEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	for _, e := range s.logger.EventsSince(s.lastSeq) {
		lines = append(lines, log.FormatEvent(e))
		s.lastSeq = e.Seq
	}
	return lines
}

// ToolResponse is the JSON envelope returned by all MCP tools. Page or
// Deck is set depending on the tool, plus the events recorded since the
// previous tool call.
type ToolResponse struct {
	Message string       `json:"message,omitempty"`
	Page    *search.Page `json:"page,omitempty"`
	Deck    *deck.View   `json:"deck,omitempty"`
	Events  []string     `json:"events,omitempty"`
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
