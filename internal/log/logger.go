package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// EventLogger is the interface for recording deck-builder events.
type EventLogger interface {
	Log(event Event)
	Events() []Event
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event Event) {
	l.stamp(event)
}

// stamp assigns the next sequence number, records the event and returns
// the stamped copy.
func (l *MemoryLogger) stamp(event Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	event.Time = time.Now()
	l.events = append(l.events, event)
	return event
}

func (l *MemoryLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []Event {
	var result []Event
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() Event {
	events := l.Events()
	if len(events) == 0 {
		return Event{}
	}
	return events[len(events)-1]
}

// EventsSince returns events with a sequence number greater than seq.
func (l *MemoryLogger) EventsSince(seq int) []Event {
	var result []Event
	for _, e := range l.Events() {
		if e.Seq > seq {
			result = append(result, e)
		}
	}
	return result
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event Event) {
	stamped := l.MemoryLogger.stamp(event)
	fmt.Fprintln(l.w, FormatEvent(stamped))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e Event) string {
	kind := e.Type.String()
	// Pad the type to 18 chars for alignment
	for len(kind) < 18 {
		kind += " "
	}
	return fmt.Sprintf("#%-3d %s| %s", e.Seq, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewSearchEvent(query string, total int, cached bool) Event {
	t := EventSearch
	source := "provider"
	if cached {
		t = EventSearchCached
		source = "cache"
	}
	return Event{
		Type:    t,
		Details: fmt.Sprintf("search %q found %d cards (%s)", query, total, source),
	}
}

func NewSearchFailedEvent(query string, err error) Event {
	return Event{
		Type:    EventSearchFailed,
		Details: fmt.Sprintf("search %q failed: %v", query, err),
	}
}

func NewAddCommanderEvent(cardName string, count int) Event {
	return Event{
		Type:    EventAddCommander,
		Zone:    "commander",
		Card:    cardName,
		Details: fmt.Sprintf("commander set: %s (%d of 2)", cardName, count),
	}
}

func NewCommanderRejectedEvent(cardName string) Event {
	return Event{
		Type:    EventCommanderRejected,
		Zone:    "commander",
		Card:    cardName,
		Details: fmt.Sprintf("commander zone full, rejected %s", cardName),
	}
}

func NewAddCardEvent(zone, cardName string, quantity int) Event {
	return Event{
		Type:     EventAddCard,
		Zone:     zone,
		Card:     cardName,
		Quantity: quantity,
		Details:  fmt.Sprintf("added %s x%d to %s", cardName, quantity, zone),
	}
}

func NewMergeQuantityEvent(zone, cardName string, total int) Event {
	return Event{
		Type:     EventMergeQuantity,
		Zone:     zone,
		Card:     cardName,
		Quantity: total,
		Details:  fmt.Sprintf("updated quantity for %s in %s to %d", cardName, zone, total),
	}
}

func NewRemoveCardEvent(zone, cardName string) Event {
	return Event{
		Type:    EventRemoveCard,
		Zone:    zone,
		Card:    cardName,
		Details: fmt.Sprintf("removed %s from %s", cardName, zone),
	}
}

func NewSetCompanionEvent(cardName string) Event {
	return Event{
		Type:    EventSetCompanion,
		Card:    cardName,
		Details: fmt.Sprintf("companion set: %s", cardName),
	}
}

func NewRenameDeckEvent(name string) Event {
	return Event{
		Type:    EventRenameDeck,
		Details: fmt.Sprintf("deck renamed to %q", name),
	}
}

func NewClearDeckEvent() Event {
	return Event{
		Type:    EventClearDeck,
		Details: "deck cleared",
	}
}
