package log

import "time"

// EventType enumerates all observable deck-builder events.
type EventType int

const (
	EventSearch EventType = iota
	EventSearchCached
	EventSearchFailed
	EventAddCommander
	EventCommanderRejected
	EventAddCard
	EventMergeQuantity
	EventRemoveCard
	EventSetCompanion
	EventRenameDeck
	EventClearDeck
)

func (e EventType) String() string {
	switch e {
	case EventSearch:
		return "Search"
	case EventSearchCached:
		return "SearchCached"
	case EventSearchFailed:
		return "SearchFailed"
	case EventAddCommander:
		return "AddCommander"
	case EventCommanderRejected:
		return "CommanderRejected"
	case EventAddCard:
		return "AddCard"
	case EventMergeQuantity:
		return "MergeQuantity"
	case EventRemoveCard:
		return "RemoveCard"
	case EventSetCompanion:
		return "SetCompanion"
	case EventRenameDeck:
		return "RenameDeck"
	case EventClearDeck:
		return "ClearDeck"
	default:
		return "Unknown"
	}
}

// Event represents a single observable deck-builder action.
type Event struct {
	Seq      int       // monotonic sequence number
	Time     time.Time // when the event was recorded
	Type     EventType // event type
	Zone     string    // deck zone name (if applicable)
	Card     string    // card name (if applicable)
	Quantity int       // quantity involved (if applicable)
	Details  string    // human-readable detail string
}
