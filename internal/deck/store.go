package deck

import (
	"errors"
	"sync"

	"github.com/peterkuimelis/counterspell/internal/log"
	"github.com/peterkuimelis/counterspell/internal/scryfall"
)

// CommanderLimit is the maximum number of commanders a deck may carry
// (two, for partner pairs).
const CommanderLimit = 2

var (
	// ErrCommanderFull is returned when the commander zone already holds
	// CommanderLimit cards. This is a user-facing capacity limit; callers
	// must not retry.
	ErrCommanderFull = errors.New("deck: commander zone is full")

	// ErrInvalidQuantity is returned for a quantity below 1.
	ErrInvalidQuantity = errors.New("deck: quantity must be at least 1")

	// ErrWrongZone is returned when AddToZone is handed the commander
	// zone; commanders go through AddToCommander.
	ErrWrongZone = errors.New("deck: commander zone has its own add operation")

	// ErrNoCard is returned when an operation receives a card with no id.
	ErrNoCard = errors.New("deck: card has no id")
)

// Store is the authoritative deck state. All mutation goes through its
// methods; each mutating operation notifies subscribers exactly once,
// after the mutation completes.
type Store struct {
	mu         sync.Mutex
	name       string
	commander  []scryfall.Card
	mainboard  []*Entry
	sideboard  []*Entry
	maybeboard []*Entry
	companion  *scryfall.Card

	subs   []func()
	logger log.EventLogger
}

// NewStore returns an empty deck. A nil logger disables event recording.
func NewStore(logger log.EventLogger) *Store {
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	return &Store{logger: logger}
}

// Subscribe registers a callback fired after every mutation. Callbacks
// run synchronously on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddToCommander appends a card to the commander zone. A full zone is
// rejected, never truncated. Duplicate commander ids are permitted.
func (s *Store) AddToCommander(card scryfall.Card) error {
	if card.ID == "" {
		return ErrNoCard
	}

	s.mu.Lock()
	if len(s.commander) >= CommanderLimit {
		s.mu.Unlock()
		s.logger.Log(log.NewCommanderRejectedEvent(card.Name))
		return ErrCommanderFull
	}
	s.commander = append(s.commander, card)
	count := len(s.commander)
	s.mu.Unlock()

	s.logger.Log(log.NewAddCommanderEvent(card.Name, count))
	s.notify()
	return nil
}

// AddToZone inserts a card into mainboard, sideboard or maybeboard. If the
// card id is already present the quantities are summed; the zone never
// holds two entries for one id.
func (s *Store) AddToZone(zone Zone, card scryfall.Card, quantity int) error {
	if card.ID == "" {
		return ErrNoCard
	}
	if zone == ZoneCommander {
		return ErrWrongZone
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	board := s.board(zone)
	var merged *Entry
	for _, e := range *board {
		if e.Card.ID == card.ID {
			merged = e
			break
		}
	}
	var total int
	if merged != nil {
		merged.Quantity += quantity
		total = merged.Quantity
	} else {
		*board = append(*board, &Entry{Card: card, Quantity: quantity})
	}
	s.mu.Unlock()

	if merged != nil {
		s.logger.Log(log.NewMergeQuantityEvent(zone.String(), card.Name, total))
	} else {
		s.logger.Log(log.NewAddCardEvent(zone.String(), card.Name, quantity))
	}
	s.notify()
	return nil
}

// RemoveFromZone deletes the entry (or commander) with the given card id.
// Removing an absent id is a no-op, not an error.
func (s *Store) RemoveFromZone(zone Zone, cardID string) {
	s.mu.Lock()
	var removedName string
	removed := false

	if zone == ZoneCommander {
		kept := s.commander[:0]
		for _, c := range s.commander {
			if c.ID == cardID {
				removedName = c.Name
				removed = true
				continue
			}
			kept = append(kept, c)
		}
		s.commander = kept
	} else {
		board := s.board(zone)
		kept := (*board)[:0]
		for _, e := range *board {
			if e.Card.ID == cardID {
				removedName = e.Card.Name
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		*board = kept
	}
	s.mu.Unlock()

	if !removed {
		return
	}
	s.logger.Log(log.NewRemoveCardEvent(zone.String(), removedName))
	s.notify()
}

// SetCompanion sets the deck's companion card.
func (s *Store) SetCompanion(card scryfall.Card) error {
	if card.ID == "" {
		return ErrNoCard
	}
	s.mu.Lock()
	s.companion = &card
	s.mu.Unlock()

	s.logger.Log(log.NewSetCompanionEvent(card.Name))
	s.notify()
	return nil
}

// SetName labels the deck.
func (s *Store) SetName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()

	s.logger.Log(log.NewRenameDeckEvent(name))
	s.notify()
}

// Clear resets every zone to its empty initial state. There is no undo.
func (s *Store) Clear() {
	s.mu.Lock()
	s.name = ""
	s.commander = nil
	s.mainboard = nil
	s.sideboard = nil
	s.maybeboard = nil
	s.companion = nil
	s.mu.Unlock()

	s.logger.Log(log.NewClearDeckEvent())
	s.notify()
}

// TotalCount is the displayed deck size: mainboard and sideboard
// quantities plus one per commander. Maybeboard and companion are
// out-of-deck zones and excluded.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *Store) totalLocked() int {
	total := len(s.commander)
	for _, e := range s.mainboard {
		total += e.Quantity
	}
	for _, e := range s.sideboard {
		total += e.Quantity
	}
	return total
}

// Snapshot returns a deep-enough copy of the deck for rendering; the
// caller cannot reach store-owned state through it.
func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Name:       s.name,
		Commander:  append([]scryfall.Card(nil), s.commander...),
		Mainboard:  copyEntries(s.mainboard),
		Sideboard:  copyEntries(s.sideboard),
		Maybeboard: copyEntries(s.maybeboard),
		TotalCards: s.totalLocked(),
	}
	if s.companion != nil {
		c := *s.companion
		v.Companion = &c
	}
	return v
}

func copyEntries(board []*Entry) []Entry {
	out := make([]Entry, len(board))
	for i, e := range board {
		out[i] = *e
	}
	return out
}

func (s *Store) board(zone Zone) *[]*Entry {
	switch zone {
	case ZoneSideboard:
		return &s.sideboard
	case ZoneMaybeboard:
		return &s.maybeboard
	default:
		return &s.mainboard
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
