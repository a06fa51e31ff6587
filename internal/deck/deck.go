// Package deck owns the deck aggregate and every operation that mutates
// it. Zones, quantities and the commander cap are enforced here; nothing
// outside this package touches deck state directly.
package deck

import (
	"fmt"

	"github.com/peterkuimelis/counterspell/internal/scryfall"
)

// Zone identifies a deck partition.
type Zone int

const (
	ZoneCommander Zone = iota
	ZoneMainboard
	ZoneSideboard
	ZoneMaybeboard
)

func (z Zone) String() string {
	switch z {
	case ZoneCommander:
		return "commander"
	case ZoneMainboard:
		return "mainboard"
	case ZoneSideboard:
		return "sideboard"
	case ZoneMaybeboard:
		return "maybeboard"
	default:
		return "unknown"
	}
}

// ParseZone maps a zone name to its Zone value.
func ParseZone(name string) (Zone, error) {
	switch name {
	case "commander":
		return ZoneCommander, nil
	case "mainboard":
		return ZoneMainboard, nil
	case "sideboard":
		return ZoneSideboard, nil
	case "maybeboard":
		return ZoneMaybeboard, nil
	default:
		return 0, fmt.Errorf("unknown zone %q", name)
	}
}

// Entry is a card together with how many copies of it a zone holds.
// Quantity is meaningful only outside the commander zone.
type Entry struct {
	Card     scryfall.Card `json:"card"`
	Quantity int           `json:"quantity"`
}

// View is an immutable snapshot of the deck for presentation. Zone slices
// preserve first-add order.
type View struct {
	Name       string          `json:"name,omitempty"`
	Commander  []scryfall.Card `json:"commander"`
	Mainboard  []Entry         `json:"mainboard"`
	Sideboard  []Entry         `json:"sideboard"`
	Maybeboard []Entry         `json:"maybeboard"`
	Companion  *scryfall.Card  `json:"companion,omitempty"`
	TotalCards int             `json:"total_cards"`
}

// CardID resolves a card name within one zone of the snapshot to its id,
// so name-based surfaces can remove cards actually in the deck.
func (v View) CardID(zone Zone, name string) (string, bool) {
	if zone == ZoneCommander {
		for _, c := range v.Commander {
			if c.Name == name {
				return c.ID, true
			}
		}
		return "", false
	}

	var entries []Entry
	switch zone {
	case ZoneSideboard:
		entries = v.Sideboard
	case ZoneMaybeboard:
		entries = v.Maybeboard
	default:
		entries = v.Mainboard
	}
	for _, e := range entries {
		if e.Card.Name == name {
			return e.Card.ID, true
		}
	}
	return "", false
}
