// Package display derives presentation-ready records from raw Scryfall
// cards: a flattened view model per card, cleaned oracle text, and a
// per-card render cache so repeated renders reuse the same derived values.
package display

import (
	"errors"
	"strings"

	"github.com/peterkuimelis/counterspell/internal/scryfall"
)

// PlaceholderImageURL stands in for any missing card image.
const PlaceholderImageURL = "https://placehold.co/400"

// faceSeparator joins the per-face values of a split-faced card.
const faceSeparator = " // "

// ErrNoCard is returned when a zero-value or id-less card reaches the
// builder. That is a caller bug, not a data condition.
var ErrNoCard = errors.New("display: card has no id")

// CardView is the flattened display record for one card. It is derived
// once per card id and safe to share between the results list and the
// detail view.
type CardView struct {
	CardID         string `json:"card_id"`
	Name           string `json:"name"`
	TypeLine       string `json:"type_line"`
	ManaCost       string `json:"mana_cost"`
	PowerToughness string `json:"power_toughness,omitempty"`
	ImageURL       string `json:"image_url"`
	DetailImageURL string `json:"detail_image_url"`
	Rarity         string `json:"rarity,omitempty"`
	SetName        string `json:"set_name,omitempty"`
	Artist         string `json:"artist,omitempty"`
	OracleHTML     string `json:"oracle_html"`
}

// Build derives a CardView from a raw card. The input is never mutated.
func Build(card *scryfall.Card, symbols scryfall.SymbolMap) (CardView, error) {
	if card == nil || card.ID == "" {
		return CardView{}, ErrNoCard
	}

	view := CardView{
		CardID:         card.ID,
		Name:           cardName(card),
		TypeLine:       cardTypeLine(card),
		ManaCost:       cardManaCost(card),
		PowerToughness: cardPowerToughness(card),
		ImageURL:       cardImageURL(card, false),
		DetailImageURL: cardImageURL(card, true),
		Rarity:         card.Rarity,
		SetName:        card.SetName,
		Artist:         card.Artist,
		OracleHTML:     OracleText(card, symbols),
	}
	return view, nil
}

func cardName(card *scryfall.Card) string {
	if !card.SplitFaced() {
		return card.Name
	}
	names := make([]string, len(card.CardFaces))
	for i, face := range card.CardFaces {
		names[i] = face.Name
	}
	return strings.Join(names, faceSeparator)
}

func cardTypeLine(card *scryfall.Card) string {
	if !card.SplitFaced() {
		return card.TypeLine
	}
	types := make([]string, len(card.CardFaces))
	for i, face := range card.CardFaces {
		types[i] = face.TypeLine
	}
	return strings.Join(types, faceSeparator)
}

func cardManaCost(card *scryfall.Card) string {
	if !card.SplitFaced() {
		return card.ManaCost
	}
	costs := make([]string, len(card.CardFaces))
	for i, face := range card.CardFaces {
		costs[i] = face.ManaCost
	}
	return strings.Join(costs, faceSeparator)
}

// cardPowerToughness formats "P / T" per face, only for faces that have
// both values; faces without stats are omitted from the join entirely.
func cardPowerToughness(card *scryfall.Card) string {
	if !card.SplitFaced() {
		return formatPT(card.Power, card.Toughness)
	}
	var parts []string
	for _, face := range card.CardFaces {
		if pt := formatPT(face.Power, face.Toughness); pt != "" {
			parts = append(parts, pt)
		}
	}
	return strings.Join(parts, faceSeparator)
}

func formatPT(power, toughness string) string {
	if power == "" || toughness == "" {
		return ""
	}
	return power + " / " + toughness
}

// cardImageURL picks the normal-resolution image for list display, or the
// art crop for the detail view. Split-faced cards use the first face's
// image set. A missing set yields the fixed placeholder.
func cardImageURL(card *scryfall.Card, detail bool) string {
	images := card.ImageURIs
	if card.SplitFaced() {
		images = card.CardFaces[0].ImageURIs
	}
	if images == nil {
		return PlaceholderImageURL
	}
	if detail {
		return orDefault(images.ArtCrop, PlaceholderImageURL)
	}
	return orDefault(images.Normal, PlaceholderImageURL)
}
