package scryfall

import "fmt"

// Card is a card record as returned by the Scryfall API. Only the fields
// the deck builder consumes are mapped; everything else is dropped at
// decode time.
type Card struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Layout     string     `json:"layout,omitempty"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line,omitempty"`
	OracleText string     `json:"oracle_text,omitempty"`
	Power      string     `json:"power,omitempty"`
	Toughness  string     `json:"toughness,omitempty"`
	Rarity     string     `json:"rarity,omitempty"`
	SetName    string     `json:"set_name,omitempty"`
	Artist     string     `json:"artist,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
	CardFaces  []CardFace `json:"card_faces,omitempty"`
}

// SplitFaced reports whether the card's data spans multiple faces
// (modal double-faced, split and adventure layouts). Display fields of a
// split-faced card are joined per face with " // ".
func (c *Card) SplitFaced() bool {
	return len(c.CardFaces) > 0
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line,omitempty"`
	OracleText string     `json:"oracle_text,omitempty"`
	Power      string     `json:"power,omitempty"`
	Toughness  string     `json:"toughness,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs holds the image variants Scryfall serves per card or face.
type ImageURIs struct {
	Small      string `json:"small,omitempty"`
	Normal     string `json:"normal,omitempty"`
	Large      string `json:"large,omitempty"`
	PNG        string `json:"png,omitempty"`
	ArtCrop    string `json:"art_crop,omitempty"`
	BorderCrop string `json:"border_crop,omitempty"`
}

// SearchResult is a page of cards from /cards/search.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// Symbol is one entry from /symbology.
type Symbol struct {
	Symbol string `json:"symbol"`
	SVGURI string `json:"svg_uri"`
	Loose  string `json:"loose_variant,omitempty"`
}

// SymbolList is the /symbology response envelope.
type SymbolList struct {
	Object  string   `json:"object"`
	HasMore bool     `json:"has_more"`
	Data    []Symbol `json:"data"`
}

// SymbolMap maps a cost token such as "{U}" to its SVG asset URI.
type SymbolMap map[string]string

// APIError is the Scryfall error envelope, returned for any non-2xx
// response that carries one.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Warnings []string `json:"warnings,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Details
	}
	return fmt.Sprintf("scryfall error (HTTP %d): %s", e.Status, e.Code)
}
