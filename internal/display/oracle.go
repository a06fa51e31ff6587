package display

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/peterkuimelis/counterspell/internal/scryfall"
)

// NoOracleText is substituted for a card or face with no rules text.
const NoOracleText = "No oracle text available"

var (
	multiSpace = regexp.MustCompile(`\s{2,}`)
	costToken  = regexp.MustCompile(`\{[A-Z0-9]+\}`)
)

// OracleText cleans a card's rules text for HTML rendering: whitespace is
// trimmed and collapsed, newlines become <br>, and {X}-style cost tokens
// are replaced with inline images resolved through the symbol map. Tokens
// with no mapping are left as-is; a nil map leaves every token untouched.
// Faces of a split card are joined with a blank line.
func OracleText(card *scryfall.Card, symbols scryfall.SymbolMap) string {
	var texts []string
	if card.SplitFaced() {
		for _, face := range card.CardFaces {
			texts = append(texts, orDefault(face.OracleText, NoOracleText))
		}
	} else {
		texts = append(texts, orDefault(card.OracleText, NoOracleText))
	}

	cleaned := make([]string, len(texts))
	for i, text := range texts {
		text = strings.TrimSpace(text)
		text = multiSpace.ReplaceAllString(text, " ")
		text = html.EscapeString(text)
		text = strings.ReplaceAll(text, "\n", "<br>")
		text = costToken.ReplaceAllStringFunc(text, func(token string) string {
			uri, ok := symbols[token]
			if !ok {
				return token
			}
			return fmt.Sprintf(`<img src="%s" alt="%s" class="mana-symbol">`, uri, token)
		})
		cleaned[i] = text
	}

	return strings.Join(cleaned, "<br><br>")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
