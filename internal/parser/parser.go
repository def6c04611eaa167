// Package parser reads markdown deck files.
//
// A deck file looks like:
//
//	# Deck: Irish Verbs
//
//	Q: to be
//	A: bí
//	---
//	Q: to go
//	A: téigh
//
// Q: and A: open multi-line blocks; "---" closes a card. A card without a
// front is discarded. The deck name falls back to the file name when no
// header is present.
package parser

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	deckPrefix  = "# Deck:"
	frontPrefix = "Q:"
	backPrefix  = "A:"
	separator   = "---"
)

// Card is one parsed front/back pair before it gains a scheduling record.
type Card struct {
	Front string
	Back  string
}

// Deck is the result of parsing a single file.
type Deck struct {
	Name  string
	Cards []Card
}

type section int

const (
	seeking section = iota
	inFront
	inBack
)

// ParseFile parses the deck at path. The file's base name (without
// extension) names the deck unless the file carries a "# Deck:" header.
func ParseFile(path string) (Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return Deck{}, err
	}
	defer f.Close()

	base := filepath.Base(path)
	fallback := strings.TrimSuffix(base, filepath.Ext(base))
	return Parse(f, fallback)
}

// Parse reads a deck from r. fallbackName is used when the input has no
// deck header.
func Parse(r io.Reader, fallbackName string) (Deck, error) {
	deck := Deck{Name: fallbackName}

	var front, back []string
	sect := seeking

	flush := func() {
		if sect == seeking {
			return
		}
		f := strings.TrimSpace(strings.Join(front, "\n"))
		b := strings.TrimSpace(strings.Join(back, "\n"))
		if f != "" {
			deck.Cards = append(deck.Cards, Card{Front: f, Back: b})
		}
		front, back = nil, nil
		sect = seeking
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, deckPrefix):
			if name := strings.TrimSpace(line[len(deckPrefix):]); name != "" {
				deck.Name = name
			}
		case strings.TrimSpace(line) == separator:
			flush()
		case strings.HasPrefix(line, frontPrefix):
			// A new front always opens a new card, even without a separator.
			flush()
			sect = inFront
			front = append(front, strings.TrimPrefix(line[len(frontPrefix):], " "))
		case strings.HasPrefix(line, backPrefix):
			if sect == seeking {
				continue // stray back with no card open
			}
			sect = inBack
			back = append(back, strings.TrimPrefix(line[len(backPrefix):], " "))
		default:
			switch sect {
			case inFront:
				front = append(front, line)
			case inBack:
				back = append(back, line)
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return Deck{}, err
	}
	return deck, nil
}
