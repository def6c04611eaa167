package parser

import (
	"strings"
	"testing"
)

func parse(t *testing.T, input string) Deck {
	t.Helper()
	deck, err := Parse(strings.NewReader(input), "fallback")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return deck
}

func TestParseBasicDeck(t *testing.T) {
	deck := parse(t, `# Deck: Capitals

Q: Capital of France?
A: Paris
---
Q: Capital of Japan?
A: Tokyo
`)

	if deck.Name != "Capitals" {
		t.Errorf("deck name = %q, want Capitals", deck.Name)
	}
	if len(deck.Cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(deck.Cards))
	}
	if deck.Cards[0].Front != "Capital of France?" || deck.Cards[0].Back != "Paris" {
		t.Errorf("unexpected first card: %+v", deck.Cards[0])
	}
	if deck.Cards[1].Back != "Tokyo" {
		t.Errorf("unexpected second card: %+v", deck.Cards[1])
	}
}

func TestParseFallbackName(t *testing.T) {
	deck := parse(t, "Q: q\nA: a\n")
	if deck.Name != "fallback" {
		t.Errorf("deck name = %q, want fallback", deck.Name)
	}
}

func TestParseMultilineBlocks(t *testing.T) {
	deck := parse(t, `Q: First line
second line
A: answer
continued
`)
	if len(deck.Cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(deck.Cards))
	}
	if deck.Cards[0].Front != "First line\nsecond line" {
		t.Errorf("front = %q", deck.Cards[0].Front)
	}
	if deck.Cards[0].Back != "answer\ncontinued" {
		t.Errorf("back = %q", deck.Cards[0].Back)
	}
}

func TestParseNewFrontStartsNewCard(t *testing.T) {
	// No separator between cards: a second Q: still closes the first.
	deck := parse(t, "Q: one\nA: 1\nQ: two\nA: 2\n")
	if len(deck.Cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(deck.Cards))
	}
}

func TestParseDiscardsFrontlessCard(t *testing.T) {
	deck := parse(t, "A: orphan answer\n---\nQ: real\nA: card\n")
	if len(deck.Cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(deck.Cards))
	}
	if deck.Cards[0].Front != "real" {
		t.Errorf("front = %q, want real", deck.Cards[0].Front)
	}
}

func TestParseEmptyInput(t *testing.T) {
	deck := parse(t, "")
	if len(deck.Cards) != 0 {
		t.Errorf("got %d cards from empty input", len(deck.Cards))
	}
}
