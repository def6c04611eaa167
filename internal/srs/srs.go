// Package srs implements the simplified SM-2 scheduler used for card reviews.
//
// Outcomes are binary. A correct answer is graded as quality 5 and an
// incorrect one as quality 2, so the classic SM-2 ease adjustment collapses
// to +0.1 on success while lapses leave the ease factor untouched. This is
// intentional: the review surface only offers right/wrong, and the collapsed
// arithmetic is the observable contract.
package srs

import (
	"math"
	"time"

	"github.com/studykit/studykit/internal/domain"
)

const (
	// InitialEase is the ease factor assigned to a card that has never
	// been reviewed.
	InitialEase = 2.5

	// MinEase is the floor for the ease factor. SM-2 never lets a card
	// become harder than this multiplier.
	MinEase = 1.3

	qualityCorrect = 5
)

// Hydrate fills in scheduling defaults on a card whose numeric fields were
// never set. Records written by old app versions can miss any of them, and
// every downstream computation assumes they are present. Call once at load
// time.
func Hydrate(c domain.Card) domain.Card {
	if c.Interval < 1 {
		c.Interval = 1
	}
	if c.Repetitions < 0 {
		c.Repetitions = 0
	}
	if c.EaseFactor == 0 {
		c.EaseFactor = InitialEase
	}
	if c.EaseFactor < MinEase {
		c.EaseFactor = MinEase
	}
	return c
}

// DueOn reports whether the card is reviewable on the given day.
// A card without a due date is always due.
func DueOn(c domain.Card, today time.Time) bool {
	if c.DueDate == nil {
		return true
	}
	return !dateOf(*c.DueDate).After(dateOf(today))
}

// SelectDue returns the cards eligible for review on the given day,
// preserving their original order. With includeAll set, every card is
// returned unchanged ("study all" mode). The input is never modified.
func SelectDue(cards []domain.Card, today time.Time, includeAll bool) []domain.Card {
	if includeAll {
		out := make([]domain.Card, len(cards))
		copy(out, cards)
		return out
	}
	var out []domain.Card
	for _, c := range cards {
		if DueOn(c, today) {
			out = append(out, c)
		}
	}
	return out
}

// ApplyReview computes the card's next scheduling state after a review on
// the given day and returns it as a new record. The input card is not
// mutated; the caller decides how to merge the result back into the deck.
func ApplyReview(card domain.Card, correct bool, today time.Time) domain.Card {
	c := Hydrate(card)

	if correct {
		c.Repetitions++
		switch c.Repetitions {
		case 1:
			c.Interval = 1
		case 2:
			c.Interval = 6
		default:
			c.Interval = int(math.Round(float64(c.Interval) * c.EaseFactor))
		}
		c.EaseFactor = nextEase(c.EaseFactor, qualityCorrect)
	} else {
		c.Repetitions = 0
		c.Interval = 1
	}
	if c.Interval < 1 {
		c.Interval = 1
	}

	due := dateOf(today).AddDate(0, 0, c.Interval)
	studied := dateOf(today)
	c.DueDate = &due
	c.LastStudied = &studied
	c.Known = &correct

	return c
}

// Progress aggregates deck state for display: how many cards were answered
// correctly on their last review, how many have been studied at all, and the
// known percentage. An empty deck yields all zeroes.
func Progress(cards []domain.Card) domain.Progress {
	p := domain.Progress{Total: len(cards)}
	for _, c := range cards {
		if c.Known == nil {
			continue
		}
		p.Studied++
		if *c.Known {
			p.Known++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Known) / float64(p.Total) * 100))
	}
	return p
}

// nextEase applies the SM-2 ease update for the given quality and clamps at
// the floor. With quality fixed at 5 this is a plain +0.1.
func nextEase(ease float64, quality int) float64 {
	q := float64(quality)
	ease += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	return math.Max(MinEase, ease)
}

// dateOf strips the time component, keeping the calendar day as written.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
