package sim

import "math/rand"

// HandSize is the target hand size after every successful turn.
const HandSize = 4

// Deal shuffles and draws a hand from the deck. If the deck has fewer than
// handSize cards it is replaced by a fresh copy of the catalog first; there
// is no partial carry-over of the exhausted deck. The hand is capped at the
// catalog size, so a short catalog never errors and never duplicates cards
// within one deal. Inputs are not mutated.
func Deal(deck, catalog []ActionCard, handSize int, rng *rand.Rand) (hand, remaining []ActionCard) {
	source := deck
	if len(source) < handSize {
		source = catalog
	}

	shuffled := cloneCards(source)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if handSize > len(shuffled) {
		handSize = len(shuffled)
	}
	return shuffled[:handSize], shuffled[handSize:]
}
