// Package suggest picks a gift for a recipient from a fixed catalogue keyed by
// sentiment. It has no dependencies on storage or transport; the api package
// records history separately when the caller asks it to.
package suggest

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Suggestion is the result of one pick. Sentiment is echoed exactly as
// supplied by the caller, not the normalised catalogue key.
type Suggestion struct {
	Recipient     string `json:"recipient"`
	Sentiment     string `json:"sentiment"`
	SuggestedGift string `json:"suggested_gift"`
}

// Suggester draws gifts uniformly at random from the catalogue. The zero
// value is not usable; construct with New.
type Suggester struct {
	mu  sync.Mutex
	rng *rand.Rand // nil → package-level source
}

// New returns a Suggester. A nil rng uses the package-level random source,
// which is safe for concurrent use; pass a seeded *rand.Rand in tests.
func New(rng *rand.Rand) *Suggester {
	return &Suggester{rng: rng}
}

// Suggest returns one candidate for the sentiment, falling back to the
// default list when the sentiment is not recognised.
func (s *Suggester) Suggest(name, sentiment string) Suggestion {
	options := Candidates(sentiment)
	return Suggestion{
		Recipient:     name,
		Sentiment:     sentiment,
		SuggestedGift: options[s.intN(len(options))],
	}
}

func (s *Suggester) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Candidates returns a copy of the candidate list the sentiment resolves to.
// Matching is case-insensitive; nothing else is normalised.
func Candidates(sentiment string) []string {
	options, ok := catalogue[Normalize(sentiment)]
	if !ok {
		options = catalogue[DefaultCategory]
	}
	return append([]string(nil), options...)
}

// Normalize lower-cases a sentiment into catalogue-key form.
func Normalize(sentiment string) string {
	return strings.ToLower(sentiment)
}

// Recognised reports whether the sentiment has its own catalogue entry.
func Recognised(sentiment string) bool {
	key := Normalize(sentiment)
	_, ok := catalogue[key]
	return ok && key != DefaultCategory
}
