package suggest

// ─── CATALOGUE ────────────────────────────────────────────────────────────────

// DefaultCategory is the catalogue key used for any sentiment that is not
// listed below, including the empty string.
const DefaultCategory = "default"

// catalogue maps a lower-cased sentiment to its candidate gifts. Keys are the
// only sentiments the suggester recognises; the store accepts any free text.
var catalogue = map[string][]string{
	"close friend": {
		"Custom bracelet with initials",
		"Matching tote bag",
		"Spa night kit",
	},
	"secret crush": {
		"Cute card with hint",
		"Floral-scented perfume",
		"Minimalist jewelry",
	},
	"mentor": {
		"Thank-you candle",
		"Elegant pen",
		"Notebook with quote",
	},
	"admired dancer": {
		"Fan art sketch",
		"Stage flowers",
		"Handwritten note + ribbon",
	},
	DefaultCategory: {
		"Socks with their initials",
		"Dancewear store voucher",
	},
}

// Categories returns the recognised sentiments in a stable order, default last.
func Categories() []string {
	return []string{"close friend", "secret crush", "mentor", "admired dancer", DefaultCategory}
}
