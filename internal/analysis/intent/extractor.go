// Package intent provides the deterministic reading of buyer messages used
// whenever the LLM classifier is unavailable or fails.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the structured reading of one buyer message.
type Intent struct {
	OfferedPrice *float64
	Accepted     bool
	Quantity     int
}

var pricePatterns = []*regexp.Regexp{
	// "300 GHS", "300 cedis"
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:ghs|cedis?)`),
	// "GHS 300" or a bare "300"
	regexp.MustCompile(`(?i)(?:ghs)?\s*(\d+(?:\.\d+)?)`),
}

var quantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s+(?:pieces?|units?|watches?)`),
	regexp.MustCompile(`(?i)buy\s+(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s+of`),
}

var acceptanceKeywords = []string{
	"deal", "yes", "agreed", "accept", "i'll take it", "let's do it", "sold",
}

var offerRequests = []string{
	"give me an offer", "what's your offer", "your offer", "best price",
	"your best price", "what can you do", "make me an offer", "give me a price",
	"what's your price", "whats your price", "your price",
}

// Extract runs the full fallback path: price and quantity pattern matching
// with acceptance defaulting to false. It is a pure function of the text.
func Extract(message string) Intent {
	return Intent{
		OfferedPrice: Price(message),
		Accepted:     false,
		Quantity:     Quantity(message),
	}
}

// Price finds a number adjacent to a currency token, or nil when the message
// states no price. Unparseable numeric text counts as "no price found".
func Price(message string) *float64 {
	for _, pattern := range pricePatterns {
		match := pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		val, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		return &val
	}
	return nil
}

// Quantity finds a number adjacent to a unit word or following "buy"/"of",
// defaulting to 1.
func Quantity(message string) int {
	lower := strings.ToLower(message)
	for _, pattern := range quantityPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		val, err := strconv.Atoi(match[1])
		if err != nil || val < 1 {
			continue
		}
		return val
	}
	return 1
}

// AcceptanceKeyword reports whether the message contains an affirmative from
// the fixed keyword set. Callers apply it only when no price was stated.
func AcceptanceKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range acceptanceKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// AsksForOffer reports whether the buyer is asking the seller to name a
// price ("what's your best offer" and friends).
func AsksForOffer(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range offerRequests {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
