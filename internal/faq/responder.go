// Package faq answers clinic-info questions from the static knowledge store.
package faq

import (
	"fmt"
	"strings"

	"github.com/confidohealth/voice-assistant/internal/knowledge"
)

// Responder answers location, hours, and contact questions. It is stateless;
// checks run in a fixed order and the first matching topic wins.
type Responder struct {
	store *knowledge.Store
}

// NewResponder creates an FAQ responder over the given knowledge store.
func NewResponder(store *knowledge.Store) *Responder {
	return &Responder{store: store}
}

// Respond returns the clinic fact matching the utterance, or a generic
// greeting when no topic matches.
func (r *Responder) Respond(text string) string {
	text = strings.ToLower(text)
	info := r.store.Clinic

	if containsAny(text, "where", "address", "location") {
		return fmt.Sprintf("Our clinic is located at %s.", info.Address)
	}
	if containsAny(text, "hours", "open", "close") {
		return fmt.Sprintf("We are open %s.", info.Hours)
	}
	if containsAny(text, "contact", "phone", "number") {
		return fmt.Sprintf("You can reach us at %s.", info.Contact)
	}
	return fmt.Sprintf("We are %s, happy to help! You can ask about our hours, location, or contact.", info.Name)
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
