// Package insurance answers coverage questions from the accepted-plan table.
package insurance

import (
	"fmt"
	"strings"

	"github.com/confidohealth/voice-assistant/internal/knowledge"
)

// Responder answers insurance coverage questions. It is stateless; plans are
// scanned in table order and the first provider named in the utterance wins.
type Responder struct {
	store *knowledge.Store
}

// NewResponder creates an insurance responder over the given knowledge store.
func NewResponder(store *knowledge.Store) *Responder {
	return &Responder{store: store}
}

// Respond looks for a known provider name in the utterance and describes that
// plan's coverage. Unmatched utterances get a clarifying prompt, not an error.
func (r *Responder) Respond(text string) string {
	text = strings.ToLower(text)
	for _, plan := range r.store.Plans {
		if strings.Contains(text, strings.ToLower(plan.Provider)) {
			return fmt.Sprintf("Yes, we accept %s. It covers %s. In-network doctors are %s.",
				plan.Provider,
				strings.Join(plan.CoveredServices, ", "),
				strings.Join(plan.InNetworkDoctors, ", "))
		}
	}
	return "We accept major insurances like Aetna and BlueCross. Which one do you have?"
}
