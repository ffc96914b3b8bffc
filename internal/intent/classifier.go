// Package intent maps a caller utterance to a coarse intent category.
package intent

import "strings"

// Intent is the coarse category of what the caller wants.
type Intent string

const (
	IntentInsurance   Intent = "insurance"
	IntentFAQ         Intent = "faq"
	IntentAppointment Intent = "appointment"
	IntentChitchat    Intent = "chitchat"
)

// rule pairs an intent with the keywords that trigger it.
type rule struct {
	intent   Intent
	keywords []string
}

// Classifier matches utterances against an ordered rule list; the first rule
// with any keyword hit wins. Rule order encodes priority: an utterance that
// mentions both insurance and booking terms is an insurance question.
type Classifier struct {
	rules []rule
}

// NewClassifier creates a classifier with the clinic's standard rules.
func NewClassifier() *Classifier {
	return &Classifier{
		rules: []rule{
			{IntentInsurance, []string{"insurance", "covered", "aetna", "bluecross", "blue cross"}},
			{IntentFAQ, []string{"where", "location", "address", "hours", "open", "close", "contact", "phone"}},
			{IntentAppointment, []string{"book", "schedule", "appointment", "follow", "new", "doctor"}},
		},
	}
}

// Classify returns the intent for text. It never fails; text matching no rule
// is chitchat.
func (c *Classifier) Classify(text string) Intent {
	text = strings.ToLower(text)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.intent
			}
		}
	}
	return IntentChitchat
}
