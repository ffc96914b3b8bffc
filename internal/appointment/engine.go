// Package appointment implements the multi-turn slot-filling engine for
// booking. Each turn it extracts whatever slots it can from the utterance and
// picks the next clarifying question from the current fill state.
package appointment

import (
	"fmt"
	"strings"

	"github.com/confidohealth/voice-assistant/internal/knowledge"
	"github.com/confidohealth/voice-assistant/internal/session"
)

// Fixed engine replies.
const (
	replyNotedAlready = "I noted that already. Could you add more details, like day and time?"
	replyAskBoth      = "Sure, is this a new appointment or a follow-up, and which doctor would you like to see?"
	replyAskDoctor    = "Got it. Which doctor would you like to see?"
)

// newTypeKeywords trigger a "new" appointment when no follow-up marker is
// present. Follow-up markers are checked first, so "follow-up appointment"
// books a follow-up.
var newTypeKeywords = []string{"book", "schedule", "appointment", "new", "video"}

// dateTimeMarkers are coarse substring markers. Any hit captures the whole
// original utterance as the datetime slot, not just the matched span.
var dateTimeMarkers = []string{
	"am", "pm",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// Engine fills booking slots from successive utterances. It mutates the
// session it is given; the caller must hold the session's lock.
type Engine struct {
	store *knowledge.Store
}

// NewEngine creates a slot-filling engine over the doctor directory.
func NewEngine(store *knowledge.Store) *Engine {
	return &Engine{store: store}
}

// Respond runs one slot-filling turn and returns the next prompt.
//
// Unparseable input leaves the slots alone and repeats the clarifying
// question; there is no failure state. When all three slots are filled the
// reply is a tentative confirmation — actually confirming the booking is a
// separate step this engine does not handle.
func (e *Engine) Respond(sess *session.Session, utterance string) string {
	text := strings.TrimSpace(strings.ToLower(utterance))

	// A caller repeating themselves verbatim gets acknowledged instead of
	// hearing the same question again.
	if sess.LastUserText == text {
		return replyNotedAlready
	}
	sess.LastUserText = text

	e.extractType(&sess.Slots, text)
	e.extractDoctor(&sess.Slots, text)
	e.extractDateTime(&sess.Slots, text, utterance)

	slots := sess.Slots
	switch {
	case slots.Doctor == "" && slots.Type == "":
		return replyAskBoth
	case slots.Doctor != "" && slots.Type == "":
		return fmt.Sprintf("Great — %s. Is this a new appointment or a follow-up?", slots.Doctor)
	case slots.Type != "" && slots.Doctor == "":
		return replyAskDoctor
	case slots.DateTime == "":
		return fmt.Sprintf("Got it — a %s appointment with %s. What day and time works for you?",
			slots.Type, slots.Doctor)
	default:
		return fmt.Sprintf("Perfect — I'll tentatively place a %s appointment with %s at '%s'. Shall I confirm that?",
			slots.Type, slots.Doctor, slots.DateTime)
	}
}

func (e *Engine) extractType(slots *session.Slots, text string) {
	if strings.Contains(text, "follow") || strings.Contains(text, "check-up") {
		setIfUnset(&slots.Type, session.TypeFollowUp)
	} else if containsAny(text, newTypeKeywords) {
		setIfUnset(&slots.Type, session.TypeNew)
	}
}

// extractDoctor scans the directory in stored order; the first doctor named
// in the text wins if several appear.
func (e *Engine) extractDoctor(slots *session.Slots, text string) {
	for _, doc := range e.store.Doctors {
		if strings.Contains(text, strings.ToLower(doc.Name)) {
			setIfUnset(&slots.Doctor, doc.Name)
		}
	}
}

// extractDateTime stores the original utterance verbatim — not the matched
// span — so the confirmation can read the caller's own words back.
func (e *Engine) extractDateTime(slots *session.Slots, text, original string) {
	if containsAny(text, dateTimeMarkers) {
		setIfUnset(&slots.DateTime, original)
	}
}

// setIfUnset writes value only when the slot is empty (first-write-wins).
func setIfUnset(slot *string, value string) {
	if *slot == "" {
		*slot = value
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
