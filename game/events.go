package game

import (
	"regexp"
	"strings"
)

// GameEvent is a chat command recognized by the router.
type GameEvent int

const (
	EventUnknown GameEvent = iota
	EventOffer
	EventStart
	EventRules
	EventRegister
	EventUnregister
	EventBet
	EventAllIn
	EventHit
	EventStand
	EventHand
	EventCash
	EventAbort
	EventCancel
	EventStats
	EventComplain
	EventRestoreCash
)

var eventNames = map[GameEvent]string{
	EventUnknown:     "unknown",
	EventOffer:       "offer",
	EventStart:       "start",
	EventRules:       "rules",
	EventRegister:    "register",
	EventUnregister:  "unregister",
	EventBet:         "bet",
	EventAllIn:       "all_in",
	EventHit:         "hit",
	EventStand:       "stand",
	EventHand:        "hand",
	EventCash:        "cash",
	EventAbort:       "abort",
	EventCancel:      "cancel",
	EventStats:       "stats",
	EventComplain:    "complain",
	EventRestoreCash: "restore_cash",
}

func (e GameEvent) String() string {
	name, ok := eventNames[e]
	if !ok {
		return "unknown"
	}
	return name
}

// vocabulary maps cleaned chat text to events. The keyboard button labels in
// buttons.go must stay in sync with these words.
var vocabulary = map[string]GameEvent{
	"":          EventOffer,
	"start":     EventStart,
	"rules":     EventRules,
	"join":      EventRegister,
	"i'm in":    EventRegister,
	"pass":      EventUnregister,
	"all in":    EventAllIn,
	"hit":       EventHit,
	"hit me":    EventHit,
	"stand":     EventStand,
	"enough":    EventStand,
	"hand":      EventHand,
	"cash":      EventCash,
	"abort":     EventAbort,
	"stop this": EventCancel,
	"stats":     EventStats,

	"this damn casino robbed me": EventComplain,
	"converta tempus":            EventRestoreCash,
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)
var mentionPrefix = regexp.MustCompile(`^\[club[0-9]+\|[^\]]*\]`)

// CleanText strips the bot mention prefix and normalizes the inbound text.
func CleanText(raw string) string {
	text := mentionPrefix.ReplaceAllString(raw, "")
	return strings.ToLower(strings.TrimSpace(text))
}

// ResolveEvent maps cleaned text to a game event. A bare number is always a
// bet. Unknown text resolves to EventUnknown, which the router drops
// silently so the bot stays quiet during unrelated chat.
func ResolveEvent(text string) GameEvent {
	if digitsOnly.MatchString(text) {
		return EventBet
	}
	if event, ok := vocabulary[text]; ok {
		return event
	}
	return EventUnknown
}
