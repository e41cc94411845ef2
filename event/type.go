package event

// Type identifies the payload carried by an Event
type Type int

const (
	// EventHoverChanged reports that a layer's hovered entity changed
	// Trigger: interactive layer hover arbiter | Consumer: compositor | Payload: *HoverPayload
	EventHoverChanged Type = iota

	// EventEntitySelected reports a click that landed on an entity
	// Trigger: interactive layer click | Consumer: compositor | Payload: *SelectPayload
	EventEntitySelected

	// EventSongsLoaded delivers the song list fetched at startup
	// Trigger: client goroutine | Consumer: engine | Payload: *SongsPayload
	EventSongsLoaded

	// EventMessageSent reports the outcome of a message relay request
	// Trigger: client goroutine | Consumer: engine | Payload: *MessagePayload
	EventMessageSent

	// EventSearchCompleted delivers search links
	// Trigger: client goroutine | Consumer: engine | Payload: *SearchPayload
	EventSearchCompleted

	// EventPlayerChanged reports a detail surface state transition
	// Trigger: detail surface | Consumer: ui | Payload: *PlayerPayload
	EventPlayerChanged

	// EventIntroAdvanced reports that an intro phase finished
	// Trigger: intro layer | Consumer: engine phase machine | Payload: *IntroPayload
	EventIntroAdvanced

	// EventWishRequested reports a click on the message star
	// Trigger: message star layer | Consumer: engine, opens the message prompt | Payload: nil
	EventWishRequested
)

var typeNames = map[Type]string{
	EventHoverChanged:    "hover_changed",
	EventEntitySelected:  "entity_selected",
	EventSongsLoaded:     "songs_loaded",
	EventMessageSent:     "message_sent",
	EventSearchCompleted: "search_completed",
	EventPlayerChanged:   "player_changed",
	EventIntroAdvanced:   "intro_advanced",
	EventWishRequested:   "wish_requested",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Event is one queued notification
type Event struct {
	Type    Type
	Source  string
	Payload any
}
