package event

import "encoding/json"

type Event interface {
	Op() string
}

// Envelope is the frame exchanged with clients in both directions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func Format(ev Event) *Envelope {
	return &Envelope{Event: ev.Op(), Data: ev}
}

func Marshal(ev Event) ([]byte, error) {
	return json.Marshal(Format(ev))
}
