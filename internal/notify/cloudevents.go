package notify

import (
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// EventSource is the CloudEvents source attribute of every event.
const EventSource = "assetgrid"

// TypePrefix is prepended to the Kind to form the CloudEvents type.
const TypePrefix = "io.assetgrid."

// Payload is the JSON data of an outgoing CloudEvent.
type Payload struct {
	Task    string   `json:"task"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Paths   []string `json:"paths,omitempty"`
	CSSOnly bool     `json:"css_only,omitempty"`
}

// ToCloudEvent wraps ev in a CloudEvents envelope with a fresh ID.
func ToCloudEvent(ev Event) (cloudevents.Event, error) {
	ce := cloudevents.NewEvent()
	ce.SetID(uuid.NewString())
	ce.SetSource(EventSource)
	ce.SetType(TypePrefix + string(ev.Kind))
	ce.SetSubject(ev.Task)
	t := ev.Time
	if t.IsZero() {
		t = time.Now()
	}
	ce.SetTime(t)

	payload := Payload{Task: ev.Task, Message: ev.Message, Paths: ev.Paths, CSSOnly: ev.CSSOnly}
	if ev.Err != nil {
		payload.Error = ev.Err.Error()
	}
	if err := ce.SetData(cloudevents.ApplicationJSON, payload); err != nil {
		return ce, err
	}
	if err := ce.Validate(); err != nil {
		return ce, err
	}
	return ce, nil
}
