package sim

import (
	"encoding/json"
	"fmt"
)

// EventKind tags the messages a run sends back to its caller.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventResult   EventKind = "result"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// LevelResult is the payload of a result event.
type LevelResult struct {
	Balance float64         `json:"balance"`
	Results AggregateResult `json:"results"`
}

// Event is the only data that crosses from the engine to the caller.
// Exactly one of the payload fields is meaningful, selected by Kind.
type Event struct {
	Kind     EventKind
	Progress int          // EventProgress: percent, 0..100
	Result   *LevelResult // EventResult
	Aborted  bool         // EventComplete: the run stopped on cancellation
	Message  string       // EventError
}

// IsTerminal reports whether e ends a run.
func (e Event) IsTerminal() bool {
	return e.Kind == EventComplete || e.Kind == EventError
}

func (e Event) String() string {
	switch e.Kind {
	case EventProgress:
		return fmt.Sprintf("progress %d%%", e.Progress)
	case EventResult:
		if e.Result == nil {
			return "result <nil>"
		}
		r := e.Result.Results
		return fmt.Sprintf("result balance=%.2f avg=%.2f best=%.0f worst=%.0f", e.Result.Balance, r.Avg, r.Best, r.Worst)
	case EventComplete:
		if e.Aborted {
			return "complete (aborted)"
		}
		return "complete"
	case EventError:
		return "error: " + e.Message
	default:
		return string(e.Kind)
	}
}

// wireEvent is the tagged {type, data} shape used on the wire.
type wireEvent struct {
	Type EventKind       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type completeData struct {
	Aborted bool `json:"aborted"`
}

type errorData struct {
	Message string `json:"message"`
}

// MarshalJSON encodes e as {"type": kind, "data": payload}.
// A normal completion carries no data; an aborted one carries {"aborted":true}.
func (e Event) MarshalJSON() ([]byte, error) {
	var data any
	switch e.Kind {
	case EventProgress:
		data = e.Progress
	case EventResult:
		data = e.Result
	case EventComplete:
		if e.Aborted {
			data = completeData{Aborted: true}
		}
	case EventError:
		data = errorData{Message: e.Message}
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}

	w := wireEvent{Type: e.Kind}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", e.Kind, err)
		}
		w.Data = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the {"type", "data"} wire shape.
func (e *Event) UnmarshalJSON(b []byte) error {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Event{Kind: w.Type}
	hasData := len(w.Data) > 0 && string(w.Data) != "null"

	switch w.Type {
	case EventProgress:
		if hasData {
			return json.Unmarshal(w.Data, &e.Progress)
		}
	case EventResult:
		if hasData {
			e.Result = &LevelResult{}
			return json.Unmarshal(w.Data, e.Result)
		}
	case EventComplete:
		if hasData {
			var d completeData
			if err := json.Unmarshal(w.Data, &d); err != nil {
				return err
			}
			e.Aborted = d.Aborted
		}
	case EventError:
		if hasData {
			var d errorData
			if err := json.Unmarshal(w.Data, &d); err != nil {
				return err
			}
			e.Message = d.Message
		}
	default:
		return fmt.Errorf("unknown event type %q", w.Type)
	}
	return nil
}
