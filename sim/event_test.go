package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_MarshalJSON_WireShape(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"progress", Event{Kind: EventProgress, Progress: 50}, `{"type":"progress","data":50}`},
		{
			"result",
			Event{Kind: EventResult, Result: &LevelResult{Balance: 100, Results: AggregateResult{Avg: 2.5, Best: 7, Worst: 2}}},
			`{"type":"result","data":{"balance":100,"results":{"avg":2.5,"best":7,"worst":2}}}`,
		},
		{"complete", Event{Kind: EventComplete}, `{"type":"complete"}`},
		{"aborted complete", Event{Kind: EventComplete, Aborted: true}, `{"type":"complete","data":{"aborted":true}}`},
		{"error", Event{Kind: EventError, Message: "boom"}, `{"type":"error","data":{"message":"boom"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestEvent_UnmarshalJSON_ResultWithExtras(t *testing.T) {
	var ev Event
	err := json.Unmarshal([]byte(`{"type":"result","data":{"balance":316.23,"results":{"avg":12.5,"best":90,"worst":7,"trials":1000,"truncated":2}}}`), &ev)
	require.NoError(t, err)

	require.NotNil(t, ev.Result)
	assert.Equal(t, EventResult, ev.Kind)
	assert.Equal(t, 316.23, ev.Result.Balance)
	assert.Equal(t, AggregateResult{Avg: 12.5, Best: 90, Worst: 7, Trials: 1000, Truncated: 2}, ev.Result.Results)
}

func TestEvent_UnmarshalJSON_UnknownType(t *testing.T) {
	var ev Event
	assert.Error(t, json.Unmarshal([]byte(`{"type":"paused"}`), &ev))
}

func TestEvent_MarshalJSON_UnknownKind(t *testing.T) {
	_, err := json.Marshal(Event{Kind: "paused"})
	assert.Error(t, err)
}

func TestEvent_IsTerminal(t *testing.T) {
	assert.False(t, Event{Kind: EventProgress}.IsTerminal())
	assert.False(t, Event{Kind: EventResult}.IsTerminal())
	assert.True(t, Event{Kind: EventComplete}.IsTerminal())
	assert.True(t, Event{Kind: EventError}.IsTerminal())
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "progress 25%", Event{Kind: EventProgress, Progress: 25}.String())
	assert.Equal(t, "complete (aborted)", Event{Kind: EventComplete, Aborted: true}.String())
	assert.Equal(t, "error: bad", Event{Kind: EventError, Message: "bad"}.String())
}
