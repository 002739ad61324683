package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderSubmittedData struct {
	SubmissionID string `json:"submission_id"`
	Total        int64  `json:"total"`
}

func TestNewEvent(t *testing.T) {
	data := orderSubmittedData{SubmissionID: "sub-1", Total: 990}

	ev, err := NewEvent("salesdesk.order.submitted", "op-1", "cart", "salesdesk", data)
	require.NoError(t, err)

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "salesdesk.order.submitted", ev.EventType)
	assert.Equal(t, "op-1", ev.AggregateID)
	assert.Equal(t, "cart", ev.AggregateType)
	assert.Equal(t, 1, ev.Version)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestEvent_RoundTrip(t *testing.T) {
	ev, err := NewEvent("salesdesk.cart.updated", "op-1", "cart", "salesdesk",
		orderSubmittedData{SubmissionID: "sub-2", Total: 1500})
	require.NoError(t, err)
	ev.WithCorrelationID("corr-9")

	raw, err := ev.Marshal()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ev.EventID, decoded.EventID)
	assert.Equal(t, "corr-9", decoded.CorrelationID)

	var data orderSubmittedData
	require.NoError(t, decoded.UnmarshalData(&data))
	assert.Equal(t, "sub-2", data.SubmissionID)
	assert.Equal(t, int64(1500), data.Total)
}
