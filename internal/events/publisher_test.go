package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := newMessage(TopicOrders, "order-1", map[string]any{
		"type":   "order_status_changed",
		"status": "تم التوصيل",
	})
	require.NoError(t, err)

	assert.Equal(t, TopicOrders, msg.Topic)
	assert.Equal(t, []byte("order-1"), msg.Key)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "order_status_changed", body["type"])
	assert.Equal(t, "تم التوصيل", body["status"])
}

func TestNewMessage_Unencodable(t *testing.T) {
	_, err := newMessage(TopicProducts, "k", map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil)
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), TopicOrders, "k", nil))
	assert.NoError(t, p.Close())
}
