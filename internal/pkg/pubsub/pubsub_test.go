package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMessages(t *testing.T) {
	// 所有事件类型都应有默认文案
	events := []string{EventRequestSubmitted, EventRequestApproved, EventRequestRejected}

	for _, event := range events {
		msg, ok := EventMessages[event]
		assert.True(t, ok, "Event %s should have message", event)
		assert.NotEmpty(t, msg, "Message for %s should not be empty", event)
	}
}

func TestPlanEvent_JSON(t *testing.T) {
	event := &PlanEvent{
		Type:      EventRequestSubmitted,
		RequestID: 1,
		UserID:    2,
		Contact:   "11999998888",
		Message:   "收到新的付款申请",
	}

	// Marshal to JSON
	data, err := json.Marshal(event)
	require.NoError(t, err)

	// Verify snake_case keys
	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	assert.Contains(t, raw, "request_id")
	assert.Contains(t, raw, "user_id")

	// Unmarshal back
	var decoded PlanEvent
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, event.RequestID, decoded.RequestID)
	assert.Equal(t, event.UserID, decoded.UserID)
	assert.Equal(t, event.Contact, decoded.Contact)
}

func TestPlanEvent_OmitEmpty(t *testing.T) {
	event := &PlanEvent{
		Type:      EventRequestSubmitted,
		RequestID: 1,
		UserID:    2,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	// AdminID、Contact、Message 为空时应省略
	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	_, hasAdminID := raw["admin_id"]
	_, hasContact := raw["contact"]
	_, hasMessage := raw["message"]
	assert.False(t, hasAdminID, "empty admin_id should be omitted")
	assert.False(t, hasContact, "empty contact should be omitted")
	assert.False(t, hasMessage, "empty message should be omitted")
}

// Integration tests with real Redis (skip if not available)
func TestPublisherSubscriber_Integration(t *testing.T) {
	// Try to connect to Redis
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer client.Close()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	testCtx, testCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer testCancel()

	received := make(chan *PlanEvent, 1)

	// Start subscriber in goroutine
	go func() {
		subscriber.Subscribe(testCtx, func(event *PlanEvent) {
			received <- event
		})
	}()

	// Give subscriber time to connect
	time.Sleep(100 * time.Millisecond)

	event := &PlanEvent{
		Type:      EventRequestSubmitted,
		RequestID: 123,
		UserID:    456,
		Contact:   "11999998888",
	}

	err := publisher.PublishPlanEvent(testCtx, event)
	require.NoError(t, err)

	// Wait for message
	select {
	case receivedEvent := <-received:
		assert.Equal(t, event.RequestID, receivedEvent.RequestID)
		assert.Equal(t, event.UserID, receivedEvent.UserID)
		assert.Equal(t, EventRequestSubmitted, receivedEvent.Type)
		assert.NotEmpty(t, receivedEvent.Message) // Auto-filled from type
	case <-testCtx.Done():
		t.Fatal("Timeout waiting for message")
	}
}

func TestNewPublisher(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer client.Close()

	publisher := NewPublisher(client)
	assert.NotNil(t, publisher)
}

func TestNewSubscriber(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer client.Close()

	subscriber := NewSubscriber(client)
	assert.NotNil(t, subscriber)
}
