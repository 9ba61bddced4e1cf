package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPlanEvents = "plan_request_events"
)

// 事件类型常量
const (
	EventRequestSubmitted = "request_submitted"
	EventRequestApproved  = "request_approved"
	EventRequestRejected  = "request_rejected"
)

// 事件对应的提示文案
var EventMessages = map[string]string{
	EventRequestSubmitted: "收到新的付款申请",
	EventRequestApproved:  "付款申请已通过",
	EventRequestRejected:  "付款申请已驳回",
}

// PlanEvent 付款申请事件，经 Redis 发布后由各实例推送到 WebSocket
type PlanEvent struct {
	Type      string `json:"type"`
	RequestID int64  `json:"request_id"`
	UserID    int64  `json:"user_id"`
	AdminID   int64  `json:"admin_id,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishPlanEvent 发布付款申请事件
func (p *Publisher) PublishPlanEvent(ctx context.Context, event *PlanEvent) error {
	// 自动填充提示文案
	if event.Message == "" && event.Type != "" {
		if message, ok := EventMessages[event.Type]; ok {
			event.Message = message
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal plan event: %w", err)
	}

	return p.client.Publish(ctx, ChannelPlanEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅付款申请事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*PlanEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelPlanEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event PlanEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
