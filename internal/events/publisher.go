package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/domain"
)

const shiftEventsQueue = "shift_events"

// Publisher 把班次变更事件发布到 RabbitMQ，
// 下游的提醒/邮件服务消费该队列，本服务只负责投递到队列。
type Publisher struct {
	cfg     *config.Config
	channel *amqp.Channel
}

func NewPublisher(cfg *config.Config, channel *amqp.Channel) (*Publisher, error) {
	// 声明队列
	_, err := channel.QueueDeclare(
		shiftEventsQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		cfg:     cfg,
		channel: channel,
	}, nil
}

// PublishShiftEvent 发布一条班次变更事件。事件 ID 由本方法填充。
func (p *Publisher) PublishShiftEvent(ctx context.Context, eventType domain.ShiftEventType, employeeID string, assignmentID int64) error {
	event := domain.ShiftEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		EmployeeID:   employeeID,
		AssignmentID: assignmentID,
		OccurredAt:   time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		shiftEventsQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   event.EventID,
			Body:        body,
		},
	)
}
