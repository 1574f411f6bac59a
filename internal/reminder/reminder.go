// Package reminder publishes session reminders for downstream notifiers.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Reminder is the message sent for one upcoming session.
type Reminder struct {
	SessionID  string    `json:"sessionId"`
	ClientID   string    `json:"clientId"`
	ClientName string    `json:"clientName"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Modality   string    `json:"type"`
	Timezone   string    `json:"timezone"`
	SentAt     time.Time `json:"sentAt"`
}

type Publisher interface {
	PublishSessionReminder(ctx context.Context, r Reminder) error
}

// MQTTClient is the subset of common/mqtt.Client used here.
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	QoS() byte
}

// MQTTPublisher sends each reminder to <topic>/sessions/<session id>.
type MQTTPublisher struct {
	client MQTTClient
	topic  string
	logger *zap.Logger
}

func NewMQTTPublisher(client MQTTClient, topic string, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, logger: logger}
}

func (p *MQTTPublisher) PublishSessionReminder(ctx context.Context, r Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}
	topic := fmt.Sprintf("%s/sessions/%s", p.topic, r.SessionID)
	if err := p.client.Publish(topic, p.client.QoS(), false, payload); err != nil {
		return err
	}
	p.logger.Info("Session reminder published", zap.String("topic", topic), zap.String("session_id", r.SessionID))
	return nil
}

// LogPublisher only logs; used when MQTT is disabled.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher { return &LogPublisher{logger: logger} }

func (p *LogPublisher) PublishSessionReminder(_ context.Context, r Reminder) error {
	p.logger.Info("Session reminder (MQTT disabled)",
		zap.String("session_id", r.SessionID),
		zap.String("client_name", r.ClientName),
		zap.String("date", r.Date),
		zap.String("time", r.Time),
	)
	return nil
}
