package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeMQTT struct {
	sent []published
	err  error
}

func (f *fakeMQTT) Publish(topic string, qos byte, _ bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic: topic, qos: qos, payload: payload})
	return nil
}

func (f *fakeMQTT) QoS() byte { return 1 }

func TestMQTTPublisher(t *testing.T) {
	client := &fakeMQTT{}
	p := NewMQTTPublisher(client, "mindcare/reminders", zap.NewNop())

	err := p.PublishSessionReminder(context.Background(), Reminder{SessionID: "s1", ClientName: "Ana Silva", Date: "2024-03-15", Time: "14:00"})
	require.NoError(t, err)

	require.Len(t, client.sent, 1)
	assert.Equal(t, "mindcare/reminders/sessions/s1", client.sent[0].topic)
	assert.Equal(t, byte(1), client.sent[0].qos)

	var got Reminder
	require.NoError(t, json.Unmarshal(client.sent[0].payload, &got))
	assert.Equal(t, "Ana Silva", got.ClientName)
}

func TestMQTTPublisher_Errors(t *testing.T) {
	client := &fakeMQTT{err: errors.New("not connected")}
	p := NewMQTTPublisher(client, "t", zap.NewNop())
	assert.Error(t, p.PublishSessionReminder(context.Background(), Reminder{SessionID: "s1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishSessionReminder(ctx, Reminder{SessionID: "s1"}), context.Canceled)
}

func TestLogPublisher(t *testing.T) {
	assert.NoError(t, NewLogPublisher(zap.NewNop()).PublishSessionReminder(context.Background(), Reminder{SessionID: "s1"}))
}
