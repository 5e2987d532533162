package messaging_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	publishErr error
	topic      string
	messages   []*message.Message
	closed     bool
}

func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, messages...)

	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true

	return nil
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes the event as json on the topic", func(t *testing.T) {
		pub := &mockPublisher{}
		publish := messaging.NewPublishFunc[analytics.ClickEvent](pub, analytics.TopicLinkClicked)

		event := &analytics.ClickEvent{
			LinkID:    "link-1",
			VisitorID: "v1",
			At:        time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC),
		}

		require.NoError(t, publish(event))

		assert.Equal(t, analytics.TopicLinkClicked, pub.topic)
		require.Len(t, pub.messages, 1)
		assert.NotEmpty(t, pub.messages[0].UUID)

		var decoded analytics.ClickEvent
		require.NoError(t, json.Unmarshal(pub.messages[0].Payload, &decoded))
		assert.Equal(t, "link-1", decoded.LinkID)
		assert.Equal(t, "v1", decoded.VisitorID)
	})

	t.Run("propagates publish errors", func(t *testing.T) {
		publishErr := errors.New("redis down")
		publish := messaging.NewPublishFunc[analytics.ClickEvent](&mockPublisher{publishErr: publishErr}, analytics.TopicLinkClicked)

		err := publish(&analytics.ClickEvent{LinkID: "link-1"})

		assert.ErrorIs(t, err, publishErr)
	})
}

func TestNewNoopPublish(t *testing.T) {
	publish := messaging.NewNoopPublish[analytics.ClickEvent]()

	assert.NoError(t, publish(&analytics.ClickEvent{LinkID: "link-1"}))
}

func TestPublisherGroup(t *testing.T) {
	t.Run("exposes the underlying publisher", func(t *testing.T) {
		pub := &mockPublisher{}
		group := messaging.NewPublisherGroup(pub)

		assert.Equal(t, pub, group.Publisher())
	})

	t.Run("shutdown closes the publisher", func(t *testing.T) {
		pub := &mockPublisher{}
		group := messaging.NewPublisherGroup(pub)

		require.NoError(t, group.Shutdown())
		assert.True(t, pub.closed)
	})
}
