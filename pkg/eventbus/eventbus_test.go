package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
)

type createdEvent struct {
	Name string
}

func TestEventBus_PublishToMatchingSubscriber(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(log)

	var got []string
	bus.Subscribe(func(e *createdEvent) {
		got = append(got, e.Name)
	})

	bus.Publish(&createdEvent{Name: "first"})
	bus.Publish(&createdEvent{Name: "second"})

	assert.Equal(t, []string{"first", "second"}, got)
	assert.Equal(t, 1, bus.SubscribersCount())
}

func TestEventBus_PublishSkipsMismatchedSignature(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(log)

	called := false
	bus.Subscribe(func(e *createdEvent, extra int) {
		called = true
	})

	bus.Publish(&createdEvent{Name: "ignored"})
	assert.False(t, called)
}

func TestEventBus_PanickingHandlerDoesNotPropagate(t *testing.T) {
	t.Parallel()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(log)

	bus.Subscribe(func(e *createdEvent) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(&createdEvent{Name: "x"})
	})
}

func TestMatchSignature(t *testing.T) {
	t.Parallel()

	handler := func(e *createdEvent) {}

	assert.True(t, eventbus.MatchSignature(handler, []interface{}{&createdEvent{}}))
	assert.False(t, eventbus.MatchSignature(handler, []interface{}{"not an event"}))
	assert.False(t, eventbus.MatchSignature(handler, []interface{}{&createdEvent{}, 1}))
	assert.False(t, eventbus.MatchSignature("not a func", []interface{}{&createdEvent{}}))
}
