package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *Conn) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-c.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestBroker_Connect(t *testing.T) {
	t.Run("assigns unique connection ids", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		c1, err := b.Connect()
		require.NoError(t, err)
		c2, err := b.Connect()
		require.NoError(t, err)

		assert.NotEqual(t, c1.ID(), c2.ID())
		assert.Equal(t, 2, b.ConnectionCount())
	})

	t.Run("connect after close fails", func(t *testing.T) {
		b := New(NewDirectory())
		require.NoError(t, b.Close())

		_, err := b.Connect()
		assert.ErrorIs(t, err, ErrBrokerClosed)
	})
}

func TestBroker_Identify(t *testing.T) {
	t.Run("joins the given room", func(t *testing.T) {
		dir := NewDirectory()
		b := New(dir)
		defer b.Close()

		c, err := b.Connect()
		require.NoError(t, err)
		require.NoError(t, b.Identify(c.ID(), UserRoom(5), "alice", "consumer"))

		assert.Equal(t, []string{c.ID()}, dir.Members("user_5"))
		assert.Equal(t, "alice", c.Name())
		assert.Equal(t, "consumer", c.Role())
	})

	t.Run("empty room key falls back to anonymous room", func(t *testing.T) {
		dir := NewDirectory()
		b := New(dir)
		defer b.Close()

		c, err := b.Connect()
		require.NoError(t, err)
		require.NoError(t, b.Identify(c.ID(), "", "", ""))

		assert.Equal(t, []string{c.ID()}, dir.Members(AnonymousRoom))
	})

	t.Run("re-identify keeps prior memberships", func(t *testing.T) {
		dir := NewDirectory()
		b := New(dir)
		defer b.Close()

		c, err := b.Connect()
		require.NoError(t, err)
		require.NoError(t, b.Identify(c.ID(), UserRoom(5), "", ""))
		require.NoError(t, b.Identify(c.ID(), "support", "alice", "producer"))

		assert.Equal(t, 1, dir.MemberCount("user_5"))
		assert.Equal(t, 1, dir.MemberCount("support"))
	})

	t.Run("unknown connection rejected", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		err := b.Identify("ghost", "support", "", "")
		assert.ErrorIs(t, err, ErrUnknownConnection)
	})
}

func TestBroker_Join(t *testing.T) {
	t.Run("membership is additive across rooms", func(t *testing.T) {
		dir := NewDirectory()
		b := New(dir)
		defer b.Close()

		c, err := b.Connect()
		require.NoError(t, err)
		require.NoError(t, b.Identify(c.ID(), UserRoom(5), "alice", "consumer"))
		require.NoError(t, b.Join(c.ID(), "support"))
		require.NoError(t, b.Join(c.ID(), "sales"))

		assert.Equal(t, 1, dir.MemberCount(UserRoom(5)))
		assert.Equal(t, 1, dir.MemberCount("support"))
		assert.Equal(t, 1, dir.MemberCount("sales"))
	})

	t.Run("does not touch identity", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		c, err := b.Connect()
		require.NoError(t, err)
		require.NoError(t, b.Identify(c.ID(), "", "alice", "producer"))
		require.NoError(t, b.Join(c.ID(), "support"))

		assert.Equal(t, "alice", c.Name())
		assert.Equal(t, "producer", c.Role())
	})

	t.Run("unknown connection rejected", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		assert.ErrorIs(t, b.Join("ghost", "support"), ErrUnknownConnection)
	})
}

func TestBroker_Publish(t *testing.T) {
	t.Run("delivers exactly one copy to each room member", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		member, _ := b.Connect()
		outsider, _ := b.Connect()
		require.NoError(t, b.Identify(member.ID(), "support", "", ""))
		require.NoError(t, b.Identify(outsider.ID(), "sales", "", ""))

		delivered := b.Publish("support", Event{Name: EventMessage, Payload: "hi"})

		assert.Equal(t, 1, delivered)
		assert.Len(t, drain(member), 1)
		assert.Empty(t, drain(outsider))
	})

	t.Run("preserves publish order per room", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		c, _ := b.Connect()
		require.NoError(t, b.Identify(c.ID(), "support", "", ""))

		b.Publish("support", Event{Name: EventMessage, Payload: "first"})
		b.Publish("support", Event{Name: EventMessage, Payload: "second"})

		events := drain(c)
		require.Len(t, events, 2)
		assert.Equal(t, "first", events[0].Payload)
		assert.Equal(t, "second", events[1].Payload)
	})

	t.Run("broadcast reaches every connection regardless of room", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		identified, _ := b.Connect()
		unidentified, _ := b.Connect()
		require.NoError(t, b.Identify(identified.ID(), UserRoom(5), "", ""))

		delivered := b.Publish(BroadcastRoom, Event{Name: EventNotification, Payload: "all"})

		assert.Equal(t, 2, delivered)
		assert.Len(t, drain(identified), 1)
		assert.Len(t, drain(unidentified), 1)
	})

	t.Run("empty room delivers to nobody", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		assert.Equal(t, 0, b.Publish("nowhere", Event{Name: EventMessage}))
	})

	t.Run("saturated endpoint drops instead of blocking", func(t *testing.T) {
		b := New(NewDirectory(), WithBufferSize(1))
		defer b.Close()

		c, _ := b.Connect()
		require.NoError(t, b.Identify(c.ID(), "support", "", ""))

		assert.Equal(t, 1, b.Publish("support", Event{Name: EventMessage, Payload: 1}))
		assert.Equal(t, 0, b.Publish("support", Event{Name: EventMessage, Payload: 2}))
		assert.Len(t, drain(c), 1)
	})
}

func TestBroker_Disconnect(t *testing.T) {
	t.Run("removes membership so later publishes skip it", func(t *testing.T) {
		dir := NewDirectory()
		b := New(dir)
		defer b.Close()

		c, _ := b.Connect()
		require.NoError(t, b.Identify(c.ID(), "support", "", ""))

		b.Disconnect(c.ID())

		assert.Empty(t, dir.Members("support"))
		assert.Equal(t, 0, b.Publish("support", Event{Name: EventMessage}))
		assert.Equal(t, 0, b.ConnectionCount())
	})

	t.Run("closes the event channel", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		c, _ := b.Connect()
		b.Disconnect(c.ID())

		_, open := <-c.Events()
		assert.False(t, open)
	})

	t.Run("idempotent", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		c, _ := b.Connect()
		b.Disconnect(c.ID())
		assert.NotPanics(t, func() { b.Disconnect(c.ID()) })
	})

	t.Run("disconnected endpoint excluded from broadcast", func(t *testing.T) {
		b := New(NewDirectory())
		defer b.Close()

		gone, _ := b.Connect()
		alive, _ := b.Connect()
		b.Disconnect(gone.ID())

		assert.Equal(t, 1, b.Publish(BroadcastRoom, Event{Name: EventNotification}))
		assert.Len(t, drain(alive), 1)
	})
}

func TestBroker_Close(t *testing.T) {
	b := New(NewDirectory())

	c, _ := b.Connect()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, open := <-c.Events()
	assert.False(t, open)
	assert.Equal(t, 0, b.Publish(BroadcastRoom, Event{Name: EventNotification}))
}
