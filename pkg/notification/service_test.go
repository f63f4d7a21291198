package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SaribMalek/relay/pkg/broker"
)

// MockStorage for testing Service
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Create(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStorage) ListRecent(ctx context.Context, userID *int64, limit int) ([]Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockStorage) MarkRead(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) CountUnread(ctx context.Context, userID *int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockDeliverer for testing Service
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func ptr(v int64) *int64 { return &v }

func TestService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then delivers", func(t *testing.T) {
		storage := NewMemoryStorage()
		deliverer := new(MockDeliverer)
		deliverer.On("Deliver", mock.Anything, mock.MatchedBy(func(n Notification) bool {
			return n.ID != 0 && n.Title == "T"
		})).Return(nil)

		svc := NewService(storage, deliverer)
		n, err := svc.Publish(ctx, PublishInput{UserID: ptr(5), Title: "T", Message: "M"})
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.NotZero(t, n.ID)
		assert.False(t, n.Read)

		// The returned id must be retrievable immediately.
		list, err := svc.Backlog(ctx, ptr(5))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, n.ID, list[0].ID)

		deliverer.AssertExpectations(t)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		storage := new(MockStorage)
		svc := NewService(storage, nil)

		_, err := svc.Publish(ctx, PublishInput{Message: "M"})
		assert.ErrorIs(t, err, ErrValidation)
		storage.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing message fails validation", func(t *testing.T) {
		svc := NewService(new(MockStorage), nil)

		_, err := svc.Publish(ctx, PublishInput{Title: "T"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("store failure aborts before delivery", func(t *testing.T) {
		storage := new(MockStorage)
		storage.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
		deliverer := new(MockDeliverer)

		svc := NewService(storage, deliverer)
		_, err := svc.Publish(ctx, PublishInput{Title: "T", Message: "M"})

		assert.ErrorIs(t, err, ErrStore)
		deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
	})

	t.Run("delivery failure does not fail the publish", func(t *testing.T) {
		storage := NewMemoryStorage()
		deliverer := new(MockDeliverer)
		deliverer.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("transport down"))

		svc := NewService(storage, deliverer)
		n, err := svc.Publish(ctx, PublishInput{Title: "T", Message: "M"})

		require.NoError(t, err)
		assert.NotZero(t, n.ID)
	})
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("read flag visible in backlog", func(t *testing.T) {
		svc := NewService(NewMemoryStorage(), nil)
		n, err := svc.Publish(ctx, PublishInput{UserID: ptr(1), Title: "T", Message: "M"})
		require.NoError(t, err)

		require.NoError(t, svc.MarkRead(ctx, n.ID))

		list, err := svc.Backlog(ctx, ptr(1))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].Read)
	})

	t.Run("idempotent on already-read notification", func(t *testing.T) {
		svc := NewService(NewMemoryStorage(), nil)
		n, err := svc.Publish(ctx, PublishInput{Title: "T", Message: "M"})
		require.NoError(t, err)

		require.NoError(t, svc.MarkRead(ctx, n.ID))
		require.NoError(t, svc.MarkRead(ctx, n.ID))

		unread, err := svc.CountUnread(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, unread)
	})

	t.Run("unknown id is not an error", func(t *testing.T) {
		svc := NewService(NewMemoryStorage(), nil)
		assert.NoError(t, svc.MarkRead(ctx, 999))
	})
}

func TestService_Backlog(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first with broadcasts included", func(t *testing.T) {
		svc := NewService(NewMemoryStorage(), nil)

		first, err := svc.Publish(ctx, PublishInput{UserID: ptr(5), Title: "personal", Message: "M"})
		require.NoError(t, err)
		second, err := svc.Publish(ctx, PublishInput{Title: "broadcast", Message: "M"})
		require.NoError(t, err)
		_, err = svc.Publish(ctx, PublishInput{UserID: ptr(6), Title: "other user", Message: "M"})
		require.NoError(t, err)

		list, err := svc.Backlog(ctx, ptr(5))
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("nil recipient sees broadcasts only", func(t *testing.T) {
		svc := NewService(NewMemoryStorage(), nil)

		_, err := svc.Publish(ctx, PublishInput{UserID: ptr(5), Title: "personal", Message: "M"})
		require.NoError(t, err)
		_, err = svc.Publish(ctx, PublishInput{Title: "broadcast", Message: "M"})
		require.NoError(t, err)

		list, err := svc.Backlog(ctx, nil)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "broadcast", list[0].Title)
	})

	t.Run("respects the backlog limit", func(t *testing.T) {
		svc := NewService(NewMemoryStorage(), nil, WithBacklogLimit(2))

		for range 5 {
			_, err := svc.Publish(ctx, PublishInput{Title: "T", Message: "M"})
			require.NoError(t, err)
		}

		list, err := svc.Backlog(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestBrokerDeliverer(t *testing.T) {
	ctx := context.Background()

	receive := func(t *testing.T, c *broker.Conn) []broker.Event {
		t.Helper()
		var events []broker.Event
		for {
			select {
			case ev := <-c.Events():
				events = append(events, ev)
			default:
				return events
			}
		}
	}

	t.Run("personal notification targets the user room only", func(t *testing.T) {
		b := broker.New(broker.NewDirectory())
		defer b.Close()

		recipient, err := b.Connect()
		require.NoError(t, err)
		bystander, err := b.Connect()
		require.NoError(t, err)
		require.NoError(t, b.Identify(recipient.ID(), broker.UserRoom(5), "", ""))
		require.NoError(t, b.Identify(bystander.ID(), broker.UserRoom(6), "", ""))

		d := NewBrokerDeliverer(b)
		require.NoError(t, d.Deliver(ctx, Notification{ID: 1, UserID: ptr(5), Title: "T", Message: "M"}))

		got := receive(t, recipient)
		require.Len(t, got, 1)
		assert.Equal(t, broker.EventNotification, got[0].Name)
		payload, ok := got[0].Payload.(Notification)
		require.True(t, ok)
		assert.Equal(t, "T", payload.Title)

		assert.Empty(t, receive(t, bystander))
	})

	t.Run("broadcast reaches all connections", func(t *testing.T) {
		b := broker.New(broker.NewDirectory())
		defer b.Close()

		c1, err := b.Connect()
		require.NoError(t, err)
		c2, err := b.Connect()
		require.NoError(t, err)
		require.NoError(t, b.Identify(c1.ID(), broker.UserRoom(5), "", ""))

		d := NewBrokerDeliverer(b)
		require.NoError(t, d.Deliver(ctx, Notification{ID: 2, Title: "T", Message: "M"}))

		assert.Len(t, receive(t, c1), 1)
		assert.Len(t, receive(t, c2), 1)
	})
}
