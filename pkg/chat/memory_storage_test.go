package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaribMalek/relay/pkg/chat"
)

func TestMemoryStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	seed := func(t *testing.T, s *chat.MemoryStorage, room string, texts ...string) {
		t.Helper()
		for _, text := range texts {
			m := &chat.Message{Room: room, Sender: "alice", Role: chat.RoleProducer, Text: text}
			require.NoError(t, s.Create(ctx, m))
			require.NotZero(t, m.ID)
			require.False(t, m.CreatedAt.IsZero())
		}
	}

	t.Run("assigns sequential ids", func(t *testing.T) {
		t.Parallel()

		s := chat.NewMemoryStorage()
		first := &chat.Message{Room: "r", Sender: "a", Role: chat.RoleProducer, Text: "one"}
		second := &chat.Message{Room: "r", Sender: "a", Role: chat.RoleProducer, Text: "two"}
		require.NoError(t, s.Create(ctx, first))
		require.NoError(t, s.Create(ctx, second))
		assert.Equal(t, first.ID+1, second.ID)
	})

	t.Run("history filters by room", func(t *testing.T) {
		t.Parallel()

		s := chat.NewMemoryStorage()
		seed(t, s, "support", "a", "b")
		seed(t, s, "sales", "c")

		list, err := s.History(ctx, "support", 100)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a", list[0].Text)
		assert.Equal(t, "b", list[1].Text)
	})

	t.Run("empty room spans all rooms", func(t *testing.T) {
		t.Parallel()

		s := chat.NewMemoryStorage()
		seed(t, s, "support", "a")
		seed(t, s, "sales", "b")

		list, err := s.History(ctx, "", 100)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("limit trims to the newest messages, order preserved", func(t *testing.T) {
		t.Parallel()

		s := chat.NewMemoryStorage()
		seed(t, s, "support", "1", "2", "3", "4", "5")

		list, err := s.History(ctx, "support", 3)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "3", list[0].Text)
		assert.Equal(t, "5", list[2].Text)
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		s := chat.NewMemoryStorage()
		list, err := s.History(ctx, "support", 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
