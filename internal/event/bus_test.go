package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	t.Run("Delivers a published event to every subscriber", func(t *testing.T) {
		bus := NewBus()

		first, cancelFirst := bus.Subscribe()
		defer cancelFirst()
		second, cancelSecond := bus.Subscribe()
		defer cancelSecond()

		bus.Publish(GameCreated(0, "alice"))

		for _, ch := range []<-chan Event{first, second} {
			evt := <-ch
			assert.Equal(t, TypeGameCreated, evt.Type)
			assert.Equal(t, "0", evt.Attributes["game_id"])
			assert.Equal(t, "alice", evt.Attributes["by"])
		}
	})

	t.Run("Cancel closes the channel and stops delivery", func(t *testing.T) {
		bus := NewBus()

		ch, cancel := bus.Subscribe()
		cancel()

		_, open := <-ch
		assert.False(t, open)

		// Publishing after cancel must not panic.
		bus.Publish(GameDraw(1))
	})

	t.Run("A slow subscriber drops events instead of blocking the publisher", func(t *testing.T) {
		bus := NewBus()

		ch, cancel := bus.Subscribe()
		defer cancel()

		for i := 0; i < subscriberBuffer+10; i++ {
			bus.Publish(GameMove(0, "alice", i%9))
		}

		// The buffer holds the first events; the overflow was dropped.
		require.Len(t, ch, subscriberBuffer)
	})
}

func TestEventConstructors(t *testing.T) {
	t.Run("Move events carry game, player and position", func(t *testing.T) {
		evt := GameMove(3, "bob", 8)

		assert.Equal(t, TypeGameMove, evt.Type)
		assert.Equal(t, "3", evt.Attributes["game_id"])
		assert.Equal(t, "bob", evt.Attributes["move_by"])
		assert.Equal(t, "8", evt.Attributes["position"])
	})

	t.Run("Mint events correlate trophy, game and owner", func(t *testing.T) {
		evt := TrophyMinted(0, 12, "carol")

		assert.Equal(t, TypeTrophyMinted, evt.Type)
		assert.Equal(t, "0", evt.Attributes["token_id"])
		assert.Equal(t, "12", evt.Attributes["game_id"])
		assert.Equal(t, "carol", evt.Attributes["owner"])
	})
}
