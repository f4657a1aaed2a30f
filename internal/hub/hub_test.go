package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEveryStreamOfTheRecipient(t *testing.T) {
	h := NewHub()

	first := make(Client, 1)
	second := make(Client, 1)
	other := make(Client, 1)
	h.Subscribe(1, first)
	h.Subscribe(1, second)
	h.Subscribe(2, other)

	h.Publish(1, Event{Type: "new_like", Payload: map[string]any{"id": 7}})

	for _, client := range []Client{first, second} {
		select {
		case raw := <-client:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, "new_like", event.Type)
		default:
			t.Fatal("expected an event on the stream")
		}
	}

	select {
	case <-other:
		t.Fatal("event leaked to another user's stream")
	default:
	}
}

func TestPublishToUserWithoutStreamsIsANoOp(t *testing.T) {
	h := NewHub()
	h.Publish(42, Event{Type: "new_comment"})
}

func TestSlowClientDoesNotBlockPublish(t *testing.T) {
	h := NewHub()

	full := make(Client, 1)
	full <- []byte("backlog")
	h.Subscribe(1, full)

	done := make(chan struct{})
	go func() {
		h.Publish(1, Event{Type: "new_like"})
		close(done)
	}()
	<-done
}

func TestUnsubscribeClosesTheStream(t *testing.T) {
	h := NewHub()

	client := make(Client, 1)
	h.Subscribe(1, client)
	h.Unsubscribe(1, client)

	_, open := <-client
	assert.False(t, open)

	// Publishing after the last stream is gone must not panic on a closed channel.
	h.Publish(1, Event{Type: "new_like"})

	// A double unsubscribe is also harmless.
	h.Unsubscribe(1, client)
}
