package stda

import (
	"context"
	"testing"
	"time"

	"github.com/stda-home/stda/mocks"
	"github.com/stretchr/testify/assert"
)

func TestGateway_ReadEvent(t *testing.T) {
	t.Run("returns queued events in order", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})

		g.sendEvent("first")
		g.sendEvent("second")

		e, err := g.ReadEvent(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "first", e)

		e, err = g.ReadEvent(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "second", e)
	})

	t.Run("honours context cancellation while waiting", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := g.ReadEvent(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
