package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_CheckAll(t *testing.T) {
	r := NewRegistry(50 * time.Millisecond)
	r.Register("ok", CheckerFunc(func(ctx context.Context) error { return nil }))
	r.Register("down", CheckerFunc(func(ctx context.Context) error { return errors.New("connection refused") }))
	r.Register("slow", CheckerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	assert.Equal(t, []string{"down", "ok", "slow"}, r.List())

	failures := r.CheckAll(context.Background())
	assert.Len(t, failures, 2)
	assert.EqualError(t, failures["down"], "connection refused")
	assert.ErrorIs(t, failures["slow"], context.DeadlineExceeded)

	r.Unregister("down")
	r.Unregister("slow")
	assert.Empty(t, r.CheckAll(context.Background()))
}
