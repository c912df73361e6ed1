package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	h := Recover(func(ctx context.Context) error {
		panic("nil map")
	})
	err := h(context.Background())
	assert.EqualError(t, err, "panic: nil map")
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context) error {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	want := errors.New("failed")
	h := Chain(func(ctx context.Context) error {
		order = append(order, "handler")
		return want
	}, mark("outer"), mark("inner"), Logger("test"))

	assert.ErrorIs(t, h(context.Background()), want)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestChainWithRecover(t *testing.T) {
	h := Chain(func(ctx context.Context) error {
		var m map[string]int
		m["x"]++
		return nil
	}, Recover, Logger("panicky"))

	assert.Error(t, h(context.Background()))
}
