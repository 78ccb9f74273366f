package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingCommand struct {
	Fail bool
}

func (c pingCommand) Validate() error { return nil }

type invalidCommand struct{}

func (invalidCommand) Validate() error { return errors.New("invalid") }

type recordingMetrics struct {
	counts map[string]int
}

func (m *recordingMetrics) StartTimer(metric, label string) Timer { return noopTimer{} }

func (m *recordingMetrics) Increment(metric, label string) {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[metric+"/"+label]++
}

type noopTimer struct{}

func (noopTimer) Stop() {}

func TestCommandBus_Send(t *testing.T) {
	b := NewCommandBus(LoggingMiddleware(zap.NewNop()))
	var handled []pingCommand
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(_ context.Context, cmd Command) error {
		handled = append(handled, cmd.(pingCommand))
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), pingCommand{}))
	assert.Len(t, handled, 1)
}

func TestCommandBus_Errors(t *testing.T) {
	sentinel := errors.New("storage down")
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(_ context.Context, cmd Command) error {
		if cmd.(pingCommand).Fail {
			return sentinel
		}
		return nil
	})))

	t.Run("handler error", func(t *testing.T) {
		assert.ErrorIs(t, b.Send(context.Background(), pingCommand{Fail: true}), sentinel)
	})

	t.Run("validation", func(t *testing.T) {
		assert.ErrorContains(t, b.Send(context.Background(), invalidCommand{}), "validation failed")
	})

	t.Run("unregistered", func(t *testing.T) {
		b := NewCommandBus()
		assert.ErrorIs(t, b.Send(context.Background(), pingCommand{}), ErrHandlerNotFound)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		assert.Error(t, b.Register(pingCommand{}, CommandHandlerFunc(func(context.Context, Command) error { return nil })))
	})
}

func TestPipeline_OrderIsOutermostFirst(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	h := NewPipeline(tag("outer"), tag("inner")).Execute(CommandHandlerFunc(func(context.Context, Command) error {
		order = append(order, "handler")
		return nil
	}))
	require.NoError(t, h.Handle(context.Background(), pingCommand{}))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := &recordingMetrics{}
	b := NewCommandBus(MetricsMiddleware(metrics))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(_ context.Context, cmd Command) error {
		if cmd.(pingCommand).Fail {
			return errors.New("fail")
		}
		return nil
	})))

	_ = b.Send(context.Background(), pingCommand{})
	_ = b.Send(context.Background(), pingCommand{Fail: true})

	assert.Equal(t, 1, metrics.counts["command_success/pingCommand"])
	assert.Equal(t, 1, metrics.counts["command_errors/pingCommand"])
}
