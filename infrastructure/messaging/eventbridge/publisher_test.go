package eventbridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techtree-backend/domain/events"
)

// MockClient is a mock implementation of Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
}

func TestPublisher_Publish(t *testing.T) {
	// Arrange
	client := new(MockClient)
	pub := NewPublisher(client, "techtree-bus", zap.NewNop())
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	evt := events.NewChatTurnCompleted("session-1", "msg-1", true, at)

	var captured *eventbridge.PutEventsInput
	client.On("PutEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*eventbridge.PutEventsInput) }).
		Return(&eventbridge.PutEventsOutput{}, nil)

	// Act
	err := pub.Publish(context.Background(), evt)

	// Assert
	require.NoError(t, err)
	require.Len(t, captured.Entries, 1)
	entry := captured.Entries[0]
	assert.Equal(t, "techtree-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.EventTypeChatTurnCompleted, aws.ToString(entry.DetailType))
	assert.Equal(t, at, aws.ToTime(entry.Time))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "session-1", detail["session_id"])
	assert.Equal(t, true, detail["succeeded"])
}

func TestPublisher_Batches(t *testing.T) {
	client := new(MockClient)
	pub := NewPublisher(client, "bus", zap.NewNop())
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{}, nil)

	evts := make([]events.DomainEvent, 23)
	for i := range evts {
		evts[i] = events.NewChatCleared("s", time.Now())
	}

	require.NoError(t, pub.Publish(context.Background(), evts...))
	client.AssertNumberOfCalls(t, "PutEvents", 3)
}

func TestPublisher_Failures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		client := new(MockClient)
		client.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		err := NewPublisher(client, "bus", zap.NewNop()).Publish(context.Background(), events.NewChatCleared("s", time.Now()))

		assert.Error(t, err)
	})

	t.Run("failed entries", func(t *testing.T) {
		client := new(MockClient)
		client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
		}, nil)

		err := NewPublisher(client, "bus", zap.NewNop()).Publish(context.Background(), events.NewChatCleared("s", time.Now()))

		assert.EqualError(t, err, "1 events failed to publish")
	})

	t.Run("nothing to send", func(t *testing.T) {
		client := new(MockClient)

		require.NoError(t, NewPublisher(client, "bus", zap.NewNop()).Publish(context.Background()))
		client.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
	})
}
