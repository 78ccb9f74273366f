package dynamodb

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techtree-backend/infrastructure/persistence/storetest"
)

// fakeClient is an in-memory table understanding just the conditions this
// package issues.
type fakeClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	puts  []*dynamodb.PutItemInput
	fail  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func str(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

func itemKey(key map[string]types.AttributeValue) string {
	return str(key["PK"]) + "|" + str(key["SK"])
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return &dynamodb.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.puts = append(f.puts, in)
	k := itemKey(in.Item)
	if in.ConditionExpression != nil {
		if existing, ok := f.items[k]; ok {
			expires, _ := strconv.ParseInt(str(existing["ExpiresAt"]), 10, 64)
			now, _ := strconv.ParseInt(str(in.ExpressionAttributeValues[":now"]), 10, 64)
			if expires >= now {
				return nil, conditionFailed()
			}
		}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := itemKey(in.Key)
	if in.ConditionExpression != nil {
		existing, ok := f.items[k]
		if !ok || str(existing["LockID"]) != str(in.ExpressionAttributeValues[":lockId"]) {
			return nil, conditionFailed()
		}
	}
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeClient) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	for _, reqs := range in.RequestItems {
		if len(reqs) > maxBatchWrite {
			return nil, errors.New("too many items in batch")
		}
		for _, r := range reqs {
			delete(f.items, itemKey(r.DeleteRequest.Key))
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func TestTranscriptStore_Contract(t *testing.T) {
	storetest.Run(t, NewTranscriptStore(newFakeClient(), "chat", 0, zap.NewNop()))
}

func TestTranscriptStore_ItemShape(t *testing.T) {
	// Arrange
	client := newFakeClient()
	store := NewTranscriptStore(client, "chat", 24*time.Hour, zap.NewNop())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	// Act
	require.NoError(t, store.Put(context.Background(), "abc", "tech-tree-chat-scroll", "7"))

	// Assert
	require.Len(t, client.puts, 1)
	item := client.puts[0].Item
	assert.Equal(t, "SESSION#abc", str(item["PK"]))
	assert.Equal(t, "KEY#tech-tree-chat-scroll", str(item["SK"]))
	assert.Equal(t, "7", str(item["Value"]))
	assert.Equal(t, strconv.FormatInt(fixed.Add(24*time.Hour).Unix(), 10), str(item["TTL"]))
	assert.Equal(t, "chat", aws.ToString(client.puts[0].TableName))
}

func TestTranscriptStore_DeleteBatches(t *testing.T) {
	client := newFakeClient()
	store := NewTranscriptStore(client, "chat", 0, zap.NewNop())
	ctx := context.Background()

	keys := make([]string, 30)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		require.NoError(t, store.Put(ctx, "s", keys[i], "v"))
	}

	require.NoError(t, store.Delete(ctx, "s", keys...))
	assert.Empty(t, client.items)
}

func TestTranscriptStore_StorageErrors(t *testing.T) {
	client := newFakeClient()
	client.fail = errors.New("throttled")
	store := NewTranscriptStore(client, "chat", 0, zap.NewNop())

	_, err := store.Get(context.Background(), "s", "k")

	require.Error(t, err)
	assert.ErrorIs(t, err, client.fail)
}

func TestSessionLock(t *testing.T) {
	ctx := context.Background()

	t.Run("exclusive until released", func(t *testing.T) {
		client := newFakeClient()
		lock := NewSessionLock(client, "chat", time.Minute, 100*time.Millisecond, zap.NewNop())

		release, err := lock.Acquire(ctx, "s1")
		require.NoError(t, err)

		_, err = lock.Acquire(ctx, "s1")
		assert.ErrorIs(t, err, ErrLockHeld)

		other, err := lock.Acquire(ctx, "s2")
		require.NoError(t, err)
		other()

		release()
		again, err := lock.Acquire(ctx, "s1")
		require.NoError(t, err)
		again()
		assert.Empty(t, client.items)
	})

	t.Run("expired lock is taken over", func(t *testing.T) {
		client := newFakeClient()
		lock := NewSessionLock(client, "chat", time.Second, 0, zap.NewNop())
		start := time.Now()
		lock.now = func() time.Time { return start }

		stale, err := lock.Acquire(ctx, "s1")
		require.NoError(t, err)

		lock.now = func() time.Time { return start.Add(2 * time.Second) }
		fresh, err := lock.Acquire(ctx, "s1")
		require.NoError(t, err)

		// The stale holder's release must not drop the new lock.
		stale()
		assert.Len(t, client.items, 1)
		fresh()
		assert.Empty(t, client.items)
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := newFakeClient()
		lock := NewSessionLock(client, "chat", time.Minute, time.Minute, zap.NewNop())
		release, err := lock.Acquire(ctx, "s1")
		require.NoError(t, err)
		defer release()

		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err = lock.Acquire(cctx, "s1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
