package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"techtree-backend/application/ports"
)

// ErrLockHeld is returned when another owner holds an unexpired lock.
var ErrLockHeld = errors.New("session lock already held")

// SessionLock provides per-session mutual exclusion across processes using
// conditional writes. Expired locks are taken over.
type SessionLock struct {
	client    Client
	tableName string
	lease     time.Duration
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

var _ ports.SessionLocker = (*SessionLock)(nil)

// NewSessionLock creates a lock. lease bounds how long a crashed holder can
// block a session; timeout bounds how long Acquire waits.
func NewSessionLock(client Client, tableName string, lease, timeout time.Duration, logger *zap.Logger) *SessionLock {
	return &SessionLock{
		client:    client,
		tableName: tableName,
		lease:     lease,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// tryAcquire makes one conditional write.
func (l *SessionLock) tryAcquire(ctx context.Context, sessionID, lockID string) error {
	now := l.now()
	expiresAt := now.Add(l.lease)

	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.tableName),
		Item: map[string]types.AttributeValue{
			"PK":         &types.AttributeValueMemberS{Value: lockPK(sessionID)},
			"SK":         &types.AttributeValueMemberS{Value: lockSK},
			"LockID":     &types.AttributeValueMemberS{Value: lockID},
			"AcquiredAt": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
			"ExpiresAt":  &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt.UnixMilli(), 10)},
			"TTL":        &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt.Unix(), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixMilli(), 10)},
		},
	})
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			return ErrLockHeld
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	return nil
}

// Acquire implements ports.SessionLocker. It retries with backoff until the
// lock is free, the timeout passes or ctx is done.
func (l *SessionLock) Acquire(ctx context.Context, sessionID string) (func(), error) {
	lockID := uuid.NewString()
	deadline := l.now().Add(l.timeout)
	retryInterval := 50 * time.Millisecond

	for {
		err := l.tryAcquire(ctx, sessionID, lockID)
		if err == nil {
			l.logger.Debug("Session lock acquired", zap.String("session_id", sessionID), zap.String("lock_id", lockID))
			return func() { l.release(context.WithoutCancel(ctx), sessionID, lockID) }, nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return nil, err
		}
		if !l.now().Before(deadline) {
			return nil, fmt.Errorf("timeout acquiring lock for session %s: %w", sessionID, ErrLockHeld)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
			if retryInterval < time.Second {
				retryInterval = time.Duration(float64(retryInterval) * 1.5)
			}
		}
	}
}

func (l *SessionLock) release(ctx context.Context, sessionID, lockID string) {
	_, err := l.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: lockPK(sessionID)},
			"SK": &types.AttributeValueMemberS{Value: lockSK},
		},
		ConditionExpression: aws.String("LockID = :lockId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lockId": &types.AttributeValueMemberS{Value: lockID},
		},
	})
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			l.logger.Warn("Session lock expired before release",
				zap.String("session_id", sessionID),
				zap.String("lock_id", lockID),
			)
			return
		}
		l.logger.Error("Failed to release session lock", zap.String("session_id", sessionID), zap.Error(err))
	}
}
