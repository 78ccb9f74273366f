package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"techtree-backend/application/ports"
	pkgerrors "techtree-backend/pkg/errors"
)

// maxBatchWrite is DynamoDB's BatchWriteItem limit.
const maxBatchWrite = 25

// transcriptItem is the DynamoDB item for one (session, key) entry.
type transcriptItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	SessionID  string `dynamodbav:"SessionID"`
	Key        string `dynamodbav:"Key"`
	Value      string `dynamodbav:"Value"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
	TTL        int64  `dynamodbav:"TTL,omitempty"`
}

// TranscriptStore implements ports.KeyValueStore on DynamoDB.
type TranscriptStore struct {
	client    Client
	tableName string
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

var _ ports.KeyValueStore = (*TranscriptStore)(nil)

// NewTranscriptStore creates a store. A positive ttl stamps each item for
// DynamoDB TTL expiry.
func NewTranscriptStore(client Client, tableName string, ttl time.Duration, logger *zap.Logger) *TranscriptStore {
	return &TranscriptStore{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *TranscriptStore) key(sessionID, key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: sessionPK(sessionID)},
		"SK": &types.AttributeValueMemberS{Value: entrySK(key)},
	}
}

func (s *TranscriptStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	proj := expression.NamesList(expression.Name("Value"))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return "", pkgerrors.NewInternalError("build projection").WithCause(err)
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(s.tableName),
		Key:                      s.key(sessionID, key),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return "", pkgerrors.NewStorageError("get", err)
	}
	if len(out.Item) == 0 {
		return "", ports.ErrKeyNotFound
	}

	var item transcriptItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", pkgerrors.NewStorageError("unmarshal", err)
	}
	return item.Value, nil
}

func (s *TranscriptStore) Put(ctx context.Context, sessionID, key, value string) error {
	now := s.now().UTC()
	item := transcriptItem{
		PK:         sessionPK(sessionID),
		SK:         entrySK(key),
		EntityType: "CHAT_ENTRY",
		SessionID:  sessionID,
		Key:        key,
		Value:      value,
		UpdatedAt:  now.Format(time.RFC3339),
	}
	if s.ttl > 0 {
		item.TTL = now.Add(s.ttl).Unix()
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewStorageError("marshal", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewStorageError("put", err)
	}
	return nil
}

func (s *TranscriptStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	for start := 0; start < len(keys); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(keys))
		requests := make([]types.WriteRequest, 0, end-start)
		for _, k := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: s.key(sessionID, k)},
			})
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.tableName: requests},
		})
		if err != nil {
			return pkgerrors.NewStorageError("delete", err)
		}
		if left := len(out.UnprocessedItems[s.tableName]); left > 0 {
			return pkgerrors.NewStorageError("delete", fmt.Errorf("%d keys left unprocessed", left))
		}
	}

	s.logger.Debug("Deleted transcript keys",
		zap.String("session_id", sessionID),
		zap.Strings("keys", keys),
	)
	return nil
}
