// Package dynamodb stores chat transcripts and session locks in one DynamoDB table.
//
// Table layout (PK/SK string keys):
//
//	SESSION#<id>  KEY#<key>   transcript entry
//	LOCK#<id>     LOCK        session lock
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Client is the subset of *dynamodb.Client used by this package.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

func sessionPK(sessionID string) string { return "SESSION#" + sessionID }
func entrySK(key string) string         { return "KEY#" + key }
func lockPK(sessionID string) string    { return "LOCK#" + sessionID }

const lockSK = "LOCK"
