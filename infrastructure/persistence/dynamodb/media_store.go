package dynamodb

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

const entityTypeMedia = "MEDIA"

// blobItem stores an attachment payload inline. The GSI groups a record's
// blobs so they can be removed together when the record is deleted.
type blobItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	EntityType  string `dynamodbav:"EntityType"`
	ID          string `dynamodbav:"ID"`
	RecordID    string `dynamodbav:"RecordID"`
	Filename    string `dynamodbav:"Filename,omitempty"`
	ContentType string `dynamodbav:"ContentType"`
	Body        []byte `dynamodbav:"Body"`
}

func mediaPK(mediaID string) string   { return "MEDIA#" + mediaID }
func recordPK(recordID string) string { return "RECORD#" + recordID }

// MediaStore implements ports.MediaStore with payloads held inline in the
// table. Suitable for image-sized blobs; larger kinds should be routed to
// the object store backend.
type MediaStore struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewMediaStore creates the store.
func NewMediaStore(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *MediaStore {
	return &MediaStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// Upload reads the payload and writes it as one item. The returned item
// carries a blob locator rather than a URL.
func (s *MediaStore) Upload(ctx context.Context, up ports.MediaUpload) (*memory.MediaItem, error) {
	body, err := io.ReadAll(io.LimitReader(up.Body, up.Size))
	if err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to read upload body: %v", err))
	}

	mediaID := uuid.New().String()
	item := blobItem{
		PK:          mediaPK(mediaID),
		SK:          mediaPK(mediaID),
		GSI1PK:      recordPK(up.RecordID),
		GSI1SK:      mediaPK(mediaID),
		EntityType:  entityTypeMedia,
		ID:          mediaID,
		RecordID:    up.RecordID,
		Filename:    up.Filename,
		ContentType: up.ContentType,
		Body:        body,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to marshal blob item: %v", err))
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("put media blob", err)
	}

	s.logger.Debug("media blob written",
		zap.String("media_id", mediaID),
		zap.String("record_id", up.RecordID),
		zap.Int("size", len(body)))

	return &memory.MediaItem{
		ID:          mediaID,
		Kind:        memory.KindFromContentType(up.ContentType),
		Locator:     memory.BlobLocatorPrefix + mediaID,
		Filename:    up.Filename,
		ContentType: up.ContentType,
	}, nil
}

// Open resolves a blob locator to its payload. URL-backed items cannot be
// served from this store.
func (s *MediaStore) Open(ctx context.Context, item memory.MediaItem) (ports.MediaHandle, error) {
	blobID := item.BlobID()
	if blobID == "" {
		return nil, pkgerrors.NewValidationError("media item is not blob-backed")
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: mediaPK(blobID)},
			"SK": &types.AttributeValueMemberS{Value: mediaPK(blobID)},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get media blob", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("media %s", blobID))
	}

	var blob blobItem
	if err := attributevalue.UnmarshalMap(out.Item, &blob); err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to unmarshal blob item: %v", err))
	}

	return &blobHandle{
		Reader:      bytes.NewReader(blob.Body),
		contentType: blob.ContentType,
	}, nil
}

// DeleteAllForRecord removes every blob belonging to one record.
func (s *MediaStore) DeleteAllForRecord(ctx context.Context, recordID string) error {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(recordPK(recordID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return pkgerrors.NewInternalError(fmt.Sprintf("failed to build expression: %v", err))
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("query media blobs", err)
	}

	for _, raw := range result.Items {
		var blob blobItem
		if err := attributevalue.UnmarshalMap(raw, &blob); err != nil {
			return pkgerrors.NewInternalError(fmt.Sprintf("failed to unmarshal blob item: %v", err))
		}
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: blob.PK},
				"SK": &types.AttributeValueMemberS{Value: blob.SK},
			},
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("delete media blob", err)
		}
	}
	return nil
}

type blobHandle struct {
	*bytes.Reader
	contentType string
}

func (h *blobHandle) Close() error        { return nil }
func (h *blobHandle) ContentType() string { return h.contentType }
