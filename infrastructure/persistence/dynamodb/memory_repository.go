// Package dynamodb persists memories in a single DynamoDB table.
//
// Key scheme:
//
//	PK = USER#<author_id>    SK = MEMORY#<memory_id>
//	GSI1PK = MEMORY#<memory_id>  GSI1SK = MEMORY#<memory_id>
//
// The GSI serves lookups by record id alone; the base table serves per-user
// queries.
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

	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

const entityTypeMemory = "MEMORY"

type memoryItem struct {
	PK         string      `dynamodbav:"PK"`
	SK         string      `dynamodbav:"SK"`
	GSI1PK     string      `dynamodbav:"GSI1PK"`
	GSI1SK     string      `dynamodbav:"GSI1SK"`
	EntityType string      `dynamodbav:"EntityType"`
	ID         string      `dynamodbav:"ID"`
	Title      string      `dynamodbav:"Title"`
	Content    string      `dynamodbav:"Content"`
	OccurredAt string      `dynamodbav:"OccurredAt"`
	CreatedAt  string      `dynamodbav:"CreatedAt"`
	UpdatedAt  string      `dynamodbav:"UpdatedAt"`
	Tags       []string    `dynamodbav:"Tags,omitempty"`
	Category   string      `dynamodbav:"Category"`
	Privacy    string      `dynamodbav:"Privacy"`
	SharedWith []string    `dynamodbav:"SharedWith,omitempty"`
	AuthorID   string      `dynamodbav:"AuthorID"`
	MediaItems []mediaItem `dynamodbav:"MediaItems,omitempty"`
}

type mediaItem struct {
	ID          string `dynamodbav:"ID,omitempty"`
	Kind        string `dynamodbav:"Kind"`
	Title       string `dynamodbav:"Title,omitempty"`
	Content     string `dynamodbav:"Content,omitempty"`
	Locator     string `dynamodbav:"Locator,omitempty"`
	Filename    string `dynamodbav:"Filename,omitempty"`
	ContentType string `dynamodbav:"ContentType,omitempty"`
}

func userPK(authorID string) string { return "USER#" + authorID }
func memorySK(id string) string     { return "MEMORY#" + id }

// MemoryRepository implements ports.MemoryRepository on DynamoDB.
type MemoryRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewMemoryRepository creates the repository.
func NewMemoryRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *MemoryRepository {
	return &MemoryRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// List scans the table for memory items. The table is small per deployment;
// per-user reads go through ListByAuthor instead.
func (r *MemoryRepository) List(ctx context.Context) ([]memory.Memory, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityTypeMemory))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to build expression: %v", err))
	}

	var out []memory.Memory
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan memories", err)
		}

		page, err := unmarshalItems(result.Items)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return out, nil
}

// ListByAuthor queries the base table partition for one user.
func (r *MemoryRepository) ListByAuthor(ctx context.Context, authorID string) ([]memory.Memory, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(authorID))).
		And(expression.Key("SK").BeginsWith("MEMORY#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to build expression: %v", err))
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query memories by author", err)
	}
	return unmarshalItems(result.Items)
}

// GetByID looks the record up through the GSI and returns (nil, nil) when
// it does not exist.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*memory.Memory, error) {
	item, err := r.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	m := toDomain(*item)
	return &m, nil
}

// Create writes the full item. Timestamps are stamped here.
func (r *MemoryRepository) Create(ctx context.Context, m *memory.Memory) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	av, err := attributevalue.MarshalMap(toItem(m))
	if err != nil {
		return pkgerrors.NewInternalError(fmt.Sprintf("failed to marshal memory item: %v", err))
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("put memory", err)
	}

	r.logger.Debug("memory item written",
		zap.String("memory_id", m.ID),
		zap.String("author_id", m.AuthorID))
	return nil
}

// Update overwrites the item in place. The key is derived from the record,
// so an author change would be a new item; authors never change.
func (r *MemoryRepository) Update(ctx context.Context, m *memory.Memory) error {
	m.UpdatedAt = time.Now().UTC()

	av, err := attributevalue.MarshalMap(toItem(m))
	if err != nil {
		return pkgerrors.NewInternalError(fmt.Sprintf("failed to marshal memory item: %v", err))
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("update memory", err)
	}
	return nil
}

// Delete resolves the item's keys through the GSI, then removes it.
// Deleting a missing id reports false with no error.
func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	item, err := r.findItem(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: item.PK},
			"SK": &types.AttributeValueMemberS{Value: item.SK},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, pkgerrors.NewDatabaseError("delete memory", err)
	}
	return len(out.Attributes) > 0, nil
}

func (r *MemoryRepository) findItem(ctx context.Context, id string) (*memoryItem, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(memorySK(id)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to build expression: %v", err))
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get memory", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var item memoryItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to unmarshal memory item: %v", err))
	}
	return &item, nil
}

func unmarshalItems(avs []map[string]types.AttributeValue) ([]memory.Memory, error) {
	var items []memoryItem
	if err := attributevalue.UnmarshalListOfMaps(avs, &items); err != nil {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("failed to unmarshal memory items: %v", err))
	}
	out := make([]memory.Memory, 0, len(items))
	for _, item := range items {
		out = append(out, toDomain(item))
	}
	return out, nil
}

func toItem(m *memory.Memory) memoryItem {
	items := make([]mediaItem, 0, len(m.MediaItems))
	for _, mi := range m.MediaItems {
		items = append(items, mediaItem{
			ID:          mi.ID,
			Kind:        string(mi.Kind),
			Title:       mi.Title,
			Content:     mi.Content,
			Locator:     mi.Locator,
			Filename:    mi.Filename,
			ContentType: mi.ContentType,
		})
	}
	return memoryItem{
		PK:         userPK(m.AuthorID),
		SK:         memorySK(m.ID),
		GSI1PK:     memorySK(m.ID),
		GSI1SK:     memorySK(m.ID),
		EntityType: entityTypeMemory,
		ID:         m.ID,
		Title:      m.Title,
		Content:    m.Content,
		OccurredAt: m.OccurredAt.UTC().Format(time.RFC3339),
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  m.UpdatedAt.UTC().Format(time.RFC3339),
		Tags:       m.Tags,
		Category:   m.Category,
		Privacy:    string(m.Privacy),
		SharedWith: m.SharedWith,
		AuthorID:   m.AuthorID,
		MediaItems: items,
	}
}

func toDomain(item memoryItem) memory.Memory {
	items := make([]memory.MediaItem, 0, len(item.MediaItems))
	for _, mi := range item.MediaItems {
		items = append(items, memory.MediaItem{
			ID:          mi.ID,
			Kind:        memory.MediaKind(mi.Kind),
			Title:       mi.Title,
			Content:     mi.Content,
			Locator:     mi.Locator,
			Filename:    mi.Filename,
			ContentType: mi.ContentType,
		})
	}

	m := memory.Memory{
		ID:         item.ID,
		Title:      item.Title,
		Content:    item.Content,
		OccurredAt: parseTimestamp(item.OccurredAt),
		CreatedAt:  parseTimestamp(item.CreatedAt),
		UpdatedAt:  parseTimestamp(item.UpdatedAt),
		Tags:       item.Tags,
		Category:   item.Category,
		Privacy:    memory.Privacy(item.Privacy),
		SharedWith: item.SharedWith,
		AuthorID:   item.AuthorID,
		MediaItems: items,
	}
	m.Normalize()
	return m
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
