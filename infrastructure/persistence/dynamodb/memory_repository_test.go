package dynamodb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/domain/memory"
)

// stubDynamoAPI answers the DynamoDB wire protocol out of memory: PutItem
// stores the raw attribute-value item, Query returns everything stored.
type stubDynamoAPI struct {
	mu    sync.Mutex
	items []json.RawMessage
}

func (s *stubDynamoAPI) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var resp []byte
	target := req.Header.Get("X-Amz-Target")
	switch {
	case strings.HasSuffix(target, ".PutItem"):
		var in struct {
			Item json.RawMessage `json:"Item"`
		}
		if err := json.Unmarshal(body, &in); err != nil {
			return nil, err
		}
		s.items = append(s.items, in.Item)
		resp = []byte(`{}`)
	case strings.HasSuffix(target, ".Query"):
		items := s.items
		if items == nil {
			items = []json.RawMessage{}
		}
		resp, err = json.Marshal(map[string]interface{}{
			"Count": len(items),
			"Items": items,
		})
		if err != nil {
			return nil, err
		}
	default:
		resp = []byte(`{}`)
	}

	return &http.Response{
		StatusCode:    http.StatusOK,
		Header:        http.Header{"Content-Type": []string{"application/x-amz-json-1.0"}},
		Body:          io.NopCloser(bytes.NewReader(resp)),
		ContentLength: int64(len(resp)),
	}, nil
}

func newStubRepository(stub *stubDynamoAPI) *MemoryRepository {
	cfg := aws.Config{
		Region: "us-east-1",
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
		}),
		HTTPClient: stub,
	}
	return NewMemoryRepository(awsdynamodb.NewFromConfig(cfg), "memories", "GSI1", zap.NewNop())
}

func TestMemoryRepository_CreateGetRoundTrip(t *testing.T) {
	repo := newStubRepository(&stubDynamoAPI{})

	draft, err := memory.NewMemory(memory.Draft{
		Title:      "Grandma's pie recipe",
		Content:    "flour, butter, patience",
		OccurredAt: time.Date(2019, 11, 23, 0, 0, 0, 0, time.UTC),
		Tags:       []string{"food", "family"},
		Privacy:    memory.PrivacyFamily,
		AuthorID:   "user-1",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), draft))
	assert.False(t, draft.CreatedAt.IsZero())
	assert.True(t, draft.CreatedAt.Equal(draft.UpdatedAt))

	got, err := repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, draft.ID, got.ID)
	assert.Equal(t, draft.Title, got.Title)
	assert.Equal(t, draft.Content, got.Content)
	assert.Equal(t, draft.Tags, got.Tags)
	assert.Equal(t, memory.CategoryUncategorized, got.Category)
	assert.Equal(t, draft.Privacy, got.Privacy)
	assert.Equal(t, draft.AuthorID, got.AuthorID)
	assert.True(t, got.OccurredAt.Equal(draft.OccurredAt))

	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestMemoryRepository_GetByIDAbsent(t *testing.T) {
	repo := newStubRepository(&stubDynamoAPI{})

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRepository_DeleteAbsentIsNotAnError(t *testing.T) {
	repo := newStubRepository(&stubDynamoAPI{})

	deleted, err := repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}
