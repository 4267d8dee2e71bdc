package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3Client is an in-memory object store implementing Client.
type fakeS3Client struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func newFakeS3Client() *fakeS3Client {
	return &fakeS3Client{objects: make(map[string][]byte)}
}

func (f *fakeS3Client) key(bucket, key string) string { return bucket + "/" + key }

func (f *fakeS3Client) PutObject(_ context.Context, params *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[f.key(*params.Bucket, *params.Key)] = data
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) GetObject(_ context.Context, params *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.objects[f.key(*params.Bucket, *params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3Client) DeleteObject(_ context.Context, params *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, f.key(*params.Bucket, *params.Key))
	return &awss3.DeleteObjectOutput{}, nil
}

func (f *fakeS3Client) ListObjectsV2(_ context.Context, _ *awss3.ListObjectsV2Input, _ ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error) {
	return &awss3.ListObjectsV2Output{}, nil
}

func (f *fakeS3Client) UploadPart(_ context.Context, _ *awss3.UploadPartInput, _ ...func(*awss3.Options)) (*awss3.UploadPartOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3Client) CreateMultipartUpload(_ context.Context, _ *awss3.CreateMultipartUploadInput, _ ...func(*awss3.Options)) (*awss3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3Client) CompleteMultipartUpload(_ context.Context, _ *awss3.CompleteMultipartUploadInput, _ ...func(*awss3.Options)) (*awss3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

func (f *fakeS3Client) AbortMultipartUpload(_ context.Context, _ *awss3.AbortMultipartUploadInput, _ ...func(*awss3.Options)) (*awss3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported by fake")
}

// mockDDBClient is an in-memory DynamoDB mock with conditional-write
// semantics.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]types.AttributeValue)}
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	uri := params.Item["model_uri"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := uri + ":" + version

	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uri := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["model_uri"].(*types.AttributeValueMemberS).Value == uri {
			items = append(items, item)
		}
	}
	// Sort descending by numeric version.
	for i := 0; i < len(items)-1; i++ {
		for j := i + 1; j < len(items); j++ {
			var vi, vj uint64
			fmt.Sscanf(items[i]["version"].(*types.AttributeValueMemberN).Value, "%d", &vi)
			fmt.Sscanf(items[j]["version"].(*types.AttributeValueMemberN).Value, "%d", &vj)
			if vi < vj {
				items[i], items[j] = items[j], items[i]
			}
		}
	}
	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func newTestRegistry(ddb *mockDDBClient) *Registry {
	store := New(newFakeS3Client(), "test-bucket", "models")
	return NewRegistry(store, ddb, "lgbridge-models", "s3://test-bucket/models/")
}

func TestRegistry_PublishAndLatest(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(newMockDDBClient())

	version, err := reg.Publish(ctx, "booster-1.txt", []byte("tree v1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)

	version, err = reg.Publish(ctx, "booster-2.txt", []byte("tree v2"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)

	data, latest, err := reg.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), latest)
	assert.Equal(t, []byte("tree v2"), data)
}

func TestRegistry_LatestWithoutPublish(t *testing.T) {
	reg := newTestRegistry(newMockDDBClient())

	_, _, err := reg.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoPublishedModel)
}

func TestRegistry_ConcurrentPublish(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(newMockDDBClient())

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, conflicts := 0, 0

	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Publish(ctx, fmt.Sprintf("booster-%d.txt", i), []byte("tree"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrentPublish):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Greater(t, successes, 0, "at least one writer should succeed")
	assert.Equal(t, 5, successes+conflicts)
}
