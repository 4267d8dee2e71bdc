package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConcurrentPublish is returned when another writer published a version
// between reading the latest version and committing the new one.
var ErrConcurrentPublish = errors.New("concurrent model publish detected")

// ErrNoPublishedModel is returned by Latest when no version has ever been
// published.
var ErrNoPublishedModel = errors.New("no published model version")

// DDBClient is the DynamoDB surface the registry uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Registry tracks the latest published model version for one model URI.
//
// Artifact content lives in S3 (via Store); DynamoDB conditional writes
// provide the atomic compare-and-swap that S3 lacks, so multiple training
// drivers can publish safely.
//
// Table schema:
//   - Partition key: model_uri (string)
//   - Sort key: version (number), monotonically increasing
type Registry struct {
	store     *Store
	ddbClient DDBClient
	tableName string
	modelURI  string
}

// NewRegistry creates a registry for modelURI backed by the given table.
func NewRegistry(store *Store, ddbClient DDBClient, tableName, modelURI string) *Registry {
	return &Registry{
		store:     store,
		ddbClient: ddbClient,
		tableName: tableName,
		modelURI:  modelURI,
	}
}

// Publish stores the artifact under name and atomically commits it as the
// next version. Returns the committed version, or ErrConcurrentPublish if
// another writer won the race.
func (r *Registry) Publish(ctx context.Context, name string, data []byte) (uint64, error) {
	if err := r.store.Put(ctx, name, data); err != nil {
		return 0, err
	}

	current, _, err := r.latestVersion(ctx)
	if err != nil && !errors.Is(err, ErrNoPublishedModel) {
		return 0, err
	}
	next := current + 1

	_, err = r.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"model_uri": &types.AttributeValueMemberS{Value: r.modelURI},
			"version":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", next)},
			"artifact":  &types.AttributeValueMemberS{Value: name},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentPublish
		}
		return 0, fmt.Errorf("commit model version: %w", err)
	}
	return next, nil
}

// Latest returns the most recently published artifact content and its
// version.
func (r *Registry) Latest(ctx context.Context) ([]byte, uint64, error) {
	version, name, err := r.latestVersion(ctx)
	if err != nil {
		return nil, 0, err
	}
	data, err := r.store.Open(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	return data, version, nil
}

func (r *Registry) latestVersion(ctx context.Context) (uint64, string, error) {
	resp, err := r.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("model_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: r.modelURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("query model registry: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", ErrNoPublishedModel
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in registry")
	}
	nameAttr, ok := item["artifact"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid artifact attribute in registry")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return 0, "", fmt.Errorf("parse registry version: %w", err)
	}
	return version, nameAttr.Value, nil
}
