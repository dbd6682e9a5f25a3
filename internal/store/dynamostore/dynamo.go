// Package dynamostore implements an AWS DynamoDB storage backend.
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tablerank/tablerank/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// DefaultCuisineIndex is the secondary index used for cuisine queries
// (partition key Cuisine, sort key Rating).
const DefaultCuisineIndex = "CuisineIndex"

// Store is an AWS DynamoDB storage backend. Records are keyed on UniqueName;
// cuisine queries run against a rating-sorted secondary index.
type Store struct {
	client       *dynamodb.Client
	table        string
	cuisineIndex string
	regionIndex  string
}

// New creates a new DynamoDB store for the given table.
// The table and the cuisine index must already exist.
func New(ctx context.Context, table string, opts ...Option) (*Store, error) {
	set := settings{cuisineIndex: DefaultCuisineIndex}
	for _, opt := range opts {
		opt(&set)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if set.region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(set.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if set.endpoint != "" {
			o.BaseEndpoint = aws.String(set.endpoint)
		}
	})

	return &Store{
		client:       client,
		table:        table,
		cuisineIndex: set.cuisineIndex,
		regionIndex:  set.regionIndex,
	}, nil
}

// settings collects option values so New builds the client exactly once,
// with every option applied.
type settings struct {
	region       string
	endpoint     string
	cuisineIndex string
	regionIndex  string
}

// Option configures a Store.
type Option func(*settings)

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *settings) {
		s.region = region
	}
}

// WithEndpoint sets a custom endpoint (for DynamoDB Local).
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// WithCuisineIndex overrides the cuisine index name.
func WithCuisineIndex(name string) Option {
	return func(s *settings) {
		s.cuisineIndex = name
	}
}

// WithRegionIndex sets the secondary index used for region queries. When
// unset, TopByRegion degrades to a filtered table scan with no ordering
// guarantee.
func WithRegionIndex(name string) Option {
	return func(s *settings) {
		s.regionIndex = name
	}
}

// Create writes a new record, conditional on the unique name being free.
func (s *Store) Create(ctx context.Context, rec store.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(UniqueName)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("creating record: %w", err)
	}
	return nil
}

// Get reads a record by unique name.
func (s *Store) Get(ctx context.Context, name string) (store.Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       recordKey(name),
	})
	if err != nil {
		return store.Record{}, fmt.Errorf("reading record: %w", err)
	}
	if len(out.Item) == 0 {
		return store.Record{}, store.ErrNotFound
	}

	var rec store.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return store.Record{}, fmt.Errorf("unmarshaling record: %w", err)
	}
	return rec, nil
}

// Delete removes a record. DynamoDB deletes are idempotent, so deleting an
// absent record succeeds.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       recordKey(name),
	})
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// UpdateRating writes the two rating fields, guarded on the previous rating
// count. The guard also fails when the record no longer exists, since an
// absent attribute never equals prevCount.
func (s *Store) UpdateRating(ctx context.Context, name string, rating float64, count, prevCount int64) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 recordKey(name),
		UpdateExpression:    aws.String("SET Rating = :r, RatingCount = :rc"),
		ConditionExpression: aws.String("RatingCount = :prev"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r":    floatAttr(rating),
			":rc":   intAttr(count),
			":prev": intAttr(prevCount),
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return store.ErrConditionFailed
		}
		return fmt.Errorf("updating rating: %w", err)
	}
	return nil
}

// TopByCuisine queries the cuisine index, sorted by rating descending.
func (s *Store) TopByCuisine(ctx context.Context, cuisine string, limit int32) ([]store.Record, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.cuisineIndex),
		KeyConditionExpression: aws.String("Cuisine = :cuisine"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cuisine": &types.AttributeValueMemberS{Value: cuisine},
		},
		Limit:            aws.Int32(limit),
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("querying by cuisine: %w", err)
	}
	return unmarshalRecords(out.Items)
}

// TopByRegion queries the region index when one is configured. Without an
// index it falls back to a filtered scan, which reads the whole table and
// returns records in no particular order.
func (s *Store) TopByRegion(ctx context.Context, region string, limit int32) ([]store.Record, error) {
	values := map[string]types.AttributeValue{
		":region": &types.AttributeValueMemberS{Value: region},
	}

	if s.regionIndex != "" {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.table),
			IndexName:                 aws.String(s.regionIndex),
			KeyConditionExpression:    aws.String("GeoRegion = :region"),
			ExpressionAttributeValues: values,
			Limit:                     aws.Int32(limit),
			ScanIndexForward:          aws.Bool(false),
		})
		if err != nil {
			return nil, fmt.Errorf("querying by region: %w", err)
		}
		return unmarshalRecords(out.Items)
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          aws.String("GeoRegion = :region"),
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning by region: %w", err)
	}
	return unmarshalRecords(out.Items)
}

// TopByRegionAndCuisine queries the cuisine index with a region filter,
// sorted by rating descending.
func (s *Store) TopByRegionAndCuisine(ctx context.Context, region, cuisine string, limit int32) ([]store.Record, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.cuisineIndex),
		KeyConditionExpression: aws.String("Cuisine = :cuisine"),
		FilterExpression:       aws.String("GeoRegion = :region"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cuisine": &types.AttributeValueMemberS{Value: cuisine},
			":region":  &types.AttributeValueMemberS{Value: region},
		},
		Limit:            aws.Int32(limit),
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("querying by region and cuisine: %w", err)
	}
	return unmarshalRecords(out.Items)
}

// Close releases resources. The DynamoDB client needs no explicit closing.
func (s *Store) Close() error {
	return nil
}

func recordKey(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"UniqueName": &types.AttributeValueMemberS{Value: name},
	}
}

func floatAttr(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func intAttr(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func unmarshalRecords(items []map[string]types.AttributeValue) ([]store.Record, error) {
	recs := make([]store.Record, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshaling records: %w", err)
	}
	return recs, nil
}
