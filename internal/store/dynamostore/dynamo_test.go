package dynamostore

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestNew_AppliesAllOptions(t *testing.T) {
	s, err := New(context.Background(), "Restaurants",
		WithRegion("eu-west-1"),
		WithEndpoint("http://localhost:8000"),
		WithCuisineIndex("MyCuisineIndex"),
		WithRegionIndex("MyRegionIndex"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Region and endpoint both end up on the one client that New builds.
	opts := s.client.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("client region = %q, want eu-west-1", opts.Region)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:8000" {
		t.Errorf("client endpoint = %v, want http://localhost:8000", opts.BaseEndpoint)
	}
	if s.cuisineIndex != "MyCuisineIndex" {
		t.Errorf("cuisineIndex = %q", s.cuisineIndex)
	}
	if s.regionIndex != "MyRegionIndex" {
		t.Errorf("regionIndex = %q", s.regionIndex)
	}
}

func TestNew_DefaultCuisineIndex(t *testing.T) {
	s, err := New(context.Background(), "Restaurants")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.cuisineIndex != DefaultCuisineIndex {
		t.Errorf("cuisineIndex = %q, want %q", s.cuisineIndex, DefaultCuisineIndex)
	}
}

func TestRecordKey(t *testing.T) {
	key := recordKey("Luigi's")

	attr, ok := key["UniqueName"]
	if !ok {
		t.Fatal("key missing UniqueName attribute")
	}
	s, ok := attr.(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("UniqueName attribute type = %T, want string member", attr)
	}
	if s.Value != "Luigi's" {
		t.Errorf("UniqueName = %q, want Luigi's", s.Value)
	}
}

func TestNumberAttrs(t *testing.T) {
	f, ok := floatAttr(13.0 / 3.0).(*types.AttributeValueMemberN)
	if !ok {
		t.Fatal("floatAttr did not return a number member")
	}
	if f.Value != "4.333333333333333" {
		t.Errorf("floatAttr = %q", f.Value)
	}

	i, ok := intAttr(42).(*types.AttributeValueMemberN)
	if !ok {
		t.Fatal("intAttr did not return a number member")
	}
	if i.Value != "42" {
		t.Errorf("intAttr = %q, want 42", i.Value)
	}
}
