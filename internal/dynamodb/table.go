package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TinCreatedDateIndex is the GSI serving ListByTin
const TinCreatedDateIndex = "tin-created_date-index"

// TableAPI is the part of the DynamoDB API needed to provision the table
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// TableInput describes the authorization documents table
func TableInput(tableName string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("transaction_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("tin"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("created_date"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("transaction_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(TinCreatedDateIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("tin"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("created_date"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}

// EnsureTable creates the table unless it already exists. It reports whether
// the table was created.
func EnsureTable(ctx context.Context, api TableAPI, tableName string) (bool, error) {
	_, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)})
	if err == nil {
		return false, nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return false, fmt.Errorf("failed to describe table %s: %w", tableName, err)
	}

	if _, err := api.CreateTable(ctx, TableInput(tableName)); err != nil {
		return false, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return true, nil
}
