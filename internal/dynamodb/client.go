package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/types"
)

type Client struct {
	db *dynamodb.Client
}

// NewClient loads the default AWS credential chain for the configured region.
// A configured endpoint points the client at dynamodb-local. It returns nil
// when the store is not DynamoDB backed.
func NewClient(ctx context.Context, cfg *config.Configuration, logger *logger.Logger) (*Client, error) {
	if cfg.Store.Driver != types.StoreDriverDynamoDB {
		return nil, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion(cfg.DynamoDB.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	db := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})

	logger.Infow("created dynamodb client",
		"region", cfg.DynamoDB.Region,
		"table", cfg.DynamoDB.TableName)

	return &Client{db: db}, nil
}

func (c *Client) DB() *dynamodb.Client {
	return c.db
}
