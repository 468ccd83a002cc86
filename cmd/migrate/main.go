package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/dynamodb"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/postgres"
	postgresRepo "github.com/ivesbwas/bwas/internal/repository/postgres"
	"github.com/ivesbwas/bwas/internal/types"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print the schema without applying it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Store.Driver == types.StoreDriverDynamoDB {
		migrateDynamoDB(ctx, cfg, logger, *dryRun)
		return
	}

	if *dryRun {
		logger.Info("Dry run mode - printing schema without executing")
		fmt.Println(strings.Join(postgresRepo.SchemaStatements(cfg.Store.Driver), ";\n\n") + ";")
		return
	}

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	logger.Infow("Running database migrations...", "driver", cfg.Store.Driver)
	if err := postgresRepo.Migrate(ctx, db); err != nil {
		logger.Fatalw("Failed to apply schema", "error", err)
	}
	logger.Info("Migration completed successfully")
}

func migrateDynamoDB(ctx context.Context, cfg *config.Configuration, logger *logger.Logger, dryRun bool) {
	if dryRun {
		logger.Info("Dry run mode - printing table definition without creating it")
		input := dynamodb.TableInput(cfg.DynamoDB.TableName)
		fmt.Printf("table %s, key transaction_id, index %s (tin, created_date)\n",
			*input.TableName, dynamodb.TinCreatedDateIndex)
		return
	}

	client, err := dynamodb.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to create dynamodb client", "error", err)
	}

	created, err := dynamodb.EnsureTable(ctx, client.DB(), cfg.DynamoDB.TableName)
	if err != nil {
		logger.Fatalw("Failed to create table", "error", err, "table", cfg.DynamoDB.TableName)
	}
	logger.Infow("Migration completed successfully", "table", cfg.DynamoDB.TableName, "created", created)
}
