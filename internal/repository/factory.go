package repository

import (
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	"github.com/ivesbwas/bwas/internal/dynamodb"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/postgres"
	dynamodbRepo "github.com/ivesbwas/bwas/internal/repository/dynamodb"
	postgresRepo "github.com/ivesbwas/bwas/internal/repository/postgres"
	"github.com/ivesbwas/bwas/internal/types"
)

// NewAuthorizationRepository picks the authorization store for store.driver.
// Only the client of the selected backend is non-nil.
func NewAuthorizationRepository(
	cfg *config.Configuration,
	db *postgres.DB,
	dynamoClient *dynamodb.Client,
	logger *logger.Logger,
) authorization.Repository {
	if cfg.Store.Driver == types.StoreDriverDynamoDB {
		return dynamodbRepo.NewAuthorizationRepository(dynamoClient.DB(), cfg, logger)
	}
	return postgresRepo.NewAuthorizationRepository(db, cfg, logger)
}
