package service

import (
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	"github.com/ivesbwas/bwas/internal/domain/document"
	"github.com/ivesbwas/bwas/internal/domain/signature"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/publisher"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	AuthorizationRepo authorization.Repository

	// Gateways
	SignatureGateway signature.Gateway
	DocumentGateway  document.Gateway

	// Publishers
	DecisionPublisher publisher.DecisionPublisher
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	authorizationRepo authorization.Repository,
	signatureGateway signature.Gateway,
	documentGateway document.Gateway,
	decisionPublisher publisher.DecisionPublisher,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		AuthorizationRepo: authorizationRepo,
		SignatureGateway:  signatureGateway,
		DocumentGateway:   documentGateway,
		DecisionPublisher: decisionPublisher,
	}
}
