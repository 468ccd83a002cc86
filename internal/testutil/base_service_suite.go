package testutil

import (
	"context"
	"time"

	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/ivesbwas/bwas/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the repositories used by service tests
type Stores struct {
	AuthorizationRepo *InMemoryAuthorizationStore
}

// Gateways holds the fake upstream services
type Gateways struct {
	Signature *FakeSignatureGateway
	Document  *FakeDocumentGateway
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	gateways  Gateways
	publisher *InMemoryDecisionPublisher
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	cfg.Events.Enabled = true

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		AuthorizationRepo: NewInMemoryAuthorizationStore(s.config.Authorization.PageSize),
	}
	s.gateways = Gateways{
		Signature: NewFakeSignatureGateway(),
		Document:  NewFakeDocumentGateway(),
	}
	s.publisher = NewInMemoryDecisionPublisher()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.AuthorizationRepo.Clear()
	s.publisher.Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetGateways returns the fake upstream services
func (s *BaseServiceTestSuite) GetGateways() Gateways {
	return s.gateways
}

// GetPublisher returns the recording decision publisher
func (s *BaseServiceTestSuite) GetPublisher() *InMemoryDecisionPublisher {
	return s.publisher
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// NewPendingDocument builds a pending document created an hour before now
func (s *BaseServiceTestSuite) NewPendingDocument(transactionID, tin string) *authorization.AuthorizationDocument {
	created := s.now.Add(-time.Hour).Truncate(time.Millisecond)
	return &authorization.AuthorizationDocument{
		TransactionID:       transactionID,
		Tin:                 tin,
		TinType:             types.TinTypeIndividual,
		Status:              "ACTIVE",
		DocumentType:        "W9",
		DocumentStatus:      "SUBMITTED",
		AuthorizationStatus: types.AuthorizationStatusPending,
		CreatedDate:         created,
		UpdatedDate:         created,
	}
}
