package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/postgres"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/samber/lo"
)

const authorizationColumns = `transaction_id, tin, tin_type, status, document_type, document_status,
	authorization_status, created_date, updated_date`

type authorizationRepository struct {
	db       *postgres.DB
	pageSize int
	logger   *logger.Logger
}

// NewAuthorizationRepository creates the sql backed authorization store
func NewAuthorizationRepository(db *postgres.DB, cfg *config.Configuration, logger *logger.Logger) authorization.Repository {
	return &authorizationRepository{
		db:       db,
		pageSize: cfg.Authorization.PageSize,
		logger:   logger,
	}
}

type authorizationRow struct {
	TransactionID       string    `db:"transaction_id"`
	Tin                 string    `db:"tin"`
	TinType             string    `db:"tin_type"`
	Status              string    `db:"status"`
	DocumentType        string    `db:"document_type"`
	DocumentStatus      string    `db:"document_status"`
	AuthorizationStatus string    `db:"authorization_status"`
	CreatedDate         time.Time `db:"created_date"`
	UpdatedDate         time.Time `db:"updated_date"`
}

func (r *authorizationRow) toDomain() *authorization.AuthorizationDocument {
	return &authorization.AuthorizationDocument{
		TransactionID:       r.TransactionID,
		Tin:                 r.Tin,
		TinType:             types.TinType(r.TinType),
		Status:              r.Status,
		DocumentType:        r.DocumentType,
		DocumentStatus:      r.DocumentStatus,
		AuthorizationStatus: types.AuthorizationStatus(r.AuthorizationStatus),
		CreatedDate:         r.CreatedDate.UTC(),
		UpdatedDate:         r.UpdatedDate.UTC(),
	}
}

func (r *authorizationRepository) ListByTin(ctx context.Context, tin string, page int) ([]*authorization.AuthorizationDocument, error) {
	if page < 0 {
		return nil, ierr.NewError("page must not be negative").
			WithHint("Page must be zero or greater").
			Mark(ierr.ErrValidation)
	}

	q := r.db.GetQuerier(ctx)
	query := q.Rebind(`SELECT ` + authorizationColumns + `
	FROM authorization_documents
	WHERE tin = ?
	ORDER BY created_date DESC, transaction_id DESC
	LIMIT ? OFFSET ?`)

	var rows []authorizationRow
	if err := q.SelectContext(ctx, &rows, query, tin, r.pageSize, page*r.pageSize); err != nil {
		return nil, r.dbError(err, "list authorization documents", "Failed to list authorization documents")
	}

	return lo.Map(rows, func(row authorizationRow, _ int) *authorization.AuthorizationDocument {
		return row.toDomain()
	}), nil
}

func (r *authorizationRepository) Get(ctx context.Context, transactionID string) (*authorization.AuthorizationDocument, error) {
	q := r.db.GetQuerier(ctx)
	query := q.Rebind(`SELECT ` + authorizationColumns + `
	FROM authorization_documents
	WHERE transaction_id = ?`)

	var row authorizationRow
	if err := q.GetContext(ctx, &row, query, transactionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.dbError(err, "get authorization document", "Failed to get authorization document")
	}
	return row.toDomain(), nil
}

func (r *authorizationRepository) Save(ctx context.Context, doc *authorization.AuthorizationDocument) (*authorization.AuthorizationDocument, error) {
	if doc == nil {
		return nil, ierr.NewError("document is required").
			WithHint("Document is required").
			Mark(ierr.ErrValidation)
	}

	q := r.db.GetQuerier(ctx)
	query := q.Rebind(`INSERT INTO authorization_documents (` + authorizationColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (transaction_id) DO UPDATE SET
		tin = excluded.tin,
		tin_type = excluded.tin_type,
		status = excluded.status,
		document_type = excluded.document_type,
		document_status = excluded.document_status,
		authorization_status = excluded.authorization_status,
		updated_date = excluded.updated_date
	RETURNING ` + authorizationColumns)

	var row authorizationRow
	err := q.GetContext(ctx, &row, query,
		doc.TransactionID,
		doc.Tin,
		string(doc.TinType),
		doc.Status,
		doc.DocumentType,
		doc.DocumentStatus,
		string(doc.AuthorizationStatus),
		doc.CreatedDate.UTC(),
		doc.UpdatedDate.UTC(),
	)
	if err != nil {
		return nil, r.dbError(err, "save authorization document", "Failed to save authorization document")
	}

	r.logger.Debugw("saved authorization document",
		"transaction_id", row.TransactionID,
		"authorization_status", row.AuthorizationStatus)
	return row.toDomain(), nil
}

func (r *authorizationRepository) Delete(ctx context.Context, transactionID string) error {
	q := r.db.GetQuerier(ctx)
	query := q.Rebind(`DELETE FROM authorization_documents WHERE transaction_id = ?`)

	if _, err := q.ExecContext(ctx, query, transactionID); err != nil {
		return r.dbError(err, "delete authorization document", "Failed to delete authorization document")
	}
	return nil
}

func (r *authorizationRepository) dbError(err error, op, hint string) error {
	if cerr := ierr.WrapContextErr(err, op); cerr != nil {
		return cerr
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}

// Migrate creates the schema when it does not exist
func Migrate(ctx context.Context, db *postgres.DB) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		q := db.GetQuerier(ctx)
		for _, stmt := range SchemaStatements(db.Driver()) {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return ierr.WithError(err).
					WithHint("Failed to apply schema").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}
