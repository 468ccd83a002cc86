package postgres

import (
	"github.com/ivesbwas/bwas/internal/types"
)

// SchemaStatements returns the DDL for the authorization store. Timestamps
// are declared TIMESTAMP on sqlite so the driver scans them into time.Time.
func SchemaStatements(driver types.StoreDriver) []string {
	timestamp := "TIMESTAMPTZ"
	if driver == types.StoreDriverSQLite {
		timestamp = "TIMESTAMP"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS authorization_documents (
	transaction_id VARCHAR(64) PRIMARY KEY,
	tin VARCHAR(9) NOT NULL,
	tin_type VARCHAR(20) NOT NULL,
	status VARCHAR(50) NOT NULL DEFAULT '',
	document_type VARCHAR(10) NOT NULL DEFAULT '',
	document_status VARCHAR(50) NOT NULL DEFAULT '',
	authorization_status VARCHAR(20) NOT NULL,
	created_date ` + timestamp + ` NOT NULL,
	updated_date ` + timestamp + ` NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_authorization_documents_tin_created_date
	ON authorization_documents (tin, created_date DESC)`,
	}
}
