package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ivesbwas/bwas/internal/domain/authorization"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedDocument(id, tin string, created time.Time) *authorization.AuthorizationDocument {
	return &authorization.AuthorizationDocument{
		TransactionID:       id,
		Tin:                 tin,
		TinType:             types.TinTypeIndividual,
		AuthorizationStatus: types.AuthorizationStatusPending,
		CreatedDate:         created,
		UpdatedDate:         created,
	}
}

func TestInMemoryAuthorizationStoreListByTin(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryAuthorizationStore(2)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.Seed(storedDocument(fmt.Sprintf("tx-%d", i), "123456789", base.Add(time.Duration(i)*time.Hour)))
	}
	store.Seed(storedDocument("tx-other", "987654321", base.Add(10*time.Hour)))

	var ids []string
	for page := 0; page < 4; page++ {
		docs, err := store.ListByTin(ctx, "123456789", page)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(docs), 2)
		for _, d := range docs {
			ids = append(ids, d.TransactionID)
		}
	}
	assert.Equal(t, []string{"tx-4", "tx-3", "tx-2", "tx-1", "tx-0"}, ids)
	assert.Equal(t, 4, store.ListCalls())

	_, err := store.ListByTin(ctx, "123456789", -1)
	assert.True(t, ierr.IsValidation(err))
}

func TestInMemoryAuthorizationStoreSave(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryAuthorizationStore(20)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.Save(ctx, storedDocument("tx-1", "123456789", created))
	require.NoError(t, err)

	update := storedDocument("tx-1", "123456789", created.Add(time.Hour))
	update.AuthorizationStatus = types.AuthorizationStatusApproved
	saved, err := store.Save(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, created, saved.CreatedDate, "created date is kept on upsert")
	assert.Equal(t, types.AuthorizationStatusApproved, saved.AuthorizationStatus)

	// returned documents are copies
	saved.AuthorizationStatus = types.AuthorizationStatusRejected
	got, err := store.Get(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusApproved, got.AuthorizationStatus)

	require.NoError(t, store.Delete(ctx, "tx-1"))
	require.NoError(t, store.Delete(ctx, "tx-1"))
	got, err = store.Get(ctx, "tx-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 2, store.SaveCalls())
}
