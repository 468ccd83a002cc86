package service

import (
	"context"
	"sort"
	"time"

	"github.com/ivesbwas/bwas/internal/api/dto"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	"github.com/ivesbwas/bwas/internal/domain/document"
	"github.com/ivesbwas/bwas/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// maxReconcilePages bounds how much of the local store one report reads
const maxReconcilePages = 50

// ReconciliationService compares the local store with the document service.
// It never writes to either side.
type ReconciliationService interface {
	Reconcile(ctx context.Context, tin string) (*dto.ReconciliationResponse, error)
}

type reconciliationService struct {
	ServiceParams
}

func NewReconciliationService(params ServiceParams) ReconciliationService {
	return &reconciliationService{ServiceParams: params}
}

func (s *reconciliationService) Reconcile(ctx context.Context, tin string) (*dto.ReconciliationResponse, error) {
	if err := types.ValidateTin("tin", tin); err != nil {
		return nil, err
	}

	var (
		local  []*authorization.AuthorizationDocument
		remote []*document.ExternalDocument
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		docs, err := s.listLocal(ctx, tin)
		local = docs
		return err
	})
	p.Go(func(ctx context.Context) error {
		docs, err := s.DocumentGateway.GetDocuments(ctx, tin)
		remote = docs
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	drift := compare(local, remote)
	if len(drift) > 0 {
		s.Logger.Infow("authorization drift detected",
			"tin", types.MaskTin(tin),
			"drift_count", len(drift))
	}

	return &dto.ReconciliationResponse{
		Tin:         tin,
		LocalCount:  len(local),
		RemoteCount: len(remote),
		InSync:      len(drift) == 0,
		Drift:       drift,
		CheckedAt:   types.FormatDateTime(time.Now()),
	}, nil
}

func (s *reconciliationService) listLocal(ctx context.Context, tin string) ([]*authorization.AuthorizationDocument, error) {
	pageSize := s.Config.Authorization.PageSize
	all := make([]*authorization.AuthorizationDocument, 0, pageSize)
	for page := 0; page < maxReconcilePages; page++ {
		docs, err := s.AuthorizationRepo.ListByTin(ctx, tin, page)
		if err != nil {
			return nil, err
		}
		all = append(all, docs...)
		if len(docs) < pageSize {
			break
		}
	}
	return all, nil
}

func compare(local []*authorization.AuthorizationDocument, remote []*document.ExternalDocument) []dto.DriftEntry {
	localByID := make(map[string]*authorization.AuthorizationDocument, len(local))
	for _, d := range local {
		localByID[d.TransactionID] = d
	}

	drift := make([]dto.DriftEntry, 0)
	seen := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		seen[r.TransactionID] = struct{}{}
		l, ok := localByID[r.TransactionID]
		switch {
		case !ok:
			drift = append(drift, dto.DriftEntry{
				TransactionID: r.TransactionID,
				Kind:          dto.DriftMissingLocal,
				RemoteStatus:  r.AuthorizationStatus,
			})
		case l.AuthorizationStatus != r.AuthorizationStatus:
			drift = append(drift, dto.DriftEntry{
				TransactionID: r.TransactionID,
				Kind:          dto.DriftStatusMismatch,
				LocalStatus:   l.AuthorizationStatus,
				RemoteStatus:  r.AuthorizationStatus,
			})
		}
	}
	for _, l := range local {
		if _, ok := seen[l.TransactionID]; !ok {
			drift = append(drift, dto.DriftEntry{
				TransactionID: l.TransactionID,
				Kind:          dto.DriftMissingRemote,
				LocalStatus:   l.AuthorizationStatus,
			})
		}
	}

	sort.Slice(drift, func(i, j int) bool {
		return drift[i].TransactionID < drift[j].TransactionID
	})
	return drift
}
