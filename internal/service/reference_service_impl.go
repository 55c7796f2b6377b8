package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/costwise/internal/db"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/repository"
)

type referenceService struct {
	refs repository.ReferenceRepo
	uow  db.UnitOfWork
}

func NewReferenceService(refs repository.ReferenceRepo, uow db.UnitOfWork) ReferenceService {
	return &referenceService{refs: refs, uow: uow}
}

// Set validates item against its table kind and upserts it. Stored risk
// exposures are not refreshed; estimation always re-resolves weights.
func (s *referenceService) Set(ctx context.Context, item *domain.ReferenceItem) error {
	item.Code = normalizeCode(item.Code)
	if err := item.Validate(); err != nil {
		return err
	}
	return s.refs.Upsert(ctx, item)
}

func (s *referenceService) List(ctx context.Context, table domain.ReferenceTable) ([]*domain.ReferenceItem, error) {
	if table != "" && !table.Valid() {
		return nil, fmt.Errorf("unknown reference table %q", table)
	}
	return s.refs.List(ctx, table)
}

func (s *referenceService) Seed(ctx context.Context, items []*domain.ReferenceItem) error {
	if len(items) == 0 {
		return nil
	}
	for i, item := range items {
		item.Code = normalizeCode(item.Code)
		if err := item.Validate(); err != nil {
			return fmt.Errorf("reference seed %d: %w", i, err)
		}
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRefs := repository.NewSQLiteReferenceRepo(tx)
		for _, item := range items {
			if err := txRefs.Upsert(ctx, item); err != nil {
				return fmt.Errorf("seeding %s %q: %w", item.Table, item.Code, err)
			}
		}
		return nil
	})
}
