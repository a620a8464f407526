package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/svelankar/armory/internal/model"
	"github.com/svelankar/armory/internal/pool"
)

// ErrPoolNotFound is returned when a lifecycle operation names a pool that
// does not exist.
var ErrPoolNotFound = errors.New("pool not found")

// maxRetries bounds reloads after an optimistic concurrency conflict.
const maxRetries = 3

// mutatePool runs one lifecycle operation against a pool document:
// read-modify-write on a single in-memory snapshot, persisted atomically
// with a version check. On a version conflict the pool is reloaded and the
// operation re-validated from scratch, so two concurrent issues can never
// both take the same item.
func mutatePool(ctx context.Context, db *sql.DB, poolID int64, mutate func(*model.Pool) (*model.Item, error)) (*model.Item, *model.Pool, error) {
	for attempt := 0; ; attempt++ {
		item, p, err := func() (*model.Item, *model.Pool, error) {
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("beginning transaction: %w", err)
			}
			defer tx.Rollback()

			p, err := getPool(ctx, tx, poolID)
			if err != nil {
				return nil, nil, err
			}
			if p == nil {
				return nil, nil, ErrPoolNotFound
			}

			item, err := mutate(p)
			if err != nil {
				// Preconditions failed; nothing was persisted.
				return nil, nil, err
			}

			if err := savePool(ctx, tx, p); err != nil {
				return nil, nil, err
			}
			if err := tx.Commit(); err != nil {
				return nil, nil, fmt.Errorf("committing pool mutation: %w", err)
			}
			return item, p, nil
		}()
		if errors.Is(err, ErrVersionConflict) && attempt < maxRetries {
			continue
		}
		return item, p, err
	}
}

// IssueFromPool issues the best available item to the custodian and
// persists the pool document.
func IssueFromPool(ctx context.Context, db *sql.DB, poolID int64, c pool.Custodian, purpose string, issuedBy int64) (*model.Item, *model.Pool, error) {
	return mutatePool(ctx, db, poolID, func(p *model.Pool) (*model.Item, error) {
		return pool.Issue(p, c, purpose, issuedBy)
	})
}

// ReturnToPool returns an issued item, triaging it by reported condition.
func ReturnToPool(ctx context.Context, db *sql.DB, poolID int64, uniqueID, condition, remarks string, returnedTo int64) (*model.Item, *model.Pool, error) {
	return mutatePool(ctx, db, poolID, func(p *model.Pool) (*model.Item, error) {
		return pool.Return(p, uniqueID, condition, remarks, returnedTo)
	})
}

// ReportItemProblem sends an item to maintenance on an officer report.
func ReportItemProblem(ctx context.Context, db *sql.DB, poolID int64, uniqueID, description, reportedBy string) (*model.Item, *model.Pool, error) {
	return mutatePool(ctx, db, poolID, func(p *model.Pool) (*model.Item, error) {
		return pool.ReportProblem(p, uniqueID, description, reportedBy)
	})
}

// CompleteItemRepair closes an item's open maintenance entry.
func CompleteItemRepair(ctx context.Context, db *sql.DB, poolID int64, uniqueID, action, newCondition, fixedBy string, cost float64) (*model.Item, *model.Pool, error) {
	return mutatePool(ctx, db, poolID, func(p *model.Pool) (*model.Item, error) {
		return pool.CompleteRepair(p, uniqueID, action, newCondition, fixedBy, cost)
	})
}

// MarkItemLost opens a loss investigation for an issued item.
func MarkItemLost(ctx context.Context, db *sql.DB, poolID int64, uniqueID, firNumber string, firDate time.Time, description string) (*model.Item, *model.Pool, error) {
	return mutatePool(ctx, db, poolID, func(p *model.Pool) (*model.Item, error) {
		return pool.MarkLost(p, uniqueID, firNumber, firDate, description)
	})
}

// WriteOffItem closes a loss investigation as unrecovered.
func WriteOffItem(ctx context.Context, db *sql.DB, poolID int64, uniqueID, notes string) (*model.Item, *model.Pool, error) {
	return mutatePool(ctx, db, poolID, func(p *model.Pool) (*model.Item, error) {
		return pool.WriteOff(p, uniqueID, notes)
	})
}

// RecoverItem closes a loss investigation as recovered.
func RecoverItem(ctx context.Context, db *sql.DB, poolID int64, uniqueID, notes, condition string) (*model.Item, *model.Pool, error) {
	return mutatePool(ctx, db, poolID, func(p *model.Pool) (*model.Item, error) {
		return pool.Recover(p, uniqueID, notes, condition)
	})
}
