package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/svelankar/armory/internal/model"
	"github.com/svelankar/armory/internal/pool"
)

// ErrVersionConflict is returned when a pool save loses an optimistic
// concurrency check: another writer persisted the pool document since it
// was loaded. Callers reload and retry.
var ErrVersionConflict = errors.New("pool was modified concurrently")

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreatePool inserts a pool document with its freshly generated items.
func CreatePool(ctx context.Context, db *sql.DB, p *model.Pool) (*model.Pool, error) {
	designations, err := json.Marshal(p.AuthorizedDesignations)
	if err != nil {
		return nil, fmt.Errorf("encoding designations: %w", err)
	}
	items, err := json.Marshal(p.Items)
	if err != nil {
		return nil, fmt.Errorf("encoding items: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO pools (pool_name, category, model, manufacturer, id_prefix, designations,
		                    total_quantity, available_count, issued_count, maintenance_count,
		                    damaged_count, items)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PoolName, p.Category, p.Model, p.Manufacturer, p.IDPrefix, string(designations),
		p.TotalQuantity, p.AvailableCount, p.IssuedCount, p.MaintenanceCount,
		p.DamagedCount, string(items),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting pool id: %w", err)
	}

	return GetPool(ctx, db, id)
}

// GetPool returns a pool document by ID, or nil. Counts are recomputed from
// the items on the way out so a historically drifted document never leaks
// stale counters to callers; the stored row is left untouched (reads have
// no side effects — FixCounts is the explicit repair job).
func GetPool(ctx context.Context, db *sql.DB, id int64) (*model.Pool, error) {
	return getPool(ctx, db, id)
}

func getPool(ctx context.Context, q dbtx, id int64) (*model.Pool, error) {
	p := &model.Pool{}
	var manufacturer, imageMime sql.NullString
	var designations, items string
	err := q.QueryRowContext(ctx,
		`SELECT id, pool_name, category, model, manufacturer, id_prefix, designations,
		        total_quantity, available_count, issued_count, maintenance_count,
		        damaged_count, items, image_mime, version, created_at, updated_at
		 FROM pools WHERE id = ?`, id,
	).Scan(&p.ID, &p.PoolName, &p.Category, &p.Model, &manufacturer, &p.IDPrefix, &designations,
		&p.TotalQuantity, &p.AvailableCount, &p.IssuedCount, &p.MaintenanceCount,
		&p.DamagedCount, &items, &imageMime, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pool: %w", err)
	}
	p.Manufacturer = manufacturer.String
	p.ImageMime = imageMime.String

	if err := json.Unmarshal([]byte(designations), &p.AuthorizedDesignations); err != nil {
		return nil, fmt.Errorf("decoding pool designations: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
		return nil, fmt.Errorf("decoding pool items: %w", err)
	}

	if !pool.CountsConsistent(p) {
		pool.RecomputeCounts(p)
	}
	return p, nil
}

// savePool persists the items document and derived counts as one atomic
// write, guarded by the version the pool was loaded with.
func savePool(ctx context.Context, q dbtx, p *model.Pool) error {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	result, err := q.ExecContext(ctx,
		`UPDATE pools
		 SET items = ?, available_count = ?, issued_count = ?, maintenance_count = ?,
		     damaged_count = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND version = ?`,
		string(items), p.AvailableCount, p.IssuedCount, p.MaintenanceCount,
		p.DamagedCount, p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("saving pool: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking pool save: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	p.Version++
	return nil
}

// ListPools returns all pools without their item documents, optionally
// filtered by category. List views rely on the stored counts.
func ListPools(ctx context.Context, db *sql.DB, category string) ([]model.Pool, error) {
	query := `SELECT id, pool_name, category, model, manufacturer, id_prefix, designations,
	                 total_quantity, available_count, issued_count, maintenance_count,
	                 damaged_count, image_mime, version, created_at, updated_at
	          FROM pools`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY pool_name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pools: %w", err)
	}
	defer rows.Close()

	var pools []model.Pool
	for rows.Next() {
		var p model.Pool
		var manufacturer, imageMime sql.NullString
		var designations string
		if err := rows.Scan(&p.ID, &p.PoolName, &p.Category, &p.Model, &manufacturer, &p.IDPrefix,
			&designations, &p.TotalQuantity, &p.AvailableCount, &p.IssuedCount,
			&p.MaintenanceCount, &p.DamagedCount, &imageMime, &p.Version,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning pool: %w", err)
		}
		p.Manufacturer = manufacturer.String
		p.ImageMime = imageMime.String
		if err := json.Unmarshal([]byte(designations), &p.AuthorizedDesignations); err != nil {
			return nil, fmt.Errorf("decoding pool designations: %w", err)
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// DeletePool removes a pool and, by composition, every item it owns. Pools
// are deleted as a unit, never partially.
func DeletePool(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM pools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting pool: %w", err)
	}
	return nil
}

// SetPoolImage sets a pool's equipment photo.
func SetPoolImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE pools SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting pool image: %w", err)
	}
	return nil
}

// GetPoolImage returns a pool's equipment photo and MIME type.
func GetPoolImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM pools WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting pool image: %w", err)
	}
	return image, mime.String, nil
}

// FixCounts recomputes and rewrites the counts of every pool whose stored
// counters have drifted from its item statuses. This is the one-shot repair
// job for historical drift; request handling never mutates on read.
func FixCounts(ctx context.Context, db *sql.DB) (int, error) {
	rows, err := db.QueryContext(ctx, `SELECT id FROM pools ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("listing pool ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scanning pool id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	fixed := 0
	for _, id := range ids {
		var drifted bool
		err := func() error {
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("beginning transaction: %w", err)
			}
			defer tx.Rollback()

			var counts [4]int
			var items string
			err = tx.QueryRowContext(ctx,
				`SELECT available_count, issued_count, maintenance_count, damaged_count, items
				 FROM pools WHERE id = ?`, id,
			).Scan(&counts[0], &counts[1], &counts[2], &counts[3], &items)
			if err == sql.ErrNoRows {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading pool %d: %w", id, err)
			}

			p := &model.Pool{
				AvailableCount:   counts[0],
				IssuedCount:      counts[1],
				MaintenanceCount: counts[2],
				DamagedCount:     counts[3],
			}
			if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
				return fmt.Errorf("decoding items of pool %d: %w", id, err)
			}
			if pool.CountsConsistent(p) {
				return nil
			}

			pool.RecomputeCounts(p)
			_, err = tx.ExecContext(ctx,
				`UPDATE pools
				 SET available_count = ?, issued_count = ?, maintenance_count = ?,
				     damaged_count = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ?`,
				p.AvailableCount, p.IssuedCount, p.MaintenanceCount, p.DamagedCount, id,
			)
			if err != nil {
				return fmt.Errorf("fixing counts of pool %d: %w", id, err)
			}
			drifted = true
			return tx.Commit()
		}()
		if err != nil {
			return fixed, err
		}
		if drifted {
			fixed++
		}
	}
	return fixed, nil
}
