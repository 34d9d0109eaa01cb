package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]vendor.Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vendor.LocationColumns+`
		FROM vendor_locations WHERE vendor_id=$1 ORDER BY created_at, id`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locations := []vendor.Location{}
	for rows.Next() {
		loc, err := vendor.ScanLocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (r *postgresRepo) Add(ctx context.Context, loc *vendor.Location, admit func(count int) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockVendor(ctx, tx, loc.VendorID); err != nil {
			return err
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM vendor_locations WHERE vendor_id=$1`, loc.VendorID).Scan(&count); err != nil {
			return err
		}
		if err := admit(count); err != nil {
			return err
		}

		loc.IsHQ = loc.IsHQ || count == 0
		if loc.IsHQ {
			if _, err := tx.ExecContext(ctx,
				`UPDATE vendor_locations SET is_hq=FALSE WHERE vendor_id=$1 AND is_hq`, loc.VendorID); err != nil {
				return err
			}
		}
		return tx.QueryRowContext(ctx, `
			INSERT INTO vendor_locations
			  (id,vendor_id,name,address,city,postal_code,country,latitude,longitude,is_hq)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING created_at`,
			loc.ID, loc.VendorID, loc.Name, loc.Address, loc.City, loc.PostalCode,
			loc.Country, loc.Latitude, loc.Longitude, loc.IsHQ).Scan(&loc.CreatedAt)
	})
}

func (r *postgresRepo) SetHeadquarters(ctx context.Context, vendorID, locationID uuid.UUID) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockVendor(ctx, tx, vendorID); err != nil {
			return err
		}
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM vendor_locations WHERE vendor_id=$1 AND id=$2)`,
			vendorID, locationID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrLocationNotFound
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE vendor_locations SET is_hq = (id = $2)
			WHERE vendor_id=$1`, vendorID, locationID)
		return err
	})
}

func (r *postgresRepo) Delete(ctx context.Context, vendorID, locationID uuid.UUID) (uuid.UUID, error) {
	promoted := uuid.Nil
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockVendor(ctx, tx, vendorID); err != nil {
			return err
		}
		var wasHQ bool
		err := tx.QueryRowContext(ctx,
			`DELETE FROM vendor_locations WHERE vendor_id=$1 AND id=$2 RETURNING is_hq`,
			vendorID, locationID).Scan(&wasHQ)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLocationNotFound
		}
		if err != nil || !wasHQ {
			return err
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE vendor_locations SET is_hq=TRUE
			WHERE id = (SELECT id FROM vendor_locations WHERE vendor_id=$1 ORDER BY created_at, id LIMIT 1)
			RETURNING id`, vendorID).Scan(&promoted)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	})
	return promoted, err
}

// lockVendor takes the vendor row lock that serializes location writes.
func lockVendor(ctx context.Context, tx *sql.Tx, vendorID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM vendors WHERE id=$1 FOR UPDATE`, vendorID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return vendor.ErrVendorNotFound
	}
	return err
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (r *postgresRepo) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
