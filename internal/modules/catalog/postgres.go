package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id,vendor_id,name,description,category,price,currency,sku,image_url,is_active,attributes,created_at,updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	var attrs interface{}
	if p.Attributes != nil {
		attrs = []byte(p.Attributes)
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO vendor_products
		  (id, vendor_id, name, description, category, price, currency, sku, image_url, is_active, attributes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		p.ID, p.VendorID, p.Name, p.Description, p.Category, p.Price,
		p.Currency, p.SKU, p.ImageURL, p.IsActive, attrs).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var attrs []byte
	err := scan(&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.Currency, &p.SKU, &p.ImageURL, &p.IsActive, &attrs,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if attrs != nil {
		p.Attributes = json.RawMessage(attrs)
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM vendor_products WHERE id=$1`, id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM vendor_products WHERE 1=1`
	args := []interface{}{}
	n := 1
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category=$%d`, n)
		args = append(args, filter.Category)
		n++
	}
	if filter.VendorID != uuid.Nil {
		query += fmt.Sprintf(` AND vendor_id=$%d`, n)
		args = append(args, filter.VendorID)
		n++
	}
	if filter.ActiveOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	var attrs interface{}
	if p.Attributes != nil {
		attrs = []byte(p.Attributes)
	}
	err := r.db.QueryRowContext(ctx, `
		UPDATE vendor_products
		SET name=$1, description=$2, category=$3, price=$4, currency=$5,
		    sku=$6, image_url=$7, is_active=$8, attributes=$9, updated_at=NOW()
		WHERE id=$10
		RETURNING updated_at`,
		p.Name, p.Description, p.Category, p.Price, p.Currency,
		p.SKU, p.ImageURL, p.IsActive, attrs, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

func (r *postgresRepo) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vendor_products WHERE vendor_id=$1`, vendorID).Scan(&n)
	return n, err
}

func (r *postgresRepo) CountByCategory(ctx context.Context, category string) (map[uuid.UUID]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vendor_id, COUNT(*) FROM vendor_products
		WHERE category=$1 AND is_active=true
		GROUP BY vendor_id`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
