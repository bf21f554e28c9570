package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"catalogcore/pkg/domain"
)

type productStore struct{ s *Store }

const productColumns = `id, created_at, updated_at, name, slug, description, price,
	compare_price, free_shipping, free_gift, sku, category_id, brand, main_img_url,
	image_urls, variant_type1_name, variant_type1_options, variant_type2_name,
	variant_type2_options, variant_prices, is_active, is_new, stock_quantity`

func (p productStore) List(ctx context.Context, orderBy string) ([]domain.Product, error) {
	return p.query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY `+orderClause("products", orderBy))
}

func (p productStore) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return p.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY created_at DESC`,
		categoryID)
}

func (p productStore) query(ctx context.Context, stmt string, args ...any) ([]domain.Product, error) {
	rows, err := p.s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, remoteErr(err)
	}
	defer rows.Close()
	var out []domain.Product
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, remoteErr(err)
		}
		out = append(out, prod)
	}
	return out, remoteErr(rows.Err())
}

func (p productStore) Create(ctx context.Context, payload domain.ProductPayload, key domain.IdempotencyKey) (domain.Product, error) {
	if id, ok, err := p.s.lookupCreateKey(key, domain.EntityProduct); err != nil {
		return domain.Product{}, remoteErr(err)
	} else if ok {
		return p.get(ctx, id)
	}
	now := time.Now().UTC()
	prod := productFromPayload(payload)
	prod.Base = domain.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	tx, err := p.s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, remoteErr(err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO products(`+productColumns+`)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		productArgs(prod)...)
	if err != nil {
		return domain.Product{}, remoteErr(err)
	}
	if err := p.s.recordCreateKey(tx, key, domain.EntityProduct, prod.ID); err != nil {
		return domain.Product{}, remoteErr(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Product{}, remoteErr(err)
	}
	return prod, nil
}

func (p productStore) Update(ctx context.Context, id string, payload domain.ProductPayload) (domain.Product, error) {
	prod := productFromPayload(payload)
	res, err := p.s.db.ExecContext(ctx,
		`UPDATE products SET updated_at = ?, name = ?, slug = ?, description = ?,
		 price = ?, compare_price = ?, free_shipping = ?, free_gift = ?, sku = ?,
		 category_id = ?, brand = ?, main_img_url = ?, image_urls = ?,
		 variant_type1_name = ?, variant_type1_options = ?, variant_type2_name = ?,
		 variant_type2_options = ?, variant_prices = ?, is_active = ?, is_new = ?,
		 stock_quantity = ? WHERE id = ?`,
		encodeTime(time.Now().UTC()), prod.Name, prod.Slug, prod.Description,
		prod.Price, prod.ComparePrice, boolInt(prod.FreeShipping), boolInt(prod.FreeGift),
		prod.SKU, prod.CategoryID, prod.Brand, prod.MainImageURL, encodeJSON(prod.ImageURLs),
		prod.VariantType1Name, encodeJSON(prod.VariantType1Options), prod.VariantType2Name,
		encodeJSON(prod.VariantType2Options), encodeJSON(prod.VariantPrices),
		boolInt(prod.IsActive), boolInt(prod.IsNew), prod.StockQuantity, id)
	if err != nil {
		return domain.Product{}, remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, domain.ErrNotFound{Entity: domain.EntityProduct, ID: id}
	}
	return p.get(ctx, id)
}

func (p productStore) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, p.s.db, "products", domain.EntityProduct, id, active)
}

func (p productStore) Delete(ctx context.Context, id string) error {
	res, err := p.s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return remoteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound{Entity: domain.EntityProduct, ID: id}
	}
	return nil
}

func (p productStore) get(ctx context.Context, id string) (domain.Product, error) {
	row := p.s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	prod, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return domain.Product{}, domain.ErrNotFound{Entity: domain.EntityProduct, ID: id}
	}
	if err != nil {
		return domain.Product{}, remoteErr(err)
	}
	return prod, nil
}

func productFromPayload(payload domain.ProductPayload) domain.Product {
	prices := make(map[string]float64, len(payload.VariantPrices))
	for label, price := range payload.VariantPrices {
		prices[label] = price
	}
	return domain.Product{
		Name:                payload.Name,
		Slug:                payload.Slug,
		Description:         payload.Description,
		Price:               payload.Price,
		ComparePrice:        payload.ComparePrice,
		FreeShipping:        payload.FreeShipping,
		FreeGift:            payload.FreeGift,
		SKU:                 payload.SKU,
		CategoryID:          payload.CategoryID,
		Brand:               payload.Brand,
		MainImageURL:        payload.MainImageURL,
		ImageURLs:           append([]string(nil), payload.ImageURLs...),
		VariantType1Name:    payload.VariantType1Name,
		VariantType1Options: append([]string(nil), payload.VariantType1Options...),
		VariantType2Name:    payload.VariantType2Name,
		VariantType2Options: append([]string(nil), payload.VariantType2Options...),
		VariantPrices:       prices,
		IsActive:            payload.IsActive,
		IsNew:               payload.IsNew,
		StockQuantity:       payload.StockQuantity,
	}
}

func productArgs(prod domain.Product) []any {
	return []any{
		prod.ID, encodeTime(prod.CreatedAt), encodeTime(prod.UpdatedAt),
		prod.Name, prod.Slug, prod.Description, prod.Price, prod.ComparePrice,
		boolInt(prod.FreeShipping), boolInt(prod.FreeGift), prod.SKU, prod.CategoryID,
		prod.Brand, prod.MainImageURL, encodeJSON(prod.ImageURLs),
		prod.VariantType1Name, encodeJSON(prod.VariantType1Options),
		prod.VariantType2Name, encodeJSON(prod.VariantType2Options),
		encodeJSON(prod.VariantPrices), boolInt(prod.IsActive), boolInt(prod.IsNew),
		prod.StockQuantity,
	}
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		prod                                    domain.Product
		createdAt, updatedAt                    string
		imageURLs, opts1, opts2, prices         string
		freeShipping, freeGift, isActive, isNew int
	)
	if err := row.Scan(&prod.ID, &createdAt, &updatedAt, &prod.Name, &prod.Slug,
		&prod.Description, &prod.Price, &prod.ComparePrice, &freeShipping, &freeGift,
		&prod.SKU, &prod.CategoryID, &prod.Brand, &prod.MainImageURL, &imageURLs,
		&prod.VariantType1Name, &opts1, &prod.VariantType2Name, &opts2, &prices,
		&isActive, &isNew, &prod.StockQuantity); err != nil {
		return domain.Product{}, err
	}
	prod.CreatedAt = decodeTime(createdAt)
	prod.UpdatedAt = decodeTime(updatedAt)
	prod.FreeShipping = freeShipping != 0
	prod.FreeGift = freeGift != 0
	prod.IsActive = isActive != 0
	prod.IsNew = isNew != 0
	if err := json.Unmarshal([]byte(imageURLs), &prod.ImageURLs); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(opts1), &prod.VariantType1Options); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(opts2), &prod.VariantType2Options); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(prices), &prod.VariantPrices); err != nil {
		return domain.Product{}, err
	}
	return prod, nil
}

// encodeJSON marshals slice/map columns; nil values encode as their empty
// container so scans never see SQL NULL.
func encodeJSON(v any) string {
	switch val := v.(type) {
	case []string:
		if val == nil {
			return "[]"
		}
	case map[string]float64:
		if val == nil {
			return "{}"
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
