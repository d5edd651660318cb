package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

type MySQLCatalog struct {
	db *sql.DB
}

func NewMySQLCatalog(db *sql.DB) *MySQLCatalog {
	return &MySQLCatalog{db: db}
}

const productColumns = `id, title, description, price, sale_price, on_sale, stock,
	COALESCE(category_id, ''), COALESCE(brand_id, ''), COALESCE(image_url, ''),
	average_rating, rating_count, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.SalePrice, &p.OnSale, &p.Stock,
		&p.CategoryID, &p.BrandID, &p.ImageURL,
		&p.AverageRating, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// FindProducts pushes filter, sort and pagination into SQL. The filter is
// expected to be normalized, so the sort value is always one of the known
// orders and page/limit are sane.
func (m *MySQLCatalog) FindProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.BrandID != "" {
		where = append(where, "brand_id = ?")
		args = append(args, f.BrandID)
	}
	if f.OnSale {
		where = append(where, "on_sale = 1")
	}
	if f.PriceMin > 0 {
		where = append(where, "price >= ?")
		args = append(args, f.PriceMin)
	}
	if f.PriceMax > 0 {
		where = append(where, "price <= ?")
		args = append(args, f.PriceMax)
	}
	if f.MinRating > 0 {
		where = append(where, "average_rating >= ?")
		args = append(args, f.MinRating)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var orderBy string
	switch f.Sort {
	case domain.SortPriceDesc:
		orderBy = "price DESC"
	case domain.SortTitleAsc:
		orderBy = "title ASC"
	case domain.SortTitleDesc:
		orderBy = "title DESC"
	case domain.SortNewest:
		orderBy = "created_at DESC"
	default:
		orderBy = "price ASC"
	}

	offset := (f.Page - 1) * f.Limit
	query := fmt.Sprintf("SELECT %s FROM products WHERE %s ORDER BY %s, id ASC LIMIT ? OFFSET ?",
		productColumns, cond, orderBy)
	args = append(args, f.Limit, offset)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return products, total, nil
}

func (m *MySQLCatalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM products WHERE id = ?", productColumns), id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (m *MySQLCatalog) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products
			(id, title, description, price, sale_price, on_sale, stock,
			 category_id, brand_id, image_url, average_rating, rating_count,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, 0, 0, ?, ?)`,
		p.ID, p.Title, p.Description, p.Price, p.SalePrice, p.OnSale, p.Stock,
		p.CategoryID, p.BrandID, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	return translateErr(err)
}

func (m *MySQLCatalog) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET title = ?, description = ?, price = ?, sale_price = ?, on_sale = ?,
			stock = ?, category_id = NULLIF(?, ''), brand_id = NULLIF(?, ''),
			image_url = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, p.Price, p.SalePrice, p.OnSale,
		p.Stock, p.CategoryID, p.BrandID, p.ImageURL, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	return requireRow(res)
}

func (m *MySQLCatalog) DeleteProduct(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res)
}

func (m *MySQLCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := m.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (m *MySQLCatalog) CreateCategory(ctx context.Context, c domain.Category) error {
	_, err := m.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)",
		c.ID, c.Name, c.CreatedAt)
	return translateErr(err)
}

func (m *MySQLCatalog) DeleteCategory(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

func (m *MySQLCatalog) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	rows, err := m.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM brands ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	var brands []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (m *MySQLCatalog) CreateBrand(ctx context.Context, b domain.Brand) error {
	_, err := m.db.ExecContext(ctx,
		"INSERT INTO brands (id, name, created_at) VALUES (?, ?, ?)",
		b.ID, b.Name, b.CreatedAt)
	return translateErr(err)
}

func (m *MySQLCatalog) DeleteBrand(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, "DELETE FROM brands WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return port.ErrNotFound
	}
	return nil
}
