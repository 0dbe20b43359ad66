package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id::text, p.sku, COALESCE(p.barcode, ''), p.name, p.description,
	       COALESCE(p.category_id::text, ''), COALESCE(p.supplier_id::text, ''),
	       p.status, p.image_key, p.search_key, p.created_at, p.updated_at,
	       COALESCE(c.name, ''), COALESCE(s.name, '')
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Barcode, &p.Name, &p.Description,
		&p.CategoryID, &p.SupplierID, &p.Status, &p.ImageKey, &p.SearchKey, &p.CreatedAt, &p.UpdatedAt,
		&p.CategoryName, &p.SupplierName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste el producto y sus tallas en una sola sentencia.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	sizes := make([]string, 0, len(product.Sizes))
	prices := make([]string, 0, len(product.Sizes))
	qtys := make([]int32, 0, len(product.Sizes))
	for _, s := range product.Sizes {
		sizes = append(sizes, s.Size)
		prices = append(prices, s.Price.String())
		qtys = append(qtys, int32(s.Quantity))
	}
	query := `
		WITH p AS (
			INSERT INTO products (id, sku, barcode, name, description, category_id, supplier_id, status, image_key, search_key, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		)
		INSERT INTO product_sizes (product_id, size, price, quantity)
		SELECT p.id, s.size, s.price, s.quantity
		FROM p, unnest($13::text[], $14::numeric[], $15::int[]) AS s(size, price, quantity)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, nullIfEmpty(product.Barcode), product.Name, product.Description,
		nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID), product.Status, product.ImageKey,
		product.SearchKey, product.CreatedAt, product.UpdatedAt,
		sizes, prices, qtys,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto con sus tallas.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadSizes(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// loadSizes completa las tallas de varios productos con una consulta.
func (r *ProductRepo) loadSizes(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id::text, size, price, quantity
		FROM product_sizes
		WHERE product_id = ANY($1::text[]::uuid[])
		ORDER BY product_id, array_position(ARRAY['S','M','L','XL','XXL'], size)`, ids)
	if err != nil {
		return fmt.Errorf("list product sizes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var s entity.ProductSize
		if err := rows.Scan(&productID, &s.Size, &s.Price, &s.Quantity); err != nil {
			return fmt.Errorf("scan product size: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Sizes = append(p.Sizes, s)
		}
	}
	return rows.Err()
}

// Update actualiza datos generales. Las tallas y el stock tienen sus propios métodos.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET barcode = $2, name = $3, description = $4, category_id = $5, supplier_id = $6,
		    status = $7, search_key = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, nullIfEmpty(product.Barcode), product.Name, product.Description,
		nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.Status, product.SearchKey, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto. Si figura en facturas o notas retorna ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("el producto tiene movimientos: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List lista productos con filtros y el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	var w where
	w.keyword("p.search_key", f.Keyword)
	if f.Status != "" {
		w.add("p.status = ?", f.Status)
	}
	w.uuid("p.category_id", f.CategoryID)
	w.uuid("p.supplier_id", f.SupplierID)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	tail, args := w.page(f)
	list, err := r.query(ctx, productSelect+w.String()+` ORDER BY p.created_at DESC`+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListBySupplier productos de un proveedor ordenados por nombre.
func (r *ProductRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Product, error) {
	if !isUUID(supplierID) {
		return nil, nil
	}
	return r.query(ctx, productSelect+` WHERE p.supplier_id = $1 ORDER BY p.name`, supplierID)
}

func (r *ProductRepo) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadSizes(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddSize agrega una talla.
func (r *ProductRepo) AddSize(ctx context.Context, productID string, size entity.ProductSize) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO product_sizes (product_id, size, price, quantity) VALUES ($1, $2, $3, $4)`,
		productID, size.Size, size.Price, size.Quantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product size: %w", err)
	}
	return r.touch(ctx, productID)
}

// DeleteSize quita una talla.
func (r *ProductRepo) DeleteSize(ctx context.Context, productID, size string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM product_sizes WHERE product_id = $1 AND size = $2`, productID, size)
	if err != nil {
		return fmt.Errorf("delete product size: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.touch(ctx, productID)
}

// UpdateSizePrice cambia el precio de una talla.
func (r *ProductRepo) UpdateSizePrice(ctx context.Context, productID, size string, price decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE product_sizes SET price = $3 WHERE product_id = $1 AND size = $2`,
		productID, size, price,
	)
	if err != nil {
		return fmt.Errorf("update product size price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.touch(ctx, productID)
}

// AdjustSizeQuantity suma delta en una sola sentencia; la condición evita existencias negativas
// aunque dos ventas concurrentes lean el mismo stock.
func (r *ProductRepo) AdjustSizeQuantity(ctx context.Context, productID, size string, delta int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_sizes SET quantity = quantity + $3
		WHERE product_id = $1 AND size = $2 AND quantity + $3 >= 0`,
		productID, size, delta,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("adjust product size quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM product_sizes WHERE product_id = $1 AND size = $2)`, productID, size,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check product size: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return r.touch(ctx, productID)
}

// UpdateStatus fija el estado del producto.
func (r *ProductRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	return nil
}

// UpdateImage guarda la clave del objeto de la imagen.
func (r *ProductRepo) UpdateImage(ctx context.Context, id, imageKey string) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET image_key = $2, updated_at = now() WHERE id = $1`, id, imageKey)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	return nil
}

func (r *ProductRepo) touch(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE products SET updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touch product: %w", err)
	}
	return nil
}
