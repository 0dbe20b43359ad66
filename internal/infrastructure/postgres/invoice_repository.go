package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceSelect = `
	SELECT i.id::text, i.invoice_code, i.customer_id::text, COALESCE(i.user_id::text, ''), i.order_type,
	       i.shipping_address, i.shipping_fee, COALESCE(i.promotion_id::text, ''), i.promo_discount,
	       i.customer_discount, i.subtotal, i.discounted_total, i.total_price, i.points_awarded, i.status,
	       i.created_at, i.updated_at,
	       cu.name, cu.phonenumber, COALESCE(pr.name, ''),
	       COALESCE(trim(u.first_name || ' ' || u.last_name), '')
	FROM invoices i
	JOIN customers cu ON cu.id = i.customer_id
	LEFT JOIN promotions pr ON pr.id = i.promotion_id
	LEFT JOIN users u ON u.id = i.user_id`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceCode, &inv.CustomerID, &inv.UserID, &inv.OrderType,
		&inv.ShippingAddress, &inv.ShippingFee, &inv.PromotionID, &inv.PromoDiscount,
		&inv.CustomerDiscount, &inv.Subtotal, &inv.DiscountedTotal, &inv.TotalPrice, &inv.PointsAwarded, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
		&inv.CustomerName, &inv.CustomerPhone, &inv.PromotionName, &inv.SellerName)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste cabecera y detalles. Debe ejecutarse dentro de la tx de facturación.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, invoice_code, customer_id, user_id, order_type, shipping_address, shipping_fee,
		                      promotion_id, promo_discount, customer_discount, subtotal, discounted_total, total_price,
		                      points_awarded, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		inv.ID, inv.InvoiceCode, inv.CustomerID, nullIfEmpty(inv.UserID), inv.OrderType, inv.ShippingAddress, inv.ShippingFee,
		nullIfEmpty(inv.PromotionID), inv.PromoDiscount, inv.CustomerDiscount, inv.Subtotal, inv.DiscountedTotal, inv.TotalPrice,
		inv.PointsAwarded, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	if len(inv.Details) == 0 {
		return nil
	}

	ids := make([]string, 0, len(inv.Details))
	products := make([]string, 0, len(inv.Details))
	sizes := make([]string, 0, len(inv.Details))
	qtys := make([]int32, 0, len(inv.Details))
	prices := make([]string, 0, len(inv.Details))
	for _, d := range inv.Details {
		ids = append(ids, d.ID)
		products = append(products, d.ProductID)
		sizes = append(sizes, d.Size)
		qtys = append(qtys, int32(d.Quantity))
		prices = append(prices, d.UnitPrice.String())
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO invoice_details (id, invoice_id, product_id, size, quantity, unit_price)
		SELECT d.id, $1, d.product_id, d.size, d.quantity, d.unit_price
		FROM unnest($2::text[]::uuid[], $3::text[]::uuid[], $4::text[], $5::int[], $6::numeric[])
		     AS d(id, product_id, size, quantity, unit_price)`,
		inv.ID, ids, products, sizes, qtys, prices,
	)
	if err != nil {
		return fmt.Errorf("insert invoice details: %w", err)
	}
	return nil
}

// GetByID devuelve la factura con sus detalles. nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if !isUUID(id) {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, invoiceSelect+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT d.id::text, d.invoice_id::text, d.product_id::text, d.size, d.quantity, d.unit_price, p.name, p.sku
		FROM invoice_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.invoice_id = $1
		ORDER BY p.name, d.size`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.InvoiceDetail
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.ProductID, &d.Size, &d.Quantity, &d.UnitPrice, &d.ProductName, &d.ProductSKU); err != nil {
			return nil, fmt.Errorf("scan invoice detail: %w", err)
		}
		inv.Details = append(inv.Details, d)
	}
	return inv, rows.Err()
}

// List lista cabeceras filtrando por código o cliente, estado y rango de creación.
func (r *InvoiceRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Invoice, int, error) {
	var w where
	if p := textsearch.Pattern(f.Keyword); p != "" {
		w.add("(lower(i.invoice_code) LIKE ? OR cu.search_key LIKE ? OR cu.phonenumber LIKE ?)", p, p, p)
	}
	if f.Status != "" {
		w.add("i.status = ?", f.Status)
	}
	w.dates("i.created_at", f)

	var total int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices i JOIN customers cu ON cu.id = i.customer_id`+w.String(), w.args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	tail, args := w.page(f)
	rows, err := r.q.Query(ctx, invoiceSelect+w.String()+` ORDER BY i.created_at DESC`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// Transition cambia el estado solo si la factura sigue en from.
// La fila queda bloqueada hasta el fin de la transacción.
func (r *InvoiceRepo) Transition(ctx context.Context, id, from, to string, pointsAwarded int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET status = $3, points_awarded = $4, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, from, to, pointsAwarded,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la factura ya no está %s", domain.ErrInvalidTransition, from)
	}
	return nil
}
