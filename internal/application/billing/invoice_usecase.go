package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/export"
	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/sales"
)

// InvoiceUseCase ventas: cotización, creación con descuento de stock, ciclo de estados y exportación.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	inventoryUC  InventoryUseCase
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	loyaltyRepo  repository.LoyaltyDiscountRepository
	normRepo     repository.MonetaryNormRepository
	promotions   PromotionLookup
	excel        export.Writer
	activity     *activity.Recorder
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	inventoryUC InventoryUseCase,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	loyaltyRepo repository.LoyaltyDiscountRepository,
	normRepo repository.MonetaryNormRepository,
	promotions PromotionLookup,
	excel export.Writer,
	rec *activity.Recorder,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		inventoryUC:  inventoryUC,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		loyaltyRepo:  loyaltyRepo,
		normRepo:     normRepo,
		promotions:   promotions,
		excel:        excel,
		activity:     rec,
		now:          time.Now,
	}
}

// cart resultado de validar y valorizar el carrito.
type cart struct {
	orderType string
	address   string
	phone     string
	customer  *entity.Customer // nil si el teléfono no está registrado
	promotion *entity.Promotion
	tier      *entity.LoyaltyDiscount
	products  map[string]*entity.Product
	breakdown sales.Breakdown
}

func (c *cart) promoPercent() decimal.Decimal {
	if c.promotion == nil {
		return decimal.Zero
	}
	return c.promotion.Discount
}

func (c *cart) loyaltyPercent() decimal.Decimal {
	if c.tier == nil {
		return decimal.Zero
	}
	return c.tier.Discount
}

// prepare valida la entrada y calcula el precio con los datos del servidor (nunca con precios del cliente).
func (uc *InvoiceUseCase) prepare(ctx context.Context, in dto.CreateInvoiceRequest) (*cart, error) {
	c := &cart{
		orderType: strings.ToLower(strings.TrimSpace(in.OrderType)),
		address:   strings.TrimSpace(in.ShippingAddress),
		phone:     usecase.NormalizePhone(in.CustomerPhone),
		products:  make(map[string]*entity.Product),
	}
	if c.orderType == "" {
		c.orderType = entity.OrderShop
	}
	shipping := in.ShippingFee
	switch c.orderType {
	case entity.OrderShop:
		shipping = decimal.Zero
		c.address = ""
	case entity.OrderOnline:
		if c.address == "" {
			return nil, domain.Invalid("shipping_address es requerido para pedidos online")
		}
		if shipping.IsNegative() {
			return nil, domain.Invalid("shipping_fee no puede ser negativo")
		}
	default:
		return nil, domain.Invalid("order_type debe ser shop u online")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("el carrito está vacío")
	}

	lines := make([]sales.Line, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("línea %d: quantity debe ser mayor que 0", i+1))
		}
		size, ok := entity.NormalizeSize(it.Size)
		if !ok {
			return nil, domain.Invalid(fmt.Sprintf("línea %d: talla inválida %q", i+1, it.Size))
		}
		p, found := c.products[it.ProductID]
		if !found {
			var err error
			p, err = uc.productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, domain.Invalid(fmt.Sprintf("línea %d: producto no encontrado", i+1))
			}
			c.products[p.ID] = p
		}
		if p.Status == entity.ProductDiscontinued {
			return nil, domain.Invalid(fmt.Sprintf("%s está descontinuado", p.Name))
		}
		ps := p.Size(size)
		if ps == nil {
			return nil, domain.Invalid(fmt.Sprintf("%s no tiene la talla %s", p.Name, size))
		}
		lines = append(lines, sales.Line{ProductID: p.ID, Size: size, Quantity: it.Quantity, UnitPrice: ps.Price})
	}

	// Cantidades agrupadas contra la existencia leída; la transacción vuelve a verificar.
	for _, l := range sales.MergeLines(lines) {
		if ps := c.products[l.ProductID].Size(l.Size); ps.Quantity < l.Quantity {
			return nil, fmt.Errorf("%w: %s talla %s (disponible %d)", domain.ErrInsufficientStock, c.products[l.ProductID].Name, l.Size, ps.Quantity)
		}
	}

	if code := strings.TrimSpace(in.PromoCode); code != "" {
		promo, err := uc.promotions.ActiveByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		c.promotion = promo
	}

	if c.phone != "" {
		cust, err := uc.customerRepo.GetByPhone(ctx, c.phone)
		if err != nil {
			return nil, err
		}
		c.customer = cust
	}
	if c.customer != nil {
		tiers, err := uc.loyaltyRepo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		c.tier = sales.ResolveTier(tiers, c.customer.Points)
	}

	c.breakdown = sales.Compute(sales.Input{
		Lines:          lines,
		PromoPercent:   c.promoPercent(),
		LoyaltyPercent: c.loyaltyPercent(),
		ShippingFee:    shipping,
	})
	return c, nil
}

// Quote calcula el desglose sin persistir ni tocar stock.
func (uc *InvoiceUseCase) Quote(ctx context.Context, in dto.PriceQuoteRequest) (*dto.PriceQuoteResponse, error) {
	c, err := uc.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	b := c.breakdown
	out := &dto.PriceQuoteResponse{
		Subtotal:         b.Subtotal,
		PromoDiscount:    c.promoPercent(),
		CustomerDiscount: c.loyaltyPercent(),
		PromoAmount:      b.PromoAmount,
		LoyaltyAmount:    b.LoyaltyAmount,
		DiscountedTotal:  b.DiscountedTotal,
		ShippingFee:      b.ShippingFee,
		TotalPrice:       b.Total,
		Lines:            make([]dto.InvoiceDetailResponse, 0, len(b.Lines)),
	}
	for _, l := range b.Lines {
		p := c.products[l.ProductID]
		out.Lines = append(out.Lines, dto.InvoiceDetailResponse{
			ProductID:   l.ProductID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Size:        l.Size,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return out, nil
}

// invoiceCode INV-yyyymmdd-XXXXXX.
func invoiceCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// Create registra la venta. En una sola transacción: crea el cliente si el teléfono
// no existe, descuenta stock por talla y guarda cabecera y detalles. Los pedidos de
// tienda quedan Completed y suman puntos; los online quedan Pending.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	c, err := uc.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	if c.phone == "" {
		return nil, domain.Invalid("customer_phone es requerido")
	}
	name := strings.TrimSpace(in.CustomerName)
	if c.customer == nil && name == "" {
		return nil, domain.Invalid("customer_name es requerido para un cliente nuevo")
	}

	now := uc.now()
	b := c.breakdown
	inv := &entity.Invoice{
		ID:               uuid.New().String(),
		InvoiceCode:      invoiceCode(now),
		UserID:           activity.Actor(ctx),
		OrderType:        c.orderType,
		ShippingAddress:  c.address,
		ShippingFee:      b.ShippingFee,
		PromoDiscount:    c.promoPercent(),
		CustomerDiscount: c.loyaltyPercent(),
		Subtotal:         b.Subtotal,
		DiscountedTotal:  b.DiscountedTotal,
		TotalPrice:       b.Total,
		Status:           entity.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if c.promotion != nil {
		inv.PromotionID = c.promotion.ID
		inv.PromotionName = c.promotion.Name
	}
	for _, l := range b.Lines {
		p := c.products[l.ProductID]
		inv.Details = append(inv.Details, entity.InvoiceDetail{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			ProductID:   l.ProductID,
			Size:        l.Size,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
		})
	}

	var points int
	if c.orderType == entity.OrderShop {
		if points, err = uc.pointsFor(ctx, inv); err != nil {
			return nil, err
		}
	}

	err = uc.txRunner.RunBilling(ctx, func(productRepo repository.ProductRepository, customerRepo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) error {
		cust := c.customer
		if cust == nil {
			cust = &entity.Customer{
				ID:          uuid.New().String(),
				Name:        name,
				PhoneNumber: c.phone,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := customerRepo.Create(ctx, cust); err != nil {
				return err
			}
		}
		inv.CustomerID = cust.ID
		inv.CustomerName = cust.Name
		inv.CustomerPhone = cust.PhoneNumber

		for _, d := range inv.Details {
			if err := uc.inventoryUC.ApplyInTx(ctx, productRepo, d.ProductID, d.Size, -d.Quantity); err != nil {
				return fmt.Errorf("%s talla %s: %w", d.ProductName, d.Size, err)
			}
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		if c.orderType != entity.OrderShop {
			return nil
		}
		if err := invoiceRepo.Transition(ctx, inv.ID, entity.StatusPending, entity.StatusCompleted, points); err != nil {
			return err
		}
		if err := uc.awardPoints(ctx, customerRepo, cust, points); err != nil {
			return err
		}
		inv.Status = entity.StatusCompleted
		inv.PointsAwarded = points
		return nil
	})
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityInvoice, EntityID: inv.ID, Action: "create", Details: inv.InvoiceCode, Err: err})
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// pointsFor puntos que otorga la factura según la norma monetaria (0 si no está configurada).
func (uc *InvoiceUseCase) pointsFor(ctx context.Context, inv *entity.Invoice) (int, error) {
	norm, err := uc.normRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	if norm == nil {
		return 0, nil
	}
	return sales.PointsEarned(inv.TotalPrice, inv.ShippingFee, norm.MoneyPerPoint), nil
}

// awardPoints suma puntos sobre el valor guardado y recalcula el nivel de fidelidad.
// cust puede venir de una lectura previa: su puntaje no se usa para el cálculo.
func (uc *InvoiceUseCase) awardPoints(ctx context.Context, customerRepo repository.CustomerRepository, cust *entity.Customer, points int) error {
	total, err := customerRepo.AddPoints(ctx, cust.ID, points)
	if err != nil {
		return err
	}
	tiers, err := uc.loyaltyRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	tierID := ""
	if t := sales.ResolveTier(tiers, total); t != nil {
		tierID = t.ID
	}
	if err := customerRepo.SetLoyaltyTier(ctx, cust.ID, tierID); err != nil {
		return err
	}
	cust.Points = total
	cust.LoyaltyDiscountID = tierID
	return nil
}

func (uc *InvoiceUseCase) get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// GetByID devuelve la factura con detalle.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// Complete pasa una factura Pending a Completed y otorga los puntos al cliente.
func (uc *InvoiceUseCase) Complete(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: la factura está %s", domain.ErrInvalidTransition, inv.Status)
	}
	points, err := uc.pointsFor(ctx, inv)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunBilling(ctx, func(_ repository.ProductRepository, customerRepo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) error {
		cust, err := customerRepo.GetByID(ctx, inv.CustomerID)
		if err != nil {
			return err
		}
		if cust == nil {
			points = 0
		}
		// El UPDATE condicional serializa dos Complete simultáneos: el segundo falla aquí.
		if err := invoiceRepo.Transition(ctx, inv.ID, entity.StatusPending, entity.StatusCompleted, points); err != nil {
			return err
		}
		if cust == nil {
			return nil
		}
		return uc.awardPoints(ctx, customerRepo, cust, points)
	})
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityInvoice, EntityID: inv.ID, Action: "complete", Details: inv.InvoiceCode, Err: err})
	if err != nil {
		return nil, err
	}
	inv.Status = entity.StatusCompleted
	inv.PointsAwarded = points
	inv.UpdatedAt = uc.now()
	return ToInvoiceResponse(inv), nil
}

// Cancel anula una factura Pending y devuelve el stock de cada línea.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: la factura está %s", domain.ErrInvalidTransition, inv.Status)
	}
	err = uc.txRunner.RunBilling(ctx, func(productRepo repository.ProductRepository, _ repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Transition(ctx, inv.ID, entity.StatusPending, entity.StatusCanceled, 0); err != nil {
			return err
		}
		for _, d := range inv.Details {
			if err := uc.inventoryUC.ApplyInTx(ctx, productRepo, d.ProductID, d.Size, d.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityInvoice, EntityID: inv.ID, Action: "cancel", Details: inv.InvoiceCode, Err: err})
	if err != nil {
		return nil, err
	}
	inv.Status = entity.StatusCanceled
	inv.UpdatedAt = uc.now()
	return ToInvoiceResponse(inv), nil
}

func (uc *InvoiceUseCase) filter(in dto.InvoiceListRequest) (repository.ListFilter, error) {
	in.DefaultPage()
	switch in.Status {
	case "", entity.StatusPending, entity.StatusCompleted, entity.StatusCanceled:
	default:
		return repository.ListFilter{}, domain.Invalid("status inválido: " + in.Status)
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return repository.ListFilter{}, domain.Invalid("el rango de fechas es inválido")
	}
	return repository.ListFilter{
		Keyword: strings.TrimSpace(in.Keyword),
		Status:  in.Status,
		From:    in.From,
		To:      in.To,
		Limit:   in.Limit,
		Offset:  in.Offset,
	}, nil
}

// List lista facturas (sin detalle) por código/cliente, estado y rango de fechas.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.invoiceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *ToInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total}}, nil
}

// ExportExcel vuelca las facturas filtradas: hoja de cabeceras y hoja de líneas.
func (uc *InvoiceUseCase) ExportExcel(ctx context.Context, in dto.InvoiceListRequest) ([]byte, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = 0, 0
	list, _, err := uc.invoiceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	heads := export.Table{
		Sheet:   "Facturas",
		Headers: []string{"Código", "Fecha", "Cliente", "Teléfono", "Tipo", "Estado", "Subtotal", "Promoción %", "Fidelidad %", "Envío", "Total", "Puntos"},
	}
	lines := export.Table{
		Sheet:   "Detalle",
		Headers: []string{"Código", "Producto", "SKU", "Talla", "Cantidad", "Precio", "Total"},
	}
	money := func(d decimal.Decimal) float64 { v, _ := d.Float64(); return v }
	for _, inv := range list {
		heads.Rows = append(heads.Rows, []interface{}{
			inv.InvoiceCode, inv.CreatedAt, inv.CustomerName, inv.CustomerPhone, inv.OrderType, inv.Status,
			money(inv.Subtotal), money(inv.PromoDiscount), money(inv.CustomerDiscount), money(inv.ShippingFee),
			money(inv.TotalPrice), inv.PointsAwarded,
		})
		full, err := uc.invoiceRepo.GetByID(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		if full == nil {
			continue
		}
		for _, d := range full.Details {
			lines.Rows = append(lines.Rows, []interface{}{inv.InvoiceCode, d.ProductName, d.ProductSKU, d.Size, d.Quantity, money(d.UnitPrice), money(d.LineTotal())})
		}
	}
	return uc.excel.Write(ctx, heads, lines)
}

// ToInvoiceResponse mapea la entidad a la respuesta HTTP.
func ToInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:               inv.ID,
		InvoiceCode:      inv.InvoiceCode,
		CustomerID:       inv.CustomerID,
		CustomerName:     inv.CustomerName,
		CustomerPhone:    inv.CustomerPhone,
		UserID:           inv.UserID,
		SellerName:       inv.SellerName,
		OrderType:        inv.OrderType,
		ShippingAddress:  inv.ShippingAddress,
		ShippingFee:      inv.ShippingFee,
		PromotionID:      inv.PromotionID,
		PromotionName:    inv.PromotionName,
		PromoDiscount:    inv.PromoDiscount,
		CustomerDiscount: inv.CustomerDiscount,
		Subtotal:         inv.Subtotal,
		DiscountedTotal:  inv.DiscountedTotal,
		TotalPrice:       inv.TotalPrice,
		PointsAwarded:    inv.PointsAwarded,
		Status:           inv.Status,
		Details:          make([]dto.InvoiceDetailResponse, 0, len(inv.Details)),
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
	for _, d := range inv.Details {
		out.Details = append(out.Details, dto.InvoiceDetailResponse{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			ProductSKU:  d.ProductSKU,
			Size:        d.Size,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Total:       d.LineTotal(),
		})
	}
	return out
}
