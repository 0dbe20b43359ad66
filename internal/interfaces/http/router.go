package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	appanalytics "github.com/jhoicas/tienda-rfid-api/internal/application/analytics"
	"github.com/jhoicas/tienda-rfid-api/internal/application/auth"
	"github.com/jhoicas/tienda-rfid-api/internal/application/billing"
	"github.com/jhoicas/tienda-rfid-api/internal/application/inventory"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	EmployeeUC  *usecase.EmployeeUseCase
	CategoryUC  *usecase.CategoryUseCase
	SupplierUC  *usecase.SupplierUseCase
	CustomerUC  *usecase.CustomerUseCase
	ProductUC   *usecase.ProductUseCase
	PromotionUC *usecase.PromotionUseCase
	LoyaltyUC   *usecase.LoyaltyUseCase
	InvoiceUC   *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	ImportNote  *inventory.ImportNoteUseCase
	Receipts    *inventory.ReceiptUseCase
	EPCUC       *rfid.EPCUseCase
	Reconcile   *rfid.ReconcileUseCase
	Reader      *rfid.ReaderUseCase
	Hub         *rfid.Hub
	Activity    *activity.Recorder
	Dashboard   *appanalytics.DashboardUseCase
	AuthLimiter *IPRateLimiter
	Log         *logger.Logger
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	adminOnly := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleAdmin, entity.RoleEmployee)

	// Lectura en vivo (WebSocket). El token puede llegar como ?token=.
	scan := NewScanSocket(deps.Hub, deps.Log)
	ws := app.Group("/ws", TokenFromQuery, AuthMiddleware(deps.JWTSecret), staff, RequireUpgrade)
	ws.Get("/scan", scan.Subscribe())
	ws.Get("/scan/ingest", scan.Ingest())

	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter.Handler())
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/verify-email", authHandler.ForgotPassword)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), staff)

	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users/me", userHandler.Me)
	users := protected.Group("/users", adminOnly)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/status", userHandler.ChangeStatus)
	users.Delete("/:id", userHandler.Delete)

	employees := protected.Group("/employees", adminOnly)
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.GetByID)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.ProductUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Get("/:id/products", supplierHandler.Products)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/phone/:phone", customerHandler.GetByPhone)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Products: las rutas fijas van antes de /:id
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/export", productHandler.Export)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/sizes", productHandler.AddSize)
	products.Put("/:id/sizes/:size", productHandler.UpdateSizePrice)
	products.Delete("/:id/sizes/:size", productHandler.DeleteSize)
	products.Post("/:id/image", productHandler.UploadImage)

	promoHandler := NewPromotionHandler(deps.PromotionUC, deps.LoyaltyUC)
	promotions := protected.Group("/promotions")
	promotions.Get("/", promoHandler.List)
	promotions.Get("/code/:code", promoHandler.GetByCode)
	promotions.Get("/:id", promoHandler.GetByID)
	promotions.Post("/", adminOnly, promoHandler.Create)
	promotions.Put("/:id", adminOnly, promoHandler.Update)
	promotions.Delete("/:id", adminOnly, promoHandler.Delete)

	loyalty := protected.Group("/loyalty-discounts")
	loyalty.Get("/", promoHandler.ListLoyalty)
	loyalty.Get("/:id", promoHandler.GetLoyalty)
	loyalty.Post("/", adminOnly, promoHandler.CreateLoyalty)
	loyalty.Put("/:id", adminOnly, promoHandler.UpdateLoyalty)
	loyalty.Delete("/:id", adminOnly, promoHandler.DeleteLoyalty)
	protected.Get("/monetary-norm", promoHandler.GetNorm)
	protected.Put("/monetary-norm", adminOnly, promoHandler.UpdateNorm)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF, deps.Reconcile)
	invoices.Post("/quote", invoiceHandler.Quote)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/export", invoiceHandler.Export)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/complete", invoiceHandler.Complete)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Post("/:id/reconcile", invoiceHandler.Reconcile)

	notes := protected.Group("/import-notes")
	noteHandler := NewImportNoteHandler(deps.ImportNote, deps.Receipts, deps.Reconcile)
	notes.Post("/", noteHandler.Create)
	notes.Get("/", noteHandler.List)
	notes.Get("/export", noteHandler.Export)
	notes.Get("/:id", noteHandler.GetByID)
	notes.Post("/:id/complete", noteHandler.Complete)
	notes.Post("/:id/cancel", noteHandler.Cancel)
	notes.Post("/:id/reconcile", noteHandler.Reconcile)
	protected.Post("/transactions/receipt", noteHandler.Receipt)

	epcs := protected.Group("/epc")
	epcHandler := NewEPCHandler(deps.EPCUC)
	epcs.Get("/", epcHandler.List)
	epcs.Post("/", epcHandler.Add)
	epcs.Post("/bulk", epcHandler.BulkAdd)
	epcs.Post("/assign", epcHandler.Assign)
	epcs.Post("/lookup", epcHandler.Lookup)
	epcs.Get("/:epc", epcHandler.Get)
	epcs.Post("/:epc/unassign", epcHandler.Unassign)
	epcs.Delete("/:epc", epcHandler.Delete)

	rfidGroup := protected.Group("/rfid")
	rfidHandler := NewRFIDHandler(deps.Hub, deps.Reader)
	rfidGroup.Post("/reads", rfidHandler.Reads)
	rfidGroup.Get("/session", rfidHandler.Snapshot)
	rfidGroup.Delete("/session", rfidHandler.Reset)
	reader := rfidGroup.Group("/reader")
	reader.Post("/connect", rfidHandler.Connect)
	reader.Post("/disconnect", rfidHandler.Disconnect)
	reader.Post("/start", rfidHandler.Start)
	reader.Post("/stop", rfidHandler.Stop)
	reader.Get("/status", rfidHandler.Status)
	reader.Get("/baseband", rfidHandler.GetBaseband)
	reader.Put("/baseband", rfidHandler.SetBaseband)
	reader.Get("/frequency", rfidHandler.GetFrequencyRange)
	reader.Get("/frequency/options", rfidHandler.FrequencyOptions)
	reader.Put("/frequency", rfidHandler.SetFrequencyRange)
	reader.Get("/antenna-power", rfidHandler.GetAntennaPower)
	reader.Put("/antenna-power", rfidHandler.SetAntennaPower)

	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	activityHandler := NewActivityHandler(deps.Activity)
	protected.Get("/activity-logs", adminOnly, activityHandler.List)
}
