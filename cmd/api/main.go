package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	appanalytics "github.com/jhoicas/tienda-rfid-api/internal/application/analytics"
	"github.com/jhoicas/tienda-rfid-api/internal/application/auth"
	"github.com/jhoicas/tienda-rfid-api/internal/application/billing"
	"github.com/jhoicas/tienda-rfid-api/internal/application/inventory"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
	"github.com/jhoicas/tienda-rfid-api/internal/infrastructure/excel"
	"github.com/jhoicas/tienda-rfid-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/tienda-rfid-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-rfid-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-rfid-api/internal/infrastructure/reader"
	infraredis "github.com/jhoicas/tienda-rfid-api/internal/infrastructure/redis"
	"github.com/jhoicas/tienda-rfid-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/tienda-rfid-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-rfid-api/pkg/config"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
	"github.com/jhoicas/tienda-rfid-api/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	promotionRepo := postgres.NewPromotionRepository(pool)
	loyaltyRepo := postgres.NewLoyaltyRepository(pool)
	normRepo := postgres.NewMonetaryNormRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	noteRepo := postgres.NewImportNoteRepository(pool)
	epcRepo := postgres.NewEPCRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := activity.NewRecorder(activityRepo, log)
	hasher := password.Default()

	// Redis guarda los códigos OTP de recuperación.
	rdb, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()
	otpStore := infraredis.NewOTPStore(rdb)
	mailer := mail.NewMailer(cfg.SMTP, log)

	// Imágenes de producto: MinIO solo si hay endpoint configurado.
	var images usecase.ImageStorage
	if cfg.MinIO.Endpoint != "" {
		minioStorage, err := storage.NewMinioStorage(cfg.MinIO)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente MinIO")
		}
		if err := minioStorage.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.MinIO.Bucket).Msg("bucket MinIO")
		}
		images = minioStorage
	} else {
		log.Warn().Msg("MINIO_ENDPOINT vacío: carga de imágenes deshabilitada")
	}

	excelWriter := excel.NewWriter()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	// RFID: el hub consulta el registro de etiquetas y recibe sus cambios.
	hub := rfid.NewHub(epcRepo, cfg.Scan.SubscriberBuffer, log)
	readerClient := reader.NewClient(cfg.Reader, log)

	stock := inventory.NewStockService()
	userUC := usecase.NewUserUseCase(userRepo, employeeRepo, hasher, recorder)
	employeeUC := usecase.NewEmployeeUseCase(employeeRepo, recorder)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, recorder)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, recorder)
	customerUC := usecase.NewCustomerUseCase(customerRepo, recorder)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, supplierRepo, images, excelWriter, recorder)
	promotionUC := usecase.NewPromotionUseCase(promotionRepo, recorder)
	loyaltyUC := usecase.NewLoyaltyUseCase(loyaltyRepo, normRepo, recorder)

	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, stock,
		productRepo, customerRepo, invoiceRepo, loyaltyRepo, normRepo,
		promotionUC, excelWriter, recorder,
	)
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, pdfGenerator)
	importNoteUC := inventory.NewImportNoteUseCase(txRunner, stock, noteRepo, productRepo, supplierRepo, excelWriter, recorder)
	receiptUC := inventory.NewReceiptUseCase(productRepo, userRepo, pdfGenerator)

	epcUC := rfid.NewEPCUseCase(epcRepo, productRepo, txRunner, hub, recorder)
	reconcileUC := rfid.NewReconcileUseCase(invoiceRepo, noteRepo, epcRepo, hub)
	readerUC := rfid.NewReaderUseCase(readerClient, hub)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

	authUC := auth.NewAuthUseCase(userRepo, otpStore, mailer, hasher,
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.OTPConfig{Length: cfg.OTP.Length, TTL: cfg.OTP.TTL},
		recorder, log,
	)

	authLimiter := httpRouter.NewIPRateLimiter(cfg.RateLimit.AuthPerSecond, cfg.RateLimit.AuthBurst)
	go authLimiter.Cleanup(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda RFID API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		EmployeeUC:  employeeUC,
		CategoryUC:  categoryUC,
		SupplierUC:  supplierUC,
		CustomerUC:  customerUC,
		ProductUC:   productUC,
		PromotionUC: promotionUC,
		LoyaltyUC:   loyaltyUC,
		InvoiceUC:   invoiceUC,
		InvoicePDF:  invoicePDFUC,
		ImportNote:  importNoteUC,
		Receipts:    receiptUC,
		EPCUC:       epcUC,
		Reconcile:   reconcileUC,
		Reader:      readerUC,
		Hub:         hub,
		Activity:    recorder,
		Dashboard:   dashboardUC,
		AuthLimiter: authLimiter,
		Log:         log,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
