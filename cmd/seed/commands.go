package main

import (
	"errors"
	"fmt"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-rfid-api/pkg/password"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAdminCmd(e *env) *cobra.Command {
	var email, pass, firstName, lastName string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Crea un usuario administrador",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewUserUseCase(
				postgres.NewUserRepository(e.pool),
				postgres.NewEmployeeRepository(e.pool),
				password.Default(), nil,
			)
			u, err := uc.Create(cmd.Context(), dto.CreateUserRequest{
				Email:           email,
				FirstName:       firstName,
				LastName:        lastName,
				Password:        pass,
				ConfirmPassword: pass,
				Role:            entity.RoleAdmin,
			})
			if errors.Is(err, domain.ErrEmailAlreadyExists) {
				e.log.Warn().Str("email", email).Msg("el administrador ya existe")
				return nil
			}
			if err != nil {
				return err
			}
			e.log.Info().Str("id", u.ID).Str("email", u.Email).Msg("administrador creado")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "admin@tienda.local", "email del administrador")
	cmd.Flags().StringVar(&pass, "password", "", "contraseña (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "nombre")
	cmd.Flags().StringVar(&lastName, "last-name", "", "apellido")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

type demoProduct struct {
	sku, name, category string
	price               int64
	sizes               []string
}

var demoCatalog = []demoProduct{
	{"CAM-001", "Camiseta básica", "Camisetas", 35000, []string{"S", "M", "L", "XL"}},
	{"CAM-002", "Camiseta estampada", "Camisetas", 42000, []string{"M", "L"}},
	{"PAN-001", "Jean clásico", "Pantalones", 95000, []string{"M", "L", "XL", "XXL"}},
	{"CHA-001", "Chaqueta impermeable", "Chaquetas", 180000, []string{"L", "XL"}},
}

// newDemoCmd carga categorías, un proveedor, productos con existencias y
// una etiqueta RFID asignada por producto.
func newDemoCmd(e *env) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Carga un catálogo de demostración",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			categoryRepo := postgres.NewCategoryRepository(e.pool)
			supplierRepo := postgres.NewSupplierRepository(e.pool)
			productRepo := postgres.NewProductRepository(e.pool)
			epcRepo := postgres.NewEPCRepository(e.pool)

			if c, err := categoryRepo.GetByName(ctx, "Camisetas"); err != nil {
				return err
			} else if c != nil {
				e.log.Warn().Msg("los datos de demostración ya están cargados")
				return nil
			}

			categories := usecase.NewCategoryUseCase(categoryRepo, nil)
			suppliers := usecase.NewSupplierUseCase(supplierRepo, nil)
			products := usecase.NewProductUseCase(productRepo, categoryRepo, supplierRepo, nil, nil, nil)
			epcs := rfid.NewEPCUseCase(epcRepo, productRepo, postgres.NewTxRunner(e.pool), nil, nil)

			supplier, err := suppliers.Create(ctx, dto.SupplierRequest{
				Name:        "Textiles del Valle",
				PhoneNumber: "3001234567",
				Address:     "Cra 10 # 20-30, Cali",
				Email:       "ventas@textilesdelvalle.co",
			})
			if err != nil {
				return fmt.Errorf("proveedor: %w", err)
			}

			categoryIDs := map[string]string{}
			for i, p := range demoCatalog {
				if _, ok := categoryIDs[p.category]; !ok {
					c, err := categories.Create(ctx, dto.CategoryRequest{Name: p.category, Description: "Línea " + p.category})
					if err != nil {
						return fmt.Errorf("categoría %s: %w", p.category, err)
					}
					categoryIDs[p.category] = c.ID
				}
				sizes := make([]dto.SizeRequest, 0, len(p.sizes))
				for _, s := range p.sizes {
					sizes = append(sizes, dto.SizeRequest{Size: s, Price: decimal.NewFromInt(p.price), Quantity: qty})
				}
				prod, err := products.Create(ctx, dto.CreateProductRequest{
					SKU:        p.sku,
					Name:       p.name,
					CategoryID: categoryIDs[p.category],
					SupplierID: supplier.ID,
					Sizes:      sizes,
				})
				if err != nil {
					return fmt.Errorf("producto %s: %w", p.sku, err)
				}
				epc := fmt.Sprintf("E2000017%016X", i+1)
				if _, err := epcs.Assign(ctx, dto.AssignEPCRequest{EPC: epc, ProductID: prod.ID}); err != nil {
					return fmt.Errorf("etiqueta %s: %w", epc, err)
				}
				e.log.Info().Str("sku", p.sku).Str("epc", epc).Msg("producto cargado")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&qty, "quantity", 10, "existencias iniciales por talla")
	return cmd
}
