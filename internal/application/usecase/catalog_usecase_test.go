package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

func TestCategory_NombreUnicoYBorradoProtegido(t *testing.T) {
	repo := newMemCategories()
	uc := NewCategoryUseCase(repo, nil)
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CategoryRequest{Name: " Camisas ", Description: "Ropa superior"})
	require.NoError(t, err)
	assert.Equal(t, "Camisas", c.Name)
	assert.Equal(t, "camisas ropa superior", repo.items[c.ID].SearchKey)

	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "CAMISAS", Description: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "Gorras"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	upd, err := uc.Update(ctx, c.ID, dto.CategoryRequest{Name: "camisas", Description: "Solo cambia mayúsculas"})
	require.NoError(t, err)
	assert.Equal(t, "camisas", upd.Name)

	repo.products[c.ID] = 2
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrConflict)
	repo.products[c.ID] = 0
	require.NoError(t, uc.Delete(ctx, c.ID))
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrNotFound)
}

func TestPromotion_EstadoCalculado(t *testing.T) {
	repo := &memPromotions{items: map[string]*entity.Promotion{}}
	uc := NewPromotionUseCase(repo, nil)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.PromotionRequest{
		Name: " verano10 ", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), Discount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "VERANO10", p.Name)
	assert.Equal(t, entity.PromotionActive, p.Status)

	got, err := uc.GetByCode(ctx, "Verano10")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = uc.Create(ctx, dto.PromotionRequest{
		Name: "futura", StartTime: now.Add(24 * time.Hour), EndTime: now.Add(48 * time.Hour), Discount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	_, err = uc.GetByCode(ctx, "FUTURA")
	assert.ErrorIs(t, err, domain.ErrPromotionInactive)
	_, err = uc.GetByCode(ctx, "NOEXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.List(ctx, dto.PageRequest{Status: entity.PromotionExpired})
	require.NoError(t, err)
	require.NotNil(t, repo.listed.From)
	assert.True(t, repo.listed.From.Equal(now))
	_, err = uc.List(ctx, dto.PageRequest{Status: "vigente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPromotion_Validaciones(t *testing.T) {
	uc := NewPromotionUseCase(&memPromotions{items: map[string]*entity.Promotion{}}, nil)
	start := time.Now()
	cases := map[string]dto.PromotionRequest{
		"sin nombre":     {StartTime: start, EndTime: start.Add(time.Hour), Discount: decimal.NewFromInt(10)},
		"fin antes":      {Name: "A", StartTime: start, EndTime: start, Discount: decimal.NewFromInt(10)},
		"descuento cero": {Name: "A", StartTime: start, EndTime: start.Add(time.Hour)},
		"descuento 101":  {Name: "A", StartTime: start, EndTime: start.Add(time.Hour), Discount: decimal.NewFromInt(101)},
	}
	for name, in := range cases {
		_, err := uc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestLoyalty_NivelesYNorma(t *testing.T) {
	norm := &memNorm{}
	uc := NewLoyaltyUseCase(&memLoyalty{items: map[string]*entity.LoyaltyDiscount{}}, norm, nil)
	ctx := context.Background()

	ld, err := uc.Create(ctx, dto.LoyaltyDiscountRequest{Name: "Oro", RequiredPoints: 300, Discount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, entity.LoyaltyActive, ld.Status)

	_, err = uc.Create(ctx, dto.LoyaltyDiscountRequest{Name: "Mal", RequiredPoints: -1, Discount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.LoyaltyDiscountRequest{Name: "Mal", Discount: decimal.NewFromInt(5), Status: "borrador"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetNorm(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.UpdateNorm(ctx, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, err := uc.UpdateNorm(ctx, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, n.MoneyPerPoint.Equal(decimal.NewFromInt(1000)))
	id := norm.norm.ID
	_, err = uc.UpdateNorm(ctx, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, id, norm.norm.ID, "la norma es un registro único")
}
