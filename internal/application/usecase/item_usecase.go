package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
	"github.com/jhoicas/clinica-stock/internal/domain/stock"
)

// ItemUseCase consultas y alta de insumos con sus presentaciones.
type ItemUseCase struct {
	itemRepo  repository.ItemRepository
	unitRepo  repository.UnitRepository
	batchRepo repository.BatchRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(itemRepo repository.ItemRepository, unitRepo repository.UnitRepository, batchRepo repository.BatchRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, unitRepo: unitRepo, batchRepo: batchRepo}
}

// CreateItemRequest alta de insumo con su unidad base y presentaciones opcionales.
type CreateItemRequest struct {
	Code        string                  `json:"code"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	MinStock    int64                   `json:"min_stock"`
	MaxStock    int64                   `json:"max_stock"`
	BaseUnit    string                  `json:"base_unit"`
	Units       []CreateItemUnitRequest `json:"units,omitempty"`
}

// CreateItemUnitRequest presentación adicional (tasa entera > 1 hacia la base).
type CreateItemUnitRequest struct {
	Name                 string `json:"name"`
	ConversionRateToBase int64  `json:"conversion_rate_to_base"`
}

// Create registra el insumo, su unidad base (tasa 1) y las presentaciones dadas.
func (uc *ItemUseCase) Create(_ context.Context, in CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Code == "" || in.Name == "" || in.BaseUnit == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, u := range in.Units {
		if u.Name == "" || u.ConversionRateToBase <= 1 {
			return nil, domain.ErrInvalidInput
		}
	}
	existing, err := uc.itemRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateItemCode
	}

	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}

	units := []*entity.Unit{{
		ID:                   uuid.New().String(),
		ItemID:               item.ID,
		Name:                 in.BaseUnit,
		ConversionRateToBase: 1,
		IsBaseUnit:           true,
		DisplayOrder:         1,
		CreatedAt:            now,
	}}
	for i, u := range in.Units {
		units = append(units, &entity.Unit{
			ID:                   uuid.New().String(),
			ItemID:               item.ID,
			Name:                 u.Name,
			ConversionRateToBase: u.ConversionRateToBase,
			DisplayOrder:         i + 2,
			CreatedAt:            now,
		})
	}
	for _, u := range units {
		if err := uc.unitRepo.Create(u); err != nil {
			return nil, err
		}
	}
	return uc.buildResponse(item, units, nil), nil
}

// GetByID devuelve el insumo con presentaciones, lotes y disponibilidad derivada.
func (uc *ItemUseCase) GetByID(_ context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	units, err := uc.unitRepo.ListByItem(id)
	if err != nil {
		return nil, err
	}
	batches, err := uc.batchRepo.ListByItem(id)
	if err != nil {
		return nil, err
	}
	return uc.buildResponse(item, units, batches), nil
}

// List devuelve el listado de insumos con su stock total derivado.
func (uc *ItemUseCase) List(_ context.Context, search string, page dto.PageRequest) ([]dto.ItemSummary, error) {
	page.DefaultPage()
	items, err := uc.itemRepo.List(search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemSummary, 0, len(items))
	for _, item := range items {
		total, err := uc.batchRepo.TotalOnHandByItem(item.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ItemSummary{
			ID:          item.ID,
			Code:        item.Code,
			Name:        item.Name,
			IsActive:    item.IsActive,
			TotalOnHand: total,
			MinStock:    item.MinStock,
			BelowMin:    total < item.MinStock,
		})
	}
	return out, nil
}

func (uc *ItemUseCase) buildResponse(item *entity.Item, units []*entity.Unit, batches []*entity.Batch) *dto.ItemResponse {
	today := time.Date(time.Now().Year(), time.Now().Month(), time.Now().Day(), 0, 0, 0, 0, time.Local)
	a := stock.CalculateAvailability(batches, today)

	resp := &dto.ItemResponse{
		ID:          item.ID,
		Code:        item.Code,
		Name:        item.Name,
		Description: item.Description,
		MinStock:    item.MinStock,
		MaxStock:    item.MaxStock,
		IsActive:    item.IsActive,
		TotalOnHand: a.Total,
		NonExpired:  a.NonExpired,
		Expired:     a.Expired,
	}
	for _, u := range units {
		resp.Units = append(resp.Units, dto.UnitDTO{
			ID:                   u.ID,
			Name:                 u.Name,
			ConversionRateToBase: u.ConversionRateToBase,
			IsBaseUnit:           u.IsBaseUnit,
			DisplayOrder:         u.DisplayOrder,
		})
	}
	for _, b := range batches {
		resp.Batches = append(resp.Batches, dto.BatchDTO{
			ID:             b.ID,
			LotNumber:      b.LotNumber,
			ExpiryDate:     b.ExpiryDate,
			QuantityOnHand: b.QuantityOnHand,
			BinLocation:    b.BinLocation,
			IsUnpacked:     b.IsUnpacked,
			ParentBatchID:  b.ParentBatchID,
		})
	}
	return resp
}
