package stock

import (
	"context"
	"time"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
	domstock "github.com/jhoicas/clinica-stock/internal/domain/stock"
)

// QueryUseCase consultas de solo lectura sobre el libro de stock: disponibilidad,
// detalle de transacciones y reporte de próximos a vencer.
type QueryUseCase struct {
	itemRepo  repository.ItemRepository
	unitRepo  repository.UnitRepository
	batchRepo repository.BatchRepository
	txRepo    repository.TransactionRepository
	cfg       Config
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	itemRepo repository.ItemRepository,
	unitRepo repository.UnitRepository,
	batchRepo repository.BatchRepository,
	txRepo repository.TransactionRepository,
	cfg Config,
) *QueryUseCase {
	return &QueryUseCase{
		itemRepo:  itemRepo,
		unitRepo:  unitRepo,
		batchRepo: batchRepo,
		txRepo:    txRepo,
		cfg:       cfg,
	}
}

// Availability devuelve el desglose de disponibilidad de un insumo (total, no
// vencido, vencido) derivado de sus lotes. Lectura pura, sin mutación.
func (uc *QueryUseCase) Availability(_ context.Context, itemID string) (*dto.AvailabilityResponse, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	batches, err := uc.batchRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	a := domstock.CalculateAvailability(batches, truncateToDay(time.Now()))
	return &dto.AvailabilityResponse{
		ItemID:     itemID,
		Total:      a.Total,
		NonExpired: a.NonExpired,
		Expired:    a.Expired,
	}, nil
}

// GetTransaction devuelve la cabecera con sus renglones.
func (uc *QueryUseCase) GetTransaction(_ context.Context, id string) (*dto.TransactionResponse, error) {
	header, err := uc.txRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, domain.ErrTransactionNotFound
	}

	resp := &dto.TransactionResponse{
		ID:         header.ID,
		Code:       header.Code,
		Type:       header.Type,
		ExportType: header.ExportType,
		Date:       header.Date,
		Status:     header.Status,
		TotalValue: header.TotalValue,
	}
	// Las advertencias no se persisten: se reconstruyen desde el vencimiento del
	// lote y la fecha de la transacción, que sí son estables.
	asOf := truncateToDay(header.Date)
	for _, line := range header.Lines {
		d := dto.TransactionLineDTO{
			ItemID:          line.ItemID,
			BatchID:         line.BatchID,
			QuantityChange:  line.QuantityChange,
			UnitID:          line.UnitID,
			UnitPrice:       line.UnitPrice,
			LineValue:       line.LineValue,
			PriceIsFallback: line.PriceIsFallback,
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			d.ItemCode = item.Code
			d.ItemName = item.Name
		}
		unit, err := uc.unitRepo.GetByID(line.UnitID)
		if err != nil {
			return nil, err
		}
		if unit != nil {
			d.UnitName = unit.Name
		}
		batch, err := uc.batchRepo.GetByID(line.BatchID)
		if err != nil {
			return nil, err
		}
		if batch != nil {
			d.LotNumber = batch.LotNumber
			d.ExpiryDate = batch.ExpiryDate
		}
		if line.ParentBatchID != nil {
			d.Unpacking = &dto.UnpackingDTO{
				ParentBatchID:  *line.ParentBatchID,
				ParentUnitName: line.ParentUnitName,
			}
			if batch != nil {
				d.Unpacking.RemainingInChild = batch.QuantityOnHand
			}
		}
		if header.Type == entity.TransactionTypeExport && batch != nil {
			rec := &domstock.AllocationRecord{Batch: batch, Quantity: -line.QuantityChange}
			for _, w := range domstock.EvaluateWarnings(rec, header.ExportType, uc.cfg.NearExpiryDays, asOf) {
				resp.Warnings = append(resp.Warnings, dto.WarningDTO{
					Code:            w.Code,
					BatchID:         w.BatchID,
					LotNumber:       w.LotNumber,
					ExpiryDate:      w.ExpiryDate,
					DaysUntilExpiry: w.DaysUntilExpiry,
					Message:         w.Message,
				})
			}
		}
		resp.Lines = append(resp.Lines, d)
	}
	return resp, nil
}

// NearExpiryReport devuelve los lotes con stock que vencen dentro de la ventana
// configurada (o la indicada si days > 0), ordenados por vencimiento.
func (uc *QueryUseCase) NearExpiryReport(_ context.Context, days int) ([]dto.NearExpiryBatchDTO, error) {
	if days <= 0 {
		days = uc.cfg.NearExpiryDays
	}
	today := truncateToDay(time.Now())
	until := today.AddDate(0, 0, days)

	batches, err := uc.batchRepo.ListNearExpiry(until)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NearExpiryBatchDTO, 0, len(batches))
	for _, b := range batches {
		d := dto.NearExpiryBatchDTO{
			BatchID:        b.ID,
			ItemID:         b.ItemID,
			LotNumber:      b.LotNumber,
			ExpiryDate:     b.ExpiryDate,
			QuantityOnHand: b.QuantityOnHand,
			BinLocation:    b.BinLocation,
		}
		if daysLeft, ok := b.DaysUntilExpiry(today); ok {
			d.DaysUntilExpiry = daysLeft
		}
		item, err := uc.itemRepo.GetByID(b.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			d.ItemCode = item.Code
			d.ItemName = item.Name
		}
		out = append(out, d)
	}
	return out, nil
}
