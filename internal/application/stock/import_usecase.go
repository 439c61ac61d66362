package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
	domstock "github.com/jhoicas/clinica-stock/internal/domain/stock"
)

// ImportUseCase registra entradas de mercancía: valida proveedor y factura,
// encuentra o crea el lote por (insumo, número de lote) con la fila bloqueada y
// suma la cantidad en unidades base. Mismo libro que las salidas, dirección
// opuesta; todo o nada por transacción.
type ImportUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	unitRepo     repository.UnitRepository
	supplierRepo repository.SupplierRepository
	cfg          Config
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	unitRepo repository.UnitRepository,
	supplierRepo repository.SupplierRepository,
	cfg Config,
) *ImportUseCase {
	return &ImportUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		unitRepo:     unitRepo,
		supplierRepo: supplierRepo,
		cfg:          cfg,
	}
}

type importLineContext struct {
	req  dto.ImportLineRequest
	item *entity.Item
	unit *entity.Unit
}

// RegisterImport ejecuta la entrada completa y devuelve el detalle por renglón.
func (uc *ImportUseCase) RegisterImport(ctx context.Context, in dto.ImportRequest, createdBy string) (*dto.TransactionResponse, error) {
	now := time.Now()
	today := truncateToDay(now)

	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyItems
	}
	if in.Date.IsZero() {
		in.Date = now
	}
	if truncateToDay(in.Date).After(today) {
		return nil, domain.ErrInvalidDate
	}

	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrSupplierNotFound
	}
	if !supplier.IsActive {
		return nil, domain.ErrSupplierInactive
	}

	lines, err := uc.resolveLines(in.Lines, today)
	if err != nil {
		return nil, err
	}

	header := &entity.TransactionHeader{
		ID:             uuid.New().String(),
		Type:           entity.TransactionTypeImport,
		Date:           in.Date,
		Status:         entity.TransactionStatusCompleted,
		ApprovalStatus: entity.ApprovalStatusApproved,
		SupplierID:     in.SupplierID,
		InvoiceNumber:  in.InvoiceNumber,
		Notes:          in.Notes,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}

	resp := &dto.TransactionResponse{
		ID:     header.ID,
		Type:   header.Type,
		Date:   header.Date,
		Status: header.Status,
	}

	err = uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, txRepo repository.TransactionRepository) error {
		if in.InvoiceNumber != "" {
			exists, err := txRepo.InvoiceExists(in.SupplierID, in.InvoiceNumber)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateInvoice
			}
		}

		code, err := txRepo.NextCode(uc.cfg.ImportCodePrefix, in.Date)
		if err != nil {
			return err
		}
		header.Code = code

		var lineValues []decimal.Decimal
		for _, lc := range lines {
			quantityBase := lc.req.Quantity * lc.unit.ConversionRateToBase

			batch, err := batchRepo.GetByItemAndLotForUpdate(lc.item.ID, lc.req.LotNumber)
			if err != nil {
				return err
			}
			if batch != nil {
				// El lote ya existe: el vencimiento solicitado debe coincidir (mismo día).
				if !expiryEqual(batch.ExpiryDate, lc.req.ExpiryDate) {
					return &domain.BatchExpiryConflictError{
						ItemID:    lc.item.ID,
						LotNumber: lc.req.LotNumber,
						Existing:  batch.ExpiryDate,
						Requested: lc.req.ExpiryDate,
					}
				}
				// Y en la misma presentación: mezclar unidades en un lote dejaría
				// cantidades que no son múltiplo de la tasa de empaque, invisibles
				// para la fase suelta y para la cascada de desempaque.
				if batch.ReceivedUnitID != lc.unit.ID {
					return &domain.BatchUnitConflictError{
						ItemID:        lc.item.ID,
						LotNumber:     lc.req.LotNumber,
						ReceivedUnit:  batch.ReceivedUnitID,
						RequestedUnit: lc.unit.ID,
					}
				}
				batch.QuantityOnHand += quantityBase
				batch.InitialQuantity += quantityBase
				if lc.req.BinLocation != "" {
					batch.BinLocation = lc.req.BinLocation
				}
				if err := batchRepo.Update(batch); err != nil {
					return err
				}
			} else {
				batch = &entity.Batch{
					ItemID:          lc.item.ID,
					LotNumber:       lc.req.LotNumber,
					ReceivedUnitID:  lc.unit.ID,
					ExpiryDate:      lc.req.ExpiryDate,
					QuantityOnHand:  quantityBase,
					InitialQuantity: quantityBase,
					BinLocation:     lc.req.BinLocation,
					SupplierID:      in.SupplierID,
					ImportedAt:      now,
					CreatedAt:       now,
				}
				if err := batchRepo.Create(batch); err != nil {
					return err
				}
			}

			line := &entity.TransactionLine{
				ID:             uuid.New().String(),
				TransactionID:  header.ID,
				ItemID:         lc.item.ID,
				BatchID:        batch.ID,
				UnitID:         lc.unit.ID,
				QuantityChange: quantityBase,
				UnitPrice:      lc.req.UnitPrice,
				LineValue:      domstock.LineValue(lc.req.UnitPrice, quantityBase),
				CreatedAt:      now,
			}
			header.Lines = append(header.Lines, line)
			lineValues = append(lineValues, line.LineValue)

			resp.Lines = append(resp.Lines, dto.TransactionLineDTO{
				ItemID:         lc.item.ID,
				ItemCode:       lc.item.Code,
				ItemName:       lc.item.Name,
				BatchID:        batch.ID,
				LotNumber:      batch.LotNumber,
				ExpiryDate:     batch.ExpiryDate,
				QuantityChange: line.QuantityChange,
				UnitID:         lc.unit.ID,
				UnitName:       lc.unit.Name,
				UnitPrice:      line.UnitPrice,
				LineValue:      line.LineValue,
			})
		}

		header.TotalValue = domstock.TotalValue(lineValues)
		if err := txRepo.CreateHeader(header); err != nil {
			return err
		}
		for _, line := range header.Lines {
			if err := txRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Code = header.Code
	resp.TotalValue = header.TotalValue
	return resp, nil
}

func (uc *ImportUseCase) resolveLines(reqs []dto.ImportLineRequest, today time.Time) ([]importLineContext, error) {
	out := make([]importLineContext, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity <= 0 || req.LotNumber == "" || req.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		// No se recibe mercancía ya vencida.
		if req.ExpiryDate != nil && req.ExpiryDate.Before(today) {
			return nil, domain.ErrExpiredItem
		}
		item, err := uc.itemRepo.GetByID(req.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}
		if !item.IsActive {
			return nil, domain.ErrItemInactive
		}
		units, err := uc.unitRepo.ListByItem(item.ID)
		if err != nil {
			return nil, err
		}
		var unit *entity.Unit
		for _, u := range units {
			if u.ID == req.UnitID {
				unit = u
				break
			}
		}
		if unit == nil {
			return nil, domain.ErrUnitNotFound
		}
		out = append(out, importLineContext{req: req, item: item, unit: unit})
	}
	return out, nil
}

// expiryEqual compara vencimientos al día, igual que el resto de los chequeos de
// vencimiento; la hora del timestamp no distingue lotes.
func expiryEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return truncateToDay(*a).Equal(truncateToDay(*b))
}
