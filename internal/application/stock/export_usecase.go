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

// ExportUseCase registra salidas de stock: valida la solicitud, corre el chequeo de
// disponibilidad por insumo, asigna lotes FEFO (con desempaque si hace falta),
// valora y advierte, todo dentro de una transacción de BD con las filas de lotes
// bloqueadas (SELECT FOR UPDATE). Cualquier error en un renglón aborta la
// transacción completa.
type ExportUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	unitRepo     repository.UnitRepository
	employeeRepo repository.EmployeeRepository
	cfg          Config
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	unitRepo repository.UnitRepository,
	employeeRepo repository.EmployeeRepository,
	cfg Config,
) *ExportUseCase {
	return &ExportUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		unitRepo:     unitRepo,
		employeeRepo: employeeRepo,
		cfg:          cfg,
	}
}

// lineContext entidades resueltas para un renglón antes de abrir la transacción.
type lineContext struct {
	req   dto.ExportLineRequest
	item  *entity.Item
	units []*entity.Unit
	unit  *entity.Unit
}

// RegisterExport ejecuta la salida completa y devuelve el detalle por renglón con
// advertencias y totales.
func (uc *ExportUseCase) RegisterExport(ctx context.Context, in dto.ExportRequest, createdBy string) (*dto.TransactionResponse, error) {
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
	if in.ExportType != entity.ExportTypeUsage && in.ExportType != entity.ExportTypeDisposal {
		return nil, domain.ErrInvalidInput
	}
	// Una baja por descarte siempre puede consumir stock vencido.
	allowExpired := in.AllowExpired
	if in.ExportType == entity.ExportTypeDisposal {
		allowExpired = true
	}

	employee, err := uc.employeeRepo.GetByID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	if !employee.IsActive {
		return nil, domain.ErrEmployeeInactive
	}

	lines, err := uc.resolveLines(in.Lines)
	if err != nil {
		return nil, err
	}

	header := &entity.TransactionHeader{
		ID:             uuid.New().String(),
		Type:           entity.TransactionTypeExport,
		ExportType:     in.ExportType,
		Date:           in.Date,
		Status:         entity.TransactionStatusCompleted,
		ApprovalStatus: entity.ApprovalStatusApproved,
		EmployeeID:     in.EmployeeID,
		Notes:          in.Notes,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}

	resp := &dto.TransactionResponse{
		ID:         header.ID,
		Type:       header.Type,
		ExportType: header.ExportType,
		Date:       header.Date,
		Status:     header.Status,
	}

	err = uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, txRepo repository.TransactionRepository) error {
		code, err := txRepo.NextCode(uc.cfg.ExportCodePrefix, in.Date)
		if err != nil {
			return err
		}
		header.Code = code

		var lineValues []decimal.Decimal
		for _, lc := range lines {
			batches, err := batchRepo.ListForUpdateByItem(lc.item.ID)
			if err != nil {
				return err
			}

			requestedBase := lc.req.Quantity * lc.unit.ConversionRateToBase
			avail := domstock.CalculateAvailability(batches, today)
			if err := avail.Check(lc.item.ID, requestedBase, allowExpired); err != nil {
				return err
			}

			res, err := domstock.Allocate(domstock.AllocationInput{
				Item:          lc.item,
				Units:         lc.units,
				RequestedUnit: lc.unit,
				RequestedQty:  lc.req.Quantity,
				Batches:       batches,
				AllowExpired:  allowExpired,
				Today:         today,
				Now:           now,
				TransactionID: header.ID,
			})
			if err != nil {
				return err
			}

			// Persistir primero los hijos nuevos para que tengan ID antes de los renglones.
			for _, b := range res.Created {
				if err := batchRepo.Create(b); err != nil {
					return err
				}
			}
			for _, b := range res.Updated {
				if err := batchRepo.Update(b); err != nil {
					return err
				}
			}

			for _, rec := range res.Records {
				val, err := uc.resolvePrice(txRepo, rec.Batch)
				if err != nil {
					return err
				}
				line := &entity.TransactionLine{
					ID:              uuid.New().String(),
					TransactionID:   header.ID,
					ItemID:          lc.item.ID,
					BatchID:         rec.Batch.ID,
					UnitID:          lc.unit.ID,
					QuantityChange:  -rec.Quantity,
					UnitPrice:       val.UnitPrice,
					LineValue:       domstock.LineValue(val.UnitPrice, -rec.Quantity),
					PriceIsFallback: val.IsFallback,
					CreatedAt:       now,
				}
				var unpacking *dto.UnpackingDTO
				if rec.Unpacked {
					parentID := rec.ParentBatchID
					line.ParentBatchID = &parentID
					line.ParentUnitName = rec.ParentUnitName
					unpacking = &dto.UnpackingDTO{
						ParentBatchID:    rec.ParentBatchID,
						ParentUnitName:   rec.ParentUnitName,
						RemainingInChild: rec.RemainingInChild,
					}
				}
				header.Lines = append(header.Lines, line)
				lineValues = append(lineValues, line.LineValue)

				resp.Lines = append(resp.Lines, dto.TransactionLineDTO{
					ItemID:          lc.item.ID,
					ItemCode:        lc.item.Code,
					ItemName:        lc.item.Name,
					BatchID:         rec.Batch.ID,
					LotNumber:       rec.Batch.LotNumber,
					ExpiryDate:      rec.Batch.ExpiryDate,
					QuantityChange:  line.QuantityChange,
					UnitID:          lc.unit.ID,
					UnitName:        lc.unit.Name,
					UnitPrice:       line.UnitPrice,
					LineValue:       line.LineValue,
					PriceIsFallback: line.PriceIsFallback,
					Unpacking:       unpacking,
				})
				for _, w := range domstock.EvaluateWarnings(rec, in.ExportType, uc.cfg.NearExpiryDays, today) {
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

// resolveLines valida y resuelve insumo + unidades de cada renglón (lecturas puras,
// antes de abrir la transacción).
func (uc *ExportUseCase) resolveLines(reqs []dto.ExportLineRequest) ([]lineContext, error) {
	out := make([]lineContext, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
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
		out = append(out, lineContext{req: req, item: item, units: units, unit: unit})
	}
	return out, nil
}

// resolvePrice busca el costo unitario del lote: primero el precio de compra más
// reciente del lote exacto; para hijos de desempaque (que nunca aparecen en
// renglones de entrada), el del lote padre; si no hay ninguno, el costo por defecto
// configurado, marcado como fallback.
func (uc *ExportUseCase) resolvePrice(txRepo repository.TransactionRepository, batch *entity.Batch) (domstock.Valuation, error) {
	price, found, err := txRepo.LastImportPrice(batch.ID)
	if err != nil {
		return domstock.Valuation{}, err
	}
	if !found && batch.ParentBatchID != nil {
		price, found, err = txRepo.LastImportPrice(*batch.ParentBatchID)
		if err != nil {
			return domstock.Valuation{}, err
		}
	}
	if !found {
		return domstock.Valuation{UnitPrice: uc.cfg.DefaultUnitCost, IsFallback: true}, nil
	}
	return domstock.Valuation{UnitPrice: price}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
