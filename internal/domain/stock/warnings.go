package stock

import (
	"fmt"
	"time"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

// Códigos de advertencia sobre lotes asignados. Informativas: el control de
// vencidos ya ocurrió en el chequeo de disponibilidad vía allowExpired.
const (
	WarningNearExpiry  = "NEAR_EXPIRY"
	WarningExpiredUsed = "EXPIRED_USED"
)

// Warning es una advertencia asociada a una toma de stock.
type Warning struct {
	Code            string
	BatchID         string
	LotNumber       string
	ExpiryDate      *time.Time
	DaysUntilExpiry int
	Message         string
}

// EvaluateWarnings inspecciona un registro de asignación y genera las advertencias
// que apliquen. Ambas pueden dispararse para el mismo lote en escenarios de baja.
//   - NEAR_EXPIRY: 0 < días al vencimiento < nearExpiryDays.
//   - EXPIRED_USED: lote vencido consumido en una salida de tipo DISPOSAL.
func EvaluateWarnings(rec *AllocationRecord, exportType string, nearExpiryDays int, today time.Time) []Warning {
	b := rec.Batch
	days, ok := b.DaysUntilExpiry(today)
	if !ok {
		return nil
	}
	var out []Warning
	if days > 0 && days < nearExpiryDays {
		out = append(out, Warning{
			Code:            WarningNearExpiry,
			BatchID:         b.ID,
			LotNumber:       b.LotNumber,
			ExpiryDate:      b.ExpiryDate,
			DaysUntilExpiry: days,
			Message:         fmt.Sprintf("el lote %s vence en %d días", b.LotNumber, days),
		})
	}
	if b.IsExpired(today) && exportType == entity.ExportTypeDisposal {
		out = append(out, Warning{
			Code:            WarningExpiredUsed,
			BatchID:         b.ID,
			LotNumber:       b.LotNumber,
			ExpiryDate:      b.ExpiryDate,
			DaysUntilExpiry: days,
			Message:         fmt.Sprintf("el lote %s se consumió vencido (baja por descarte)", b.LotNumber),
		})
	}
	return out
}
