package stock

import (
	"context"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	"github.com/jhoicas/clinica-stock/internal/domain"
)

// VoucherPDFGenerator genera el comprobante PDF de una transacción de stock.
// Implementado en infrastructure/pdf con Maroto.
type VoucherPDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, tx *dto.TransactionResponse) ([]byte, error)
}

// VoucherUseCase produce el comprobante imprimible de una transacción (entrada o
// salida) para archivo físico de la clínica.
type VoucherUseCase struct {
	query     *QueryUseCase
	generator VoucherPDFGenerator
}

// NewVoucherUseCase construye el caso de uso.
func NewVoucherUseCase(query *QueryUseCase, generator VoucherPDFGenerator) *VoucherUseCase {
	return &VoucherUseCase{query: query, generator: generator}
}

// GenerateVoucher devuelve los bytes del PDF del comprobante.
func (uc *VoucherUseCase) GenerateVoucher(ctx context.Context, transactionID string) ([]byte, error) {
	tx, err := uc.query.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return uc.generator.GenerateVoucherPDF(ctx, tx)
}
