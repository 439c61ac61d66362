package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de transacciones. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// CreateHeader persiste la cabecera de una transacción de stock.
// El índice único (supplier_id, invoice_number) respalda el chequeo de factura
// duplicada contra inserciones concurrentes.
func (r *TransactionRepo) CreateHeader(header *entity.TransactionHeader) error {
	query := `
		INSERT INTO stock_transactions (id, code, type, export_type, date, status, approval_status, employee_id, supplier_id, invoice_number, notes, total_value, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		header.ID, header.Code, header.Type, nullIfEmpty(header.ExportType), header.Date,
		header.Status, header.ApprovalStatus, nullIfEmpty(header.EmployeeID),
		nullIfEmpty(header.SupplierID), nullIfEmpty(header.InvoiceNumber), header.Notes,
		header.TotalValue, nullIfEmpty(header.CreatedBy), header.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoice
		}
		return fmt.Errorf("insert transaction header: %w", err)
	}
	return nil
}

// CreateLine persiste un renglón de transacción.
func (r *TransactionRepo) CreateLine(line *entity.TransactionLine) error {
	query := `
		INSERT INTO stock_transaction_lines (id, transaction_id, item_id, batch_id, unit_id, quantity_change, unit_price, line_value, price_is_fallback, parent_batch_id, parent_unit_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.TransactionID, line.ItemID, line.BatchID, line.UnitID,
		line.QuantityChange, line.UnitPrice, line.LineValue, line.PriceIsFallback,
		line.ParentBatchID, nullIfEmpty(line.ParentUnitName), line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera con sus renglones. nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.TransactionHeader, error) {
	query := `
		SELECT id, code, type, export_type, date, status, approval_status, employee_id, supplier_id, invoice_number, notes, total_value, created_by, created_at
		FROM stock_transactions WHERE id = $1`
	var h entity.TransactionHeader
	var exportType, employeeID, supplierID, invoiceNumber, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&h.ID, &h.Code, &h.Type, &exportType, &h.Date, &h.Status, &h.ApprovalStatus,
		&employeeID, &supplierID, &invoiceNumber, &h.Notes, &h.TotalValue, &createdBy, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	h.ExportType = deref(exportType)
	h.EmployeeID = deref(employeeID)
	h.SupplierID = deref(supplierID)
	h.InvoiceNumber = deref(invoiceNumber)
	h.CreatedBy = deref(createdBy)

	lines, err := r.listLines(id)
	if err != nil {
		return nil, err
	}
	h.Lines = lines
	return &h, nil
}

// NextCode genera el siguiente código secuencial del día: PREFIX-YYYYMMDD-NNN.
// Toma un advisory lock transaccional por (prefijo, día) antes de contar, de modo
// que dos escritores del mismo día no lean el mismo conteo; el lock se libera al
// confirmar. Debe llamarse dentro de la misma transacción de BD que inserta la
// cabecera. El índice único sobre code respalda el secuencial ante cualquier otro
// camino de escritura.
func (r *TransactionRepo) NextCode(prefix string, date time.Time) (string, error) {
	day := date.Format("20060102")
	ctx := context.Background()

	if _, err := r.q.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		fmt.Sprintf("%s-%s", prefix, day),
	); err != nil {
		return "", fmt.Errorf("next code: advisory lock: %w", err)
	}

	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_transactions WHERE code LIKE $1`,
		fmt.Sprintf("%s-%s-%%", prefix, day),
	).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("next code: %w", err)
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, day, count+1), nil
}

// LastImportPrice devuelve el precio unitario del renglón de entrada más reciente
// que referencie exactamente este lote. found=false si el lote nunca entró con precio.
func (r *TransactionRepo) LastImportPrice(batchID string) (decimal.Decimal, bool, error) {
	var price decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT unit_price
		FROM stock_transaction_lines
		WHERE batch_id = $1 AND quantity_change > 0 AND unit_price > 0
		ORDER BY created_at DESC
		LIMIT 1`,
		batchID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("last import price: %w", err)
	}
	return price, true, nil
}

// InvoiceExists indica si ya se registró esa factura para el proveedor.
func (r *TransactionRepo) InvoiceExists(supplierID, invoiceNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM stock_transactions WHERE supplier_id = $1 AND invoice_number = $2)`,
		supplierID, invoiceNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("invoice exists: %w", err)
	}
	return exists, nil
}

func (r *TransactionRepo) listLines(transactionID string) ([]*entity.TransactionLine, error) {
	query := `
		SELECT id, transaction_id, item_id, batch_id, unit_id, quantity_change, unit_price, line_value, price_is_fallback, parent_batch_id, parent_unit_name, created_at
		FROM stock_transaction_lines
		WHERE transaction_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransactionLine
	for rows.Next() {
		var l entity.TransactionLine
		var parentUnitName *string
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ItemID, &l.BatchID, &l.UnitID,
			&l.QuantityChange, &l.UnitPrice, &l.LineValue, &l.PriceIsFallback,
			&l.ParentBatchID, &parentUnitName, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction line: %w", err)
		}
		l.ParentUnitName = deref(parentUnitName)
		list = append(list, &l)
	}
	return list, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
