package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, item_id, lot_number, received_unit_id, expiry_date, quantity_on_hand, initial_quantity, bin_location, supplier_id, parent_batch_id, is_unpacked, unpacked_at, unpacked_by_tx_id, imported_at, created_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo. Asigna ID si viene vacío (hijos de desempaque).
func (r *BatchRepo) Create(batch *entity.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ItemID, batch.LotNumber, batch.ReceivedUnitID, batch.ExpiryDate,
		batch.QuantityOnHand, batch.InitialQuantity, batch.BinLocation, nullIfEmpty(batch.SupplierID),
		batch.ParentBatchID, batch.IsUnpacked, batch.UnpackedAt, nullIfEmpty(batch.UnpackedByTxID),
		batch.ImportedAt, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Update actualiza los campos mutables de un lote. Identidad (insumo, lote,
// vencimiento, presentación de recepción) es inmutable.
func (r *BatchRepo) Update(batch *entity.Batch) error {
	query := `
		UPDATE batches
		SET quantity_on_hand = $2, initial_quantity = $3, bin_location = $4,
		    is_unpacked = $5, unpacked_at = $6, unpacked_by_tx_id = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.QuantityOnHand, batch.InitialQuantity, batch.BinLocation,
		batch.IsUnpacked, batch.UnpackedAt, nullIfEmpty(batch.UnpackedByTxID),
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByItem lista los lotes con stock del insumo en orden FEFO (vencimiento
// ascendente, nulls al final, desempates por creación e id). Lectura pura.
func (r *BatchRepo) ListByItem(itemID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE item_id = $1 AND quantity_on_hand > 0
		ORDER BY expiry_date ASC NULLS LAST, created_at ASC, id ASC`
	return r.list(query, itemID)
}

// ListForUpdateByItem igual que ListByItem pero bloquea las filas (SELECT FOR UPDATE)
// para serializar movimientos concurrentes del mismo insumo.
func (r *BatchRepo) ListForUpdateByItem(itemID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE item_id = $1 AND quantity_on_hand > 0
		ORDER BY expiry_date ASC NULLS LAST, created_at ASC, id ASC
		FOR UPDATE`
	return r.list(query, itemID)
}

// GetByItemAndLotForUpdate obtiene un lote por (insumo, número de lote) bloqueando
// la fila. nil si no existe.
func (r *BatchRepo) GetByItemAndLotForUpdate(itemID, lotNumber string) (*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE item_id = $1 AND lot_number = $2
		FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, itemID, lotNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch by lot: %w", err)
	}
	return b, nil
}

// TotalOnHandByItem deriva el stock total del insumo sumando sus lotes.
func (r *BatchRepo) TotalOnHandByItem(itemID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity_on_hand), 0) FROM batches WHERE item_id = $1`,
		itemID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total on hand: %w", err)
	}
	return total, nil
}

// ListNearExpiry lista lotes con stock que vencen antes de la fecha dada.
func (r *BatchRepo) ListNearExpiry(until time.Time) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE quantity_on_hand > 0 AND expiry_date IS NOT NULL AND expiry_date < $1
		ORDER BY expiry_date ASC, item_id ASC`
	return r.list(query, until)
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var supplierID, unpackedByTxID *string
	err := row.Scan(
		&b.ID, &b.ItemID, &b.LotNumber, &b.ReceivedUnitID, &b.ExpiryDate,
		&b.QuantityOnHand, &b.InitialQuantity, &b.BinLocation, &supplierID,
		&b.ParentBatchID, &b.IsUnpacked, &b.UnpackedAt, &unpackedByTxID,
		&b.ImportedAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if supplierID != nil {
		b.SupplierID = *supplierID
	}
	if unpackedByTxID != nil {
		b.UnpackedByTxID = *unpackedByTxID
	}
	return &b, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
