package stock_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	appstock "github.com/jhoicas/clinica-stock/internal/application/stock"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia, para probar los orquestadores
// sin base de datos. El TxRunner fake no simula rollback: los tests de atomicidad
// ante fallos pertenecen a la capa postgres.

type fakeItemRepo struct{ items map[string]*entity.Item }

func (r *fakeItemRepo) Create(item *entity.Item) error { r.items[item.ID] = item; return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.items[id], nil
}
func (r *fakeItemRepo) GetByCode(code string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, nil
}
func (r *fakeItemRepo) List(_ string, _, _ int) ([]*entity.Item, error) {
	out := make([]*entity.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type fakeUnitRepo struct{ units []*entity.Unit }

func (r *fakeUnitRepo) Create(unit *entity.Unit) error { r.units = append(r.units, unit); return nil }
func (r *fakeUnitRepo) GetByID(id string) (*entity.Unit, error) {
	for _, u := range r.units {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUnitRepo) ListByItem(itemID string) ([]*entity.Unit, error) {
	var out []*entity.Unit
	for _, u := range r.units {
		if u.ItemID == itemID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeBatchRepo struct {
	batches []*entity.Batch
	seq     int
}

func (r *fakeBatchRepo) Create(batch *entity.Batch) error {
	if batch.ID == "" {
		r.seq++
		batch.ID = fmt.Sprintf("batch-%d", r.seq)
	}
	r.batches = append(r.batches, batch)
	return nil
}
func (r *fakeBatchRepo) Update(_ *entity.Batch) error { return nil } // punteros compartidos
func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	for _, b := range r.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}
func (r *fakeBatchRepo) ListByItem(itemID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.ItemID == itemID && b.QuantityOnHand > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}
func (r *fakeBatchRepo) ListForUpdateByItem(itemID string) ([]*entity.Batch, error) {
	return r.ListByItem(itemID)
}
func (r *fakeBatchRepo) GetByItemAndLotForUpdate(itemID, lotNumber string) (*entity.Batch, error) {
	for _, b := range r.batches {
		if b.ItemID == itemID && b.LotNumber == lotNumber {
			return b, nil
		}
	}
	return nil, nil
}
func (r *fakeBatchRepo) TotalOnHandByItem(itemID string) (int64, error) {
	var sum int64
	for _, b := range r.batches {
		if b.ItemID == itemID {
			sum += b.QuantityOnHand
		}
	}
	return sum, nil
}
func (r *fakeBatchRepo) ListNearExpiry(until time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.QuantityOnHand > 0 && b.ExpiryDate != nil && b.ExpiryDate.Before(until) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeTxRepo struct {
	headers map[string]*entity.TransactionHeader
	lines   []*entity.TransactionLine
	codeSeq map[string]int
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{
		headers: map[string]*entity.TransactionHeader{},
		codeSeq: map[string]int{},
	}
}

func (r *fakeTxRepo) CreateHeader(header *entity.TransactionHeader) error {
	r.headers[header.ID] = header
	return nil
}
func (r *fakeTxRepo) CreateLine(line *entity.TransactionLine) error {
	r.lines = append(r.lines, line)
	return nil
}
func (r *fakeTxRepo) GetByID(id string) (*entity.TransactionHeader, error) {
	return r.headers[id], nil
}
func (r *fakeTxRepo) NextCode(prefix string, date time.Time) (string, error) {
	key := prefix + date.Format("20060102")
	r.codeSeq[key]++
	return fmt.Sprintf("%s-%s-%03d", prefix, date.Format("20060102"), r.codeSeq[key]), nil
}
func (r *fakeTxRepo) LastImportPrice(batchID string) (decimal.Decimal, bool, error) {
	for i := len(r.lines) - 1; i >= 0; i-- {
		l := r.lines[i]
		if l.BatchID == batchID && l.QuantityChange > 0 && l.UnitPrice.IsPositive() {
			return l.UnitPrice, true, nil
		}
	}
	return decimal.Zero, false, nil
}
func (r *fakeTxRepo) InvoiceExists(supplierID, invoiceNumber string) (bool, error) {
	for _, h := range r.headers {
		if h.SupplierID == supplierID && h.InvoiceNumber == invoiceNumber {
			return true, nil
		}
	}
	return false, nil
}

type fakeEmployeeRepo struct{ employees map[string]*entity.Employee }

func (r *fakeEmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	return r.employees[id], nil
}
func (r *fakeEmployeeRepo) GetByUsername(username string) (*entity.Employee, error) {
	for _, e := range r.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return nil, nil
}

type fakeSupplierRepo struct{ suppliers map[string]*entity.Supplier }

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.suppliers[id], nil
}

type fakeTxRunner struct {
	batchRepo repository.BatchRepository
	txRepo    repository.TransactionRepository
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	batchRepo repository.BatchRepository,
	txRepo repository.TransactionRepository,
) error) error {
	return fn(r.batchRepo, r.txRepo)
}

// fixture arma un entorno completo: insumo activo con tableta (base) y caja (x10),
// empleado y proveedor activos.
type fixture struct {
	itemRepo     *fakeItemRepo
	unitRepo     *fakeUnitRepo
	batchRepo    *fakeBatchRepo
	txRepo       *fakeTxRepo
	employeeRepo *fakeEmployeeRepo
	supplierRepo *fakeSupplierRepo
	runner       *fakeTxRunner
	cfg          appstock.Config
}

func newFixture() *fixture {
	f := &fixture{
		itemRepo: &fakeItemRepo{items: map[string]*entity.Item{
			"item-1":   {ID: "item-1", Code: "AMOX500", Name: "Amoxicilina 500mg", IsActive: true},
			"item-off": {ID: "item-off", Code: "OFF", Name: "Descontinuado", IsActive: false},
		}},
		unitRepo: &fakeUnitRepo{units: []*entity.Unit{
			{ID: "u-base", ItemID: "item-1", Name: "tableta", ConversionRateToBase: 1, IsBaseUnit: true, DisplayOrder: 1},
			{ID: "u-caja", ItemID: "item-1", Name: "caja", ConversionRateToBase: 10, DisplayOrder: 2},
		}},
		batchRepo: &fakeBatchRepo{},
		txRepo:    newFakeTxRepo(),
		employeeRepo: &fakeEmployeeRepo{employees: map[string]*entity.Employee{
			"emp-1":   {ID: "emp-1", Username: "mgomez", Name: "María Gómez", Role: entity.RoleFarmaceuta, IsActive: true},
			"emp-off": {ID: "emp-off", Username: "expleado", Name: "Ex Empleado", IsActive: false},
		}},
		supplierRepo: &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
			"sup-1":   {ID: "sup-1", Name: "Distribuidora Médica", IsActive: true},
			"sup-off": {ID: "sup-off", Name: "Proveedor Cerrado", IsActive: false},
		}},
		cfg: appstock.Config{
			DefaultUnitCost:  decimal.NewFromInt(100),
			NearExpiryDays:   30,
			ExportCodePrefix: "EXP",
			ImportCodePrefix: "IMP",
		},
	}
	f.runner = &fakeTxRunner{batchRepo: f.batchRepo, txRepo: f.txRepo}
	return f
}

func (f *fixture) exportUC() *appstock.ExportUseCase {
	return appstock.NewExportUseCase(f.runner, f.itemRepo, f.unitRepo, f.employeeRepo, f.cfg)
}

func (f *fixture) importUC() *appstock.ImportUseCase {
	return appstock.NewImportUseCase(f.runner, f.itemRepo, f.unitRepo, f.supplierRepo, f.cfg)
}

func (f *fixture) queryUC() *appstock.QueryUseCase {
	return appstock.NewQueryUseCase(f.itemRepo, f.unitRepo, f.batchRepo, f.txRepo, f.cfg)
}

func (f *fixture) addBatch(b *entity.Batch) *entity.Batch {
	_ = f.batchRepo.Create(b)
	return b
}

func expiryIn(days int) *time.Time {
	t := time.Now().AddDate(0, 0, days)
	return &t
}
