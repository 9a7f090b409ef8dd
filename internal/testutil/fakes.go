// Package testutil provides in-memory fakes of the repository ports for
// use-case tests. A single Store backs all fakes; TxRunner serializes
// transactional sections with a mutex, standing in for row locks.
//
// The fakes return copies of stored entities, so state only changes
// through Update/Create calls, like the real repositories.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// Store is the shared in-memory state behind all fakes.
type Store struct {
	mu sync.Mutex

	Users        map[string]*entity.User
	Products     map[string]*entity.Product
	PriceHistory []*entity.PriceHistory
	Warehouses   map[string]*entity.Warehouse
	Locations    map[string]*entity.Location
	Lots         map[string]*entity.Lot
	Movements    []*entity.StockMovement
	Deliveries   map[string]*entity.Delivery
	Lines        map[string]*entity.DeliveryLine
	Forecasts    map[string]*entity.DemandForecast // keyed product|period

	txMu sync.Mutex
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		Users:      make(map[string]*entity.User),
		Products:   make(map[string]*entity.Product),
		Warehouses: make(map[string]*entity.Warehouse),
		Locations:  make(map[string]*entity.Location),
		Lots:       make(map[string]*entity.Lot),
		Deliveries: make(map[string]*entity.Delivery),
		Lines:      make(map[string]*entity.DeliveryLine),
		Forecasts:  make(map[string]*entity.DemandForecast),
	}
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func copyLot(l *entity.Lot) *entity.Lot {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func copyDelivery(d *entity.Delivery) *entity.Delivery {
	if d == nil {
		return nil
	}
	c := *d
	if d.DriverID != nil {
		id := *d.DriverID
		c.DriverID = &id
	}
	return &c
}

func copyLine(l *entity.DeliveryLine) *entity.DeliveryLine {
	if l == nil {
		return nil
	}
	c := *l
	if l.LotID != nil {
		id := *l.LotID
		c.LotID = &id
	}
	return &c
}

// ---- UserRepository ----

type UserRepo struct{ S *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(user *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, u := range r.S.Users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %s", domain.ErrDuplicate, user.Username)
		}
	}
	r.S.Users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return copyUser(r.S.Users[id]), nil
}

func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, u := range r.S.Users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByRole(role string, limit, offset int) ([]*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.User
	for _, u := range r.S.Users {
		if u.Role == role {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (r *UserRepo) Update(user *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Users[user.ID]; !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, user.ID)
	}
	r.S.Users[user.ID] = copyUser(user)
	return nil
}

// ---- ProductRepository ----

type ProductRepo struct{ S *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(product *entity.Product) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c := *product
	r.S.Products[product.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.S.Products {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r *ProductRepo) UpdateReferencePrice(productID string, price decimal.Decimal) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[productID]
	if !ok {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	p.ReferencePrice = price
	p.UpdatedAt = time.Now()
	return nil
}

// ---- PriceHistoryRepository ----

type PriceHistoryRepo struct{ S *Store }

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

func (r *PriceHistoryRepo) Append(entry *entity.PriceHistory) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	day := entry.Date.Format("2006-01-02")
	for _, h := range r.S.PriceHistory {
		if h.ProductID == entry.ProductID && h.Date.Format("2006-01-02") == day {
			return fmt.Errorf("%w: price for %s on %s", domain.ErrDuplicate, entry.ProductID, day)
		}
	}
	c := *entry
	r.S.PriceHistory = append(r.S.PriceHistory, &c)
	return nil
}

func (r *PriceHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.PriceHistory
	for _, h := range r.S.PriceHistory {
		if h.ProductID == productID {
			c := *h
			out = append(out, &c)
		}
	}
	return out, nil
}

// ---- WarehouseRepository ----

type WarehouseRepo struct{ S *Store }

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c := *warehouse
	r.S.Warehouses[warehouse.ID] = &c
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	w, ok := r.S.Warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Warehouse
	for _, w := range r.S.Warehouses {
		c := *w
		out = append(out, &c)
	}
	return out, nil
}

// ---- LocationRepository ----

type LocationRepo struct{ S *Store }

var _ repository.LocationRepository = (*LocationRepo)(nil)

func (r *LocationRepo) Create(location *entity.Location) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, l := range r.S.Locations {
		if l.WarehouseID == location.WarehouseID && l.Code == location.Code {
			return fmt.Errorf("%w: location code %s", domain.ErrDuplicate, location.Code)
		}
	}
	c := *location
	r.S.Locations[location.ID] = &c
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	l, ok := r.S.Locations[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r *LocationRepo) GetByWarehouseAndCode(warehouseID, code string) (*entity.Location, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, l := range r.S.Locations {
		if l.WarehouseID == warehouseID && l.Code == code {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r *LocationRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.S.Locations {
		if l.WarehouseID == warehouseID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

// ---- LotRepository ----

type LotRepo struct{ S *Store }

var _ repository.LotRepository = (*LotRepo)(nil)

func (r *LotRepo) Create(lot *entity.Lot) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, l := range r.S.Lots {
		if l.Code == lot.Code {
			return fmt.Errorf("%w: lot code %s", domain.ErrDuplicate, lot.Code)
		}
	}
	r.S.Lots[lot.ID] = copyLot(lot)
	return nil
}

func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return copyLot(r.S.Lots[id]), nil
}

func (r *LotRepo) GetByCode(code string) (*entity.Lot, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, l := range r.S.Lots {
		if l.Code == code {
			return copyLot(l), nil
		}
	}
	return nil, nil
}

// GetForUpdate behaves like GetByID; the TxRunner mutex stands in for the
// row lock.
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	return r.GetByID(id)
}

func (r *LotRepo) Update(lot *entity.Lot) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Lots[lot.ID]; !ok {
		return fmt.Errorf("%w: lot %s", domain.ErrNotFound, lot.ID)
	}
	r.S.Lots[lot.ID] = copyLot(lot)
	return nil
}

func (r *LotRepo) List(filter repository.LotFilter, limit, offset int) ([]*entity.Lot, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Lot
	for _, l := range r.S.Lots {
		if filter.ProductID != nil && l.ProductID != *filter.ProductID {
			continue
		}
		if filter.LocationID != nil && (l.LocationID == nil || *l.LocationID != *filter.LocationID) {
			continue
		}
		out = append(out, copyLot(l))
	}
	return out, nil
}

// ---- StockMovementRepository ----

type StockMovementRepo struct{ S *Store }

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c := *movement
	r.S.Movements = append(r.S.Movements, &c)
	return nil
}

func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, m := range r.S.Movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *StockMovementRepo) matches(m *entity.StockMovement, from, to *time.Time) bool {
	if from != nil && m.Date.Before(*from) {
		return false
	}
	if to != nil && m.Date.After(*to) {
		return false
	}
	return true
}

func (r *StockMovementRepo) ListByLot(lotID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.S.Movements {
		if m.LotID == lotID && r.matches(m, from, to) {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *StockMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.S.Movements {
		if r.matches(m, from, to) {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *StockMovementRepo) DailyExitTotals() ([]repository.DailyExit, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	type key struct {
		product string
		day     string
	}
	totals := make(map[key]decimal.Decimal)
	lots := r.S.Lots
	var keys []key
	for _, m := range r.S.Movements {
		if m.Type != entity.MovementTypeExit {
			continue
		}
		lot, ok := lots[m.LotID]
		if !ok {
			continue
		}
		k := key{product: lot.ProductID, day: m.Date.Format("2006-01-02")}
		if _, seen := totals[k]; !seen {
			keys = append(keys, k)
		}
		totals[k] = totals[k].Add(m.Quantity)
	}
	out := make([]repository.DailyExit, 0, len(keys))
	for _, k := range keys {
		day, _ := time.Parse("2006-01-02", k.day)
		out = append(out, repository.DailyExit{ProductID: k.product, Day: day, Quantity: totals[k]})
	}
	return out, nil
}

// ---- DeliveryRepository ----

type DeliveryRepo struct{ S *Store }

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Deliveries[delivery.ID] = copyDelivery(delivery)
	return nil
}

func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return copyDelivery(r.S.Deliveries[id]), nil
}

func (r *DeliveryRepo) Update(delivery *entity.Delivery) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Deliveries[delivery.ID]; !ok {
		return fmt.Errorf("%w: delivery %s", domain.ErrNotFound, delivery.ID)
	}
	r.S.Deliveries[delivery.ID] = copyDelivery(delivery)
	return nil
}

func (r *DeliveryRepo) List(filter repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Delivery
	for _, d := range r.S.Deliveries {
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		if filter.WholesalerID != nil && d.WholesalerID != *filter.WholesalerID {
			continue
		}
		if filter.DriverID != nil && (d.DriverID == nil || *d.DriverID != *filter.DriverID) {
			continue
		}
		out = append(out, copyDelivery(d))
	}
	return out, nil
}

func (r *DeliveryRepo) CreateLine(line *entity.DeliveryLine) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Lines[line.ID] = copyLine(line)
	return nil
}

func (r *DeliveryRepo) GetLineByID(id string) (*entity.DeliveryLine, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return copyLine(r.S.Lines[id]), nil
}

func (r *DeliveryRepo) UpdateLine(line *entity.DeliveryLine) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Lines[line.ID]; !ok {
		return fmt.Errorf("%w: delivery line %s", domain.ErrNotFound, line.ID)
	}
	r.S.Lines[line.ID] = copyLine(line)
	return nil
}

func (r *DeliveryRepo) ListLines(deliveryID string) ([]*entity.DeliveryLine, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.DeliveryLine
	for _, l := range r.S.Lines {
		if l.DeliveryID == deliveryID {
			out = append(out, copyLine(l))
		}
	}
	return out, nil
}

// ---- DemandForecastRepository ----

type ForecastRepo struct{ S *Store }

var _ repository.DemandForecastRepository = (*ForecastRepo)(nil)

func (r *ForecastRepo) Upsert(forecast *entity.DemandForecast) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c := *forecast
	r.S.Forecasts[forecast.ProductID+"|"+forecast.Period] = &c
	return nil
}

func (r *ForecastRepo) List(productID *string, limit, offset int) ([]*entity.DemandForecast, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.DemandForecast
	for _, f := range r.S.Forecasts {
		if productID != nil && f.ProductID != *productID {
			continue
		}
		c := *f
		out = append(out, &c)
	}
	return out, nil
}

// ---- TxRunner ----

// TxRunner serializes transactional sections with a mutex so concurrent
// debits on the same lot behave like SELECT FOR UPDATE. It does not roll
// back: use cases fail before writing, which is what the tests rely on.
type TxRunner struct{ S *Store }

func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lotRepo repository.LotRepository,
) error) error {
	r.S.txMu.Lock()
	defer r.S.txMu.Unlock()
	return fn(&StockMovementRepo{S: r.S}, &LotRepo{S: r.S})
}

func (r *TxRunner) RunDelivery(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lotRepo repository.LotRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	r.S.txMu.Lock()
	defer r.S.txMu.Unlock()
	return fn(&StockMovementRepo{S: r.S}, &LotRepo{S: r.S}, &DeliveryRepo{S: r.S})
}

func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	priceRepo repository.PriceHistoryRepository,
) error) error {
	r.S.txMu.Lock()
	defer r.S.txMu.Unlock()
	return fn(&ProductRepo{S: r.S}, &PriceHistoryRepo{S: r.S})
}
