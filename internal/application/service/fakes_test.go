package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/events"
)

// In-memory repository fakes shared across the service tests.

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var result []entity.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var result []entity.Product
	for _, p := range f.products {
		if params.ActiveOnly && !p.Active {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	return nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*entity.Order
	createErr error
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.Order)}
	for _, o := range orders {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Number == number {
			clone := *o
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetWithDetails(ctx context.Context, number string) (*entity.Order, error) {
	return f.GetByNumber(ctx, number)
}

func (f *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entity.Order
	for _, o := range f.orders {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (f *fakeOrderRepo) ListWithCursor(ctx context.Context, params *repository.OrderCursorFilterParams) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entity.Order
	for _, o := range f.orders {
		result = append(result, *o)
	}
	return result, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (f *fakeOrderRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enum.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		o.PaymentStatus = status
	}
	return nil
}

type fakeOrderItemRepo struct {
	items []entity.OrderItem
}

func (f *fakeOrderItemRepo) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var result []entity.OrderItem
	for _, item := range f.items {
		if item.OrderID == orderID {
			result = append(result, item)
		}
	}
	return result, nil
}

type fakeHistoryRepo struct {
	rows []entity.OrderStatusHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, row *entity.OrderStatusHistory) error {
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeHistoryRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStatusHistory, error) {
	var result []entity.OrderStatusHistory
	for _, row := range f.rows {
		if row.OrderID == orderID {
			result = append(result, row)
		}
	}
	return result, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo(payments ...*entity.Payment) *fakePaymentRepo {
	repo := &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
	for _, p := range payments {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		repo.payments[p.ID] = p
	}
	return repo
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	clone := *payment
	f.payments[payment.ID] = &clone
	return nil
}

func (f *fakePaymentRepo) GetByNumber(ctx context.Context, number string) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.Number == number {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.OrderID == orderID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FinalizeFromPending(ctx context.Context, id uuid.UUID, decision repository.PaymentDecision) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok || p.Status != enum.PaymentStatusPending {
		return false, nil
	}
	p.Status = decision.Status
	p.VerifiedBy = &decision.VerifiedBy
	p.VerifiedAt = &decision.VerifiedAt
	p.Notes = decision.Notes
	p.RejectionReason = decision.RejectionReason
	return true, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturePublisher) Publish(event events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capturePublisher) byType(eventType string) []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []events.Event
	for _, e := range c.events {
		if e.Type == eventType {
			result = append(result, e)
		}
	}
	return result
}
