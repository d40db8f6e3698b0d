package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/internal/cart"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	"github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByOwner(ctx context.Context, owner cart.Owner, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	var rows []models.Order
	for _, o := range s.orders {
		if owner.SessionID != nil && o.SessionID != nil && *o.SessionID == *owner.SessionID {
			rows = append(rows, *o)
		}
		if owner.UserID != nil && o.UserID != nil && *o.UserID == *owner.UserID {
			rows = append(rows, *o)
		}
	}
	return rows, nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	var rows []models.Order
	for _, o := range s.orders {
		rows = append(rows, *o)
	}
	return rows, nil
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderRepo) Save(ctx context.Context, order *models.Order) error {
	s.orders[order.ID] = order
	return nil
}

// stubCartRepo implements just enough of the cart repository for checkout.
type stubCartRepo struct {
	cart *models.Cart
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindActiveByOwner(ctx context.Context, owner cart.Owner) (*models.Cart, error) {
	if s.cart == nil || s.cart.Status != enums.CartStatusActive {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepo) Create(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	return nil, gorm.ErrInvalidData
}

func (s *stubCartRepo) Save(ctx context.Context, c *models.Cart) error {
	s.cart = c
	return nil
}

func (s *stubCartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindItemByInventory(ctx context.Context, cartID, inventoryID uuid.UUID, fulfillment enums.FulfillmentType) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error  { return nil }
func (s *stubCartRepo) SaveItem(ctx context.Context, item *models.CartItem) error    { return nil }
func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error       { return nil }
func (s *stubCartRepo) FindInventory(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubCartRepo) DeleteAbandonedAnonymous(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newOrderService(t *testing.T, repo Repository, carts cart.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, carts, passthroughTx{}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func activeCartFixture(sessionID string) *models.Cart {
	return &models.Cart{
		ID:             uuid.New(),
		SessionID:      &sessionID,
		Status:         enums.CartStatusActive,
		SubtotalGross:  decimal.RequireFromString("100"),
		SubtotalNet:    decimal.RequireFromString("83.33"),
		DeliveryCharge: decimal.RequireFromString("5"),
		VATAmount:      decimal.RequireFromString("17.67"),
		TotalGross:     decimal.RequireFromString("106"),
		TotalNet:       decimal.RequireFromString("88.33"),
		Items: []models.CartItem{
			{ID: uuid.New(), Quantity: 2, FulfillmentType: enums.FulfillmentForDelivery},
		},
	}
}

func TestCreateFromCartSnapshotsTotals(t *testing.T) {
	t.Parallel()

	carts := &stubCartRepo{cart: activeCartFixture("sess-1")}
	repo := newStubOrderRepo()
	svc := newOrderService(t, repo, carts)

	sessionID := "sess-1"
	order, err := svc.CreateFromCart(context.Background(), cart.Owner{SessionID: &sessionID})
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if order.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Errorf("payment status = %s, want unpaid", order.PaymentStatus)
	}
	if !order.TotalGross.Equal(decimal.RequireFromString("106")) {
		t.Errorf("TotalGross = %s, want 106", order.TotalGross)
	}
	if carts.cart.Status != enums.CartStatusConverted {
		t.Errorf("cart status = %s, want converted", carts.cart.Status)
	}
}

func TestCreateFromCartMissingCart(t *testing.T) {
	t.Parallel()

	svc := newOrderService(t, newStubOrderRepo(), &stubCartRepo{})

	sessionID := "sess-2"
	_, err := svc.CreateFromCart(context.Background(), cart.Owner{SessionID: &sessionID})
	coded := errors.As(err)
	if coded == nil || coded.Code() != errors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	t.Parallel()

	fixture := activeCartFixture("sess-3")
	fixture.Items = nil
	svc := newOrderService(t, newStubOrderRepo(), &stubCartRepo{cart: fixture})

	sessionID := "sess-3"
	_, err := svc.CreateFromCart(context.Background(), cart.Owner{SessionID: &sessionID})
	coded := errors.As(err)
	if coded == nil || coded.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusStampsTimeline(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	order := &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending, PaymentStatus: enums.PaymentStatusUnpaid}
	repo.orders[order.ID] = order
	svc := newOrderService(t, repo, &stubCartRepo{})
	ctx := context.Background()

	paid, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusPaid)
	if err != nil {
		t.Fatalf("UpdateStatus paid: %v", err)
	}
	if paid.PaidAt == nil {
		t.Error("PaidAt not stamped")
	}
	if paid.PaymentStatus != enums.PaymentStatusPaid {
		t.Errorf("payment status = %s, want paid", paid.PaymentStatus)
	}

	shipped, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus shipped: %v", err)
	}
	if shipped.ShippedAt == nil {
		t.Error("ShippedAt not stamped")
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	order := &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}
	repo.orders[order.ID] = order
	svc := newOrderService(t, repo, &stubCartRepo{})

	_, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusDelivered)
	coded := errors.As(err)
	if coded == nil || coded.Code() != errors.CodeStateConflict {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	t.Parallel()

	svc := newOrderService(t, newStubOrderRepo(), &stubCartRepo{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusPaid)
	coded := errors.As(err)
	if coded == nil || coded.Code() != errors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
