package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/internal/cart"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	"github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
)

// Page is one page of a cursor-paginated order listing.
type Page struct {
	Orders     []models.Order
	NextCursor string
}

// Service exposes checkout and order management.
type Service interface {
	CreateFromCart(ctx context.Context, owner cart.Owner) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListForOwner(ctx context.Context, owner cart.Owner, params pagination.Params) (*Page, error)
	ListAll(ctx context.Context, params pagination.Params) (*Page, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo  Repository
	carts cart.Repository
	tx    cart.TxRunner
	logg  *logger.Logger
}

// NewService wires the order service.
func NewService(repo Repository, carts cart.Repository, tx cart.TxRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, carts: carts, tx: tx, logg: logg}, nil
}

// CreateFromCart snapshots the owner's active cart into a pending order and
// marks the cart converted, atomically.
func (s *service) CreateFromCart(ctx context.Context, owner cart.Owner) (*models.Order, error) {
	if owner.IsZero() {
		return nil, errors.New(errors.CodeValidation, "cart owner is required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		repo := s.repo.WithTx(tx)

		active, err := carts.FindActiveByOwner(ctx, owner)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.Wrap(errors.CodeNotFound, err, "cart not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading cart")
		}
		if len(active.Items) == 0 {
			return errors.New(errors.CodeValidation, "cart is empty")
		}

		order, err = repo.Create(ctx, &models.Order{
			CartID:         active.ID,
			UserID:         active.UserID,
			SessionID:      active.SessionID,
			Status:         enums.OrderStatusPending,
			PaymentStatus:  enums.PaymentStatusUnpaid,
			SubtotalGross:  active.SubtotalGross,
			SubtotalNet:    active.SubtotalNet,
			DeliveryCharge: active.DeliveryCharge,
			VATAmount:      active.VATAmount,
			TotalGross:     active.TotalGross,
			TotalNet:       active.TotalNet,
		})
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "creating order")
		}

		active.Status = enums.CartStatusConverted
		if err := carts.Save(ctx, active); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "converting cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithCartID(ctx, order.CartID.String()), "order created")
	return order, nil
}

// GetOrder loads one order with its cart snapshot.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "order not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// ListForOwner returns the owner's orders, newest first.
func (s *service) ListForOwner(ctx context.Context, owner cart.Owner, params pagination.Params) (*Page, error) {
	if owner.IsZero() {
		return nil, errors.New(errors.CodeValidation, "owner is required")
	}
	return s.page(ctx, params, func(limit int, cursor *pagination.Cursor) ([]models.Order, error) {
		return s.repo.ListByOwner(ctx, owner, limit, cursor)
	})
}

// ListAll returns every order for the back office, newest first.
func (s *service) ListAll(ctx context.Context, params pagination.Params) (*Page, error) {
	return s.page(ctx, params, func(limit int, cursor *pagination.Cursor) ([]models.Order, error) {
		return s.repo.ListAll(ctx, limit, cursor)
	})
}

func (s *service) page(ctx context.Context, params pagination.Params, fetch func(int, *pagination.Cursor) ([]models.Order, error)) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := fetch(limit+1, cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing orders")
	}

	page := &Page{Orders: rows}
	if len(rows) > limit {
		page.Orders = rows[:limit]
		last := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusPaid:      {enums.OrderStatusShipped, enums.OrderStatusCancelled, enums.OrderStatusRefunded},
	enums.OrderStatusShipped:   {enums.OrderStatusDelivered, enums.OrderStatusRefunded},
	enums.OrderStatusDelivered: {enums.OrderStatusRefunded},
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves an order along its lifecycle and stamps the matching
// timeline field. Disallowed transitions are rejected without mutation.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "order not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading order")
	}

	if !transitionAllowed(order.Status, status) {
		return nil, errors.New(errors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	now := time.Now()
	order.Status = status
	switch status {
	case enums.OrderStatusPaid:
		order.PaymentStatus = enums.PaymentStatusPaid
		order.PaidAt = &now
	case enums.OrderStatusShipped:
		order.ShippedAt = &now
	case enums.OrderStatusDelivered:
		order.DeliveredAt = &now
	case enums.OrderStatusRefunded:
		order.PaymentStatus = enums.PaymentStatusRefunded
		order.RefundedAt = &now
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "saving order")
	}
	return order, nil
}
