package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	"github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

// AddItemInput carries the add-to-cart payload.
type AddItemInput struct {
	InventoryID     uuid.UUID
	Quantity        int
	FulfillmentType enums.FulfillmentType
}

// Service exposes the cart operations. Every mutation runs in one
// transaction: item change and aggregate recompute commit together or not at
// all.
type Service interface {
	GetCart(ctx context.Context, owner Owner) (*models.Cart, error)
	AddItem(ctx context.Context, owner Owner, input AddItemInput) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*models.Cart, error)
	PurgeAbandoned(ctx context.Context, olderThan time.Duration) (int64, error)
}

// TxRunner is the transactional scope every cart mutation runs in.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Cache is the slice of the Redis client the cart needs for tag
// invalidation. May be nil.
type Cache interface {
	Del(ctx context.Context, keys ...string) error
	CartTagKey(owner string) string
}

type service struct {
	repo    Repository
	tx      TxRunner
	pricing Pricing
	cache   Cache
	logg    *logger.Logger
}

// NewService wires the cart service.
func NewService(repo Repository, tx TxRunner, pricing Pricing, cache Cache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, tx: tx, pricing: pricing, cache: cache, logg: logg}, nil
}

// GetCart returns the owner's active cart with items preloaded. There is no
// recompute-on-read path; the persisted aggregates are authoritative.
func (s *service) GetCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, errors.New(errors.CodeValidation, "cart owner is required")
	}
	cart, err := s.repo.FindActiveByOwner(ctx, owner)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "cart not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading cart")
	}
	return cart, nil
}

// AddItem puts an inventory item in the owner's cart, creating the cart
// lazily on first add. Adding the same inventory with the same fulfillment
// type again increments the existing line's quantity.
func (s *service) AddItem(ctx context.Context, owner Owner, input AddItemInput) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, errors.New(errors.CodeValidation, "cart owner is required")
	}
	if input.Quantity < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}
	if !input.FulfillmentType.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid fulfillment type")
	}

	var cart *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		inventory, err := repo.FindInventory(ctx, input.InventoryID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.Wrap(errors.CodeNotFound, err, "product not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading inventory")
		}
		if err := checkEligibility(inventory, input.FulfillmentType); err != nil {
			return err
		}

		cart, err = s.findOrCreateCart(ctx, repo, owner)
		if err != nil {
			return err
		}

		existing, err := repo.FindItemByInventory(ctx, cart.ID, input.InventoryID, input.FulfillmentType)
		switch {
		case err == nil:
			existing.Quantity += input.Quantity
			if err := repo.SaveItem(ctx, existing); err != nil {
				return errors.Wrap(errors.CodeInternal, err, "updating cart item")
			}
		case err == gorm.ErrRecordNotFound:
			item := &models.CartItem{
				CartID:          cart.ID,
				InventoryID:     input.InventoryID,
				Quantity:        input.Quantity,
				FulfillmentType: input.FulfillmentType,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return errors.Wrap(errors.CodeInternal, err, "adding cart item")
			}
		default:
			return errors.Wrap(errors.CodeInternal, err, "loading cart item")
		}

		return s.recompute(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOwner(ctx, owner)
	return cart, nil
}

// UpdateItemQuantity replaces a line's quantity. Quantities below one are
// rejected before any persistence call.
func (s *service) UpdateItemQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, errors.New(errors.CodeValidation, "cart owner is required")
	}
	if quantity < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	var cart *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		cart, err = s.loadCart(ctx, repo, owner)
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, itemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.Wrap(errors.CodeNotFound, err, "cart item not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading cart item")
		}

		item.Quantity = quantity
		if err := repo.SaveItem(ctx, item); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "updating cart item")
		}

		return s.recompute(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOwner(ctx, owner)
	return cart, nil
}

// RemoveItem deletes a line from the cart.
func (s *service) RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, errors.New(errors.CodeValidation, "cart owner is required")
	}

	var cart *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		cart, err = s.loadCart(ctx, repo, owner)
		if err != nil {
			return err
		}

		if _, err := repo.FindItem(ctx, cart.ID, itemID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.Wrap(errors.CodeNotFound, err, "cart item not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "loading cart item")
		}
		if err := repo.DeleteItem(ctx, itemID); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "removing cart item")
		}

		return s.recompute(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOwner(ctx, owner)
	return cart, nil
}

// PurgeAbandoned removes active anonymous-session carts untouched for the
// given window. Used by the retention job.
func (s *service) PurgeAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	purged, err := s.repo.DeleteAbandonedAnonymous(ctx, cutoff)
	if err != nil {
		return 0, errors.Wrap(errors.CodeInternal, err, "purging abandoned carts")
	}
	if purged > 0 {
		s.logg.Info(ctx, fmt.Sprintf("purged %d abandoned carts", purged))
	}
	return purged, nil
}

func (s *service) findOrCreateCart(ctx context.Context, repo Repository, owner Owner) (*models.Cart, error) {
	cart, err := repo.FindActiveByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading cart")
	}
	created, err := repo.Create(ctx, &models.Cart{
		UserID:    owner.UserID,
		SessionID: owner.SessionID,
		Status:    enums.CartStatusActive,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating cart")
	}
	return created, nil
}

func (s *service) loadCart(ctx context.Context, repo Repository, owner Owner) (*models.Cart, error) {
	cart, err := repo.FindActiveByOwner(ctx, owner)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "cart not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading cart")
	}
	return cart, nil
}

// recompute rereads the items, recalculates the aggregates, and persists both
// onto the cart inside the ambient transaction.
func (s *service) recompute(ctx context.Context, repo Repository, cart *models.Cart) error {
	items, err := repo.ListItems(ctx, cart.ID)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "listing cart items")
	}
	ComputeAggregates(items, s.pricing).Apply(cart)
	cart.Items = items
	if err := repo.Save(ctx, cart); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "saving cart aggregates")
	}
	return nil
}

func (s *service) invalidateOwner(ctx context.Context, owner Owner) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.CartTagKey(owner.Tag())); err != nil {
		s.logg.Warn(ctx, "cart cache invalidation failed: "+err.Error())
	}
}

func checkEligibility(inventory *models.InventoryItem, fulfillment enums.FulfillmentType) error {
	switch fulfillment {
	case enums.FulfillmentForDelivery:
		if !inventory.DeliveryEligible {
			return errors.New(errors.CodeValidation, "item is not eligible for delivery")
		}
	case enums.FulfillmentForCollection:
		if !inventory.CollectionEligible {
			return errors.New(errors.CodeValidation, "item is not eligible for collection")
		}
	}
	return nil
}
