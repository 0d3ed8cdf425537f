package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
	pkgerrors "atelier-backend/pkg/errors"
)

const guestIDPrefix = "guest_"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Identity names the cart owner. When both fields are set the registered
// user wins and the guest id is ignored.
type Identity struct {
	UserID  *uuid.UUID
	GuestID string
}

func (id Identity) empty() bool {
	return id.UserID == nil && strings.TrimSpace(id.GuestID) == ""
}

// AddItemInput captures a line to add or deepen.
type AddItemInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

// UpdateItemInput replaces the quantity on an existing line.
type UpdateItemInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

// RemoveItemInput names the line to drop.
type RemoveItemInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// Service exposes cart operations for guests and registered users.
type Service interface {
	GetCart(ctx context.Context, identity Identity) (*models.Cart, error)
	AddItem(ctx context.Context, identity Identity, input AddItemInput) (*models.Cart, error)
	UpdateItem(ctx context.Context, identity Identity, input UpdateItemInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, identity Identity, input RemoveItemInput) (*models.Cart, error)
	Merge(ctx context.Context, guestID string, userID uuid.UUID) (*models.Cart, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

// NewGuestID mints an anonymous owner id for a first-touch cart.
func NewGuestID() string {
	return guestIDPrefix + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// GetCart returns the cart for the identity, or not-found.
func (s *service) GetCart(ctx context.Context, identity Identity) (*models.Cart, error) {
	if identity.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id or guest id is required")
	}
	return s.findByIdentity(ctx, s.repo, identity)
}

// AddItem deepens an existing (product, size, color) line or appends a new
// one with a product snapshot, then recomputes the cart total. A cart is
// created on first touch; anonymous traffic gets a minted guest id.
func (s *service) AddItem(ctx context.Context, identity Identity, input AddItemInput) (*models.Cart, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	var saved *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		target, err := s.findByIdentity(ctx, txRepo, identity)
		if err != nil && pkgerrors.As(err) == nil {
			return err
		}

		if target == nil {
			target, err = s.createForIdentity(ctx, txRepo, identity)
			if err != nil {
				return err
			}
		}

		items := target.Items
		matched := false
		for i := range items {
			if items[i].SameLine(input.ProductID, input.Size, input.Color) {
				items[i].Quantity += input.Quantity
				matched = true
				break
			}
		}
		if !matched {
			items = append(items, buildLine(product, input))
		}

		if err := txRepo.ReplaceItems(ctx, target.ID, items); err != nil {
			return err
		}

		target.TotalPrice = lineTotal(items)
		if _, err := txRepo.Save(ctx, target); err != nil {
			return err
		}

		saved, err = txRepo.FindByID(ctx, target.ID)
		return err
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}

	return saved, nil
}

// UpdateItem replaces the quantity on a line. A non-positive quantity
// removes the line entirely.
func (s *service) UpdateItem(ctx context.Context, identity Identity, input UpdateItemInput) (*models.Cart, error) {
	var saved *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		target, err := s.findByIdentity(ctx, txRepo, identity)
		if err != nil {
			return err
		}

		items := target.Items
		idx := -1
		for i := range items {
			if items[i].SameLine(input.ProductID, input.Size, input.Color) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}

		if input.Quantity > 0 {
			items[idx].Quantity = input.Quantity
		} else {
			items = append(items[:idx], items[idx+1:]...)
		}

		if err := txRepo.ReplaceItems(ctx, target.ID, items); err != nil {
			return err
		}

		target.TotalPrice = lineTotal(items)
		if _, err := txRepo.Save(ctx, target); err != nil {
			return err
		}

		saved, err = txRepo.FindByID(ctx, target.ID)
		return err
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}

	return saved, nil
}

// RemoveItem drops a line from the cart and recomputes the total.
func (s *service) RemoveItem(ctx context.Context, identity Identity, input RemoveItemInput) (*models.Cart, error) {
	return s.UpdateItem(ctx, identity, UpdateItemInput{
		ProductID: input.ProductID,
		Size:      input.Size,
		Color:     input.Color,
		Quantity:  0,
	})
}

// Merge folds a guest cart into the user's cart after login. Matching
// (product, size, color) lines sum their quantities; the guest cart is
// deleted once absorbed. When the user has no cart yet the guest cart is
// repointed instead of copied.
func (s *service) Merge(ctx context.Context, guestID string, userID uuid.UUID) (*models.Cart, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest id is required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var saved *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		guestCart, err := txRepo.FindByGuestID(ctx, guestID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		userCart, err := txRepo.FindByUserID(ctx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if guestCart == nil {
			if userCart == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "guest cart not found")
			}
			saved = userCart
			return nil
		}

		if len(guestCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "guest cart is empty")
		}

		if userCart == nil {
			// no user cart yet: repoint ownership instead of copying lines
			guestCart.UserID = &userID
			guestCart.GuestID = nil
			if _, err := txRepo.Save(ctx, guestCart); err != nil {
				return err
			}
			saved, err = txRepo.FindByID(ctx, guestCart.ID)
			return err
		}

		items := userCart.Items
		for _, line := range guestCart.Items {
			matched := false
			for i := range items {
				if items[i].SameLine(line.ProductID, line.Size, line.Color) {
					items[i].Quantity += line.Quantity
					matched = true
					break
				}
			}
			if !matched {
				line.ID = uuid.Nil
				line.CartID = userCart.ID
				items = append(items, line)
			}
		}

		if err := txRepo.ReplaceItems(ctx, userCart.ID, items); err != nil {
			return err
		}

		userCart.TotalPrice = lineTotal(items)
		if _, err := txRepo.Save(ctx, userCart); err != nil {
			return err
		}

		if err := txRepo.Delete(ctx, guestCart.ID); err != nil {
			return err
		}

		saved, err = txRepo.FindByID(ctx, userCart.ID)
		return err
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge carts")
	}

	return saved, nil
}

// DeleteByUserID removes the user's cart inside an ambient transaction.
// Checkout finalization clears the cart this way.
func (s *service) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	txRepo := s.repo.WithTx(tx)
	existing, err := txRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return txRepo.Delete(ctx, existing.ID)
}

func (s *service) findByIdentity(ctx context.Context, repo CartRepository, identity Identity) (*models.Cart, error) {
	if identity.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id or guest id is required")
	}

	if identity.UserID != nil {
		cart, err := repo.FindByUserID(ctx, *identity.UserID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if strings.TrimSpace(identity.GuestID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
	}

	cart, err := repo.FindByGuestID(ctx, strings.TrimSpace(identity.GuestID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, err
	}
	return cart, nil
}

func (s *service) createForIdentity(ctx context.Context, repo CartRepository, identity Identity) (*models.Cart, error) {
	fresh := &models.Cart{TotalPrice: decimal.Zero}
	if identity.UserID != nil {
		fresh.UserID = identity.UserID
	} else {
		guestID := strings.TrimSpace(identity.GuestID)
		if guestID == "" {
			guestID = NewGuestID()
		}
		fresh.GuestID = &guestID
	}
	return repo.Create(ctx, fresh)
}

func buildLine(product *models.Product, input AddItemInput) models.CartItem {
	return models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     firstImageURL(product),
		Price:     effectivePrice(product),
		Size:      input.Size,
		Color:     input.Color,
		Quantity:  input.Quantity,
	}
}

func effectivePrice(product *models.Product) decimal.Decimal {
	if product.DiscountPrice != nil {
		return *product.DiscountPrice
	}
	return product.Price
}

func firstImageURL(product *models.Product) string {
	if len(product.Images) == 0 {
		return ""
	}
	return product.Images[0].URL
}

func lineTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
