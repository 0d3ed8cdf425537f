package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
)

// Repository exposes persistence operations for carts and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new cart with its items.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// Save persists the cart header. Items are managed through ReplaceItems.
func (r *Repository) Save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	err := r.db.WithContext(ctx).
		Omit("Items").
		Save(cart).Error
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// FindByID loads a cart with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("id = ?", id).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByUserID loads the cart owned by the registered user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByGuestID loads the cart owned by the anonymous guest id.
func (r *Repository) FindByGuestID(ctx context.Context, guestID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("guest_id = ?", guestID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ReplaceItems atomically replaces the lines for the provided cart.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CartID = cartID
		items[i].ID = uuid.Nil
	}
	return tx.Create(&items).Error
}

// Delete removes a cart; lines cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Cart{}).Error
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("cart_items.created_at ASC")
}
