package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-backend/internal/cart"
	"atelier-backend/internal/orders"
	"atelier-backend/pkg/db"
	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSource interface {
	GetCart(ctx context.Context, identity cart.Identity) (*models.Cart, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

// CreateInput opens a checkout from the caller's current cart.
type CreateInput struct {
	ShippingAddress types.Address
	PaymentMethod   string
}

// PayInput records the payment outcome reported by the client.
type PayInput struct {
	PaymentStatus  string
	PaymentDetails types.JSONMap
}

// Service drives the cart snapshot through payment to a finalized order.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Checkout, error)
	Get(ctx context.Context, userID, checkoutID uuid.UUID) (*models.Checkout, error)
	MarkPaid(ctx context.Context, userID, checkoutID uuid.UUID, input PayInput) (*models.Checkout, error)
	Finalize(ctx context.Context, userID, checkoutID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo      CheckoutRepository
	orderRepo orders.OrderRepository
	carts     cartSource
	tx        txRunner
	now       func() time.Time
}

// NewService builds the checkout service backed by the provided stack.
func NewService(repo CheckoutRepository, orderRepo orders.OrderRepository, carts cartSource, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		carts:     carts,
		tx:        tx,
		now:       time.Now,
	}, nil
}

// Create snapshots the caller's cart into a new checkout. The cart itself is
// left untouched until finalization.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Checkout, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	current, err := s.carts.GetCart(ctx, cart.Identity{UserID: &userID})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, err
	}
	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	address := input.ShippingAddress
	items := make([]models.CheckoutItem, 0, len(current.Items))
	for _, line := range current.Items {
		items = append(items, models.CheckoutItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		})
	}

	created, err := s.repo.Create(ctx, &models.Checkout{
		UserID:          userID,
		ShippingAddress: &address,
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
		TotalPrice:      current.TotalPrice,
		PaymentStatus:   enums.PaymentStatusPending,
		Items:           items,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout")
	}
	return created, nil
}

// Get returns the caller's checkout, or not-found.
func (s *service) Get(ctx context.Context, userID, checkoutID uuid.UUID) (*models.Checkout, error) {
	return s.load(ctx, s.repo, userID, checkoutID, false)
}

// MarkPaid records a settled payment on the checkout. Only the two settled
// statuses are accepted; a finalized checkout can no longer change.
func (s *service) MarkPaid(ctx context.Context, userID, checkoutID uuid.UUID, input PayInput) (*models.Checkout, error) {
	status, err := enums.ParsePaymentStatus(input.PaymentStatus)
	if err != nil || !status.IsSettled() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	var saved *models.Checkout
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		target, err := s.load(ctx, txRepo, userID, checkoutID, true)
		if err != nil {
			return err
		}
		if target.IsFinalized {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already finalized")
		}

		now := s.now()
		target.PaymentStatus = status
		target.PaymentDetails = input.PaymentDetails
		target.IsPaid = true
		if target.PaidAt == nil {
			target.PaidAt = &now
		}

		saved, err = txRepo.Save(ctx, target)
		return err
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}

	return saved, nil
}

// Finalize converts a checkout into an order exactly once: the order is
// created, the checkout is sealed, and the caller's cart is deleted in one
// transaction. Payment is not required; the order inherits the checkout's
// payment state as-is (cash-on-delivery orders finalize unpaid).
func (s *service) Finalize(ctx context.Context, userID, checkoutID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txOrders := s.orderRepo.WithTx(tx)

		target, err := s.load(ctx, txRepo, userID, checkoutID, true)
		if err != nil {
			return err
		}
		if target.IsFinalized {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already finalized")
		}

		items := make([]models.OrderItem, 0, len(target.Items))
		for _, line := range target.Items {
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Image:     line.Image,
				Price:     line.Price,
				Size:      line.Size,
				Color:     line.Color,
				Quantity:  line.Quantity,
			})
		}

		order, err = txOrders.Create(ctx, &models.Order{
			UserID:          target.UserID,
			CheckoutID:      target.ID,
			ShippingAddress: target.ShippingAddress,
			PaymentMethod:   target.PaymentMethod,
			TotalPrice:      target.TotalPrice,
			PaymentStatus:   target.PaymentStatus,
			PaymentDetails:  target.PaymentDetails,
			IsPaid:          target.IsPaid,
			PaidAt:          target.PaidAt,
			Items:           items,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already finalized")
			}
			return err
		}

		now := s.now()
		target.IsFinalized = true
		target.FinalizedAt = &now
		if _, err := txRepo.Save(ctx, target); err != nil {
			return err
		}

		return s.carts.DeleteByUserID(ctx, tx, userID)
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize checkout")
	}

	return order, nil
}

func (s *service) load(ctx context.Context, repo CheckoutRepository, userID, checkoutID uuid.UUID, locked bool) (*models.Checkout, error) {
	if userID == uuid.Nil || checkoutID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and checkout id are required")
	}

	var (
		checkout *models.Checkout
		err      error
	)
	if locked {
		checkout, err = repo.FindByIDForUserLocked(ctx, checkoutID, userID)
	} else {
		checkout, err = repo.FindByIDForUser(ctx, checkoutID, userID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout")
	}
	return checkout, nil
}
