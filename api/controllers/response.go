package controllers

import (
	"atelier-backend/api/controllers/dto"
	"atelier-backend/pkg/db/models"
)

func newProduct(record *models.Product) dto.Product {
	return dto.Product{
		ID:            record.ID,
		Name:          record.Name,
		Description:   record.Description,
		SKU:           record.SKU,
		Price:         record.Price,
		DiscountPrice: record.DiscountPrice,
		CountInStock:  record.CountInStock,
		Category:      record.Category,
		Brand:         record.Brand,
		Material:      record.Material,
		Gender:        record.Gender.String(),
		Sizes:         []string(record.Sizes),
		Colors:        []string(record.Colors),
		Collections:   []string(record.Collections),
		Tags:          []string(record.Tags),
		Images:        record.Images,
		IsFeatured:    record.IsFeatured,
		IsPublished:   record.IsPublished,
		Rating:        record.Rating,
		NumReviews:    record.NumReviews,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func newProducts(records []models.Product) []dto.Product {
	out := make([]dto.Product, 0, len(records))
	for i := range records {
		out = append(out, newProduct(&records[i]))
	}
	return out
}

func newCart(record *models.Cart) dto.Cart {
	items := make([]dto.CartItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, dto.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}
	return dto.Cart{
		ID:         record.ID,
		UserID:     record.UserID,
		GuestID:    record.GuestID,
		TotalPrice: record.TotalPrice,
		Items:      items,
		UpdatedAt:  record.UpdatedAt,
	}
}

func newCheckout(record *models.Checkout) dto.Checkout {
	items := make([]dto.LineItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, dto.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}
	return dto.Checkout{
		ID:              record.ID,
		UserID:          record.UserID,
		ShippingAddress: record.ShippingAddress,
		PaymentMethod:   record.PaymentMethod,
		PaymentStatus:   record.PaymentStatus.String(),
		PaymentDetails:  record.PaymentDetails,
		TotalPrice:      record.TotalPrice,
		IsPaid:          record.IsPaid,
		PaidAt:          record.PaidAt,
		IsFinalized:     record.IsFinalized,
		FinalizedAt:     record.FinalizedAt,
		Items:           items,
		CreatedAt:       record.CreatedAt,
	}
}

func newOrder(record *models.Order) dto.Order {
	items := make([]dto.LineItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, dto.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}

	var owner *dto.OrderUser
	if record.User != nil {
		owner = &dto.OrderUser{
			ID:        record.User.ID,
			Email:     record.User.Email,
			FirstName: record.User.FirstName,
			LastName:  record.User.LastName,
		}
	}

	return dto.Order{
		ID:              record.ID,
		UserID:          record.UserID,
		CheckoutID:      record.CheckoutID,
		ShippingAddress: record.ShippingAddress,
		PaymentMethod:   record.PaymentMethod,
		PaymentStatus:   record.PaymentStatus.String(),
		TotalPrice:      record.TotalPrice,
		Status:          record.Status,
		IsPaid:          record.IsPaid,
		PaidAt:          record.PaidAt,
		IsDelivered:     record.IsDelivered,
		DeliveredAt:     record.DeliveredAt,
		Items:           items,
		User:            owner,
		CreatedAt:       record.CreatedAt,
	}
}

func newOrders(records []models.Order) []dto.Order {
	out := make([]dto.Order, 0, len(records))
	for i := range records {
		out = append(out, newOrder(&records[i]))
	}
	return out
}

func newSubscriber(record *models.Subscriber) dto.Subscriber {
	return dto.Subscriber{
		ID:        record.ID,
		Email:     record.Email,
		CreatedAt: record.CreatedAt,
	}
}

func newSubscribers(records []models.Subscriber) []dto.Subscriber {
	out := make([]dto.Subscriber, 0, len(records))
	for i := range records {
		out = append(out, newSubscriber(&records[i]))
	}
	return out
}
