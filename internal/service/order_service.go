package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validation"
)

// orderNumberAttempts bounds the regenerate-on-conflict loop for order numbers.
const orderNumberAttempts = 3

var (
	// ErrOrderNotCancellable is returned when cancelling a delivered or
	// already cancelled order.
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService exposes order operations.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Order, error)
	ListOrders(ctx context.Context, includeDeleted bool) ([]model.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (*model.OrderItem, error)
}

type orderService struct {
	store    *repository.Store
	validate *validation.Validator
}

// NewOrderService builds an OrderService.
func NewOrderService(store *repository.Store, validate *validation.Validator) OrderService {
	return &orderService{store: store, validate: validate}
}

// CreateOrder creates an order and its items in one transaction. Unit prices
// are snapshotted from the product, stock is decremented, subtotals and the
// total are derived, and the order number is regenerated on conflict.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*model.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("order", "items", "min")
	}

	var order *model.Order
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Users.FindByID(ctx, userID, false); err != nil {
			return apperrors.FromDB("user", err)
		}

		total := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(items))
		for _, input := range items {
			item := model.OrderItem{
				ProductID: input.ProductID,
				Quantity:  input.Quantity,
			}
			if err := s.validate.Struct("order_item", &item); err != nil {
				return err
			}

			product, err := tx.Products.FindByID(ctx, input.ProductID, false)
			if err != nil {
				return apperrors.FromDB("product", err)
			}
			if !product.ReduceStock(input.Quantity) {
				return apperrors.Validation("order_item", "quantity", "insufficient_stock")
			}
			if err := tx.Products.Save(ctx, product); err != nil {
				return apperrors.FromDB("product", err)
			}

			item.UnitPrice = product.Price
			item.ComputeSubtotal()
			total = total.Add(item.SubtotalPrice)
			orderItems = append(orderItems, item)
		}

		order = &model.Order{
			UserID:     userID,
			TotalPrice: total,
			Status:     model.OrderStatusPending,
		}

		var createErr error
		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			order.OrderNumber = model.NewOrderNumber()
			createErr = tx.Orders.Create(ctx, order)
			if createErr == nil {
				break
			}
			if !apperrors.IsConflict(apperrors.FromDB("order", createErr)) {
				return apperrors.FromDB("order", createErr)
			}
		}
		if createErr != nil {
			return apperrors.FromDB("order", createErr)
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.OrderItems.CreateBatch(ctx, orderItems); err != nil {
			return apperrors.FromDB("order_item", err)
		}
		order.Items = orderItems
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Order, error) {
	order, err := s.store.Orders.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("order", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, includeDeleted bool) ([]model.Order, error) {
	orders, err := s.store.Orders.List(ctx, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("order", err)
	}
	return orders, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.store.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.FromDB("order", err)
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, apperrors.Validation("order", "status", "oneof")
	}

	order, err := s.store.Orders.FindByID(ctx, id, false)
	if err != nil {
		return nil, apperrors.FromDB("order", err)
	}

	order.Status = status
	if err := s.store.Orders.Save(ctx, order); err != nil {
		return nil, apperrors.FromDB("order", err)
	}
	return order, nil
}

// CancelOrder moves an order to cancelled. Delivered and already cancelled
// orders are rejected.
func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.store.Orders.FindByID(ctx, id, false)
	if err != nil {
		return nil, apperrors.FromDB("order", err)
	}

	if order.Status == model.OrderStatusDelivered || order.Status == model.OrderStatusCancelled {
		return nil, ErrOrderNotCancellable
	}

	order.Status = model.OrderStatusCancelled
	if err := s.store.Orders.Save(ctx, order); err != nil {
		return nil, apperrors.FromDB("order", err)
	}
	return order, nil
}

// DeleteOrder soft-deletes an order and cascades to its items and its
// payment within one transaction.
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Orders.FindByID(ctx, id, false); err != nil {
			return apperrors.FromDB("order", err)
		}

		orderIDs := []uuid.UUID{id}
		if err := tx.OrderItems.SoftDeleteByOrders(ctx, orderIDs); err != nil {
			return apperrors.FromDB("order_item", err)
		}
		if err := tx.Payments.SoftDeleteByOrders(ctx, orderIDs); err != nil {
			return apperrors.FromDB("payment", err)
		}
		if err := tx.Orders.SoftDelete(ctx, id); err != nil {
			return apperrors.FromDB("order", err)
		}
		return nil
	})
}

// UpdateItemQuantity changes a line's quantity, recomputing its subtotal and
// the order total in the same transaction.
func (s *orderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (*model.OrderItem, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("order_item", "quantity", "min")
	}

	var item *model.OrderItem
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		order, err := tx.Orders.FindByID(ctx, orderID, false)
		if err != nil {
			return apperrors.FromDB("order", err)
		}

		item, err = tx.OrderItems.FindByID(ctx, itemID)
		if err != nil {
			return apperrors.FromDB("order_item", err)
		}
		if item.OrderID != orderID {
			return apperrors.NotFound("order_item")
		}

		item.Quantity = quantity
		item.ComputeSubtotal()
		if err := tx.OrderItems.Save(ctx, item); err != nil {
			return apperrors.FromDB("order_item", err)
		}

		items, err := tx.OrderItems.ListByOrder(ctx, orderID)
		if err != nil {
			return apperrors.FromDB("order_item", err)
		}
		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.SubtotalPrice)
		}
		order.TotalPrice = total
		if err := tx.Orders.Save(ctx, order); err != nil {
			return apperrors.FromDB("order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *orderService) ListItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	if _, err := s.store.Orders.FindByID(ctx, orderID, false); err != nil {
		return nil, apperrors.FromDB("order", err)
	}
	items, err := s.store.OrderItems.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.FromDB("order_item", err)
	}
	return items, nil
}
