package service

import (
	"context"
	"time"

	"order-management/internal/model"
	"order-management/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	repo   repository.OrderRepository
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		repo:   repo,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder persists a new order aggregate in a single transaction.
func (s *orderService) CreateOrder(ctx context.Context, dto *model.OrderDTO) (*model.OrderDTO, error) {
	s.logger.Info().Str("customer_name", dto.CustomerName).Msg("creating order")

	order := toEntity(dto)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, &model.DatabaseError{Op: "create order", Err: err}
	}

	// Roll back on every failed exit path; Commit below makes this a no-op.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.repo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, &model.DatabaseError{Op: "create order", Err: err}
	}

	// Guarantee every item references its parent before persisting.
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err = s.repo.CreateOrderItems(ctx, tx, order.ID, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Int64("order_id", order.ID).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return nil, &model.DatabaseError{Op: "create order items", Err: err}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, &model.DatabaseError{Op: "create order", Err: err}
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return toDTO(order), nil
}

// GetOrderByID retrieves one order, or NotFoundError when absent.
func (s *orderService) GetOrderByID(ctx context.Context, id int64) (*model.OrderDTO, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, &model.ServiceError{Op: "get order", Err: err}
	}
	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, &model.NotFoundError{OrderID: id}
	}

	return toDTO(order), nil
}

// UpdateOrder overwrites the order's scalar fields and, when dto.Items is
// non-nil, replaces the entire item set. The existence check runs before any
// mutation, and all changes commit in one transaction.
func (s *orderService) UpdateOrder(ctx context.Context, id int64, dto *model.OrderDTO) (*model.OrderDTO, error) {
	s.logger.Info().Int64("order_id", id).Msg("updating order")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to load order for update")
		return nil, &model.DatabaseError{Op: "update order", Err: err}
	}
	if existing == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found for update")
		return nil, &model.NotFoundError{OrderID: id}
	}

	existing.CustomerName = dto.CustomerName
	existing.Status = dto.Status
	existing.OrderDate = dto.OrderDate
	existing.TotalAmount = dto.TotalAmount

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, &model.DatabaseError{Op: "update order", Err: err}
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.repo.UpdateOrder(ctx, tx, existing); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order")
		return nil, &model.DatabaseError{Op: "update order", Err: err}
	}

	if dto.Items != nil {
		// Full replacement: the stored set is discarded and the new set
		// inserted inside the same transaction. Supplied item IDs survive.
		newItems := itemsToEntities(dto.Items, id)
		if err = s.repo.ReplaceOrderItems(ctx, tx, id, newItems); err != nil {
			s.logger.Error().
				Err(err).
				Int64("order_id", id).
				Int("item_count", len(newItems)).
				Msg("failed to replace order items")
			return nil, &model.DatabaseError{Op: "replace order items", Err: err}
		}
		existing.Items = newItems
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to commit transaction")
		return nil, &model.DatabaseError{Op: "update order", Err: err}
	}

	s.logger.Info().Int64("order_id", id).Msg("order updated successfully")

	return toDTO(existing), nil
}

// DeleteOrder removes the order and, via the storage cascade, all its items.
func (s *orderService) DeleteOrder(ctx context.Context, id int64) error {
	s.logger.Info().Int64("order_id", id).Msg("deleting order")

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to load order for delete")
		return &model.DatabaseError{Op: "delete order", Err: err}
	}
	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found for delete")
		return &model.NotFoundError{OrderID: id}
	}

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return &model.DatabaseError{Op: "delete order", Err: err}
	}

	s.logger.Info().Int64("order_id", id).Msg("order deleted successfully")

	return nil
}

// ListOrders returns orders matching the optional filters.
func (s *orderService) ListOrders(ctx context.Context, status *string, startDate, endDate *time.Time) ([]model.OrderDTO, error) {
	s.logger.Debug().
		Interface("status", status).
		Interface("start_date", startDate).
		Interface("end_date", endDate).
		Msg("listing orders")

	var (
		orders []model.Order
		err    error
	)
	if status == nil && startDate == nil && endDate == nil {
		orders, err = s.repo.GetAll(ctx)
	} else {
		orders, err = s.repo.FindByFilters(ctx, status, startDate, endDate)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, &model.ServiceError{Op: "list orders", Err: err}
	}

	dtos := make([]model.OrderDTO, len(orders))
	for i := range orders {
		dtos[i] = *toDTO(&orders[i])
	}

	return dtos, nil
}
