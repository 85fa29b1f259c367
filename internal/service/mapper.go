package service

import "order-management/internal/model"

// toEntity builds a new Order entity from the wire representation. The DTO's
// orderId is never copied: entity IDs are assigned by storage on insert.
// Item back-references are stamped by the repository once the order ID
// exists.
func toEntity(dto *model.OrderDTO) *model.Order {
	order := &model.Order{
		CustomerName: dto.CustomerName,
		OrderDate:    dto.OrderDate,
		Status:       dto.Status,
		TotalAmount:  dto.TotalAmount,
	}

	if dto.Items != nil {
		order.Items = itemsToEntities(dto.Items, 0)
	}

	return order
}

// itemsToEntities builds item entities from DTOs for the given order. A
// supplied itemId is preserved so a pre-existing item keeps its identity
// through an update; items without one are new.
func itemsToEntities(dtos []model.OrderItemDTO, orderID int64) []model.OrderItem {
	items := make([]model.OrderItem, len(dtos))
	for i, dto := range dtos {
		items[i] = model.OrderItem{
			OrderID:     orderID,
			ProductName: dto.ProductName,
			Quantity:    dto.Quantity,
			Price:       dto.Price,
		}
		if dto.ItemID != nil {
			items[i].ItemID = *dto.ItemID
		}
	}
	return items
}

// toDTO copies a persisted order into its wire representation. Items is
// always non-nil so responses carry an items array even when the order has
// no items.
func toDTO(order *model.Order) *model.OrderDTO {
	id := order.ID
	dto := &model.OrderDTO{
		OrderID:      &id,
		CustomerName: order.CustomerName,
		OrderDate:    order.OrderDate,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		Items:        make([]model.OrderItemDTO, len(order.Items)),
	}

	for i, item := range order.Items {
		itemID := item.ItemID
		dto.Items[i] = model.OrderItemDTO{
			ItemID:      &itemID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}

	return dto
}
