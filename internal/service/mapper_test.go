package service

import (
	"testing"
	"time"

	"order-management/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEntity_IgnoresSuppliedOrderID(t *testing.T) {
	suppliedID := int64(99)
	dto := &model.OrderDTO{
		OrderID:      &suppliedID,
		CustomerName: "John Doe",
		OrderDate:    model.NewDate(2025, time.January, 1),
		Status:       model.StatusNew,
		TotalAmount:  decimal.RequireFromString("150.75"),
		Items: []model.OrderItemDTO{
			{ProductName: "Laptop", Quantity: 1, Price: decimal.RequireFromString("150.75")},
		},
	}

	order := toEntity(dto)

	assert.Zero(t, order.ID)
	assert.Equal(t, "John Doe", order.CustomerName)
	assert.Equal(t, model.StatusNew, order.Status)
	require.Len(t, order.Items, 1)
	assert.Zero(t, order.Items[0].ItemID)
	assert.Equal(t, "Laptop", order.Items[0].ProductName)
}

func TestToEntity_NilItems(t *testing.T) {
	dto := &model.OrderDTO{
		CustomerName: "Jane Smith",
		OrderDate:    model.NewDate(2025, time.February, 2),
		Status:       model.StatusProcessing,
		TotalAmount:  decimal.RequireFromString("10.00"),
	}

	order := toEntity(dto)

	assert.Nil(t, order.Items)
}

func TestItemsToEntities_PreservesSuppliedItemIDs(t *testing.T) {
	existingID := int64(5)
	dtos := []model.OrderItemDTO{
		{ItemID: &existingID, ProductName: "Keyboard", Quantity: 2, Price: decimal.RequireFromString("29.95")},
		{ProductName: "Mouse", Quantity: 1, Price: decimal.RequireFromString("30.00")},
	}

	items := itemsToEntities(dtos, 42)

	require.Len(t, items, 2)
	assert.Equal(t, int64(5), items[0].ItemID)
	assert.Equal(t, int64(42), items[0].OrderID)
	assert.Zero(t, items[1].ItemID)
	assert.Equal(t, int64(42), items[1].OrderID)
}

// A persisted order must map back to a DTO carrying identical field values.
func TestMapper_RoundTrip(t *testing.T) {
	dto := &model.OrderDTO{
		CustomerName: "John Doe",
		OrderDate:    model.NewDate(2025, time.January, 1),
		Status:       model.StatusNew,
		TotalAmount:  decimal.RequireFromString("150.75"),
		Items: []model.OrderItemDTO{
			{ProductName: "Laptop", Quantity: 1, Price: decimal.RequireFromString("150.75")},
		},
	}

	order := toEntity(dto)
	order.ID = 7
	order.Items[0].ItemID = 70
	order.Items[0].OrderID = 7

	back := toDTO(order)

	require.NotNil(t, back.OrderID)
	assert.Equal(t, int64(7), *back.OrderID)
	assert.Equal(t, dto.CustomerName, back.CustomerName)
	assert.True(t, dto.OrderDate.Equal(back.OrderDate.Time))
	assert.Equal(t, dto.Status, back.Status)
	assert.True(t, dto.TotalAmount.Equal(back.TotalAmount))
	require.Len(t, back.Items, 1)
	require.NotNil(t, back.Items[0].ItemID)
	assert.Equal(t, int64(70), *back.Items[0].ItemID)
	assert.Equal(t, dto.Items[0].ProductName, back.Items[0].ProductName)
	assert.Equal(t, dto.Items[0].Quantity, back.Items[0].Quantity)
	assert.True(t, dto.Items[0].Price.Equal(back.Items[0].Price))
}

// An order without items still maps to a response with an items array.
func TestToDTO_NilItemsBecomeEmptySlice(t *testing.T) {
	order := &model.Order{
		ID:           1,
		CustomerName: "Jane Smith",
		OrderDate:    model.NewDate(2025, time.March, 3),
		Status:       model.StatusShipped,
		TotalAmount:  decimal.RequireFromString("20.00"),
	}

	dto := toDTO(order)

	require.NotNil(t, dto.Items)
	assert.Empty(t, dto.Items)
}
