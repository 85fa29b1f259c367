package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"order-management/internal/handler"
	"order-management/internal/model"
	"order-management/internal/repository"
	"order-management/internal/router"
	"order-management/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	return router.New(orderHandler, testAPIKey, logger)
}

// doJSON issues an authenticated JSON request against the test server.
func doJSON(t *testing.T, server http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func createTestOrder(t *testing.T, server http.Handler, payload map[string]any) model.OrderDTO {
	t.Helper()

	w := doJSON(t, server, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.OrderDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotNil(t, created.OrderID)
	return created
}

func orderPayload(customer, date, status string, total float64) map[string]any {
	return map[string]any{
		"customerName": customer,
		"orderDate":    date,
		"status":       status,
		"totalAmount":  total,
		"items": []map[string]any{
			{"productName": "Widget", "quantity": 2, "price": 19.99},
			{"productName": "Gadget", "quantity": 1, "price": 5.49},
		},
	}
}

func TestOrderAPI_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("POST then GET round trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created := createTestOrder(t, server, orderPayload("Alice", "2025-03-15", "NEW", 45.47))

		assert.Equal(t, "Alice", created.CustomerName)
		assert.Equal(t, model.StatusNew, created.Status)
		assert.Equal(t, "2025-03-15", created.OrderDate.String())
		require.Len(t, created.Items, 2)
		for _, item := range created.Items {
			require.NotNil(t, item.ItemID)
			assert.Positive(t, *item.ItemID)
		}

		w := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/orders/%d", *created.OrderID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got model.OrderDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, *created.OrderID, *got.OrderID)
		assert.Equal(t, "Alice", got.CustomerName)
		require.Len(t, got.Items, 2)
	})

	t.Run("POST without items", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		payload := orderPayload("Bob", "2025-03-16", "PROCESSING", 10.00)
		delete(payload, "items")

		created := createTestOrder(t, server, payload)
		assert.Empty(t, created.Items)
	})

	t.Run("POST with invalid payload returns field map", func(t *testing.T) {
		payload := map[string]any{
			"customerName": "",
			"orderDate":    "2025-03-15",
			"status":       "BOGUS",
			"totalAmount":  -5,
		}

		w := doJSON(t, server, http.MethodPost, "/api/orders", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var fields map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&fields))
		assert.Contains(t, fields, "customerName")
		assert.Contains(t, fields, "status")
		assert.Contains(t, fields, "totalAmount")
	})

	t.Run("POST with malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte("{not json")))
		req.Header.Set("X-API-Key", testAPIKey)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET missing order returns 404", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/999999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, model.ErrLabelNotFound, errResp.Error)
		assert.Contains(t, errResp.Message, "999999")
	})

	t.Run("GET with non-numeric ID returns 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderAPI_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("PUT replaces the item set", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created := createTestOrder(t, server, orderPayload("Alice", "2025-03-15", "NEW", 45.47))
		keptID := *created.Items[0].ItemID

		update := map[string]any{
			"customerName": "Alice Updated",
			"orderDate":    "2025-03-18",
			"status":       "SHIPPED",
			"totalAmount":  99.99,
			"items": []map[string]any{
				{"itemId": keptID, "productName": "Widget v2", "quantity": 5, "price": 9.99},
				{"productName": "Doohickey", "quantity": 1, "price": 3.50},
			},
		}

		w := doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/orders/%d", *created.OrderID), update)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated model.OrderDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "Alice Updated", updated.CustomerName)
		assert.Equal(t, model.StatusShipped, updated.Status)
		require.Len(t, updated.Items, 2)

		// The replacement is full, not a merge: Gadget is gone, the kept
		// item keeps its ID.
		names := make(map[string]model.OrderItemDTO)
		for _, item := range updated.Items {
			names[item.ProductName] = item
		}
		assert.NotContains(t, names, "Gadget")
		require.Contains(t, names, "Widget v2")
		assert.Equal(t, keptID, *names["Widget v2"].ItemID)

		// The replacement is persisted.
		w = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/orders/%d", *created.OrderID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got model.OrderDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got.Items, 2)
	})

	t.Run("PUT without items leaves stored items untouched", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created := createTestOrder(t, server, orderPayload("Alice", "2025-03-15", "NEW", 45.47))

		update := map[string]any{
			"customerName": "Alice",
			"orderDate":    "2025-03-15",
			"status":       "DELIVERED",
			"totalAmount":  45.47,
		}

		w := doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/orders/%d", *created.OrderID), update)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated model.OrderDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, model.StatusDelivered, updated.Status)
		assert.Len(t, updated.Items, 2)
	})

	t.Run("PUT missing order returns 404", func(t *testing.T) {
		update := orderPayload("Ghost", "2025-03-15", "NEW", 10.00)

		w := doJSON(t, server, http.MethodPut, "/api/orders/999999", update)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderAPI_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("DELETE removes the order and its items", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		created := createTestOrder(t, server, orderPayload("Alice", "2025-03-15", "NEW", 45.47))
		path := fmt.Sprintf("/api/orders/%d", *created.OrderID)

		w := doJSON(t, server, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, server, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var count int
		err := testDB.Pool.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM order_items WHERE order_id = $1", *created.OrderID).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)

		// Repeated delete is a 404, same as any other missing order.
		w = doJSON(t, server, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderAPI_List(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	createTestOrder(t, server, orderPayload("Alice", "2025-03-10", "NEW", 45.47))
	createTestOrder(t, server, orderPayload("Bob", "2025-03-20", "SHIPPED", 45.47))
	createTestOrder(t, server, orderPayload("Carol", "2025-04-05", "SHIPPED", 45.47))

	listLen := func(t *testing.T, path string) int {
		t.Helper()
		w := doJSON(t, server, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var orders []model.OrderDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
		return len(orders)
	}

	t.Run("No filters returns all orders", func(t *testing.T) {
		assert.Equal(t, 3, listLen(t, "/api/orders"))
	})

	t.Run("Status filter", func(t *testing.T) {
		assert.Equal(t, 2, listLen(t, "/api/orders?status=SHIPPED"))
		assert.Equal(t, 1, listLen(t, "/api/orders?status=NEW"))
		assert.Equal(t, 0, listLen(t, "/api/orders?status=CANCELLED"))
	})

	t.Run("Date range filter", func(t *testing.T) {
		assert.Equal(t, 2, listLen(t, "/api/orders?startDate=2025-03-01&endDate=2025-03-31"))
	})

	t.Run("Single date bound is ignored", func(t *testing.T) {
		assert.Equal(t, 3, listLen(t, "/api/orders?startDate=2025-03-01"))
		assert.Equal(t, 3, listLen(t, "/api/orders?endDate=2025-03-31"))
	})

	t.Run("Status and date range combined", func(t *testing.T) {
		assert.Equal(t, 1, listLen(t, "/api/orders?status=SHIPPED&startDate=2025-03-01&endDate=2025-03-31"))
	})

	t.Run("Malformed date returns 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders?startDate=15-03-2025&endDate=2025-03-31", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderAPI_Auth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("Request without API key is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Health endpoint needs no API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Responses carry a request ID", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
