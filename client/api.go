// Package client implements the browsing-session side of the ordering flow:
// table binding, the local cart, the reconnecting event socket, the customer
// order tracker and the staff queue view.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/raynaldi/tabletap/models"
)

var ErrNotFound = errors.New("not found")

// API is a thin wrapper over the REST surface.
type API struct {
	BaseURL string
	HTTP    *http.Client
	Token   string // bearer token for staff endpoints
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *API) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, env.Message)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %s", method, path, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// GetTableByNumber validates a table number against the active-table list.
func (a *API) GetTableByNumber(ctx context.Context, number int) (*models.Table, error) {
	var table models.Table
	if err := a.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/tables/%d", number), nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// BindSessionTable reports the table binding to the server side. Callers treat
// failure as non-critical.
func (a *API) BindSessionTable(ctx context.Context, number int, sessionKey string) (string, error) {
	body := map[string]interface{}{"table_number": number}
	if sessionKey != "" {
		body["session_key"] = sessionKey
	}

	var resp struct {
		SessionKey string `json:"session_key"`
	}
	if err := a.doJSON(ctx, http.MethodPost, "/api/session/table", body, &resp); err != nil {
		return "", err
	}
	return resp.SessionKey, nil
}

// OrderLine is one checkout line item.
type OrderLine struct {
	MenuItemID          uint    `json:"menu_item_id"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	Subtotal            float64 `json:"subtotal"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// OrderRequest is the checkout payload.
type OrderRequest struct {
	TableNumber *int        `json:"table_number,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	TotalAmount float64     `json:"total_amount"`
	Items       []OrderLine `json:"items"`
}

// CreateOrder places an order and returns the server's rendition of it,
// generated order number included.
func (a *API) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	var order models.Order
	if err := a.doJSON(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber fetches one order with its items for tracking.
func (a *API) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := a.doJSON(ctx, http.MethodGet, "/api/orders/"+orderNumber, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches the staff order list, optionally filtered by status.
func (a *API) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	path := "/api/staff/orders"
	if status != "" {
		path += "?status=" + status
	}

	var orders []models.Order
	if err := a.doJSON(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus advances one order to the target status.
func (a *API) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/api/staff/orders/%d/status", orderID)
	if err := a.doJSON(ctx, http.MethodPatch, path, map[string]string{"status": status}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
