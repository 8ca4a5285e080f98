package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSaleRequest body para POST /api/products/:id/sale.
type RegisterSaleRequest struct {
	Quantity int64 `json:"quantity"`
}

// RegisterEntryRequest body para POST /api/products/:id/entry.
type RegisterEntryRequest struct {
	Quantity int64           `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

// MovementResponse registro de auditoría de una entrada o venta.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Kind      string          `json:"kind"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Name      string          `json:"name"`
	Date      time.Time       `json:"date"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReconciliationResponse resultado de la conciliación de stock.
type ReconciliationResponse struct {
	ProductID    string `json:"product_id"`
	InitialStock int64  `json:"initial_stock"`
	Entries      int64  `json:"entries"`
	Sales        int64  `json:"sales"`
	Expected     int64  `json:"expected_stock"`
	Actual       int64  `json:"actual_stock"`
	Balanced     bool   `json:"balanced"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto
// que está en o por debajo de su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	IdealStock         int64           `json:"ideal_stock"`          // ceil(MinStock * 1.5)
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
