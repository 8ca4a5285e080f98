package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock se convierte en el stock inicial.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
	MinStock int64           `json:"min_stock"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	MinStock *int64           `json:"min_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int64           `json:"stock"`
	MinStock     int64           `json:"min_stock"`
	InitialStock int64           `json:"initial_stock"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
