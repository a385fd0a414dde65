package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. StockCount en nil usa
// el default del esquema (0); CategoryID/SupplierID en nil dejan la
// referencia sin poblar.
type CreateProductRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	StockCount *int64          `json:"stock_count" validate:"omitempty,min=0"`
	CategoryID *int64          `json:"category_id"`
	SupplierID *int64          `json:"supplier_id"`
}

// UpdateProductRequest entrada para actualizar un producto. created_at es
// inmutable y no se expone aquí. ClearCategory/ClearSupplier limpian la
// referencia (distinto de no enviarla).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price         *decimal.Decimal `json:"price"`
	StockCount    *int64           `json:"stock_count" validate:"omitempty,min=0"`
	CategoryID    *int64           `json:"category_id"`
	SupplierID    *int64           `json:"supplier_id"`
	ClearCategory bool             `json:"clear_category,omitempty"`
	ClearSupplier bool             `json:"clear_supplier,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	StockCount int64           `json:"stock_count"`
	CategoryID *int64          `json:"category_id,omitempty"`
	SupplierID *int64          `json:"supplier_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
