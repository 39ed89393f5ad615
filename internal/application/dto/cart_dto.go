package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddItemRequest agrega un producto al carrito.
// order_type: unit | bulk | tier. Con quantity_tier_label el tipo pasa a tier.
type AddItemRequest struct {
	ProductID         string `json:"product_id"`
	Quantity          int64  `json:"quantity"`
	OrderType         string `json:"order_type"`
	QuantityTierLabel string `json:"quantity_tier_label"`
}

// UpdateQuantityRequest fija la cantidad de paquetes de una línea.
// Cantidad ≤ 0 elimina la línea.
type UpdateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// CartItemResponse una línea del carrito.
type CartItemResponse struct {
	ID                string          `json:"id"`
	CartKey           string          `json:"cart_key"`
	ProductID         string          `json:"product_id"`
	DisplayName       string          `json:"display_name"`
	OrderType         string          `json:"order_type"`
	QuantityTierLabel string          `json:"quantity_tier_label,omitempty"`
	Quantity          int64           `json:"quantity"`
	PiecesPerPackage  int64           `json:"pieces_per_package"`
	ActualQuantity    int64           `json:"actual_quantity"`
	PackagePrice      decimal.Decimal `json:"package_price"`
	PricePerPiece     decimal.Decimal `json:"price_per_piece"`
	UnitLabel         string          `json:"unit_label"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	Category          string          `json:"category,omitempty"`
	LineTotal         decimal.Decimal `json:"line_total"`
	AddedAt           time.Time       `json:"added_at"`
}

// CartSummaryResponse totales agregados del carrito.
type CartSummaryResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int64           `json:"item_count"`
}

// CartResponse carrito completo: líneas más resumen.
type CartResponse struct {
	Identity string              `json:"identity"`
	Items    []CartItemResponse  `json:"items"`
	Summary  CartSummaryResponse `json:"summary"`
}

// RemoveItemResponse resultado de eliminar una línea.
type RemoveItemResponse struct {
	Removed bool   `json:"removed"`
	CartKey string `json:"cart_key"`
}
