package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de pedido de una línea del carrito.
const (
	OrderTypeUnit = "unit" // unidad suelta
	OrderTypeBulk = "bulk" // paquete al por mayor heredado (precio bulk del producto)
	OrderTypeTier = "tier" // presentación con nombre elegida explícitamente
)

// CartItem representa una línea del carrito de un comprador.
// La identidad de la línea es CartKey (producto + tipo de pedido + presentación);
// dos agregados con la misma clave se fusionan incrementando Quantity.
type CartItem struct {
	ID                string          `json:"id"`
	CartKey           string          `json:"cart_key"`
	ProductID         string          `json:"product_id"`
	DisplayName       string          `json:"display_name"`
	OrderType         string          `json:"order_type"` // unit | bulk | tier
	QuantityTierLabel string          `json:"quantity_tier_label,omitempty"`
	Quantity          int64           `json:"quantity"`            // paquetes comprados
	PiecesPerPackage  int64           `json:"pieces_per_package"`  // unidades elementales por paquete (1 en unit)
	ActualQuantity    int64           `json:"actual_quantity"`     // Quantity × PiecesPerPackage
	PackagePrice      decimal.Decimal `json:"package_price"`       // precio cobrado por paquete
	PricePerPiece     decimal.Decimal `json:"price_per_piece"`     // precio canónico por unidad elemental
	UnitLabel         string          `json:"unit_label"`
	OriginalUnitLabel string          `json:"original_unit_label"`
	SupplierID        string          `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name"`
	Category          string          `json:"category"`
	AddedAt           time.Time       `json:"added_at"`
}

// CartKeyFor construye la clave compuesta de una línea.
// La presentación solo participa cuando el tipo es tier.
func CartKeyFor(productID, orderType, tierLabel string) string {
	if orderType == OrderTypeTier && tierLabel != "" {
		return fmt.Sprintf("%s|%s|%s", productID, orderType, tierLabel)
	}
	return fmt.Sprintf("%s|%s", productID, orderType)
}

// LineTotal calcula el total de la línea con la regla canónica:
// con multiplicador (>1 unidades por paquete) manda el precio por unidad elemental;
// sin multiplicador manda el precio por paquete.
func (it CartItem) LineTotal() decimal.Decimal {
	if it.PiecesPerPackage > 1 {
		return it.PricePerPiece.Mul(decimal.NewFromInt(it.ActualQuantity))
	}
	return it.PackagePrice.Mul(decimal.NewFromInt(it.Quantity))
}
