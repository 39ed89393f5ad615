package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// TaxRate IVA fijo del 18% aplicado al subtotal del carrito.
// El impuesto por producto queda fuera del motor del carrito.
var TaxRate = decimal.RequireFromString("0.18")

// Summary totales agregados del carrito.
type Summary struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int64           `json:"item_count"` // paquetes, no unidades elementales
}

// Summarize calcula subtotal, impuesto, total y conteo de paquetes
// sobre una lista de líneas. Función pura; no muta las líneas.
func Summarize(items []entity.CartItem) Summary {
	subtotal := decimal.Zero
	var count int64
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
		count += it.Quantity
	}
	tax := subtotal.Mul(TaxRate)
	return Summary{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		ItemCount: count,
	}
}
