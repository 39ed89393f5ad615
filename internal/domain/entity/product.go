package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa la descripción de un producto del catálogo (materia prima).
// El catálogo es de solo lectura para el motor del carrito; nunca se muta aquí.
// QuantityPrices mapea una presentación con nombre ("50 unidades", "5kg") a su
// precio absoluto por paquete.
type Product struct {
	ID              string
	SupplierID      string
	SupplierName    string
	Name            string
	Category        string
	UnitPrice       decimal.Decimal  // precio por unidad suelta
	BulkPrice       *decimal.Decimal // precio por paquete al por mayor (nil = usar UnitPrice)
	UnitLabel       string           // etiqueta de la unidad suelta (ej: "unidad", "kg")
	BulkUnitLabel   string           // etiqueta del paquete al por mayor (ej: "bulto")
	MinBulkQuantity int64            // unidades mínimas por paquete al por mayor (0 = 1)
	QuantityPrices  map[string]decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
