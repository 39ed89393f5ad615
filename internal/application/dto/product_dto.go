package dto

import "github.com/shopspring/decimal"

// ProductResponse descriptor de producto del catálogo (solo lectura).
type ProductResponse struct {
	ID              string                     `json:"id"`
	SupplierID      string                     `json:"supplier_id"`
	SupplierName    string                     `json:"supplier_name"`
	Name            string                     `json:"name"`
	Category        string                     `json:"category"`
	UnitPrice       decimal.Decimal            `json:"unit_price"`
	BulkPrice       *decimal.Decimal           `json:"bulk_price,omitempty"`
	UnitLabel       string                     `json:"unit_label"`
	BulkUnitLabel   string                     `json:"bulk_unit_label,omitempty"`
	MinBulkQuantity int64                      `json:"min_bulk_quantity"`
	QuantityPrices  map[string]decimal.Decimal `json:"quantity_prices,omitempty"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageRequest       `json:"page"`
}
