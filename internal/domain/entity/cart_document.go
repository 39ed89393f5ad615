package entity

import "time"

// AnonymousIdentity identidad centinela para compradores sin sesión.
const AnonymousIdentity = "anonymous"

// CartDocument representa el carrito persistido de una identidad.
// Es siempre el documento completo: las escrituras parciales no existen.
type CartDocument struct {
	Identity  string     `json:"identity"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone devuelve una copia profunda del documento (las líneas son valores).
func (d *CartDocument) Clone() *CartDocument {
	if d == nil {
		return nil
	}
	items := make([]CartItem, len(d.Items))
	copy(items, d.Items)
	return &CartDocument{Identity: d.Identity, Items: items, UpdatedAt: d.UpdatedAt}
}
