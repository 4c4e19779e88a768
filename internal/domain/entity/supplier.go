package entity

import "time"

// Supplier proveedor de artículos. TaxID es opcional pero único cuando se informa.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	Contact   string
	Note      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
