package entity

// Supplier representa un proveedor de medicamentos.
type Supplier struct {
	ID           string
	Name         string
	LeadTimeDays int // tiempo de entrega en días; base del nivel de reorden (ROL = lead time × dosis diaria)
}
