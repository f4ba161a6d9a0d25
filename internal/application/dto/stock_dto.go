package dto

import "github.com/shopspring/decimal"

// ReceiveRequest recepción de unidades a un lote.
type ReceiveRequest struct {
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExpiryDate string          `json:"expiry_date"` // YYYY-MM-DD; vacío = sin vencimiento
	Note       string          `json:"note"`
}

// AdjustRequest ajuste manual de un lote a cantidad exacta.
type AdjustRequest struct {
	BatchID     int64           `json:"batch_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Note        string          `json:"note"`
}

// LoginRequest autenticación con la contraseña compartida del dashboard.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse token de sesión.
type LoginResponse struct {
	Token string `json:"token"`
}
