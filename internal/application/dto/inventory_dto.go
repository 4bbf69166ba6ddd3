package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	DeltaQty   int64  `json:"delta_qty"` // con signo, unidades base
	Reason     string `json:"reason,omitempty"`
}

// BalanceResponse saldo de stock de un producto en una ubicación.
type BalanceResponse struct {
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Available  int64     `json:"available"`
	Reserved   int64     `json:"reserved"`
	Free       int64     `json:"free"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MovementResponse movimiento de inventario.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	LocationID    string    `json:"location_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdjustStockResponse saldo actualizado más el movimiento generado.
type AdjustStockResponse struct {
	Balance  BalanceResponse  `json:"balance"`
	Movement MovementResponse `json:"movement"`
}

// ReconciliationResponse compara la suma de movimientos de un (producto,
// ubicación) contra el saldo esperado: el stock en bodega (Available +
// Reserved) más lo ya consumido desde reservas, que descontó stock en dos
// pasos (reserva y consumo) con un solo movimiento registrado.
type ReconciliationResponse struct {
	ProductID          string `json:"product_id"`
	LocationID         string `json:"location_id"`
	MovementSum        int64  `json:"movement_sum"`
	OnHand             int64  `json:"on_hand"`
	ConsumedFromOrders int64  `json:"consumed_from_orders"`
	Discrepancy        int64  `json:"discrepancy"`
	IsReconciled       bool   `json:"is_reconciled"`
}
