package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypePURCHASE          = "PURCHASE"           // entrada por compra
	MovementTypeSALE              = "SALE"               // salida por venta
	MovementTypeADJUSTMENT        = "ADJUSTMENT"         // ajuste manual (delta con signo)
	MovementTypeCONSIGNMENTOUT    = "CONSIGNMENT_OUT"    // salida por despacho de consignación
	MovementTypeCONSIGNMENTRETURN = "CONSIGNMENT_RETURN" // retorno de consignación cancelada
	MovementTypeOTHER             = "OTHER"
)

// RefType identifica el tipo de documento que originó un movimiento.
// Conjunto cerrado: la referencia polimórfica (reference_type, reference_id)
// siempre apunta a uno de estos documentos.
type RefType string

const (
	RefOrder       RefType = "order"
	RefSale        RefType = "sale"
	RefPurchase    RefType = "purchase"
	RefConsignment RefType = "consignment"
	RefAdjustment  RefType = "adjustment"
)

// MovementRef referencia tipada al documento que causó el movimiento.
type MovementRef struct {
	Type RefType
	ID   string
}

// SaleRef, PurchaseRef, ConsignmentRef, AdjustmentRef construyen referencias del tipo correspondiente.
func SaleRef(id string) MovementRef        { return MovementRef{Type: RefSale, ID: id} }
func PurchaseRef(id string) MovementRef    { return MovementRef{Type: RefPurchase, ID: id} }
func ConsignmentRef(id string) MovementRef { return MovementRef{Type: RefConsignment, ID: id} }
func AdjustmentRef(id string) MovementRef  { return MovementRef{Type: RefAdjustment, ID: id} }

// Movement representa un movimiento de inventario: un delta de cantidad en
// unidades base (positivo entra, negativo sale) contra un (producto, ubicación).
// Es el registro de auditoría: se crea una vez y nunca se modifica ni borra.
// El Balance es un agregado derivado que debe reconciliar con la suma de movimientos.
type Movement struct {
	ID         string
	ProductID  string
	LocationID string
	Type       string
	Quantity   int64 // unidades base, con signo
	Ref        MovementRef
	Note       string
	CreatedAt  time.Time
	CreatedBy  string // UserID
}
