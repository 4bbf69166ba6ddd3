package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/comercio-pro/internal/domain"
)

// ReceiptLine línea del recibo de venta.
type ReceiptLine struct {
	Description string
	Qty         int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ReceiptData datos planos para renderizar el recibo de una venta.
type ReceiptData struct {
	SaleID       string
	Date         string
	CustomerName string
	LocationName string
	PaymentTerms string
	Lines        []ReceiptLine
	Subtotal     decimal.Decimal
	GrandTotal   decimal.Decimal
}

// ReceiptGenerator puerto para renderizar el recibo en PDF.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data ReceiptData) ([]byte, error)
}

// Receipt arma los datos del recibo de una venta y los renderiza en PDF.
func (uc *SaleUseCase) Receipt(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.ListLines(saleID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(sale.CustomerID)
	if err != nil {
		return nil, err
	}
	loc, err := uc.locationRepo.GetByID(sale.LocationID)
	if err != nil {
		return nil, err
	}

	data := ReceiptData{
		SaleID:       sale.ID,
		Date:         sale.CreatedAt.Format("02/01/2006 15:04"),
		PaymentTerms: sale.PaymentTerms,
		Subtotal:     sale.Subtotal,
		GrandTotal:   sale.GrandTotal,
	}
	if customer != nil {
		data.CustomerName = customer.Name
	}
	if loc != nil {
		data.LocationName = loc.Name
	}
	for _, l := range lines {
		desc := l.PresentationID
		if pres, err := uc.presRepo.GetByID(l.PresentationID); err == nil && pres != nil {
			desc = pres.Name
		}
		data.Lines = append(data.Lines, ReceiptLine{
			Description: desc,
			Qty:         l.SaleQty,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return uc.receipts.GenerateReceiptPDF(ctx, data)
}
