package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Receipt describes the content of a booking payment receipt.
type Receipt struct {
	ReceiptNumber string
	IssuedAt      string
	TenantName    string
	ApartmentName string
	Level         string
	TargetLabel   string
	AmountUSD     float64
	PaymentRef    string
}

// ReceiptPDFExporter renders payment receipts as PDF documents.
type ReceiptPDFExporter struct{}

// NewReceiptPDFExporter constructs a receipt exporter.
func NewReceiptPDFExporter() *ReceiptPDFExporter {
	return &ReceiptPDFExporter{}
}

// Render creates the receipt PDF bytes.
func (e *ReceiptPDFExporter) Render(r Receipt) ([]byte, error) {
	if r.ReceiptNumber == "" {
		return nil, fmt.Errorf("receipt number required")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "ROOMY PAYMENT RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Receipt %s", r.ReceiptNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued %s", r.IssuedAt), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Tenant", r.TenantName},
		{"Apartment", r.ApartmentName},
		{"Reservation level", strings.Title(r.Level)},
		{"Reserved unit", r.TargetLabel},
		{"Payment reference", r.PaymentRef},
		{"Amount", fmt.Sprintf("USD %.2f", r.AmountUSD)},
	}

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 8, row[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(125, 8, row[1], "1", 1, "", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
