package services

import (
	"bytes"
	"context"
	"fmt"

	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
	"bookandgo/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking invoices as PDF.
type DocsService struct {
	Bookings  BookingService
	RequestID string
}

func (s DocsService) BookingInvoice(ctx context.Context, actor domain.Actor, bookingID int64) ([]byte, string, error) {
	booking, payment, err := s.Bookings.Get(ctx, actor, bookingID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "invoice", "booking_number="+booking.BookingNumber)

	pdf, err := buildInvoicePDF(booking, payment)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render invoice", Err: err}
	}
	return pdf, "invoice-" + booking.BookingNumber + ".pdf", nil
}

func buildInvoicePDF(b models.Booking, p models.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+b.BookingNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	line("Booking number", b.BookingNumber)
	line("Status", string(b.Status))
	line("Tour date", b.BookingDate)
	if b.BookingTime != "" {
		line("Tour time", b.BookingTime)
	}
	line("Customer", b.CustomerName)
	line("Email", b.CustomerEmail)
	line("Phone", b.CustomerPhone)
	line("People", fmt.Sprintf("%d", b.NumberOfPeople))
	pdf.Ln(6)

	amount := func(label string, v string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(120, 7, label, "T", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, v, "T", 1, "R", false, 0, "")
	}

	amount("Price per person", utils.FormatAmount(b.PricePerPerson))
	amount("Subtotal", utils.FormatAmount(b.Subtotal))
	amount("Discount", "-"+utils.FormatAmount(b.Discount))
	amount("Tax", utils.FormatAmount(b.Tax))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "TOTAL ("+p.Currency+")", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, utils.FormatAmount(b.TotalPrice), "T", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Payment "+p.TransactionID+" via "+p.Method+" - "+string(p.Status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
