// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/taibuivan/fruitlog/internal/platform/constants"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

// Page geometry in millimetres (A4 portrait, 10 mm margins).
const (
	receiptMargin = 10.0
	receiptWidth  = 190.0
	receiptRowH   = 7.0
)

// receiptColumns are the widths of the article table; they add up to receiptWidth.
var receiptColumns = []float64{70, 25, 25, 35, 35}

// Receipt renders the delivery receipt of a truck visible to principal.
func (service *Service) Receipt(context context.Context, principal *sec.Principal, id string) ([]byte, error) {
	truck, err := service.GetTruck(context, principal, id)
	if err != nil {
		return nil, err
	}

	rendered, err := RenderReceipt(truck, service.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("logistics_render_receipt_failed: %w", err)
	}

	return rendered, nil
}

/*
RenderReceipt draws the delivery receipt of truck as a PDF.

Description: A header with the truck's provenance and workflow dates, then
one table row per article with the value computed by [LineValue] and a
grand total.
*/
func RenderReceipt(truck *Truck, printedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(receiptMargin, receiptMargin, receiptMargin)
	pdf.SetTitle("Delivery receipt "+truck.ID, true)
	pdf.SetCreator(constants.AppName, true)
	pdf.AddPage()

	// Core fonts are cp1252; accented article names go through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawReceiptHeader(pdf, tr, truck, printedAt)
	total := drawReceiptArticles(pdf, tr, truck.Articles)
	drawReceiptTotal(pdf, total)

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func drawReceiptHeader(pdf *fpdf.Fpdf, tr func(string) string, truck *Truck, printedAt time.Time) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(receiptWidth, 10, "Delivery receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	fields := [][2]string{
		{"Truck", truck.ID},
		{"Hangar", truck.Hangar},
		{"Origin", truck.Origin},
		{"Driver", fmt.Sprintf("%s (%s)", truck.Driver, truck.Phone)},
		{"Status", string(truck.Status)},
		{"Registered", fmt.Sprintf("%s by %s", formatReceiptTime(&truck.RegisteredAt), truck.RegisteredBy)},
		{"Arrived", formatReceiptTime(truck.ArrivedAt)},
		{"Unloaded", formatReceiptTime(truck.UnloadedAt)},
	}
	if truck.UnloadedBy != "" {
		fields = append(fields, [2]string{"Unloaded by", truck.UnloadedBy})
	}

	for _, field := range fields {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, field[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(receiptWidth-35, 6, tr(field[1]), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(receiptWidth, 6, "Printed "+formatReceiptTime(&printedAt), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func drawReceiptArticles(pdf *fpdf.Fpdf, tr func(string) string, articles []Article) float64 {
	headers := []string{"Article", "Quantity", "Unit", "Unit price", "Value"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(receiptColumns[i], receiptRowH, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	total := 0.0
	for _, article := range articles {
		value := LineValue(article, nil)
		total += value

		unitPrice := "-"
		if article.UnitPrice != nil {
			unitPrice = formatAmount(*article.UnitPrice)
		}

		pdf.CellFormat(receiptColumns[0], receiptRowH, tr(article.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(receiptColumns[1], receiptRowH, formatAmount(article.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(receiptColumns[2], receiptRowH, tr(article.Unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(receiptColumns[3], receiptRowH, unitPrice, "1", 0, "R", false, 0, "")
		pdf.CellFormat(receiptColumns[4], receiptRowH, formatAmount(value), "1", 1, "R", false, 0, "")
	}

	return total
}

func drawReceiptTotal(pdf *fpdf.Fpdf, total float64) {
	labelWidth := receiptWidth - receiptColumns[len(receiptColumns)-1]

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, receiptRowH, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(receiptColumns[len(receiptColumns)-1], receiptRowH, formatAmount(total), "1", 1, "R", false, 0, "")
}

func formatReceiptTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
