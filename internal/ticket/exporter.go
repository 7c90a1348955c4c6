package ticket

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/discoveryevent/ticketing-backend/internal/event"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	FormatExcel = "xlsx"
	FormatCSV   = "csv"
	FormatPDF   = "pdf"
)

var attendeeHeaders = []string{"#", "Ticket Code", "Buyer Name", "Buyer Email", "Purchased At", "Used"}

// Exporter renders an event's attendee list.
type Exporter interface {
	Supports(format string) bool
	Export(format string, ev *event.Event, tickets []Ticket) (*Export, error)
}

type attendeeExporter struct{}

func NewExporter() Exporter {
	return &attendeeExporter{}
}

func (e *attendeeExporter) Supports(format string) bool {
	switch format {
	case FormatExcel, FormatCSV, FormatPDF:
		return true
	}
	return false
}

func (e *attendeeExporter) Export(format string, ev *event.Event, tickets []Ticket) (*Export, error) {
	base := fmt.Sprintf("event_%d_attendees", ev.ID)

	switch format {
	case FormatExcel:
		data, err := e.exportExcel(ev, tickets)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: base + ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: data}, nil

	case FormatCSV:
		data, err := e.exportCSV(tickets)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: base + ".csv", ContentType: "text/csv", Data: data}, nil

	case FormatPDF:
		data, err := e.exportPDF(ev, tickets)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}
	return nil, fmt.Errorf("unsupported format for attendee export: %s", format)
}

func attendeeRow(i int, t Ticket) []string {
	return []string{
		strconv.Itoa(i + 1),
		t.TicketCode,
		t.BuyerName,
		t.BuyerEmail,
		t.PurchaseDate.UTC().Format("2006-01-02 15:04:05"),
		strconv.FormatBool(t.IsUsed),
	}
}

func (e *attendeeExporter) exportCSV(tickets []Ticket) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(attendeeHeaders); err != nil {
		return nil, err
	}
	for i, t := range tickets {
		if err := writer.Write(attendeeRow(i, t)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *attendeeExporter) exportExcel(ev *event.Event, tickets []Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attendees"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", ev.Name)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("%s %s, %s", ev.Date.String(), ev.Time.Short(), ev.Location))

	for i, header := range attendeeHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, header)
	}

	for i, t := range tickets {
		for col, v := range attendeeRow(i, t) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+5)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *attendeeExporter) exportPDF(ev *event.Event, tickets []Ticket) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(ev.Name+" - Attendees"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s at %s, %s (%d tickets)", ev.Date.String(), ev.Time.Short(), ev.Location, len(tickets))))
	pdf.Ln(14)

	widths := []float64{12, 80, 55, 70, 40, 15}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range attendeeHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, t := range tickets {
		for col, v := range attendeeRow(i, t) {
			pdf.CellFormat(widths[col], 6, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
