// Package pdf renders the spiritual visits report as a landscape PDF.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/yatrik/yatra/internal/visit"
)

// ErrNoVisits is returned when there is nothing to export.
var ErrNoVisits = errors.New("no visits to export")

var (
	colHeads  = []string{"#", "Name", "Place", "Date", "Visit Type", "Mantra", "Purpose", "Family Members"}
	colWidths = []float64{12, 25, 30, 25, 20, 35, 40, 45}
	colAligns = []string{"C", "L", "L", "C", "C", "L", "L", "L"}
)

const (
	marginLeft = 10
	lineHeight = 4
	headHeight = 8
	minRowH    = 6
)

// Report writes a landscape PDF report of the given visits for one devotee.
func Report(w io.Writer, devotee string, visits []*visit.Visit) error {
	if len(visits) == 0 {
		return ErrNoVisits
	}
	if devotee == "" {
		devotee = "Devotee"
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 25)
	pdf.AliasNbPages("")
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.SetXY(0, pageH-14)
		pdf.CellFormat(pageW, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	drawHeader(pdf, pageW, devotee, visits)
	drawTableHead(pdf)

	tableW := totalWidth()
	breakY := pageH - 30
	for i, v := range visits {
		familyLines := familyDetails(v)
		rowH := float64(len(familyLines)) * lineHeight
		if rowH < minRowH {
			rowH = minRowH
		}
		if pdf.GetY()+rowH > breakY {
			pdf.AddPage()
			drawTableHead(pdf)
		}

		y := pdf.GetY()
		if i%2 == 1 {
			pdf.SetFillColor(240, 249, 255)
			pdf.Rect(marginLeft, y, tableW, rowH, "F")
		}
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetLineWidth(0.1)

		cells := []string{
			fmt.Sprintf("%d", i+1),
			truncate(devotee, 15),
			truncate(v.Place, 20),
			orDash(v.Date),
			v.VisitType.Label(),
			truncate(string(v.Mantra), 25),
			truncate(v.PurposeText(), 30),
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 8)
		x := float64(marginLeft)
		for c, text := range cells {
			pdf.Rect(x, y, colWidths[c], rowH, "D")
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[c], rowH, text, "", 0, colAligns[c], false, 0, "")
			x += colWidths[c]
		}

		famW := colWidths[len(colWidths)-1]
		pdf.Rect(x, y, famW, rowH, "D")
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(x, y+1)
		for _, line := range familyLines {
			pdf.CellFormat(famW, lineHeight, line, "", 2, "L", false, 0, "")
		}

		pdf.SetXY(marginLeft, y+rowH)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(251, 191, 36)
	pdf.SetXY(0, pageH-22)
	pdf.CellFormat(pageW, 6, "Sat Saheb", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// totalWidth is the combined width of all table columns.
func totalWidth() float64 {
	var w float64
	for _, c := range colWidths {
		w += c
	}
	return w
}

// drawHeader paints the greeting banner, title, and summary line on the
// first page.
func drawHeader(pdf *fpdf.Fpdf, pageW float64, devotee string, visits []*visit.Visit) {
	pdf.SetFillColor(251, 191, 36)
	pdf.Rect(0, 0, pageW, 20, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 6)
	pdf.CellFormat(pageW, 8, "Satguru Rampal Ji Maharaj ki Jay", "", 0, "C", false, 0, "")

	pdf.SetTextColor(59, 130, 246)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(0, 20)
	pdf.CellFormat(pageW, 7, "Spiritual Visits Report", "", 0, "C", false, 0, "")

	pdf.SetTextColor(75, 85, 99)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(0, 27)
	generated := time.Now().Format("Monday, January 2, 2006")
	pdf.CellFormat(pageW, 5, "Generated: "+generated, "", 0, "C", false, 0, "")

	family := 0
	for _, v := range visits {
		if v.VisitType == visit.Family {
			family++
		}
	}
	individual := len(visits) - family

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(15, 33)
	pdf.CellFormat(0, 5, "Devotee: "+devotee, "", 0, "L", false, 0, "")
	pdf.SetXY(0, 33)
	pdf.CellFormat(pageW, 5, fmt.Sprintf("Total Visits: %d", len(visits)), "", 0, "C", false, 0, "")
	pdf.SetXY(0, 33)
	pdf.CellFormat(pageW-15, 5, fmt.Sprintf("Family: %d | Individual: %d", family, individual), "", 0, "R", false, 0, "")

	pdf.SetXY(marginLeft, 42)
}

// drawTableHead paints the column header row at the current Y position.
func drawTableHead(pdf *fpdf.Fpdf) {
	if pdf.GetY() < 10 {
		pdf.SetY(10)
	}
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetX(marginLeft)
	for c, head := range colHeads {
		pdf.CellFormat(colWidths[c], headHeight, head, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(headHeight)
}

// familyDetails formats the numbered member lines shown in the last
// column, or a dash for individual visits.
func familyDetails(v *visit.Visit) []string {
	if v.VisitType != visit.Family || len(v.FamilyMembers) == 0 {
		return []string{"-"}
	}
	lines := make([]string, 0, len(v.FamilyMembers))
	for i, m := range v.FamilyMembers {
		name := orDash(m.Name)
		rel := orDash(string(m.Relationship))
		mantra := orDash(string(m.Mantra))
		lines = append(lines, fmt.Sprintf("%d. %s - %s (%s)", i+1, name, rel, mantra))
	}
	return lines
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
