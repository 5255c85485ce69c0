package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/patient"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/vitals"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Vital Readings"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// 1-based worksheet rows
	tableHeaderRow = 7
	firstDataRow   = 8
)

var tableHeaders = []string{
	"S.No",
	"Timestamp",
	"Trial Device Reading (°C)",
	"Probe Reading (°C)",
	"Body Temperature (°C)",
	"Room Temperature (°C)",
	"Heart Rate (bpm)",
	"SpO2 (%)",
	"BP (mmHg)",
	"Medications Given",
}

var columnWidths = []struct {
	first, last string
	width       float64
}{
	{"A", "A", 8},
	{"B", "B", 20},
	{"C", "J", 15},
}

// Filename is the attachment name of a patient's export
func Filename(patientID string) string {
	return patientID + "_vitals.xlsx"
}

// RenderVitals builds the workbook for one patient: a demographic block in
// rows 1-5, a blank row, the table header in row 7 and one numbered row per
// reading in the order given.
func RenderVitals(p *patient.Patient, readings []vitals.Vital) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}

	details := []struct {
		label string
		value interface{}
	}{
		{"Patient ID:", p.PatientID},
		{"Age:", p.Age},
		{"Gender:", p.Gender},
		{"Weight:", pyFloat(p.Weight) + " kg"},
		{"Height:", fmt.Sprintf("%s cm (%d'%s\")", pyFloat(p.HeightCm), p.HeightFeet, pyFloat(p.HeightInches))},
	}
	for i, d := range details {
		w.set(1, i+1, d.label)
		w.set(2, i+1, d.value)
	}
	w.style("A1", fmt.Sprintf("A%d", len(details)), st.header)
	w.style("B1", fmt.Sprintf("B%d", len(details)), st.cell)

	for col, header := range tableHeaders {
		w.set(col+1, tableHeaderRow, header)
	}
	w.style(fmt.Sprintf("A%d", tableHeaderRow), fmt.Sprintf("J%d", tableHeaderRow), st.header)

	for i, v := range readings {
		row := firstDataRow + i
		w.set(1, row, i+1)
		w.setString(2, row, v.Timestamp)
		w.setFloat(3, row, v.TrialDeviceReading)
		w.setFloat(4, row, v.ProbeReading)
		w.setFloat(5, row, v.BodyTemperature)
		w.setFloat(6, row, v.RoomTemperature)
		w.setInt(7, row, v.HeartRate)
		w.setInt(8, row, v.SpO2)
		w.setString(9, row, v.BloodPressure)
		w.setString(10, row, v.Medications)
	}
	if len(readings) > 0 {
		// Styling the whole range borders the cells left empty for missing readings.
		w.style(fmt.Sprintf("A%d", firstDataRow), fmt.Sprintf("J%d", firstDataRow+len(readings)-1), st.cell)
	}

	for _, c := range columnWidths {
		if w.err == nil {
			w.err = f.SetColWidth(SheetName, c.first, c.last, c.width)
		}
	}

	if w.err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	header int
	cell   int
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "top", "right", "bottom"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "000000", Style: 1}
	}
	return borders
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"007BFF"}},
		Border: thinBorder(),
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("failed to create header style: %w", err)
	}

	cell, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("failed to create cell style: %w", err)
	}
	return sheetStyles{header: header, cell: cell}, nil
}

// sheetWriter keeps the first error so cell writes read as a flat list.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) set(col, row int, value interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(SheetName, cell, value)
}

func (w *sheetWriter) setString(col, row int, value string) {
	if value != "" {
		w.set(col, row, value)
	}
}

func (w *sheetWriter) setFloat(col, row int, value *float64) {
	if value != nil {
		w.set(col, row, *value)
	}
}

func (w *sheetWriter) setInt(col, row int, value *int) {
	if value != nil {
		w.set(col, row, *value)
	}
}

func (w *sheetWriter) style(first, last string, styleID int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(SheetName, first, last, styleID)
	}
}

// pyFloat renders v with the shortest exact digits, keeping one decimal on
// integral values: 70 -> "70.0", 6.9 -> "6.9".
func pyFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
