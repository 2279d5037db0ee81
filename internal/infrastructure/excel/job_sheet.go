// Package excel reads and writes the job import spreadsheet.
package excel

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
)

var _ ports.JobSheet = (*JobSheet)(nil)

const sheetName = "Jobs"

// Columns of the import sheet, in template order.
const (
	colTitle       = "title"
	colDescription = "description"
	colLocation    = "location"
	colJobType     = "job_type"
	colSalaryMin   = "salary_min"
	colSalaryMax   = "salary_max"
	colCurrency    = "currency"
	colSkills      = "skills"
	colStatus      = "status"
)

var columns = []struct {
	name  string
	width float64
}{
	{colTitle, 30},
	{colDescription, 50},
	{colLocation, 20},
	{colJobType, 14},
	{colSalaryMin, 12},
	{colSalaryMax, 12},
	{colCurrency, 10},
	{colSkills, 40},
	{colStatus, 10},
}

var exampleRow = []any{
	"Backend Engineer", "Build and run our hiring APIs.", "Remote", "full-time",
	"60000", "90000", "USD", "Go, PostgreSQL, Docker", "open",
}

// JobSheet is the excelize implementation of ports.JobSheet.
type JobSheet struct{}

// NewJobSheet builds the sheet codec.
func NewJobSheet() *JobSheet { return &JobSheet{} }

// Template returns an xlsx with the header row and one example row.
func (s *JobSheet) Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, c := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, c.name); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, c.width); err != nil {
			return nil, fmt.Errorf("column width %s: %w", name, err)
		}
	}
	if err := f.SetSheetRow(sheetName, "A2", &exampleRow); err != nil {
		return nil, fmt.Errorf("example row: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Read decodes the first sheet. Columns are matched by header name so their
// order is free; rows are numbered as the spreadsheet shows them.
func (s *JobSheet) Read(r io.Reader) ([]dto.JobImportRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colTitle, colDescription} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	out := make([]dto.JobImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		cell := func(name string) string {
			j, ok := index[name]
			if !ok || j >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[j])
		}
		out = append(out, decodeRow(i+2, cell))
	}
	return out, nil
}

func decodeRow(n int, cell func(string) string) dto.JobImportRow {
	row := dto.JobImportRow{Row: n}
	job := dto.JobRequest{
		Title:       cell(colTitle),
		Description: cell(colDescription),
		Location:    cell(colLocation),
		JobType:     strings.ToLower(cell(colJobType)),
		Currency:    strings.ToUpper(cell(colCurrency)),
		Status:      strings.ToLower(cell(colStatus)),
		Skills:      splitSkills(cell(colSkills)),
	}
	var err error
	if job.SalaryMin, err = parseAmount(cell(colSalaryMin)); err != nil {
		row.Error = fmt.Sprintf("salary_min: %v", err)
	} else if job.SalaryMax, err = parseAmount(cell(colSalaryMax)); err != nil {
		row.Error = fmt.Sprintf("salary_max: %v", err)
	}
	row.Job = job
	return row
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	return d, nil
}

func splitSkills(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
