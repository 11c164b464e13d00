package export

import (
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gce/core/candidate"
)

const (
	SheetCandidates = "Candidates"
	SheetSubjects   = "Subject Analysis"
	SheetStats      = "System Statistics"
)

// sheet accumulates rows for a single-sheet workbook; the first error sticks.
type sheet struct {
	file *excelize.File
	name string
	row  int
	err  error
}

func newSheet(name string) *sheet {
	f := excelize.NewFile()
	sh := &sheet{file: f, name: name}
	sh.err = f.SetSheetName(f.GetSheetName(0), name)
	return sh
}

func (sh *sheet) header(cols ...interface{}) {
	sh.append(cols...)
	if sh.err != nil {
		return
	}
	var style int
	if style, sh.err = sh.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); sh.err == nil {
		sh.err = sh.file.SetRowStyle(sh.name, sh.row, sh.row, style)
	}
}

func (sh *sheet) append(cols ...interface{}) {
	if sh.err != nil {
		return
	}
	sh.row++
	var cell string
	if cell, sh.err = excelize.CoordinatesToCellName(1, sh.row); sh.err == nil {
		sh.err = sh.file.SetSheetRow(sh.name, cell, &cols)
	}
}

func (sh *sheet) widths(first, last string, width float64) {
	if sh.err == nil {
		sh.err = sh.file.SetColWidth(sh.name, first, last, width)
	}
}

func (sh *sheet) done() (*excelize.File, error) {
	if sh.err != nil {
		_ = sh.file.Close()
		return nil, sh.err
	}
	return sh.file, nil
}

func writeWorkbook(w io.Writer, f *excelize.File, err error) error {
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// RecordsWorkbook lays out one row per registration on the Candidates sheet.
func RecordsWorkbook(records []candidate.Candidate) (*excelize.File, error) {
	sh := newSheet(SheetCandidates)
	sh.header(
		"Index No", "Surname", "Other Names", "NRC", "Gender", "DOB", "Contact", "Address",
		"District", "Province", "Guardian Name", "Guardian Contact", "Subjects", "Status",
		"School Fee Required", "School Fee Paid", "ECZ Fee Required", "ECZ Fee Paid",
		"Form Fee Paid", "Reg Date",
	)
	for _, c := range records {
		sh.append(
			c.ID, c.Surname, c.OtherNames, c.NRC, string(c.Gender), c.DOB, c.Contact, c.Address,
			c.District, c.Province, c.GuardianName, c.GuardianContact, strings.Join(c.Subjects, ", "),
			string(c.PaymentStatus), c.FeeSchool, c.FeePaidSchool, c.FeeEcz, c.FeePaidEcz,
			yesNo(c.FeeFormPaid), c.RegDate,
		)
	}
	return sh.done()
}

// SubjectsWorkbook lists entries per subject, ending with the total row.
func SubjectsWorkbook(rep candidate.SubjectReport) (*excelize.File, error) {
	sh := newSheet(SheetSubjects)
	sh.header("Subject Name", "Total Candidates")
	for _, row := range rep.Rows() {
		sh.append(row.Subject, row.Count)
	}
	sh.widths("A", "A", 30)
	sh.widths("B", "B", 20)
	return sh.done()
}

// StatsWorkbook lays the dashboard figures out as Metric/Value rows.
func StatsWorkbook(st candidate.Stats, generated time.Time) (*excelize.File, error) {
	sh := newSheet(SheetStats)
	sh.header("Metric", "Value")
	sh.append("Total Registered Candidates", st.Total)
	sh.append("Total School Fees Collected", st.SchoolFees)
	sh.append("Total ECZ Fees Paid", st.EczFees)
	sh.append("Total Form Fees Collected", st.FormFees)
	sh.append("Total Fees Collected", st.TotalFees)
	sh.append("Total Balance Due", st.BalanceDue)
	sh.append("Total Fully Paid", st.FullyPaid)
	sh.append("Total Partial Payment", st.Partial)
	sh.append("Total Pending/Query", st.Pending)
	sh.append("Generated On", generated.Format("2006-01-02 15:04:05"))
	sh.widths("A", "A", 30)
	sh.widths("B", "B", 20)
	return sh.done()
}
