// Package export renders registrations into downloadable files.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/candidate"
)

type Format string

const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatSubjects Format = "subjects.xlsx"
	FormatStats    Format = "stats.xlsx"
	FormatJSON     Format = "json"
)

var Formats = []Format{FormatCSV, FormatXLSX, FormatSubjects, FormatStats, FormatJSON}

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	f := Format(core.CleanString(s, true /* lower */))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.WithMessage(ErrUnknownFormat, s)
}

// ContentType is the MIME type of files rendered in f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename names a file rendered in f on the given day.
func (f Format) Filename(day time.Time) string {
	date := day.Format("2006-01-02")
	switch f {
	case FormatCSV:
		return "GCE_Records_" + date + ".csv"
	case FormatXLSX:
		return "GCE_Registrations_" + date + ".xlsx"
	case FormatSubjects:
		return "Subject_Analysis_" + date + ".xlsx"
	case FormatStats:
		return "System_Stats_" + date + ".xlsx"
	default:
		return "GCE_Backup_" + date + ".json"
	}
}

// Source is where renderers read registrations from.
type Source interface {
	List(ctx context.Context) ([]candidate.Candidate, error)
	Stats(ctx context.Context) (candidate.Stats, error)
	SubjectTotals(ctx context.Context) (candidate.SubjectReport, error)
}

// Render writes the file of format f built from src.
func Render(ctx context.Context, w io.Writer, f Format, src Source) error {
	switch f {
	case FormatSubjects:
		rep, err := src.SubjectTotals(ctx)
		if err != nil {
			return err
		}
		wb, err := SubjectsWorkbook(rep)
		return writeWorkbook(w, wb, err)
	case FormatStats:
		st, err := src.Stats(ctx)
		if err != nil {
			return err
		}
		wb, err := StatsWorkbook(st, core.NowFunc())
		return writeWorkbook(w, wb, err)
	}

	records, err := src.List(ctx)
	if err != nil {
		return err
	}
	switch f {
	case FormatCSV:
		return CSV(w, records)
	case FormatXLSX:
		wb, err := RecordsWorkbook(records)
		return writeWorkbook(w, wb, err)
	case FormatJSON:
		return JSON(w, records)
	}
	return errors.WithMessage(ErrUnknownFormat, string(f))
}

var csvHeader = []string{
	"Index No", "Surname", "Other Names", "NRC", "Gender", "Contact",
	"Payment Status", "School Fee Paid", "ECZ Fee Paid", "Subjects", "Reg Date",
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func CSV(w io.Writer, records []candidate.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range records {
		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.Surname,
			c.OtherNames,
			c.NRC,
			string(c.Gender),
			c.Contact,
			string(c.PaymentStatus),
			money(c.FeePaidSchool),
			money(c.FeePaidEcz),
			strings.Join(c.Subjects, ", "),
			c.RegDate,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes the backup format read back by candidate.Service.Import.
func JSON(w io.Writer, records []candidate.Candidate) error {
	if records == nil {
		records = []candidate.Candidate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(records), "encoding backup")
}
