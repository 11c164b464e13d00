package candidate

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/fee"
)

// Stats summarises collections and payment states over every record.
type Stats struct {
	Total      int     `json:"total"`
	SchoolFees float64 `json:"schoolFees"` // collected
	EczFees    float64 `json:"eczFees"`    // collected
	FormFees   float64 `json:"formFees"`   // collected
	TotalFees  float64 `json:"totalFees"`
	BalanceDue float64 `json:"balanceDue"`
	FullyPaid  int     `json:"fullyPaid"`
	Partial    int     `json:"partial"`
	Pending    int     `json:"pending"` // Pending and Query
	Today      int     `json:"today"`
	ThisMonth  int     `json:"thisMonth"`
	Districts  int     `json:"districts"`
}

// ComputeStats aggregates records, valuing each paid form fee at formFee.
func ComputeStats(records []Candidate, formFee float64) Stats {
	today := core.Today()
	month := today[:7]
	districts := make(map[string]bool)

	st := Stats{Total: len(records)}
	for _, c := range records {
		st.SchoolFees += c.FeePaidSchool
		st.EczFees += c.FeePaidEcz
		if c.FeeFormPaid {
			st.FormFees += formFee
		}
		st.BalanceDue += c.Balance(formFee)

		switch c.PaymentStatus {
		case fee.StatusFullyPaid:
			st.FullyPaid++
		case fee.StatusPartial:
			st.Partial++
		case fee.StatusPending, fee.StatusQuery:
			st.Pending++
		}

		if c.RegDate == today {
			st.Today++
		}
		if strings.HasPrefix(c.RegDate, month) {
			st.ThisMonth++
		}
		if d := core.CleanString(c.District); d != "" {
			districts[d] = true
		}
	}
	st.TotalFees = st.SchoolFees + st.EczFees + st.FormFees
	st.Districts = len(districts)
	return st
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	s, err := svc.settings.Get(ctx)
	if err != nil {
		return Stats{}, err
	}
	records, err := svc.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records, s.FeeForm), nil
}

// TotalEntriesLabel names the row summing every subject count.
const TotalEntriesLabel = "TOTAL EXAM ENTRIES"

type SubjectTotal struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// SubjectReport counts entries per subject, highest first.
type SubjectReport struct {
	Subjects []SubjectTotal `json:"subjects"`
	Total    int            `json:"total"`
}

// Rows returns the subject rows followed by the total row.
func (rep SubjectReport) Rows() []SubjectTotal {
	rows := make([]SubjectTotal, 0, len(rep.Subjects)+1)
	rows = append(rows, rep.Subjects...)
	return append(rows, SubjectTotal{Subject: TotalEntriesLabel, Count: rep.Total})
}

// ComputeSubjectTotals counts entries per subject. Every catalogue subject is listed,
// subjects missing from the catalogue are appended, and ties keep catalogue order.
func ComputeSubjectTotals(records []Candidate, cat *fee.Catalogue) SubjectReport {
	var rep SubjectReport
	pos := make(map[string]int)
	for _, sub := range cat.Subjects() {
		pos[sub.Name] = len(rep.Subjects)
		rep.Subjects = append(rep.Subjects, SubjectTotal{Subject: sub.Name})
	}
	for _, c := range records {
		for _, name := range c.Subjects {
			i, ok := pos[name]
			if !ok {
				i = len(rep.Subjects)
				pos[name] = i
				rep.Subjects = append(rep.Subjects, SubjectTotal{Subject: name})
			}
			rep.Subjects[i].Count++
			rep.Total++
		}
	}
	sort.SliceStable(rep.Subjects, func(i, j int) bool {
		return rep.Subjects[i].Count > rep.Subjects[j].Count
	})
	if rep.Subjects == nil {
		rep.Subjects = []SubjectTotal{}
	}
	return rep
}

func (svc *Service) SubjectTotals(ctx context.Context) (SubjectReport, error) {
	records, err := svc.List(ctx)
	if err != nil {
		return SubjectReport{}, err
	}
	return ComputeSubjectTotals(records, svc.catalogue), nil
}
