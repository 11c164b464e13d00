package fee

// Schedule is the fee part of the school settings.
type Schedule struct {
	ExamFee      float64 // exam body fee, per subject
	TuitionFee   float64 // per subject
	PracticalFee float64 // per practical subject
	CentreFee    float64 // fixed
	FormFee      float64 // fixed
}

// Breakdown is the itemised bill for one subject selection.
type Breakdown struct {
	Subjects     int     `json:"subjects"`
	Practicals   int     `json:"practicals"`
	ExamFee      float64 `json:"eczExamFee"`
	TuitionFee   float64 `json:"tuitionFee"`
	PracticalFee float64 `json:"practicalFee"`
	CentreFee    float64 `json:"centreFee"`
	FormFee      float64 `json:"formFee"`
	TotalSchool  float64 `json:"totalSchool"`
	TotalExam    float64 `json:"totalEcz"`
	GrandTotal   float64 `json:"grandTotal"`
}

// Calculate bills the selected subjects. Subjects unknown to cat count as non-practical.
// The centre and form fees are charged even when nothing is selected.
func Calculate(subjects []string, sched Schedule, cat *Catalogue) Breakdown {
	b := Breakdown{
		Subjects:  len(subjects),
		CentreFee: sched.CentreFee,
		FormFee:   sched.FormFee,
	}
	for _, name := range subjects {
		if cat.IsPractical(name) {
			b.Practicals++
		}
	}

	b.ExamFee = float64(b.Subjects) * sched.ExamFee
	b.TuitionFee = float64(b.Subjects) * sched.TuitionFee
	b.PracticalFee = float64(b.Practicals) * sched.PracticalFee

	b.TotalSchool = b.TuitionFee + b.PracticalFee + b.CentreFee
	b.TotalExam = b.ExamFee
	b.GrandTotal = b.TotalSchool + b.TotalExam + b.FormFee
	return b
}
