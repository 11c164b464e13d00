package candidate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/fee"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Candidate is one exam registration.
// Fees and PaymentStatus are derived on every save and never taken from input.
type Candidate struct {
	ID int64 `json:"id"`

	// personal
	Photo      string `json:"photo,omitempty"` // data URL
	Title      string `json:"title"`
	OtherNames string `json:"otherNames"`
	Surname    string `json:"surname"`
	NRC        string `json:"nrc"`
	Gender     Gender `json:"gender"`
	DOB        string `json:"dob"`
	Contact    string `json:"contact"`
	Email      string `json:"email"`
	Province   string `json:"province"`
	District   string `json:"district"`
	Address    string `json:"address"`

	// documents
	DocNRC   bool   `json:"docNrc"`
	DocSlip  bool   `json:"docSlip"`
	FileNRC  string `json:"fileNrc,omitempty"`
	FileSlip string `json:"fileSlip,omitempty"`

	// guardian
	GuardianName    string `json:"guardianName"`
	GuardianRel     string `json:"guardianRel"`
	GuardianNRC     string `json:"guardianNrc"`
	GuardianContact string `json:"guardianContact"`
	GuardianAddress string `json:"guardianAddress"`

	Subjects []string `json:"subjects"`

	// fees
	FeeSchool     float64    `json:"feeSchool"`
	FeeEcz        float64    `json:"feeEcz"`
	FeePaidSchool float64    `json:"feePaidSchool"`
	FeePaidEcz    float64    `json:"feePaidEcz"`
	FeeFormPaid   bool       `json:"feeFormPaid"`
	PaymentRef    string     `json:"paymentRef"`
	PaymentStatus fee.Status `json:"paymentStatus"`
	Query         bool       `json:"query,omitempty"` // admin override, reported as fee.StatusQuery

	// meta
	RegDate   string `json:"regDate"`   // YYYY-MM-DD
	Timestamp int64  `json:"timestamp"` // unix ms
	CreatedBy string `json:"createdBy"`
}

// FullName is the display name used by the audit trail.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.Surname + " " + c.OtherNames)
}

func (c Candidate) Payment() fee.Payment {
	return fee.Payment{School: c.FeePaidSchool, Exam: c.FeePaidEcz, FormFeePaid: c.FeeFormPaid}
}

// Bill rebuilds the stored totals, charging formFee as the form fee.
func (c Candidate) Bill(formFee float64) fee.Breakdown {
	return fee.Breakdown{
		Subjects:    len(c.Subjects),
		FormFee:     formFee,
		TotalSchool: c.FeeSchool,
		TotalExam:   c.FeeEcz,
		GrandTotal:  c.FeeSchool + c.FeeEcz + formFee,
	}
}

// Balance is what the candidate still owes, never negative.
func (c Candidate) Balance(formFee float64) float64 {
	return fee.Balance(c.Payment(), c.Bill(formFee))
}

// Registration is the submitted registration form.
type Registration struct {
	ID int64 `json:"id"` // 0 registers a new candidate

	Photo      string `json:"photo"`
	Title      string `json:"title"`
	OtherNames string `json:"otherNames"`
	Surname    string `json:"surname" validate:"required,notblank"`
	NRC        string `json:"nrc" validate:"required,notblank"`
	Gender     Gender `json:"gender" validate:"omitempty,oneof=Male Female"`
	DOB        string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Contact    string `json:"contact"`
	Email      string `json:"email" validate:"omitempty,email"`
	Province   string `json:"province"`
	District   string `json:"district"`
	Address    string `json:"address"`

	DocNRC   bool   `json:"docNrc"`
	DocSlip  bool   `json:"docSlip"`
	FileNRC  string `json:"fileNrc"`
	FileSlip string `json:"fileSlip"`

	GuardianName    string `json:"guardianName"`
	GuardianRel     string `json:"guardianRel"`
	GuardianNRC     string `json:"guardianNrc"`
	GuardianContact string `json:"guardianContact"`
	GuardianAddress string `json:"guardianAddress"`

	Subjects []string `json:"subjects" validate:"required,min=1"`

	FeePaidSchool float64 `json:"feePaidSchool" validate:"gte=0"`
	FeePaidEcz    float64 `json:"feePaidEcz" validate:"gte=0"`
	FeeFormPaid   bool    `json:"feeFormPaid"`
	PaymentRef    string  `json:"paymentRef"`
}

// Clean trims every text field and normalises the subject selection.
func (reg *Registration) Clean() {
	for _, s := range []*string{
		&reg.Title, &reg.OtherNames, &reg.Surname, &reg.NRC, &reg.DOB, &reg.Contact, &reg.Province,
		&reg.District, &reg.Address, &reg.GuardianName, &reg.GuardianRel, &reg.GuardianNRC,
		&reg.GuardianContact, &reg.GuardianAddress, &reg.PaymentRef,
	} {
		*s = core.CleanString(*s)
	}
	reg.Email = core.CleanString(reg.Email, true /* lower */)
	if reg.Gender == "" {
		reg.Gender = GenderMale
	}
	reg.Subjects = cleanSubjects(reg.Subjects)
}

func (reg *Registration) Validate(validate *validator.Validate) error {
	reg.Clean()
	return validate.Struct(reg)
}

func (reg Registration) candidate() Candidate {
	return Candidate{
		ID:              reg.ID,
		Photo:           reg.Photo,
		Title:           reg.Title,
		OtherNames:      reg.OtherNames,
		Surname:         reg.Surname,
		NRC:             reg.NRC,
		Gender:          reg.Gender,
		DOB:             reg.DOB,
		Contact:         reg.Contact,
		Email:           reg.Email,
		Province:        reg.Province,
		District:        reg.District,
		Address:         reg.Address,
		DocNRC:          reg.DocNRC,
		DocSlip:         reg.DocSlip,
		FileNRC:         reg.FileNRC,
		FileSlip:        reg.FileSlip,
		GuardianName:    reg.GuardianName,
		GuardianRel:     reg.GuardianRel,
		GuardianNRC:     reg.GuardianNRC,
		GuardianContact: reg.GuardianContact,
		GuardianAddress: reg.GuardianAddress,
		Subjects:        reg.Subjects,
		FeePaidSchool:   reg.FeePaidSchool,
		FeePaidEcz:      reg.FeePaidEcz,
		FeeFormPaid:     reg.FeeFormPaid,
		PaymentRef:      reg.PaymentRef,
	}
}

// cleanSubjects trims names, dropping blanks and duplicates while keeping order.
func cleanSubjects(subjects []string) []string {
	cleaned := make([]string, 0, len(subjects))
	seen := make(map[string]bool, len(subjects))
	for _, sub := range subjects {
		sub = core.CleanString(sub)
		if sub == "" || seen[sub] {
			continue
		}
		seen[sub] = true
		cleaned = append(cleaned, sub)
	}
	return cleaned
}

// QueryFilter narrows List. Status "" or "All" matches every record.
type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status)
}

func (qf QueryFilter) matches(c Candidate) bool {
	if qf.Status != "" && qf.Status != StatusAll && string(c.PaymentStatus) != qf.Status {
		return false
	}
	if qf.Search == "" {
		return true
	}
	term := strings.ToLower(qf.Search)
	return strings.Contains(strings.ToLower(c.Surname), term) ||
		strings.Contains(strings.ToLower(c.OtherNames), term) ||
		strings.Contains(c.NRC, qf.Search)
}

// StatusAll disables status filtering.
const StatusAll = "All"
