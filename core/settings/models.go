package settings

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/fee"
)

// Settings is the editable fee schedule and school identity.
type Settings struct {
	FeeSubject   float64 `json:"feeSubject" validate:"gte=0"`
	FeeTuition   float64 `json:"feeTuition" validate:"gte=0"`
	FeePractical float64 `json:"feePractical" validate:"gte=0"`
	FeeCentre    float64 `json:"feeCentre" validate:"gte=0"`
	FeeForm      float64 `json:"feeForm" validate:"gte=0"`
	SchoolName   string  `json:"schoolName" validate:"required,notblank"`
}

func Default() Settings {
	return Settings{
		FeeSubject:   200,
		FeeTuition:   200,
		FeePractical: 100,
		FeeCentre:    200,
		FeeForm:      50,
		SchoolName:   "Katunda Secondary School",
	}
}

func (s Settings) Schedule() fee.Schedule {
	return fee.Schedule{
		ExamFee:      s.FeeSubject,
		TuitionFee:   s.FeeTuition,
		PracticalFee: s.FeePractical,
		CentreFee:    s.FeeCentre,
		FormFee:      s.FeeForm,
	}
}

func (s *Settings) Validate(validate *validator.Validate) error {
	s.SchoolName = core.CleanString(s.SchoolName)
	return validate.Struct(s)
}
