package fee

// Status is the payment state of a registration.
type Status string

const (
	StatusFullyPaid Status = "Fully Paid"
	StatusPartial   Status = "Partial Payment"
	StatusPending   Status = "Pending"
	// StatusQuery is never derived from payments; it is set by an administrator.
	StatusQuery Status = "Query"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusFullyPaid, StatusPartial, StatusPending, StatusQuery}

func (s Status) Valid() bool {
	switch s {
	case StatusFullyPaid, StatusPartial, StatusPending, StatusQuery:
		return true
	}
	return false
}

// Payment is what a candidate has paid so far.
type Payment struct {
	School      float64
	Exam        float64
	FormFeePaid bool
}

// ResolveStatus derives the status of pay against the required totals in b.
func ResolveStatus(pay Payment, b Breakdown) Status {
	switch {
	case pay.School >= b.TotalSchool && pay.Exam >= b.TotalExam && pay.FormFeePaid:
		return StatusFullyPaid
	case pay.School > 0 || pay.Exam > 0 || pay.FormFeePaid:
		return StatusPartial
	default:
		return StatusPending
	}
}

// Balance is what remains due on b after pay, never negative.
func Balance(pay Payment, b Breakdown) float64 {
	paid := pay.School + pay.Exam
	if pay.FormFeePaid {
		paid += b.FormFee
	}
	if bal := b.GrandTotal - paid; bal > 0 {
		return bal
	}
	return 0
}
