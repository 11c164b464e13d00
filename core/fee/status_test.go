package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatus(t *testing.T) {
	bill := Calculate([]string{"Mathematics", "Biology"}, testSchedule, DefaultCatalogue)

	tests := []struct {
		name        string
		pay         Payment
		wantStatus  Status
		wantBalance float64
	}{
		{name: "nothing paid", pay: Payment{}, wantStatus: StatusPending, wantBalance: 1150},
		{name: "fully paid", pay: Payment{School: 700, Exam: 400, FormFeePaid: true}, wantStatus: StatusFullyPaid},
		{name: "school part only", pay: Payment{School: 300}, wantStatus: StatusPartial, wantBalance: 850},
		{name: "form fee only", pay: Payment{FormFeePaid: true}, wantStatus: StatusPartial, wantBalance: 1100},
		{name: "fees paid but not form", pay: Payment{School: 700, Exam: 400}, wantStatus: StatusPartial, wantBalance: 50},
		{name: "overpaid", pay: Payment{School: 2000, Exam: 400, FormFeePaid: true}, wantStatus: StatusFullyPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, ResolveStatus(tt.pay, bill))
			assert.Equal(t, tt.wantBalance, Balance(tt.pay, bill))
		})
	}
}

func TestResolveStatus_monotonic(t *testing.T) {
	rank := map[Status]int{StatusPending: 0, StatusPartial: 1, StatusFullyPaid: 2}
	bill := Calculate([]string{"Mathematics", "Biology"}, testSchedule, DefaultCatalogue)
	amounts := []float64{0, 1, 300, 699, 700, 1000}
	examAmounts := []float64{0, 1, 399, 400, 500}

	for _, school := range amounts {
		for _, exam := range examAmounts {
			for _, form := range []bool{false, true} {
				base := rank[ResolveStatus(Payment{School: school, Exam: exam, FormFeePaid: form}, bill)]
				more := []Payment{
					{School: school + 100, Exam: exam, FormFeePaid: form},
					{School: school, Exam: exam + 100, FormFeePaid: form},
					{School: school, Exam: exam, FormFeePaid: true},
				}
				for _, pay := range more {
					if got := rank[ResolveStatus(pay, bill)]; got < base {
						t.Errorf("status went backward from %+v to %+v", Payment{School: school, Exam: exam, FormFeePaid: form}, pay)
					}
				}
			}
		}
	}
}

func TestResolveStatus_neverQuery(t *testing.T) {
	bill := Calculate(nil, testSchedule, DefaultCatalogue)
	for _, pay := range []Payment{{}, {School: 1}, {School: 200, Exam: 0, FormFeePaid: true}} {
		assert.NotEqual(t, StatusQuery, ResolveStatus(pay, bill))
	}
	assert.True(t, StatusQuery.Valid())
	assert.False(t, Status("Paid").Valid())
}
