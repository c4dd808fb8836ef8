package timeline

import (
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/shopspring/decimal"
)

type Stats struct {
	Total            int                              `json:"total"`
	ByStatus         map[domain.OpportunityStatus]int `json:"byStatus"`
	GuaranteeTotal   decimal.Decimal                  `json:"guaranteeTotal"`
	GuaranteeAverage decimal.Decimal                  `json:"guaranteeAverage"`
	ConfirmedValue   decimal.Decimal                  `json:"confirmedValue"`
	Earliest         *domain.Date                     `json:"earliest,omitempty"`
	Latest           *domain.Date                     `json:"latest,omitempty"`
}

// ComputeStats rolls the list up in a single pass. The guarantee average only
// counts opportunities that carry a guarantee.
func ComputeStats(ops []domain.Opportunity) Stats {
	st := Stats{
		ByStatus:         make(map[domain.OpportunityStatus]int, len(domain.AllStatuses)),
		GuaranteeTotal:   decimal.Zero,
		GuaranteeAverage: decimal.Zero,
		ConfirmedValue:   decimal.Zero,
	}
	for _, s := range domain.AllStatuses {
		st.ByStatus[s] = 0
	}

	withGuarantee := 0
	for _, o := range ops {
		st.Total++
		st.ByStatus[o.Status]++

		if g := o.FinancialOffer.Guarantee; g != nil {
			withGuarantee++
			st.GuaranteeTotal = st.GuaranteeTotal.Add(*g)
			if o.Status == domain.StatusConfirmed {
				st.ConfirmedValue = st.ConfirmedValue.Add(*g)
			}
		}

		if o.ProposedDate.IsZero() {
			continue
		}
		d := o.ProposedDate
		if st.Earliest == nil || d.Before(*st.Earliest) {
			st.Earliest = &d
		}
		if st.Latest == nil || d.After(*st.Latest) {
			st.Latest = &d
		}
	}
	if withGuarantee > 0 {
		st.GuaranteeAverage = st.GuaranteeTotal.DivRound(decimal.NewFromInt(int64(withGuarantee)), 2)
	}
	return st
}
