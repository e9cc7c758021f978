package pricing

import (
	"math"

	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

// interestFreeMax is the highest installment count carried without interest.
const interestFreeMax = 6

// installments builds the 1..12 schedule for a cash price. Counts up to six
// split the price evenly; beyond that the per-installment amount follows the
// Price-table amortization formula at the given monthly rate.
func installments(price, monthlyRate float64) []model.Installment {
	out := make([]model.Installment, 0, 12)

	for k := 1; k <= 12; k++ {
		if k <= interestFreeMax {
			out = append(out, model.Installment{
				Count:    k,
				Amount:   round2(price / float64(k)),
				Total:    round2(price),
				Interest: 0,
			})
			continue
		}

		factor := monthlyRate * math.Pow(1+monthlyRate, float64(k)) /
			(math.Pow(1+monthlyRate, float64(k)) - 1)
		amount := price * factor
		total := amount * float64(k)

		out = append(out, model.Installment{
			Count:    k,
			Amount:   round2(amount),
			Total:    round2(total),
			Interest: round2(total - price),
		})
	}

	return out
}
