package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineTax is one tax applied to a sales order line. Name and percent are
// snapshots so later edits to the rate do not rewrite history.
type LineTax struct {
	ID            uuid.UUID       `json:"id"`
	TaxRateID     uuid.UUID       `json:"tax_rate_id"`
	TaxName       string          `json:"tax_name"`
	TaxCode       string          `json:"tax_code"`
	Percent       decimal.Decimal `json:"rate"`
	IsCompound    bool            `json:"is_compound"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Calculate applies rates to a taxable amount. Simple taxes apply to the
// taxable amount, compound taxes to the taxable amount plus all simple taxes.
// Exempt lines keep one zero-amount row per rate. Amounts round to cents.
func Calculate(taxable decimal.Decimal, rates []Rate, exempt bool) ([]LineTax, decimal.Decimal) {
	taxable = taxable.Round(2)
	lines := make([]LineTax, 0, len(rates))
	simpleTotal := decimal.Zero

	for _, r := range rates {
		if r.IsCompound {
			continue
		}
		amount := percentOf(taxable, r.Percent, exempt)
		simpleTotal = simpleTotal.Add(amount)
		lines = append(lines, newLineTax(r, taxable, amount))
	}

	compoundBase := taxable.Add(simpleTotal)
	total := simpleTotal
	for _, r := range rates {
		if !r.IsCompound {
			continue
		}
		amount := percentOf(compoundBase, r.Percent, exempt)
		total = total.Add(amount)
		lines = append(lines, newLineTax(r, compoundBase, amount))
	}
	return lines, total
}

func percentOf(base, percent decimal.Decimal, exempt bool) decimal.Decimal {
	if exempt {
		return decimal.Zero
	}
	return base.Mul(percent).Div(hundred).Round(2)
}

func newLineTax(r Rate, base, amount decimal.Decimal) LineTax {
	return LineTax{
		ID:            uuid.New(),
		TaxRateID:     r.ID,
		TaxName:       r.Name,
		TaxCode:       r.Code,
		Percent:       r.Percent,
		IsCompound:    r.IsCompound,
		TaxableAmount: base,
		TaxAmount:     amount,
		CreatedAt:     time.Now(),
	}
}
