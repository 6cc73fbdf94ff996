package trade

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/domain/trade"
)

// lineTaxes recalculates line item taxes inside a unit of work
type lineTaxes struct {
	repos    appshared.Repositories
	tenantID uuid.UUID
}

// isExempt reports whether the order's customer is tax exempt. A missing
// customer is not exempt.
func (lt lineTaxes) isExempt(ctx context.Context, order *trade.SalesOrder) (bool, error) {
	if order.CustomerID == nil {
		return false, nil
	}
	c, err := lt.repos.Customers().FindByID(ctx, *order.CustomerID)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if c.TenantID != lt.tenantID {
		return false, nil
	}
	return c.TaxExempt, nil
}

// explicitRates loads the requested rates. Every id must name an active rate of the tenant.
func (lt lineTaxes) explicitRates(ctx context.Context, ids []uuid.UUID) ([]tax.Rate, error) {
	unique := dedupe(ids)
	rates, err := lt.repos.TaxRates().FindByIDs(ctx, lt.tenantID, unique)
	if err != nil {
		return nil, err
	}
	active := activeRates(rates)
	if len(active) != len(unique) {
		return nil, shared.NewValidationError("Unknown or inactive tax rate")
	}
	return active, nil
}

// currentRates returns the still active rates a line carries. A line left
// with none falls back to the tenant defaults.
func (lt lineTaxes) currentRates(ctx context.Context, line *trade.SalesOrderItem) ([]tax.Rate, error) {
	if ids := line.TaxRateIDs(); len(ids) > 0 {
		rates, err := lt.repos.TaxRates().FindByIDs(ctx, lt.tenantID, ids)
		if err != nil {
			return nil, err
		}
		if active := activeRates(rates); len(active) > 0 {
			return active, nil
		}
	}
	return lt.repos.TaxRates().FindDefaults(ctx, lt.tenantID)
}

// apply computes and attaches taxes for one line. Nil explicit ids keep the
// line's current rates.
func (lt lineTaxes) apply(ctx context.Context, order *trade.SalesOrder, lineID uuid.UUID, explicit []uuid.UUID, exempt bool) error {
	line := order.GetItem(lineID)
	if line == nil {
		return shared.NewNotFoundError("Order item")
	}

	var (
		rates []tax.Rate
		err   error
	)
	if len(explicit) > 0 {
		rates, err = lt.explicitRates(ctx, explicit)
	} else {
		rates, err = lt.currentRates(ctx, line)
	}
	if err != nil {
		return err
	}

	taxes, total := tax.Calculate(line.TaxableAmount(), rates, exempt)
	return order.SetItemTaxes(lineID, taxes, total)
}

// applyAll recalculates every line, used when the customer and with it the
// exemption changes
func (lt lineTaxes) applyAll(ctx context.Context, order *trade.SalesOrder, exempt bool) error {
	for _, id := range lineIDs(order) {
		if err := lt.apply(ctx, order, id, nil, exempt); err != nil {
			return err
		}
	}
	return nil
}

func lineIDs(order *trade.SalesOrder) []uuid.UUID {
	ids := make([]uuid.UUID, len(order.Items))
	for i := range order.Items {
		ids[i] = order.Items[i].ID
	}
	return ids
}

func activeRates(rates []tax.Rate) []tax.Rate {
	out := make([]tax.Rate, 0, len(rates))
	for _, r := range rates {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
