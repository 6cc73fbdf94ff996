package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const resourceStockCount = "Stock count"

// StockCountService runs the stock count wizard: create, start (snapshot),
// count, review, complete with optional adjustments
type StockCountService struct {
	counts    inventory.StockCountRepository
	stats     inventory.StatsReader
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
	activity  appshared.ActivityRecorder
}

// NewStockCountService creates a new StockCountService. recorder logs applied
// adjustments and may be nil.
func NewStockCountService(counts inventory.StockCountRepository, stats inventory.StatsReader, txScope appshared.TransactionScope, publisher shared.EventPublisher, recorder appshared.ActivityRecorder) *StockCountService {
	return &StockCountService{counts: counts, stats: stats, txScope: txScope, publisher: publisher, activity: recorder}
}

// Create adds a draft count over all items, a folder subtree or a location
func (s *StockCountService) Create(ctx context.Context, req CreateStockCountRequest) (*StockCountResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		sc     *inventory.StockCount
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		scope := inventory.CountScope(req.Scope)
		switch scope {
		case inventory.ScopeFolder:
			if req.ScopeID != nil {
				if _, err := guard.Own[*inventory.Folder](auth, resourceFolder)(repos.Folders().FindByID(ctx, *req.ScopeID)); err != nil {
					return err
				}
			}
		case inventory.ScopeLocation:
			if req.ScopeID != nil {
				if _, err := guard.Own[*inventory.Location](auth, resourceLocation)(repos.Locations().FindByID(ctx, *req.ScopeID)); err != nil {
					return err
				}
			}
		}

		displayID, err := repos.DisplayIDs().Next(ctx, auth.TenantID, shared.EntityStockCount)
		if err != nil {
			return err
		}
		sc, err = inventory.NewStockCount(auth.TenantID, displayID, req.Name, scope, req.ScopeID)
		if err != nil {
			return err
		}
		sc.SetCreatedBy(auth.UserID)
		sc.AssignedTo = req.AssignedTo
		sc.Notes = req.Notes
		if err := repos.StockCounts().Save(ctx, sc); err != nil {
			return err
		}
		events.Collect(sc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

// Get returns a count with its lines
func (s *StockCountService) Get(ctx context.Context, id uuid.UUID) (*StockCountResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	sc, err := guard.Own[*inventory.StockCount](auth, resourceStockCount)(s.counts.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

// List returns a page of counts without lines
func (s *StockCountService) List(ctx context.Context, req StockCountListRequest) (*shared.Paginated[StockCountResponse], error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	filter := req.ListParams.Filter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	counts, err := s.counts.FindAllForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.counts.CountForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]StockCountResponse, len(counts))
	for i := range counts {
		out[i] = ToStockCountResponse(&counts[i], false)
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ChangeStatus moves a count through the wizard. Starting snapshots the
// expected quantities; completing may apply the counted quantities to stock.
func (s *StockCountService) ChangeStatus(ctx context.Context, id uuid.UUID, req StockCountStatusRequest) (*StockCountResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	target := inventory.StockCountStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewValidationError("Unknown stock count status: " + req.Status)
	}

	var (
		sc       *inventory.StockCount
		adjusted int
		events   appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		sc, err = guard.Own[*inventory.StockCount](auth, resourceStockCount)(repos.StockCounts().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if sc.Status == target {
			return nil
		}

		switch target {
		case inventory.StockCountInProgress:
			if sc.Status == inventory.StockCountReview {
				err = sc.Recount()
				break
			}
			var lines []inventory.StockCountLine
			if lines, err = s.snapshot(ctx, repos, auth, sc); err == nil {
				err = sc.Start(lines)
			}
		case inventory.StockCountReview:
			err = sc.SubmitForReview()
		case inventory.StockCountCompleted:
			var variances []inventory.StockCountLine
			if variances, err = sc.Complete(req.ApplyAdjustments); err == nil {
				adjusted, err = s.applyAdjustments(ctx, repos, auth, sc, variances, &events)
			}
		case inventory.StockCountCancelled:
			err = sc.Cancel()
		default:
			err = shared.NewDomainError(shared.CodeInvalidTransition,
				fmt.Sprintf("Cannot change stock count status from %s to %s", sc.Status, target))
		}
		if err != nil {
			return err
		}

		if err := repos.StockCounts().SaveWithLock(ctx, sc); err != nil {
			return err
		}
		events.Collect(sc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	if adjusted > 0 {
		appshared.RecordActivity(ctx, s.activity, "stock_count", sc.ID, sc.DisplayID, activity.ActionAdjusted,
			map[string]any{"adjusted_items": adjusted, "scope": string(sc.Scope)})
	}
	logger.L(ctx).Info("Stock count status changed",
		zap.String("display_id", sc.DisplayID),
		zap.String("status", string(sc.Status)),
		zap.Int("adjusted_items", adjusted),
	)
	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

// snapshot builds one line per item in scope with the quantity expected there
func (s *StockCountService) snapshot(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, sc *inventory.StockCount) ([]inventory.StockCountLine, error) {
	switch sc.Scope {
	case inventory.ScopeLocation:
		stocks, err := repos.Locations().FindStocksAtLocation(ctx, auth.TenantID, *sc.ScopeLocationID)
		if err != nil {
			return nil, err
		}
		expected := make(map[uuid.UUID]decimal.Decimal, len(stocks))
		ids := make([]uuid.UUID, 0, len(stocks))
		for _, st := range stocks {
			expected[st.ItemID] = st.Quantity
			ids = append(ids, st.ItemID)
		}
		items, err := repos.Items().FindByIDs(ctx, auth.TenantID, ids)
		if err != nil {
			return nil, err
		}
		lines := make([]inventory.StockCountLine, 0, len(items))
		for i := range items {
			lines = append(lines, inventory.NewStockCountLine(sc.ID, &items[i], expected[items[i].ID]))
		}
		return lines, nil

	case inventory.ScopeFolder:
		folder, err := guard.Own[*inventory.Folder](auth, resourceFolder)(repos.Folders().FindByID(ctx, *sc.ScopeFolderID))
		if err != nil {
			return nil, err
		}
		items, err := repos.Items().FindInFolderTree(ctx, auth.TenantID, folder.Path)
		if err != nil {
			return nil, err
		}
		return itemLines(sc, items), nil

	default:
		items, err := repos.Items().FindInFolderTree(ctx, auth.TenantID, "")
		if err != nil {
			return nil, err
		}
		return itemLines(sc, items), nil
	}
}

func itemLines(sc *inventory.StockCount, items []inventory.Item) []inventory.StockCountLine {
	lines := make([]inventory.StockCountLine, len(items))
	for i := range items {
		lines[i] = inventory.NewStockCountLine(sc.ID, &items[i], items[i].Quantity)
	}
	return lines
}

// applyAdjustments moves stock to the counted quantities. Location counts
// correct the location row and move the item total by the same variance;
// item counts set the total and bring location rows along.
func (s *StockCountService) applyAdjustments(ctx context.Context, repos appshared.Repositories, auth *guard.AuthContext, sc *inventory.StockCount, lines []inventory.StockCountLine, events *appshared.EventCollector) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}
	reason := "Stock count " + sc.DisplayID
	adjusted := 0
	for _, line := range lines {
		item, err := repos.Items().FindByID(ctx, line.ItemID)
		if err != nil {
			if shared.IsNotFound(err) {
				// deleted since the snapshot
				continue
			}
			return adjusted, err
		}
		if item.TenantID != auth.TenantID {
			continue
		}

		if sc.Scope == inventory.ScopeLocation {
			stock, err := repos.Locations().FindStock(ctx, auth.TenantID, item.ID, *sc.ScopeLocationID)
			if err != nil {
				return adjusted, err
			}
			stock.Quantity = *line.CountedQty
			if err := repos.Locations().SaveStock(ctx, stock); err != nil {
				return adjusted, err
			}
			after := decimal.Max(item.Quantity.Add(line.Variance), decimal.Zero)
			if err := item.SetQuantity(after, reason); err != nil {
				return adjusted, err
			}
		} else {
			before := item.Quantity
			if err := item.SetQuantity(*line.CountedQty, reason); err != nil {
				return adjusted, err
			}
			if err := spreadVariance(ctx, repos, auth.TenantID, item, item.Quantity.Sub(before)); err != nil {
				return adjusted, err
			}
		}

		if err := repos.Items().SaveWithLock(ctx, item); err != nil {
			return adjusted, err
		}
		events.Collect(item)
		adjusted++
	}
	return adjusted, nil
}

// RecordCount stores the counted quantity of one line
func (s *StockCountService) RecordCount(ctx context.Context, id, lineID uuid.UUID, req RecordCountRequest) (*StockCountLineResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var line *inventory.StockCountLine
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		sc, err := guard.Own[*inventory.StockCount](auth, resourceStockCount)(repos.StockCounts().FindByID(ctx, id))
		if err != nil {
			return err
		}
		line, err = sc.RecordCount(lineID, req.CountedQuantity, auth.UserID, req.Notes)
		if err != nil {
			return err
		}
		return repos.StockCounts().SaveWithLock(ctx, sc)
	})
	if err != nil {
		return nil, err
	}

	resp := StockCountLineResponse{
		ID:          line.ID,
		ItemID:      line.ItemID,
		ItemName:    line.ItemName,
		SKU:         line.SKU,
		ExpectedQty: line.ExpectedQty,
		CountedQty:  line.CountedQty,
		Variance:    line.Variance,
		CountedBy:   line.CountedBy,
		CountedAt:   line.CountedAt,
		Notes:       line.Notes,
	}
	return &resp, nil
}

// Progress summarizes counting progress for the live indicator
func (s *StockCountService) Progress(ctx context.Context, id uuid.UUID) (*inventory.StockCountProgress, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	return s.stats.StockCountProgress(ctx, auth.TenantID, id)
}
