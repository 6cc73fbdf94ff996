package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const resourcePickList = "Pick list"

// PickListService records picking progress and completes pick lists
type PickListService struct {
	pickLists trade.PickListRepository
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
	fulfill   fulfillment
}

// NewPickListService creates a new PickListService
func NewPickListService(pickLists trade.PickListRepository, txScope appshared.TransactionScope, publisher shared.EventPublisher, planner *trade.PickPlanner) *PickListService {
	return &PickListService{
		pickLists: pickLists,
		txScope:   txScope,
		publisher: publisher,
		fulfill:   fulfillment{planner: planner},
	}
}

// Get returns a pick list with its lines
func (s *PickListService) Get(ctx context.Context, id uuid.UUID) (*PickListResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	pl, err := guard.Own[*trade.PickList](auth, resourcePickList)(s.pickLists.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToPickListResponse(pl)
	return &resp, nil
}

// RecordPick stores the picked quantity of a line. The first picker to record
// anything becomes the assignee of an unassigned list.
func (s *PickListService) RecordPick(ctx context.Context, id, lineID uuid.UUID, req RecordPickRequest) (*PickListResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	var pl *trade.PickList
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		pl, err = guard.Own[*trade.PickList](auth, resourcePickList)(repos.PickLists().FindByID(ctx, id))
		if err != nil {
			return err
		}
		if err := pl.RecordPick(lineID, req.QuantityPicked); err != nil {
			return err
		}
		if pl.AssignedTo == nil {
			userID := auth.UserID
			if err := pl.Assign(&userID); err != nil {
				return err
			}
		}
		return repos.PickLists().SaveWithLock(ctx, pl)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPickListResponse(pl)
	return &resp, nil
}

// Complete closes the pick list, deducts the picked stock and moves the order
// to picked
func (s *PickListService) Complete(ctx context.Context, id uuid.UUID) (*PickListResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var (
		pl     *trade.PickList
		events appshared.EventCollector
	)
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		pl, err = guard.Own[*trade.PickList](auth, resourcePickList)(repos.PickLists().FindByID(ctx, id))
		if err != nil {
			return err
		}
		order, err := guard.Own[*trade.SalesOrder](auth, resourceSalesOrder)(repos.SalesOrders().FindByID(ctx, pl.SalesOrderID))
		if err != nil {
			return err
		}
		if err := s.fulfill.complete(ctx, repos, auth, pl, order, &events); err != nil {
			return err
		}
		if err := repos.SalesOrders().SaveWithLock(ctx, order); err != nil {
			return err
		}
		events.Collect(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Publish(ctx, s.publisher)
	logger.L(ctx).Info("Pick list completed",
		zap.String("pick_list", pl.DisplayID),
		zap.String("order_id", pl.SalesOrderID.String()),
	)
	resp := ToPickListResponse(pl)
	return &resp, nil
}
