package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/guard"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// FolderService manages the folder tree
type FolderService struct {
	folders   inventory.FolderRepository
	stats     inventory.StatsReader
	txScope   appshared.TransactionScope
	publisher shared.EventPublisher
}

// NewFolderService creates a new FolderService
func NewFolderService(folders inventory.FolderRepository, stats inventory.StatsReader, txScope appshared.TransactionScope, publisher shared.EventPublisher) *FolderService {
	return &FolderService{folders: folders, stats: stats, txScope: txScope, publisher: publisher}
}

// Create adds a folder at the root or under a parent of the same tenant
func (s *FolderService) Create(ctx context.Context, req CreateFolderRequest) (*FolderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	var parent *inventory.Folder
	if req.ParentID != nil {
		parent, err = guard.Own[*inventory.Folder](auth, "Parent folder")(s.folders.FindByID(ctx, *req.ParentID))
		if err != nil {
			return nil, err
		}
	}
	folder, err := inventory.NewFolder(auth.TenantID, req.Name, parent)
	if err != nil {
		return nil, err
	}
	folder.SetCreatedBy(auth.UserID)
	folder.SetAppearance(req.Color, req.SortOrder)
	if err := s.folders.Save(ctx, folder); err != nil {
		return nil, err
	}

	var events appshared.EventCollector
	events.Add(inventory.NewFolderCreatedEvent(folder))
	events.Publish(ctx, s.publisher)
	resp := ToFolderResponse(folder)
	return &resp, nil
}

// GetByID returns a folder
func (s *FolderService) GetByID(ctx context.Context, id uuid.UUID) (*FolderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	folder, err := guard.Own[*inventory.Folder](auth, resourceFolder)(s.folders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	resp := ToFolderResponse(folder)
	return &resp, nil
}

// List returns folders, optionally only the children of one parent
func (s *FolderService) List(ctx context.Context, req FolderListRequest) ([]FolderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.OrderBy = ""
	filter.OrderDir = ""
	filter.Search = req.Search
	switch req.ParentID {
	case "":
	case "root":
		filter.Filters["parent_id"] = "root"
	default:
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, shared.NewValidationError("Invalid parent id")
		}
		filter.Filters["parent_id"] = parentID
	}
	folders, err := s.folders.FindAllForTenant(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]FolderResponse, len(folders))
	for i := range folders {
		out[i] = ToFolderResponse(&folders[i])
	}
	return out, nil
}

// Update renames a folder or changes its appearance
func (s *FolderService) Update(ctx context.Context, id uuid.UUID, req UpdateFolderRequest) (*FolderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}
	folder, err := guard.Own[*inventory.Folder](auth, resourceFolder)(s.folders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := folder.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Color != nil || req.SortOrder != nil {
		color, order := folder.Color, folder.SortOrder
		if req.Color != nil {
			color = *req.Color
		}
		if req.SortOrder != nil {
			order = *req.SortOrder
		}
		folder.SetAppearance(color, order)
	}
	if err := s.folders.Save(ctx, folder); err != nil {
		return nil, err
	}
	resp := ToFolderResponse(folder)
	return &resp, nil
}

// Move re-parents a folder and rewrites the paths of its whole subtree in
// one transaction. A folder cannot move under its own descendant.
func (s *FolderService) Move(ctx context.Context, id uuid.UUID, req MoveFolderRequest) (*FolderResponse, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return nil, err
	}

	var folder *inventory.Folder
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		folder, err = guard.Own[*inventory.Folder](auth, resourceFolder)(repos.Folders().FindByID(ctx, id))
		if err != nil {
			return err
		}
		var parent *inventory.Folder
		if req.ParentID != nil {
			parent, err = guard.Own[*inventory.Folder](auth, "Parent folder")(repos.Folders().FindByID(ctx, *req.ParentID))
			if err != nil {
				return err
			}
		}
		oldPath, err := folder.MoveTo(parent)
		if err != nil {
			return err
		}
		if err := repos.Folders().ReplacePathPrefix(ctx, auth.TenantID, oldPath, folder.Path); err != nil {
			return err
		}
		return repos.Folders().Save(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Folder moved",
		zap.String("folder_id", folder.ID.String()),
		zap.String("path", folder.Path),
	)
	resp := ToFolderResponse(folder)
	return &resp, nil
}

// Delete removes an empty folder
func (s *FolderService) Delete(ctx context.Context, id uuid.UUID) error {
	auth, err := guard.Authorize(ctx, identity.PermissionWrite)
	if err != nil {
		return err
	}

	var events appshared.EventCollector
	err = s.txScope.Execute(ctx, func(repos appshared.Repositories) error {
		folder, err := guard.Own[*inventory.Folder](auth, resourceFolder)(repos.Folders().FindByID(ctx, id))
		if err != nil {
			return err
		}
		subfolders, items, err := repos.Folders().CountContents(ctx, auth.TenantID, folder.ID)
		if err != nil {
			return err
		}
		if subfolders > 0 || items > 0 {
			return shared.NewDomainError(shared.CodeInvalidState, "Folder is not empty; move or delete its contents first")
		}
		if err := repos.Folders().Delete(ctx, auth.TenantID, folder.ID); err != nil {
			return err
		}
		events.Add(inventory.NewFolderDeletedEvent(folder))
		return nil
	})
	if err != nil {
		return err
	}
	events.Publish(ctx, s.publisher)
	return nil
}

// Stats aggregates the items of a folder and all of its descendants
func (s *FolderService) Stats(ctx context.Context, id uuid.UUID) (*inventory.FolderStats, error) {
	auth, err := guard.Authorize(ctx, identity.PermissionRead)
	if err != nil {
		return nil, err
	}
	folder, err := guard.Own[*inventory.Folder](auth, resourceFolder)(s.folders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	return s.stats.FolderStats(ctx, auth.TenantID, folder)
}
