package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/strategy/batch"
	"github.com/stockroom/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockImageStore is a mock implementation of ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStore) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockImageStore) MaxImageSize() int64 {
	return int64(m.Called().Int(0))
}

// activityLog keeps the rows services record directly
type activityLog struct {
	rows []recordedActivity
}

type recordedActivity struct {
	EntityType string
	EntityID   uuid.UUID
	Action     activity.Action
	Changes    map[string]any
}

func (l *activityLog) Record(_ context.Context, entityType string, entityID uuid.UUID, _ string, action activity.Action, changes map[string]any) {
	l.rows = append(l.rows, recordedActivity{EntityType: entityType, EntityID: entityID, Action: action, Changes: changes})
}

func (l *activityLog) actions() []activity.Action {
	out := make([]activity.Action, len(l.rows))
	for i, r := range l.rows {
		out[i] = r.Action
	}
	return out
}

type fixture struct {
	items     *ItemService
	folders   *FolderService
	locations *LocationService
	counts    *StockCountService
	db        *persistence.Database
	publisher *testutil.RecordingPublisher
	activity  *activityLog
	ctx       context.Context
}

func newFixture(t *testing.T, images ImageStore) *fixture {
	t.Helper()
	db := testutil.NewDatabase(t)
	publisher := testutil.NewRecordingPublisher()
	txScope := persistence.NewGormTransactionScope(db.DB)
	readModels := persistence.NewReadModels(db.X)
	recorder := &activityLog{}
	return &fixture{
		items: NewItemService(
			persistence.NewGormItemRepository(db.DB),
			persistence.NewGormFolderRepository(db.DB),
			persistence.NewGormLocationRepository(db.DB),
			persistence.NewGormLotRepository(db.DB),
			persistence.NewGormSerialRepository(db.DB),
			txScope,
			publisher,
			ItemServiceConfig{Allocator: batch.NewFEFO(), FEFOGuardDays: 3, Images: images, Activity: recorder},
		),
		folders:   NewFolderService(persistence.NewGormFolderRepository(db.DB), readModels, txScope, publisher),
		locations: NewLocationService(persistence.NewGormLocationRepository(db.DB), txScope, publisher),
		counts:    NewStockCountService(persistence.NewGormStockCountRepository(db.DB), readModels, txScope, publisher, recorder),
		db:        db,
		publisher: publisher,
		activity:  recorder,
		ctx:       testutil.AuthAs(identity.RoleMember),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	return de.Code
}

func (f *fixture) item(t *testing.T, req CreateItemRequest) *ItemResponse {
	t.Helper()
	resp, err := f.items.Create(f.ctx, req)
	require.NoError(t, err)
	return resp
}

func (f *fixture) location(t *testing.T, name string) *LocationResponse {
	t.Helper()
	resp, err := f.locations.Create(f.ctx, CreateLocationRequest{Name: name, Code: name, Type: "shelf"})
	require.NoError(t, err)
	return resp
}

func TestItemService_CreateAndAdjust(t *testing.T) {
	f := newFixture(t, nil)

	item := f.item(t, CreateItemRequest{
		Name: "Widget", SKU: "W-1", Quantity: dec("5"), MinQuantity: dec("2"), Price: dec("3"),
	})
	assert.Equal(t, "ITM-00001", item.DisplayID)
	assert.True(t, dec("5").Equal(item.Quantity))
	assert.Equal(t, "in_stock", item.StockStatus)
	assert.True(t, dec("15").Equal(item.TotalValue))
	assert.Contains(t, f.publisher.Types(), inventory.EventTypeItemQuantityAdjusted)

	t.Run("tracked items start empty", func(t *testing.T) {
		_, err := f.items.Create(f.ctx, CreateItemRequest{Name: "Milk", TrackingMode: "lot", Quantity: dec("1")})
		assert.Equal(t, shared.CodeValidation, codeOf(t, err))
	})

	t.Run("adjust never goes below zero", func(t *testing.T) {
		_, err := f.items.AdjustQuantity(f.ctx, item.ID, AdjustQuantityRequest{Delta: dec("-6"), Reason: "damaged"})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		resp, err := f.items.AdjustQuantity(f.ctx, item.ID, AdjustQuantityRequest{Delta: dec("-4"), Reason: "damaged"})
		require.NoError(t, err)
		assert.Equal(t, "low_stock", resp.StockStatus)
		assert.Equal(t, item.Version+1, resp.Version)
	})

	t.Run("adjust with a location moves its stock", func(t *testing.T) {
		shelf := f.location(t, "A1")
		_, err := f.items.AdjustQuantity(f.ctx, item.ID, AdjustQuantityRequest{Delta: dec("7"), Reason: "received", LocationID: &shelf.ID})
		require.NoError(t, err)

		locs, err := f.items.Locations(f.ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.True(t, dec("7").Equal(locs[0].Quantity))

		_, err = f.items.AdjustQuantity(f.ctx, item.ID, AdjustQuantityRequest{Delta: dec("-8"), Reason: "moved", LocationID: &shelf.ID})
		assert.Equal(t, shared.CodeInsufficientStock, codeOf(t, err))
	})

	t.Run("other tenant cannot see it", func(t *testing.T) {
		_, err := f.items.GetByID(testutil.OtherTenant(), item.ID)
		assert.Equal(t, "Item not found", err.Error())
	})

	t.Run("soft delete hides the item", func(t *testing.T) {
		doomed := f.item(t, CreateItemRequest{Name: "Doomed"})
		require.NoError(t, f.items.Delete(f.ctx, doomed.ID))
		_, err := f.items.GetByID(f.ctx, doomed.ID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestItemService_LotsAndFEFO(t *testing.T) {
	f := newFixture(t, nil)
	milk := f.item(t, CreateItemRequest{Name: "Milk", TrackingMode: "lot"})
	cold := f.location(t, "COLD")

	day := func(d int) *time.Time { return ptr(time.Now().AddDate(0, 0, d)) }
	add := func(number, qty string, expiry *time.Time) {
		t.Helper()
		_, err := f.items.AddLot(f.ctx, milk.ID, AddLotRequest{LotNumber: number, Quantity: dec(qty), ExpiryDate: expiry, LocationID: &cold.ID})
		require.NoError(t, err)
	}
	add("L-NOEXP", "10", nil)
	add("L-LATE", "4", day(30))
	add("L-SOON", "3", day(10))
	add("L-GUARD", "5", day(1))

	got, err := f.items.GetByID(f.ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, dec("22").Equal(got.Quantity))

	locs, err := f.items.Locations(f.ctx, milk.ID)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.True(t, dec("22").Equal(locs[0].Quantity), "lots received at a location stock it")

	t.Run("duplicate lot number", func(t *testing.T) {
		_, err := f.items.AddLot(f.ctx, milk.ID, AddLotRequest{LotNumber: "l-late", Quantity: dec("1")})
		assert.Equal(t, shared.CodeAlreadyExists, codeOf(t, err))
	})

	t.Run("lots are listed by expiry", func(t *testing.T) {
		lots, err := f.items.Lots(f.ctx, milk.ID)
		require.NoError(t, err)
		require.Len(t, lots, 4)
		assert.Equal(t, "L-GUARD", lots[0].LotNumber)
		assert.Equal(t, "L-NOEXP", lots[3].LotNumber)
	})

	t.Run("suggestion skips lots inside the guard window", func(t *testing.T) {
		s, err := f.items.FEFO(f.ctx, milk.ID, FEFORequest{Quantity: dec("9")})
		require.NoError(t, err)
		assert.Equal(t, "fefo", s.Strategy)
		require.Len(t, s.Picks, 3)
		assert.Equal(t, "L-SOON", s.Picks[0].LotNumber)
		assert.True(t, dec("3").Equal(s.Picks[0].PickQuantity))
		assert.Equal(t, "L-LATE", s.Picks[1].LotNumber)
		assert.Equal(t, "L-NOEXP", s.Picks[2].LotNumber)
		assert.True(t, dec("2").Equal(s.Picks[2].PickQuantity))
		assert.True(t, s.Fulfilled)
		assert.True(t, s.Shortfall.IsZero())
	})

	t.Run("suggestion reports a shortfall", func(t *testing.T) {
		s, err := f.items.FEFO(f.ctx, milk.ID, FEFORequest{Quantity: dec("20")})
		require.NoError(t, err)
		assert.False(t, s.Fulfilled)
		assert.True(t, dec("3").Equal(s.Shortfall), "shortfall %s", s.Shortfall)
	})

	t.Run("untracked item has no suggestion", func(t *testing.T) {
		plain := f.item(t, CreateItemRequest{Name: "Bolt"})
		_, err := f.items.FEFO(f.ctx, plain.ID, FEFORequest{Quantity: dec("1")})
		assert.Equal(t, shared.CodeInvalidState, codeOf(t, err))
		_, err = f.items.AddLot(f.ctx, plain.ID, AddLotRequest{LotNumber: "X", Quantity: dec("1")})
		assert.Equal(t, shared.CodeInvalidState, codeOf(t, err))
	})
}

func TestItemService_Serials(t *testing.T) {
	f := newFixture(t, nil)
	laptop := f.item(t, CreateItemRequest{Name: "Laptop", TrackingMode: "serial"})

	_, err := f.items.AddSerial(f.ctx, laptop.ID, AddSerialRequest{SerialNumber: "SN-2"})
	require.NoError(t, err)
	_, err = f.items.AddSerial(f.ctx, laptop.ID, AddSerialRequest{SerialNumber: "SN-1"})
	require.NoError(t, err)

	_, err = f.items.AddSerial(f.ctx, laptop.ID, AddSerialRequest{SerialNumber: "sn-1"})
	assert.Equal(t, shared.CodeAlreadyExists, codeOf(t, err))

	serials, err := f.items.Serials(f.ctx, laptop.ID, "available")
	require.NoError(t, err)
	require.Len(t, serials, 2)
	assert.Equal(t, "SN-1", serials[0].SerialNumber)

	got, err := f.items.GetByID(f.ctx, laptop.ID)
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(got.Quantity))

	_, err = f.items.Serials(f.ctx, laptop.ID, "lost")
	assert.Equal(t, shared.CodeValidation, codeOf(t, err))
}

func TestItemService_Images(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		f := newFixture(t, nil)
		item := f.item(t, CreateItemRequest{Name: "Widget"})
		_, err := f.items.ImageUploadURL(f.ctx, item.ID, ImageUploadRequest{ContentType: "image/png"})
		assert.ErrorIs(t, err, shared.ErrStorageDisabled)
	})

	t.Run("upload, download and delete", func(t *testing.T) {
		store := new(MockImageStore)
		f := newFixture(t, store)
		item := f.item(t, CreateItemRequest{Name: "Widget"})
		expires := time.Now().Add(15 * time.Minute)
		prefix := "tenants/" + testutil.TestTenantID().String() + "/items/" + item.ID.String() + "/"

		var key string
		store.On("PresignUpload", mock.Anything, mock.MatchedBy(func(k string) bool {
			key = k
			return len(k) > len(prefix) && k[:len(prefix)] == prefix
		}), "image/png").Return("https://put", expires, nil).Once()
		store.On("MaxImageSize").Return(5 << 20)

		up, err := f.items.ImageUploadURL(f.ctx, item.ID, ImageUploadRequest{ContentType: "image/png"})
		require.NoError(t, err)
		assert.Equal(t, "https://put", up.UploadURL)
		assert.Equal(t, key, up.Key)
		assert.Equal(t, int64(5<<20), up.MaxSize)
		assert.Equal(t, []activity.Action{activity.ActionImageAdded}, f.activity.actions())
		assert.Equal(t, item.ID, f.activity.rows[0].EntityID)

		store.On("PresignDownload", mock.Anything, key).Return("https://get", expires, nil).Once()
		down, err := f.items.ImageURL(f.ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://get", down.URL)

		store.On("Delete", mock.Anything, key).Return(nil).Once()
		require.NoError(t, f.items.DeleteImage(f.ctx, item.ID))
		assert.Equal(t, []activity.Action{activity.ActionImageAdded, activity.ActionImageRemoved}, f.activity.actions())

		_, err = f.items.ImageURL(f.ctx, item.ID)
		assert.True(t, shared.IsNotFound(err))
		store.AssertExpectations(t)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		f := newFixture(t, new(MockImageStore))
		item := f.item(t, CreateItemRequest{Name: "Widget"})
		_, err := f.items.ImageUploadURL(f.ctx, item.ID, ImageUploadRequest{ContentType: "application/pdf"})
		assert.Equal(t, shared.CodeValidation, codeOf(t, err))
	})
}

func TestFolderService_TreeOperations(t *testing.T) {
	f := newFixture(t, nil)

	root, err := f.folders.Create(f.ctx, CreateFolderRequest{Name: "Warehouse"})
	require.NoError(t, err)
	child, err := f.folders.Create(f.ctx, CreateFolderRequest{Name: "Tools", ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := f.folders.Create(f.ctx, CreateFolderRequest{Name: "Drills", ParentID: &child.ID})
	require.NoError(t, err)
	other, err := f.folders.Create(f.ctx, CreateFolderRequest{Name: "Office"})
	require.NoError(t, err)
	assert.Equal(t, 3, grandchild.Depth)

	t.Run("cannot move into own subtree", func(t *testing.T) {
		_, err := f.folders.Move(f.ctx, root.ID, MoveFolderRequest{ParentID: &grandchild.ID})
		assert.Equal(t, shared.CodeValidation, codeOf(t, err))
	})

	t.Run("move rewrites descendant paths", func(t *testing.T) {
		moved, err := f.folders.Move(f.ctx, child.ID, MoveFolderRequest{ParentID: &other.ID})
		require.NoError(t, err)
		assert.Equal(t, other.Path+child.ID.String()+"/", moved.Path)

		gc, err := f.folders.GetByID(f.ctx, grandchild.ID)
		require.NoError(t, err)
		assert.Equal(t, moved.Path+grandchild.ID.String()+"/", gc.Path)
	})

	t.Run("stats cover the subtree", func(t *testing.T) {
		f.item(t, CreateItemRequest{Name: "Drill", FolderID: &grandchild.ID, Quantity: dec("2"), Price: dec("50")})
		f.item(t, CreateItemRequest{Name: "Stapler", FolderID: &other.ID})

		stats, err := f.folders.Stats(f.ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.ItemCount)
		assert.True(t, dec("100").Equal(stats.TotalValue), "value %s", stats.TotalValue)
		assert.Equal(t, int64(1), stats.OutOfStockCount)
		assert.Equal(t, int64(2), stats.SubfolderCount)
	})

	t.Run("non-empty folder cannot be deleted", func(t *testing.T) {
		err := f.folders.Delete(f.ctx, other.ID)
		assert.Equal(t, shared.CodeInvalidState, codeOf(t, err))
		require.NoError(t, f.folders.Delete(f.ctx, root.ID))
	})

	t.Run("list children", func(t *testing.T) {
		roots, err := f.folders.List(f.ctx, FolderListRequest{ParentID: "root"})
		require.NoError(t, err)
		require.Len(t, roots, 1)
		assert.Equal(t, "Office", roots[0].Name)
	})
}

func TestLocationService_SetStock(t *testing.T) {
	f := newFixture(t, nil)
	shelf := f.location(t, "B1")
	item := f.item(t, CreateItemRequest{Name: "Widget", Quantity: dec("4")})

	resp, err := f.locations.SetStock(f.ctx, shelf.ID, SetStockRequest{ItemID: item.ID, Quantity: dec("10")})
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(resp.Quantity))
	assert.True(t, dec("14").Equal(resp.ItemQuantity), "item total follows the location change")

	resp, err = f.locations.SetStock(f.ctx, shelf.ID, SetStockRequest{ItemID: item.ID, Quantity: dec("6")})
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(resp.ItemQuantity))

	_, err = f.locations.SetStock(testutil.OtherTenant(), shelf.ID, SetStockRequest{ItemID: item.ID, Quantity: dec("1")})
	assert.Equal(t, "Location not found", err.Error())

	_, err = f.locations.SetStock(testutil.AuthAs(identity.RoleViewer), shelf.ID, SetStockRequest{ItemID: item.ID, Quantity: dec("1")})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestStockCountService_Wizard(t *testing.T) {
	f := newFixture(t, nil)
	a := f.item(t, CreateItemRequest{Name: "Apples", Quantity: dec("10")})
	b := f.item(t, CreateItemRequest{Name: "Bananas", Quantity: dec("5")})

	sc, err := f.counts.Create(f.ctx, CreateStockCountRequest{Name: "Q3"})
	require.NoError(t, err)
	assert.Equal(t, "SC-00001", sc.DisplayID)
	assert.Equal(t, "all", sc.Scope)

	_, err = f.counts.ChangeStatus(f.ctx, sc.ID, StockCountStatusRequest{Status: "review"})
	assert.Equal(t, shared.CodeInvalidTransition, codeOf(t, err))

	started, err := f.counts.ChangeStatus(f.ctx, sc.ID, StockCountStatusRequest{Status: "in_progress"})
	require.NoError(t, err)
	require.Len(t, started.Lines, 2)
	lineFor := map[uuid.UUID]uuid.UUID{}
	for _, l := range started.Lines {
		lineFor[l.ItemID] = l.ID
	}

	line, err := f.counts.RecordCount(f.ctx, sc.ID, lineFor[a.ID], RecordCountRequest{CountedQuantity: dec("8")})
	require.NoError(t, err)
	assert.True(t, dec("-2").Equal(line.Variance))
	require.NotNil(t, line.CountedBy)
	assert.Equal(t, testutil.TestUserID(), *line.CountedBy)

	_, err = f.counts.RecordCount(f.ctx, sc.ID, lineFor[a.ID], RecordCountRequest{CountedQuantity: dec("-1")})
	assert.Equal(t, shared.CodeValidation, codeOf(t, err))

	progress, err := f.counts.Progress(f.ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), progress.TotalLines)
	assert.Equal(t, int64(1), progress.CountedLines)
	assert.Equal(t, 50.0, progress.PercentComplete)

	_, err = f.counts.RecordCount(f.ctx, sc.ID, lineFor[b.ID], RecordCountRequest{CountedQuantity: dec("5")})
	require.NoError(t, err)

	f.mustStatus(t, sc.ID, "review", false)
	f.mustStatus(t, sc.ID, "in_progress", false) // recount
	f.mustStatus(t, sc.ID, "review", false)
	done := f.mustStatus(t, sc.ID, "completed", true)
	assert.True(t, done.AdjustmentsApplied)

	apples, err := f.items.GetByID(f.ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, dec("8").Equal(apples.Quantity))
	bananas, err := f.items.GetByID(f.ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(bananas.Quantity))

	_, err = f.counts.ChangeStatus(f.ctx, sc.ID, StockCountStatusRequest{Status: "cancelled"})
	assert.Equal(t, shared.CodeInvalidTransition, codeOf(t, err))

	_, err = f.counts.Progress(testutil.OtherTenant(), sc.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestStockCountService_LocationScope(t *testing.T) {
	f := newFixture(t, nil)
	shelf := f.location(t, "C1")
	item := f.item(t, CreateItemRequest{Name: "Nails", Quantity: dec("3")})
	_, err := f.locations.SetStock(f.ctx, shelf.ID, SetStockRequest{ItemID: item.ID, Quantity: dec("7")})
	require.NoError(t, err)
	f.item(t, CreateItemRequest{Name: "Elsewhere", Quantity: dec("1")})

	_, err = f.counts.Create(f.ctx, CreateStockCountRequest{Scope: "location"})
	assert.Equal(t, shared.CodeValidation, codeOf(t, err))

	sc, err := f.counts.Create(f.ctx, CreateStockCountRequest{Scope: "location", ScopeID: &shelf.ID})
	require.NoError(t, err)
	started := f.mustStatus(t, sc.ID, "in_progress", false)
	require.Len(t, started.Lines, 1, "only items stocked at the location")
	assert.True(t, dec("7").Equal(started.Lines[0].ExpectedQty))

	_, err = f.counts.RecordCount(f.ctx, sc.ID, started.Lines[0].ID, RecordCountRequest{CountedQuantity: dec("4")})
	require.NoError(t, err)
	f.mustStatus(t, sc.ID, "review", false)
	f.mustStatus(t, sc.ID, "completed", true)

	locs, err := f.items.Locations(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.True(t, dec("4").Equal(locs[0].Quantity))
	got, err := f.items.GetByID(f.ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, dec("7").Equal(got.Quantity), "item total drops by the variance")
}

func (f *fixture) mustStatus(t *testing.T, id uuid.UUID, status string, apply bool) *StockCountResponse {
	t.Helper()
	resp, err := f.counts.ChangeStatus(f.ctx, id, StockCountStatusRequest{Status: status, ApplyAdjustments: apply})
	require.NoError(t, err, "moving to %s", status)
	return resp
}

func TestItemService_AdjustWithoutLocationKeepsLocationsWithinTotal(t *testing.T) {
	f := newFixture(t, nil)
	a := f.location(t, "A1")
	b := f.location(t, "B1")
	item := f.item(t, CreateItemRequest{Name: "Hinges", Quantity: dec("1")})
	f.setStock(t, a.ID, item.ID, "2")
	f.setStock(t, b.ID, item.ID, "5")

	// 1 unlocated, then the emptier A1 gives its 2, then 1 from B1
	resp, err := f.items.AdjustQuantity(f.ctx, item.ID, AdjustQuantityRequest{Delta: dec("-4"), Reason: "damaged"})
	require.NoError(t, err)
	assert.True(t, dec("4").Equal(resp.Quantity))

	stock := f.stockAt(t, item.ID)
	assert.True(t, stock["A1"].IsZero(), "A1 holds %s", stock["A1"])
	assert.True(t, dec("4").Equal(stock["B1"]), "B1 holds %s", stock["B1"])

	t.Run("gain without a location stays unlocated", func(t *testing.T) {
		_, err := f.items.AdjustQuantity(f.ctx, item.ID, AdjustQuantityRequest{Delta: dec("3"), Reason: "found"})
		require.NoError(t, err)
		assert.True(t, dec("4").Equal(f.stockAt(t, item.ID)["B1"]))
	})
}
