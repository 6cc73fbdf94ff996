package router

import (
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
)

// Handlers are the API handlers behind authentication
type Handlers struct {
	Me          *handler.MeHandler
	Contacts    *handler.ContactHandler
	Customers   *handler.CustomerHandler
	Items       *handler.ItemHandler
	Folders     *handler.FolderHandler
	Locations   *handler.LocationHandler
	SalesOrders *handler.SalesOrderHandler
	PickLists   *handler.PickListHandler
	TaxRates    *handler.TaxRateHandler
	StockCounts *handler.StockCountHandler
	Jobs        *handler.JobHandler
	Activity    *handler.ActivityHandler
}

var (
	read  = middleware.RequireLevel(identity.PermissionRead)
	write = middleware.RequireLevel(identity.PermissionWrite)
	admin = middleware.RequireLevel(identity.PermissionAdmin)
)

// DomainGroups builds the authenticated route groups. Every route names the
// least permission level it needs, services enforce it again.
func DomainGroups(h Handlers) []RouteRegistrar {
	identityRoutes := NewDomainGroup("identity", "")
	identityRoutes.GET("/me", read, h.Me.Get)
	identityRoutes.GET("/contacts", read, h.Contacts.List)

	customers := NewDomainGroup("customers", "/customers")
	customers.POST("", write, h.Customers.Create)
	customers.GET("", read, h.Customers.List)
	customers.GET("/:id", read, h.Customers.Get)
	customers.PUT("/:id", write, h.Customers.Update)
	customers.DELETE("/:id", admin, h.Customers.Delete)
	customers.POST("/:id/activate", write, h.Customers.Activate)
	customers.POST("/:id/deactivate", write, h.Customers.Deactivate)

	items := NewDomainGroup("items", "/items")
	items.POST("", write, h.Items.Create)
	items.GET("", read, h.Items.List)
	items.GET("/:id", read, h.Items.Get)
	items.PUT("/:id", write, h.Items.Update)
	items.DELETE("/:id", write, h.Items.Delete)
	items.POST("/:id/adjust", write, h.Items.Adjust)
	items.GET("/:id/locations", read, h.Items.Locations)
	items.GET("/:id/lots", read, h.Items.Lots)
	items.POST("/:id/lots", write, h.Items.AddLot)
	items.GET("/:id/serials", read, h.Items.Serials)
	items.POST("/:id/serials", write, h.Items.AddSerial)
	items.GET("/:id/fefo", read, h.Items.FEFO)
	items.POST("/:id/image-upload-url", write, h.Items.ImageUploadURL)
	items.GET("/:id/image-url", read, h.Items.ImageURL)
	items.DELETE("/:id/image", write, h.Items.DeleteImage)

	folders := NewDomainGroup("folders", "/folders")
	folders.POST("", write, h.Folders.Create)
	folders.GET("", read, h.Folders.List)
	folders.GET("/:id", read, h.Folders.Get)
	folders.PUT("/:id", write, h.Folders.Update)
	folders.DELETE("/:id", write, h.Folders.Delete)
	folders.POST("/:id/move", write, h.Folders.Move)
	folders.GET("/:id/stats", read, h.Folders.Stats)

	locations := NewDomainGroup("locations", "/locations")
	locations.POST("", write, h.Locations.Create)
	locations.GET("", read, h.Locations.List)
	locations.GET("/:id", read, h.Locations.Get)
	locations.PUT("/:id", write, h.Locations.Update)
	locations.PUT("/:id/stock", write, h.Locations.SetStock)

	sales := NewDomainGroup("sales", "/sales-orders")
	sales.POST("", write, h.SalesOrders.Create)
	sales.GET("", read, h.SalesOrders.List)
	sales.GET("/stats/status", read, h.SalesOrders.StatusSummary)
	sales.GET("/:id", read, h.SalesOrders.Get)
	sales.PUT("/:id", write, h.SalesOrders.Update)
	sales.DELETE("/:id", write, h.SalesOrders.Delete)
	sales.POST("/:id/status", write, h.SalesOrders.ChangeStatus)
	sales.POST("/:id/items", write, h.SalesOrders.AddItem)
	sales.PUT("/:id/items/:item_id", write, h.SalesOrders.UpdateItem)
	sales.DELETE("/:id/items/:item_id", write, h.SalesOrders.RemoveItem)
	sales.POST("/:id/items/:item_id/taxes/recalculate", write, h.SalesOrders.RecalculateItemTaxes)
	sales.GET("/:id/pick-list", read, h.SalesOrders.PickList)

	pickLists := NewDomainGroup("pick-lists", "/pick-lists")
	pickLists.GET("/:id", read, h.PickLists.Get)
	pickLists.PUT("/:id/lines/:line_id", write, h.PickLists.RecordPick)
	pickLists.POST("/:id/complete", write, h.PickLists.Complete)

	taxes := NewDomainGroup("taxes", "/tax-rates")
	taxes.POST("", admin, h.TaxRates.Create)
	taxes.GET("", read, h.TaxRates.List)
	taxes.GET("/:id", read, h.TaxRates.Get)
	taxes.PUT("/:id", admin, h.TaxRates.Update)
	taxes.DELETE("/:id", admin, h.TaxRates.Delete)

	counts := NewDomainGroup("stock-counts", "/stock-counts")
	counts.POST("", write, h.StockCounts.Create)
	counts.GET("", read, h.StockCounts.List)
	counts.GET("/:id", read, h.StockCounts.Get)
	counts.POST("/:id/status", write, h.StockCounts.ChangeStatus)
	counts.PUT("/:id/lines/:line_id", write, h.StockCounts.RecordCount)
	counts.GET("/:id/progress", read, h.StockCounts.Progress)

	jobs := NewDomainGroup("jobs", "/jobs")
	jobs.POST("", write, h.Jobs.Create)
	jobs.GET("", read, h.Jobs.List)
	jobs.GET("/:id", read, h.Jobs.Get)
	jobs.PUT("/:id", write, h.Jobs.Update)
	jobs.DELETE("/:id", admin, h.Jobs.Delete)

	activity := NewDomainGroup("activity", "/activity")
	activity.GET("", read, h.Activity.Recent)
	activity.GET("/:entity_type/:entity_id", read, h.Activity.ForEntity)

	return []RouteRegistrar{
		identityRoutes, customers, items, folders, locations, sales,
		pickLists, taxes, counts, jobs, activity,
	}
}
