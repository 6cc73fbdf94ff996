package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

// ReadModels answers aggregate queries with plain SQL through sqlx.
// Statements are written with ? placeholders and rebound for the driver.
type ReadModels struct {
	db *sqlx.DB
}

// NewReadModels creates a new ReadModels
func NewReadModels(db *sqlx.DB) *ReadModels {
	return &ReadModels{db: db}
}

const folderStatsQuery = `
SELECT
	COUNT(*) AS item_count,
	COALESCE(SUM(i.quantity), 0) AS total_quantity,
	COALESCE(SUM(i.quantity * i.price), 0) AS total_value,
	COALESCE(SUM(CASE WHEN i.quantity > 0 AND i.quantity <= i.min_quantity THEN 1 ELSE 0 END), 0) AS low_stock_count,
	COALESCE(SUM(CASE WHEN i.quantity <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_count
FROM inventory_items i
WHERE i.tenant_id = ?
	AND i.deleted_at IS NULL
	AND i.folder_id IN (SELECT f.id FROM folders f WHERE f.tenant_id = ? AND f.path LIKE ?)`

const subfolderCountQuery = `
SELECT COUNT(*) FROM folders WHERE tenant_id = ? AND path LIKE ? AND id <> ?`

// FolderStats aggregates the live items of the folder and all of its descendants
func (r *ReadModels) FolderStats(ctx context.Context, tenantID uuid.UUID, folder *inventory.Folder) (*inventory.FolderStats, error) {
	prefix := folder.Path + "%"
	stats := inventory.FolderStats{FolderID: folder.ID}
	if err := r.db.GetContext(ctx, &stats, r.db.Rebind(folderStatsQuery), tenantID, tenantID, prefix); err != nil {
		return nil, err
	}
	stats.FolderID = folder.ID
	if err := r.db.GetContext(ctx, &stats.SubfolderCount, r.db.Rebind(subfolderCountQuery), tenantID, prefix, folder.ID); err != nil {
		return nil, err
	}
	return &stats, nil
}

const stockCountProgressQuery = `
SELECT
	sc.id AS stock_count_id,
	sc.status AS status,
	COUNT(l.id) AS total_lines,
	COUNT(l.counted_qty) AS counted_lines,
	COALESCE(SUM(CASE WHEN l.counted_qty IS NOT NULL AND l.variance <> 0 THEN 1 ELSE 0 END), 0) AS variance_lines,
	COALESCE(SUM(CASE WHEN l.counted_qty IS NOT NULL THEN l.variance ELSE 0 END), 0) AS net_variance
FROM stock_counts sc
LEFT JOIN stock_count_lines l ON l.stock_count_id = sc.id
WHERE sc.id = ? AND sc.tenant_id = ?
GROUP BY sc.id, sc.status`

// StockCountProgress summarizes counting progress without loading the lines
func (r *ReadModels) StockCountProgress(ctx context.Context, tenantID, countID uuid.UUID) (*inventory.StockCountProgress, error) {
	var p inventory.StockCountProgress
	err := r.db.GetContext(ctx, &p, r.db.Rebind(stockCountProgressQuery), countID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NewNotFoundError("Stock count")
	}
	if err != nil {
		return nil, err
	}
	p = p.WithPercent()
	return &p, nil
}

type statusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

// CountByStatus returns the number of orders per status. Every status is present.
func (r *ReadModels) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[trade.OrderStatus]int64, error) {
	var rows []statusCount
	query := r.db.Rebind(`SELECT status, COUNT(*) AS count FROM sales_orders WHERE tenant_id = ? GROUP BY status`)
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, err
	}
	counts := make(map[trade.OrderStatus]int64, len(trade.AllOrderStatuses()))
	for _, s := range trade.AllOrderStatuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[trade.OrderStatus(row.Status)] = row.Count
	}
	return counts, nil
}

const customerContactsQuery = `
SELECT id, 'customer' AS type, name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone
FROM customers
WHERE tenant_id = ? AND is_active = ?`

const memberContactsQuery = `
SELECT id, 'member' AS type, CASE WHEN full_name = '' THEN email ELSE full_name END AS name,
	email, '' AS phone
FROM profiles
WHERE tenant_id = ? AND is_active = ?`

// ListContacts merges active customers and team members ordered by name
func (r *ReadModels) ListContacts(ctx context.Context, tenantID uuid.UUID, q partner.ContactQuery) ([]partner.Contact, error) {
	q = q.Normalize()

	var parts []string
	var args []any
	term := strings.TrimSpace(strings.ToLower(q.Search))
	pattern := "%" + escapeLike(term) + "%"

	add := func(base, nameCol string) {
		stmt := base
		args = append(args, tenantID, true)
		if term != "" {
			stmt += " AND (LOWER(" + nameCol + ") LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')"
			args = append(args, pattern, pattern)
		}
		parts = append(parts, stmt)
	}
	if q.Type == "" || q.Type == partner.ContactTypeCustomer {
		add(customerContactsQuery, "name")
	}
	if q.Type == "" || q.Type == partner.ContactTypeMember {
		add(memberContactsQuery, "full_name")
	}

	query := "SELECT * FROM (" + strings.Join(parts, " UNION ALL ") + ") c ORDER BY name ASC LIMIT ?"
	args = append(args, q.Limit)

	contacts := []partner.Contact{}
	if err := r.db.SelectContext(ctx, &contacts, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return contacts, nil
}

var (
	_ inventory.StatsReader  = (*ReadModels)(nil)
	_ trade.OrderStatsReader = (*ReadModels)(nil)
	_ partner.ContactReader  = (*ReadModels)(nil)
)
