package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// StockCountStatus is the state of a stock count
type StockCountStatus string

const (
	StockCountDraft      StockCountStatus = "draft"
	StockCountInProgress StockCountStatus = "in_progress"
	StockCountReview     StockCountStatus = "review"
	StockCountCompleted  StockCountStatus = "completed"
	StockCountCancelled  StockCountStatus = "cancelled"
)

var stockCountTransitions = map[StockCountStatus][]StockCountStatus{
	StockCountDraft:      {StockCountInProgress, StockCountCancelled},
	StockCountInProgress: {StockCountReview, StockCountCancelled},
	StockCountReview:     {StockCountInProgress, StockCountCompleted, StockCountCancelled},
	StockCountCompleted:  {},
	StockCountCancelled:  {},
}

// IsValid reports whether s is a known status
func (s StockCountStatus) IsValid() bool {
	_, ok := stockCountTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving to target is allowed. Self transitions are allowed.
func (s StockCountStatus) CanTransitionTo(target StockCountStatus) bool {
	if s == target {
		return s.IsValid()
	}
	for _, next := range stockCountTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// CountScope selects which items a count covers
type CountScope string

const (
	ScopeAll      CountScope = "all"
	ScopeFolder   CountScope = "folder"
	ScopeLocation CountScope = "location"
)

// StockCountLine is one item to be counted
type StockCountLine struct {
	ID           uuid.UUID
	StockCountID uuid.UUID
	ItemID       uuid.UUID
	ItemName     string
	SKU          string
	ExpectedQty  decimal.Decimal
	CountedQty   *decimal.Decimal
	Variance     decimal.Decimal
	CountedBy    *uuid.UUID
	CountedAt    *time.Time
	Notes        string
}

// NewStockCountLine creates an uncounted line
func NewStockCountLine(countID uuid.UUID, item *Item, expected decimal.Decimal) StockCountLine {
	return StockCountLine{
		ID:           uuid.New(),
		StockCountID: countID,
		ItemID:       item.ID,
		ItemName:     item.Name,
		SKU:          item.SKU,
		ExpectedQty:  expected,
	}
}

// IsCounted reports whether a quantity was recorded
func (l *StockCountLine) IsCounted() bool {
	return l.CountedQty != nil
}

// HasVariance reports whether the counted quantity differs from the expectation
func (l *StockCountLine) HasVariance() bool {
	return l.IsCounted() && !l.Variance.IsZero()
}

// StockCount is a physical inventory count run through a wizard
type StockCount struct {
	shared.TenantAggregateRoot
	DisplayID          string
	Name               string
	Status             StockCountStatus
	Scope              CountScope
	ScopeFolderID      *uuid.UUID
	ScopeLocationID    *uuid.UUID
	AssignedTo         *uuid.UUID
	Notes              string
	StartedAt          *time.Time
	SubmittedAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	AdjustmentsApplied bool
	Lines              []StockCountLine
}

// NewStockCount creates a draft count
func NewStockCount(tenantID uuid.UUID, displayID, name string, scope CountScope, scopeID *uuid.UUID) (*StockCount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = displayID
	}
	sc := &StockCount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DisplayID:           displayID,
		Name:                name,
		Status:              StockCountDraft,
		Scope:               scope,
	}
	switch scope {
	case ScopeAll, "":
		sc.Scope = ScopeAll
	case ScopeFolder:
		if scopeID == nil {
			return nil, shared.NewValidationError("Folder is required for a folder count")
		}
		sc.ScopeFolderID = scopeID
	case ScopeLocation:
		if scopeID == nil {
			return nil, shared.NewValidationError("Location is required for a location count")
		}
		sc.ScopeLocationID = scopeID
	default:
		return nil, shared.NewValidationError("Invalid count scope")
	}
	sc.AddDomainEvent(NewStockCountCreatedEvent(sc))
	return sc, nil
}

func (sc *StockCount) transition(target StockCountStatus) error {
	if !sc.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot change stock count status from %s to %s", sc.Status, target))
	}
	from := sc.Status
	sc.Status = target
	sc.Touch()
	if from != target {
		sc.AddDomainEvent(NewStockCountStatusChangedEvent(sc, from))
	}
	return nil
}

// Start snapshots the lines and begins counting
func (sc *StockCount) Start(lines []StockCountLine) error {
	if sc.Status == StockCountInProgress {
		return nil
	}
	if len(lines) == 0 {
		return shared.NewValidationError("There are no items in the selected scope")
	}
	if err := sc.transition(StockCountInProgress); err != nil {
		return err
	}
	now := time.Now()
	sc.StartedAt = &now
	sc.Lines = lines
	return nil
}

// RecordCount stores the counted quantity for a line
func (sc *StockCount) RecordCount(lineID uuid.UUID, qty decimal.Decimal, countedBy uuid.UUID, notes string) (*StockCountLine, error) {
	if sc.Status != StockCountInProgress {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Counts can only be recorded while the count is in progress")
	}
	if qty.IsNegative() {
		return nil, shared.NewValidationError("Counted quantity cannot be negative")
	}
	for i := range sc.Lines {
		line := &sc.Lines[i]
		if line.ID != lineID {
			continue
		}
		now := time.Now()
		counted := qty
		line.CountedQty = &counted
		line.Variance = qty.Sub(line.ExpectedQty)
		if countedBy != uuid.Nil {
			line.CountedBy = &countedBy
		}
		line.CountedAt = &now
		line.Notes = strings.TrimSpace(notes)
		sc.Touch()
		return line, nil
	}
	return nil, shared.NewNotFoundError("Stock count line")
}

// SubmitForReview moves counting to review
func (sc *StockCount) SubmitForReview() error {
	if err := sc.transition(StockCountReview); err != nil {
		return err
	}
	now := time.Now()
	sc.SubmittedAt = &now
	return nil
}

// Recount sends a reviewed count back to counting
func (sc *StockCount) Recount() error {
	return sc.transition(StockCountInProgress)
}

// Complete closes the count. When applyAdjustments is set the lines with
// a variance are returned so the caller can update item quantities.
func (sc *StockCount) Complete(applyAdjustments bool) ([]StockCountLine, error) {
	if err := sc.transition(StockCountCompleted); err != nil {
		return nil, err
	}
	now := time.Now()
	sc.CompletedAt = &now
	sc.AdjustmentsApplied = applyAdjustments
	if !applyAdjustments {
		return nil, nil
	}
	return sc.VarianceLines(), nil
}

// Cancel abandons the count
func (sc *StockCount) Cancel() error {
	if err := sc.transition(StockCountCancelled); err != nil {
		return err
	}
	now := time.Now()
	sc.CancelledAt = &now
	return nil
}

// VarianceLines returns the counted lines whose quantity differs from the expectation
func (sc *StockCount) VarianceLines() []StockCountLine {
	out := make([]StockCountLine, 0)
	for _, l := range sc.Lines {
		if l.HasVariance() {
			out = append(out, l)
		}
	}
	return out
}

// Progress summarizes counting progress
func (sc *StockCount) Progress() StockCountProgress {
	p := StockCountProgress{StockCountID: sc.ID, Status: sc.Status, NetVariance: decimal.Zero}
	for _, l := range sc.Lines {
		p.TotalLines++
		if l.IsCounted() {
			p.CountedLines++
		}
		if l.HasVariance() {
			p.VarianceLines++
			p.NetVariance = p.NetVariance.Add(l.Variance)
		}
	}
	p.computePercent()
	return p
}

// StockCountProgress is polled by clients while a count runs
type StockCountProgress struct {
	StockCountID    uuid.UUID        `json:"stock_count_id" db:"stock_count_id"`
	Status          StockCountStatus `json:"status" db:"status"`
	TotalLines      int64            `json:"total_lines" db:"total_lines"`
	CountedLines    int64            `json:"counted_lines" db:"counted_lines"`
	VarianceLines   int64            `json:"variance_lines" db:"variance_lines"`
	NetVariance     decimal.Decimal  `json:"net_variance" db:"net_variance"`
	PercentComplete float64          `json:"percent_complete" db:"-"`
}

func (p *StockCountProgress) computePercent() {
	if p.TotalLines == 0 {
		p.PercentComplete = 0
		return
	}
	pct := float64(p.CountedLines) / float64(p.TotalLines) * 100
	p.PercentComplete = float64(int(pct*10+0.5)) / 10
}

// WithPercent fills PercentComplete from the line counts
func (p StockCountProgress) WithPercent() StockCountProgress {
	p.computePercent()
	return p
}
