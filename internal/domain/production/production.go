package production

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// Status is the production lifecycle state. Transitions only move
// forward: DRAFT -> IN_PROCESS -> DONE.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusInProcess Status = "IN_PROCESS"
	StatusDone      Status = "DONE"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusInProcess || s == StatusDone
}

// ProductionIngredient is one material line of a production batch.
// IsFromRecipe marks lines copied from the recipe at creation;
// batch-local replacements clear the flag.
type ProductionIngredient struct {
	shared.BaseEntity
	ProductionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsFromRecipe bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductionIngredient) TableName() string {
	return "production_ingredients"
}

// ProductionItem is one serialized unit of finished output
type ProductionItem struct {
	shared.BaseEntity
	ProductionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SerialNumber string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsSold       bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductionItem) TableName() string {
	return "production_items"
}

// Production is one manufacturing batch. Ingredient quantities are per
// unit of output; starting the batch deducts quantity * batch size from
// stock, completing it receives the finished units at the computed cost.
type Production struct {
	shared.BaseAggregateRoot
	BatchNumber    string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	RecipeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	FinalItemID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status         Status          `gorm:"type:varchar(15);not null;index"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPerUnit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes          *string         `gorm:"type:varchar(1000)"`
	StartDate      *time.Time
	CompletionDate *time.Time
	CreatedByID    *uuid.UUID `gorm:"type:uuid"`

	Ingredients []ProductionIngredient `gorm:"foreignKey:ProductionID"`
	Items       []ProductionItem       `gorm:"foreignKey:ProductionID"`
}

// TableName returns the table name for GORM
func (Production) TableName() string {
	return "productions"
}

// NewProduction creates a DRAFT batch from a recipe, copying its
// ingredient list. The batch quantity must be a positive whole number
// because each finished unit gets its own serial.
func NewProduction(batchNumber string, recipe *Recipe, quantity decimal.Decimal) (*Production, error) {
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Batch number is required")
	}
	if !quantity.IsPositive() || !quantity.IsInteger() {
		return nil, shared.ErrInvalidInput.WithMessage("Production quantity must be a positive whole number")
	}
	if len(recipe.Ingredients) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("Recipe has no ingredients")
	}

	p := &Production{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchNumber:       batchNumber,
		RecipeID:          recipe.ID,
		FinalItemID:       recipe.FinalItemID,
		Quantity:          quantity,
		Status:            StatusDraft,
	}

	ingredients := make([]ProductionIngredient, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, ProductionIngredient{
			BaseEntity:   shared.NewBaseEntity(),
			ProductionID: p.ID,
			ItemID:       ing.ItemID,
			Quantity:     ing.Quantity,
			IsFromRecipe: true,
		})
	}
	p.Ingredients = ingredients
	return p, nil
}

// WithNotes sets the free-form notes
func (p *Production) WithNotes(notes string) *Production {
	p.Notes = &notes
	return p
}

// WithCreatedBy records the admin who created the batch
func (p *Production) WithCreatedBy(adminID uuid.UUID) *Production {
	p.CreatedByID = &adminID
	return p
}

// UpdateNotes changes the notes. Allowed only before the batch starts.
func (p *Production) UpdateNotes(notes string) error {
	if p.Status != StatusDraft {
		return shared.ErrInvalidState.WithMessage("Notes can only change while the batch is a draft")
	}
	p.Notes = &notes
	return nil
}

// CanEditIngredients reports whether the ingredient list may still change
func (p *Production) CanEditIngredients() bool {
	return p.Status == StatusDraft || p.Status == StatusInProcess
}

// ReplaceIngredients swaps the ingredient list with a batch-local set.
// Replacement lines lose the recipe provenance flag.
func (p *Production) ReplaceIngredients(lines []IngredientLine) error {
	if !p.CanEditIngredients() {
		return shared.ErrInvalidState.WithMessage("Ingredients cannot change after the batch is done")
	}
	if err := validateIngredientLines(lines, p.FinalItemID); err != nil {
		return err
	}

	ingredients := make([]ProductionIngredient, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, ProductionIngredient{
			BaseEntity:   shared.NewBaseEntity(),
			ProductionID: p.ID,
			ItemID:       line.ItemID,
			Quantity:     line.Quantity,
			IsFromRecipe: false,
		})
	}
	p.Ingredients = ingredients
	return nil
}

// RequiredQuantity returns how much of an ingredient line the whole
// batch consumes
func (p *Production) RequiredQuantity(ing ProductionIngredient) decimal.Decimal {
	return ing.Quantity.Mul(p.Quantity)
}

// Start moves the batch to IN_PROCESS. Stock deduction happens in the
// same transaction at the service layer.
func (p *Production) Start(startDate time.Time) error {
	if p.Status != StatusDraft {
		return shared.ErrInvalidState.WithMessage("Only draft batches can start")
	}
	if len(p.Ingredients) == 0 {
		return shared.ErrInvalidInput.WithMessage("Batch has no ingredients")
	}
	p.Status = StatusInProcess
	p.StartDate = &startDate
	return nil
}

// ValidateSerials checks the serial list for completion: trimmed,
// non-empty, unique, and exactly one per produced unit. Returns the
// normalized serials.
func (p *Production) ValidateSerials(serials []string) ([]string, error) {
	expected := int(p.Quantity.IntPart())
	if len(serials) != expected {
		return nil, shared.ErrInvalidInput.WithMessage("Serial count must match the batch quantity")
	}
	normalized := make([]string, 0, len(serials))
	seen := make(map[string]struct{}, len(serials))
	for _, serial := range serials {
		serial = strings.TrimSpace(serial)
		if serial == "" {
			return nil, shared.ErrInvalidInput.WithMessage("Serial numbers cannot be empty")
		}
		if _, dup := seen[serial]; dup {
			return nil, shared.ErrInvalidInput.WithMessage("Duplicate serial number in batch")
		}
		seen[serial] = struct{}{}
		normalized = append(normalized, serial)
	}
	return normalized, nil
}

// Complete moves the batch to DONE, recording per-unit cost and the
// serialized output units.
func (p *Production) Complete(serials []string, costPerUnit decimal.Decimal, completionDate time.Time) error {
	if p.Status != StatusInProcess {
		return shared.ErrInvalidState.WithMessage("Only batches in process can complete")
	}
	if costPerUnit.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("Cost per unit cannot be negative")
	}
	normalized, err := p.ValidateSerials(serials)
	if err != nil {
		return err
	}

	items := make([]ProductionItem, 0, len(normalized))
	for _, serial := range normalized {
		items = append(items, ProductionItem{
			BaseEntity:   shared.NewBaseEntity(),
			ProductionID: p.ID,
			ItemID:       p.FinalItemID,
			SerialNumber: serial,
			CostPrice:    costPerUnit,
			IsSold:       false,
		})
	}

	p.Items = items
	p.CostPerUnit = costPerUnit.Round(4)
	p.TotalCost = costPerUnit.Mul(p.Quantity).Round(4)
	p.Status = StatusDone
	p.CompletionDate = &completionDate
	return nil
}

// CanDelete reports whether the batch may be removed. Started batches
// already consumed stock and must not disappear.
func (p *Production) CanDelete() bool {
	return p.Status == StatusDraft
}
