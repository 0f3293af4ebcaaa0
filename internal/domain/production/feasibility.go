package production

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockView is the inventory snapshot feasibility works against
type StockView struct {
	ItemID   uuid.UUID
	Name     string
	Quantity decimal.Decimal
	AvgPrice decimal.Decimal
}

// IngredientRequirement is the feasibility verdict for one ingredient
type IngredientRequirement struct {
	ItemID        uuid.UUID       `json:"item_id"`
	ItemName      string          `json:"item_name"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Shortage      decimal.Decimal `json:"shortage"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Sufficient    bool            `json:"sufficient"`
}

// FeasibilityReport is a read-only dry run of a production batch
type FeasibilityReport struct {
	Feasible    bool                    `json:"feasible"`
	Ingredients []IngredientRequirement `json:"ingredients"`
	CostPerUnit decimal.Decimal         `json:"cost_per_unit"`
	TotalCost   decimal.Decimal         `json:"total_cost"`
	Suggestions []string                `json:"suggestions,omitempty"`
}

// ComputeFeasibility checks a batch against current stock levels and
// estimates its cost at today's average prices. It never mutates
// anything; starting the batch repeats the check inside a transaction.
func ComputeFeasibility(p *Production, stock map[uuid.UUID]StockView) *FeasibilityReport {
	report := &FeasibilityReport{
		Feasible:    true,
		Ingredients: make([]IngredientRequirement, 0, len(p.Ingredients)),
		CostPerUnit: decimal.Zero,
	}

	for _, ing := range p.Ingredients {
		view := stock[ing.ItemID]
		required := p.RequiredQuantity(ing)

		req := IngredientRequirement{
			ItemID:        ing.ItemID,
			ItemName:      view.Name,
			Required:      required,
			Available:     view.Quantity,
			Shortage:      decimal.Zero,
			AvgPrice:      view.AvgPrice,
			EstimatedCost: ing.Quantity.Mul(view.AvgPrice),
			Sufficient:    true,
		}
		if view.Quantity.LessThan(required) {
			req.Shortage = required.Sub(view.Quantity)
			req.Sufficient = false
			report.Feasible = false
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("Restock %s: need %s more", view.Name, req.Shortage))
		}

		report.CostPerUnit = report.CostPerUnit.Add(req.EstimatedCost)
		report.Ingredients = append(report.Ingredients, req)
	}

	report.CostPerUnit = report.CostPerUnit.Round(4)
	report.TotalCost = report.CostPerUnit.Mul(p.Quantity).Round(4)
	return report
}
