package economy

// Inventory holds quantities indexed by Good.
type Inventory []float64

// NewInventory returns a zeroed inventory sized for the registry.
func NewInventory(r *Registry) Inventory {
	return make(Inventory, r.NumGoods())
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	copy(out, inv)
	return out
}

// Price is one row of the market price table.
type Price struct {
	Cost            float64 `json:"cost"`             // Current price
	EquilibriumCost float64 `json:"equilibrium_cost"` // Last solved market-clearing price
	originalCost    float64
}

// NewPrice creates a price row. The original cost is fixed for the life of the market.
func NewPrice(cost, equilibrium, original float64) Price {
	return Price{Cost: cost, EquilibriumCost: equilibrium, originalCost: original}
}

// OriginalCost returns the immutable baseline the equilibrium solve scales by.
func (p Price) OriginalCost() float64 { return p.originalCost }
