package shipping

import "storefront/internal/model"

// Calculator prices courier delivery from an injected zone table.
type Calculator struct {
	table Table
}

// NewCalculator creates a calculator over a copy of table.
// A nil or empty table means DefaultTable.
func NewCalculator(table Table) *Calculator {
	if len(table) == 0 {
		table = DefaultTable()
	}
	return &Calculator{table: table.clone()}
}

// ComputeCharge returns the courier fee for an order of subtotal delivered to zone.
// Orders at or above the zone's free-shipping threshold ship free; unknown zones are
// priced as FallbackZone.
func (c *Calculator) ComputeCharge(zone model.Zone, subtotal float64) float64 {
	z, ok := c.table[zone]
	if !ok {
		z = c.table[FallbackZone]
	}
	if subtotal >= z.FreeShippingAbove {
		return 0
	}
	return z.Charge
}

// Serves reports whether zone has its own entry in the table.
func (c *Calculator) Serves(zone model.Zone) bool {
	return c.table.Has(zone)
}

// Zones returns a copy of the pricing table.
func (c *Calculator) Zones() Table {
	return c.table.clone()
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
