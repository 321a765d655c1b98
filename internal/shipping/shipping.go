package shipping

import (
	"context"
	"fmt"
	"io"
	"math"

	"storefront/internal/model"

	"gopkg.in/yaml.v3"
)

// FallbackZone is used for any zone the table does not know.
const FallbackZone = model.ZoneUrban

// Zone is the courier pricing of one delivery zone.
type Zone struct {
	Name              string  `json:"name" yaml:"name"`
	Charge            float64 `json:"charge" yaml:"charge"`
	FreeShippingAbove float64 `json:"freeShippingAbove" yaml:"freeShippingAbove"`
}

// Table maps delivery zones to their courier pricing.
type Table map[model.Zone]Zone

// DefaultTable returns the standard zone pricing.
func DefaultTable() Table {
	return Table{
		model.ZoneUrban:    {Name: "City Center", Charge: 50, FreeShippingAbove: 500},
		model.ZoneSuburban: {Name: "Suburbs", Charge: 100, FreeShippingAbove: 500},
		model.ZoneRural:    {Name: "Remote Areas", Charge: 150, FreeShippingAbove: 500},
	}
}

// Validate checks that the table can price every order.
func (t Table) Validate() error {
	if _, ok := t[FallbackZone]; !ok {
		return fmt.Errorf("zone table must define the %q zone", FallbackZone)
	}
	for zone, z := range t {
		if zone == "" {
			return fmt.Errorf("zone table contains an empty zone key")
		}
		if z.Charge < 0 || math.IsNaN(z.Charge) {
			return fmt.Errorf("zone %q: charge must not be negative", zone)
		}
		if z.FreeShippingAbove < 0 || math.IsNaN(z.FreeShippingAbove) {
			return fmt.Errorf("zone %q: free shipping threshold must not be negative", zone)
		}
	}
	return nil
}

// Has reports whether zone is served by the table.
func (t Table) Has(zone model.Zone) bool {
	_, ok := t[zone]
	return ok
}

// Loader defines the interface for loading zone tables.
type Loader interface {
	// Load reads a YAML zone table from the given location.
	Load(ctx context.Context, path string) (Table, error)
}

// decodeTable parses a YAML document of the form
//
//	urban: {name: City Center, charge: 50, freeShippingAbove: 500}
func decodeTable(r io.Reader) (Table, error) {
	var table Table
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode zone table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
