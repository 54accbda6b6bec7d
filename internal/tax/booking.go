package tax

import (
	"fmt"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
)

// AddonDefinition is one purchasable extra in the add-on catalog.
type AddonDefinition struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	UnitPrice  money.Amount           `json:"unit_price"`
	ChargeType domain.AddonChargeType `json:"charge_type"`
}

// AddonCatalog is an immutable, ordered set of add-on definitions keyed by ID.
type AddonCatalog struct {
	order []AddonDefinition
	byID  map[string]AddonDefinition
}

// NewAddonCatalog builds a catalog. IDs must be unique and charge types known.
func NewAddonCatalog(defs ...AddonDefinition) (*AddonCatalog, error) {
	c := &AddonCatalog{
		order: make([]AddonDefinition, 0, len(defs)),
		byID:  make(map[string]AddonDefinition, len(defs)),
	}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("add-on definition without id")
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate add-on id %q", d.ID)
		}
		if d.ChargeType != domain.ChargePerNight && d.ChargeType != domain.ChargeOneTime {
			return nil, fmt.Errorf("add-on %q: unknown charge type %q", d.ID, d.ChargeType)
		}
		c.order = append(c.order, d)
		c.byID[d.ID] = d
	}
	return c, nil
}

// Lookup returns the definition for id.
func (c *AddonCatalog) Lookup(id string) (AddonDefinition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns the definitions in catalog order. The slice is a copy.
func (c *AddonCatalog) All() []AddonDefinition {
	out := make([]AddonDefinition, len(c.order))
	copy(out, c.order)
	return out
}

// DefaultAddonCatalog returns the stock add-ons offered at booking time.
func DefaultAddonCatalog() *AddonCatalog {
	c, err := NewAddonCatalog(
		AddonDefinition{ID: "breakfast", Label: "Breakfast", UnitPrice: money.MustMajor("5000"), ChargeType: domain.ChargePerNight},
		AddonDefinition{ID: "extra_bed", Label: "Extra Bed", UnitPrice: money.MustMajor("7500"), ChargeType: domain.ChargePerNight},
		AddonDefinition{ID: "airport_pickup", Label: "Airport Pickup", UnitPrice: money.MustMajor("15000"), ChargeType: domain.ChargeOneTime},
		AddonDefinition{ID: "late_checkout", Label: "Late Checkout", UnitPrice: money.MustMajor("10000"), ChargeType: domain.ChargeOneTime},
		AddonDefinition{ID: "spa_access", Label: "Spa Access", UnitPrice: money.MustMajor("12000"), ChargeType: domain.ChargeOneTime},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// BookingParams describes a (possibly multi-room) booking quote request.
type BookingParams struct {
	RoomRate    money.Amount `json:"room_rate"`
	Nights      int          `json:"nights"`
	RoomCount   int          `json:"room_count"`
	AddonIDs    []string     `json:"addon_ids"`
	DepositPaid money.Amount `json:"deposit_paid"`
}

// AddonLine is one selected add-on as it appears on a receipt.
type AddonLine struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	ChargeType domain.AddonChargeType `json:"charge_type"`
	UnitPrice  money.Amount           `json:"unit_price"`
	Quantity   int                    `json:"quantity"`
	Amount     money.Amount           `json:"amount"`
}

// BookingCalculationResult is a quote for a booking. It is not persisted.
type BookingCalculationResult struct {
	Nights       int          `json:"nights"`
	RoomCount    int          `json:"room_count"`
	RoomSubtotal money.Amount `json:"room_subtotal"`
	Addons       []AddonLine  `json:"addons"`
	AddonTotal   money.Amount `json:"addon_total"`
	Subtotal     money.Amount `json:"subtotal"`
	Tax          Breakdown    `json:"tax"`
	DepositPaid  money.Amount `json:"deposit_paid"`
	BalanceDue   money.Amount `json:"balance_due"`
}

// CalculateGroupBookingTotal prices rooms and add-ons, then runs the subtotal
// through ComputeTax. Per-night add-ons count nights × rooms; one-time add-ons
// count once per room. Selecting an ID twice adds it twice.
func CalculateGroupBookingTotal(p BookingParams, catalog *AddonCatalog, cfg Config) (*BookingCalculationResult, error) {
	res := &BookingCalculationResult{
		Nights:       p.Nights,
		RoomCount:    p.RoomCount,
		RoomSubtotal: p.RoomRate.MulInt(p.Nights).MulInt(p.RoomCount),
		Addons:       make([]AddonLine, 0, len(p.AddonIDs)),
		DepositPaid:  p.DepositPaid,
	}

	for _, id := range p.AddonIDs {
		def, ok := catalog.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAddon, id)
		}
		qty := p.RoomCount
		if def.ChargeType == domain.ChargePerNight {
			qty = p.Nights * p.RoomCount
		}
		line := AddonLine{
			ID:         def.ID,
			Label:      def.Label,
			ChargeType: def.ChargeType,
			UnitPrice:  def.UnitPrice,
			Quantity:   qty,
			Amount:     def.UnitPrice.MulInt(qty),
		}
		res.Addons = append(res.Addons, line)
		res.AddonTotal += line.Amount
	}

	res.Subtotal = res.RoomSubtotal + res.AddonTotal
	res.Tax = ComputeTax(res.Subtotal, cfg)
	res.BalanceDue = CalculateBalanceDue(res.Tax.TotalAmount, p.DepositPaid)
	return res, nil
}
