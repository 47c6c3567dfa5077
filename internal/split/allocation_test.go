package split

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/onevault/onevault/internal/models"
)

func pct(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.SplitItem
		participants []string
		tax, fee     decimal.Decimal
		want         map[string]Share
	}{
		{
			name: "single item with tax and service fee",
			items: []models.SplitItem{
				{Price: 10000, Quantities: map[string]int64{"Alice": 2, "Bob": 1}},
			},
			participants: []string{"Alice", "Bob"},
			tax:          pct("10"),
			fee:          pct("5"),
			want: map[string]Share{
				"Alice": {Base: 20000, Tax: 2000, Fee: 1000, Total: 23000},
				"Bob":   {Base: 10000, Tax: 1000, Fee: 500, Total: 11500},
			},
		},
		{
			name: "empty quantity map contributes to nobody",
			items: []models.SplitItem{
				{Price: 5000, Quantities: map[string]int64{}},
			},
			participants: []string{"Alice", "Bob"},
			tax:          pct("10"),
			fee:          pct("5"),
			want: map[string]Share{
				"Alice": {},
				"Bob":   {},
			},
		},
		{
			name: "partially assigned item counts only assigned quantity",
			items: []models.SplitItem{
				{Price: 3000, Quantities: map[string]int64{"Alice": 1}},
				{Price: 2000, Quantities: map[string]int64{"Ghost": 2}},
			},
			participants: []string{"Alice"},
			tax:          pct("0"),
			fee:          pct("0"),
			want: map[string]Share{
				"Alice": {Base: 3000, Total: 3000},
			},
		},
		{
			name: "rounding is half-up at the final share only",
			items: []models.SplitItem{
				// base 333 × 1.105 = 367.965 -> 368
				{Price: 333, Quantities: map[string]int64{"Alice": 1}},
				// base 335 × 1.105 = 370.175 -> 370
				{Price: 335, Quantities: map[string]int64{"Bob": 1}},
			},
			participants: []string{"Alice", "Bob"},
			tax:          pct("10"),
			fee:          pct("0.5"),
			want: map[string]Share{
				"Alice": {Base: 333, Tax: 33, Fee: 2, Total: 368},
				"Bob":   {Base: 335, Tax: 34, Fee: 2, Total: 370},
			},
		},
		{
			name: "no participants yields empty result",
			items: []models.SplitItem{
				{Price: 10000, Quantities: map[string]int64{"Alice": 1}},
			},
			participants: nil,
			tax:          pct("10"),
			fee:          pct("5"),
			want:         map[string]Share{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.items, tt.participants, tt.tax, tt.fee)
			if len(got) != len(tt.want) {
				t.Fatalf("Allocate() returned %d shares, want %d", len(got), len(tt.want))
			}
			for name, want := range tt.want {
				share, ok := got[name]
				if !ok {
					t.Errorf("missing share for %s", name)
					continue
				}
				if share != want {
					t.Errorf("%s share = %+v, want %+v", name, share, want)
				}
			}
		})
	}
}

func TestAllocateHomogeneity(t *testing.T) {
	// With every quantity assigned, the sum of shares must match the
	// surcharged item total up to one minor unit per participant.
	items := []models.SplitItem{
		{Price: 1999, Quantities: map[string]int64{"Alice": 3, "Bob": 2}},
		{Price: 4550, Quantities: map[string]int64{"Bob": 1, "Carol": 1}},
		{Price: 120, Quantities: map[string]int64{"Alice": 7}},
	}
	participants := []string{"Alice", "Bob", "Carol"}
	tax, fee := pct("11"), pct("2.5")

	shares := Allocate(items, participants, tax, fee)

	var sum int64
	for _, s := range shares {
		sum += s.Total
	}
	want := SurchargedTotal(items, tax, fee)

	slack := int64(len(participants))
	if diff := sum - want; diff > slack || diff < -slack {
		t.Errorf("share sum = %d, surcharged total = %d, diff %d exceeds rounding slack %d",
			sum, want, diff, slack)
	}
}

func TestItemTotals(t *testing.T) {
	item := models.SplitItem{Price: 5000, Quantities: map[string]int64{"Alice": 2, "Bob": 1}}
	if got := item.TotalQuantity(); got != 3 {
		t.Errorf("TotalQuantity() = %d, want 3", got)
	}
	if got := item.TotalValue(); got != 15000 {
		t.Errorf("TotalValue() = %d, want 15000", got)
	}

	empty := models.SplitItem{Price: 5000, Quantities: map[string]int64{}}
	if got := empty.TotalValue(); got != 0 {
		t.Errorf("TotalValue() of unassigned item = %d, want 0", got)
	}
}
