package outletgate

import (
	"testing"
	"time"
)

func anyPtr(v any) *any { return &v }

func TestScanOutletMapsFullColumnSet(t *testing.T) {
	fetched := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "name", "location_category", "address", "postal_code", "city", "state", "maps_url", "fetched_at", "source"}
	dest := []any{
		anyPtr(int64(1)), anyPtr("ZUS Coffee KLCC"), anyPtr("Mall"), anyPtr("Suria KLCC"),
		anyPtr("50088"), anyPtr("Kuala Lumpur"), anyPtr("Kuala Lumpur"), anyPtr("https://maps.example/klcc"),
		anyPtr(fetched), anyPtr("scrape"),
	}

	o := scanOutlet(columns, dest)
	if o.ID != 1 || o.Name != "ZUS Coffee KLCC" || o.City != "Kuala Lumpur" || o.MapsURL != "https://maps.example/klcc" {
		t.Fatalf("unexpected outlet: %+v", o)
	}
}

func TestScanOutletMapsNarrowColumnSet(t *testing.T) {
	columns := []string{"name", "address", "city", "maps_url"}
	dest := []any{
		anyPtr("ZUS Coffee Subang"), anyPtr("Subang Parade"), anyPtr("Subang Jaya"), anyPtr("https://maps.example/subang"),
	}

	o := scanOutlet(columns, dest)
	if o.Name != "ZUS Coffee Subang" || o.ID != 0 || o.State != "" {
		t.Fatalf("expected unselected columns to stay zero-valued, got %+v", o)
	}
}
