package perf

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/ledger"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

// yearOfDeliveries builds a dairy's year: daily order batches for every
// customer plus weekly payments.
func yearOfDeliveries(customers int) *store.Collections {
	rng := rand.New(rand.NewSource(1))
	c := &store.Collections{
		Products: []store.Product{
			{ID: "milk", Price: decimal.RequireFromString("54")},
			{ID: "curd", Price: decimal.RequireFromString("62.5")},
		},
	}
	for i := 0; i < customers; i++ {
		c.Customers = append(c.Customers, store.Customer{ID: fmt.Sprintf("c%03d", i)})
		if i%5 == 0 {
			c.CustomerProductRates = append(c.CustomerProductRates, store.CustomerProductRate{
				CustomerID: fmt.Sprintf("c%03d", i), ProductID: "milk", Rate: decimal.RequireFromString("50"),
			})
		}
	}
	start := shared.MustParseDate("2024-01-01")
	for day := 0; day < 365; day++ {
		d := start.AddDays(day)
		order := store.Order{ID: fmt.Sprintf("o%d", day), Date: d}
		for i := 0; i < customers; i++ {
			order.Items = append(order.Items, store.OrderItem{
				CustomerID: fmt.Sprintf("c%03d", i),
				ProductID:  "milk",
				Quantity:   decimal.New(int64(5+rng.Intn(20)), -1),
			})
		}
		c.Orders = append(c.Orders, order)
		if day%7 == 6 {
			for i := 0; i < customers; i++ {
				c.Payments = append(c.Payments, store.Payment{
					ID:         fmt.Sprintf("p%d-%d", day, i),
					CustomerID: fmt.Sprintf("c%03d", i),
					Amount:     decimal.New(int64(500+rng.Intn(300)), 0),
					Date:       d,
				})
			}
		}
	}
	return c
}

func TestLedgerLatencyTargets(t *testing.T) {
	if testing.Short() {
		t.Skip("latency check skipped in short mode")
	}
	c := yearOfDeliveries(50)
	start := shared.MustParseDate("2024-06-01")
	end := shared.MustParseDate("2024-06-30")

	samples := make([]time.Duration, 0, 20)
	for i := 0; i < 20; i++ {
		began := time.Now()
		if _, err := ledger.BuildReport(c, "c007", start, end, ledger.Options{}); err != nil {
			t.Fatalf("build report: %v", err)
		}
		samples = append(samples, time.Since(began))
	}
	if p95 := percentile95(samples); p95 > 250*time.Millisecond {
		t.Fatalf("monthly ledger latency regression: p95=%s threshold=250ms", p95)
	}
}

func BenchmarkBuildMonthlyReport(b *testing.B) {
	c := yearOfDeliveries(50)
	start := shared.MustParseDate("2024-06-01")
	end := shared.MustParseDate("2024-06-30")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ledger.BuildReport(c, "c007", start, end, ledger.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOpeningBalance(b *testing.B) {
	c := yearOfDeliveries(50)
	at := shared.MustParseDate("2024-12-01")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ledger.OpeningBalance(c, "c010", at, ledger.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
