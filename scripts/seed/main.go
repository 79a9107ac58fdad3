package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/app"
	"github.com/milkbook/milkbook/internal/balance"
	"github.com/milkbook/milkbook/internal/masterdata"
	"github.com/milkbook/milkbook/internal/orders"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg)
	st, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	md := masterdata.NewService(st, logger)
	ord := orders.NewService(st, logger)
	bal := balance.NewService(st, logger, nil)

	// Phase 1: Master Data
	fmt.Println("→ Seeding products...")
	products, err := seedProducts(ctx, md)
	if err != nil {
		log.Fatalf("seed products: %v", err)
	}
	fmt.Println("→ Seeding customers...")
	customers, err := seedCustomers(ctx, md, products)
	if err != nil {
		log.Fatalf("seed customers: %v", err)
	}
	fmt.Println("→ Seeding suppliers...")
	supplier, err := seedSupplier(ctx, md, products)
	if err != nil {
		log.Fatalf("seed suppliers: %v", err)
	}

	// Phase 2: Daily operations
	fmt.Println("→ Seeding orders and payments...")
	if err := seedMonth(ctx, ord, bal, customers, products); err != nil {
		log.Fatalf("seed orders: %v", err)
	}
	fmt.Println("→ Seeding stock receipts...")
	if err := seedStock(ctx, bal, supplier, products); err != nil {
		log.Fatalf("seed stock: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedProducts(ctx context.Context, md *masterdata.Service) (map[string]store.Product, error) {
	out := map[string]store.Product{}
	for _, p := range []masterdata.ProductInput{
		{Name: "Cow Milk", Price: dec("54"), Unit: "litre", Category: "milk"},
		{Name: "Buffalo Milk", Price: dec("68"), Unit: "litre", Category: "milk"},
		{Name: "Curd", Price: dec("62.5"), Unit: "kg", Category: "dairy"},
	} {
		created, err := md.CreateProduct(ctx, p)
		if err != nil {
			return nil, err
		}
		out[p.Name] = created
	}
	return out, nil
}

func seedCustomers(ctx context.Context, md *masterdata.Service, products map[string]store.Product) ([]store.Customer, error) {
	var out []store.Customer
	for _, c := range []masterdata.PartyInput{
		{Name: "Ravi Kumar", Phone: "9845012345", Address: "12 Temple Street", OpeningBalance: dec("420")},
		{Name: "Meena Stores", Phone: "9845067890", Address: "Market Road"},
		{Name: "Sai Tea Stall", Phone: "9845011111", Address: "Bus Stand", OpeningBalance: dec("-100")},
	} {
		created, err := md.CreateCustomer(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	// Bulk buyer discount.
	_, err := md.SetCustomerRate(ctx, masterdata.CustomerRateInput{
		CustomerID: out[1].ID,
		ProductID:  products["Cow Milk"].ID,
		Rate:       dec("51"),
	})
	return out, err
}

func seedSupplier(ctx context.Context, md *masterdata.Service, products map[string]store.Product) (store.Supplier, error) {
	supplier, err := md.CreateSupplier(ctx, masterdata.PartyInput{Name: "Village Milk Co-op", Phone: "9845099999"})
	if err != nil {
		return store.Supplier{}, err
	}
	rates := []struct {
		product, rate, date string
	}{
		{"Cow Milk", "40", "2024-01-01"},
		{"Cow Milk", "42", "2024-04-01"},
		{"Buffalo Milk", "52", "2024-01-01"},
	}
	for _, r := range rates {
		if _, err := md.AddSupplierRate(ctx, masterdata.SupplierRateInput{
			SupplierID:    supplier.ID,
			ProductID:     products[r.product].ID,
			Rate:          dec(r.rate),
			EffectiveDate: shared.MustParseDate(r.date),
		}); err != nil {
			return store.Supplier{}, err
		}
	}
	return supplier, nil
}

func seedMonth(ctx context.Context, ord *orders.Service, bal *balance.Service, customers []store.Customer, products map[string]store.Product) error {
	start := shared.MustParseDate("2024-05-01")
	for day := 0; day < 31; day++ {
		d := start.AddDays(day)
		input := orders.OrderInput{Date: d}
		for i, c := range customers {
			input.Items = append(input.Items, orders.ItemInput{
				CustomerID: c.ID,
				ProductID:  products["Cow Milk"].ID,
				Quantity:   decimal.New(int64(10+5*i), -1),
			})
		}
		if day%3 == 0 {
			input.Items = append(input.Items, orders.ItemInput{
				CustomerID: customers[1].ID,
				ProductID:  products["Curd"].ID,
				Quantity:   dec("2"),
			})
		}
		if _, err := ord.AddOrder(ctx, input); err != nil {
			return err
		}
		if day%7 == 6 {
			for _, c := range customers {
				if _, err := bal.RecordPayment(ctx, balance.PaymentInput{
					CustomerID:    c.ID,
					Amount:        dec("350"),
					Date:          d,
					PaymentMethod: store.PaymentUPI,
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedStock(ctx context.Context, bal *balance.Service, supplier store.Supplier, products map[string]store.Product) error {
	start := shared.MustParseDate("2024-05-01")
	for week := 0; week < 4; week++ {
		if _, err := bal.RecordStockEntry(ctx, balance.StockEntryInput{
			SupplierID: supplier.ID,
			Date:       start.AddDays(7 * week),
			Items: []balance.StockItemInput{
				{ProductID: products["Cow Milk"].ID, Quantity: dec("120")},
				{ProductID: products["Buffalo Milk"].ID, Quantity: dec("40")},
			},
		}); err != nil {
			return err
		}
	}
	_, err := bal.RecordSupplierPayment(ctx, balance.SupplierPaymentInput{
		SupplierID:    supplier.ID,
		Amount:        dec("15000"),
		Date:          shared.MustParseDate("2024-05-25"),
		PaymentMethod: store.PaymentBank,
	})
	return err
}
