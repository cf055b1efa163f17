package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/models"
	"github.com/shopspring/decimal"
)

type demoSupplier struct {
	name     string
	category string
	email    string
	phone    string
}

type demoProduct struct {
	itemId   string
	name     string
	category string
	mrp      string
	minStock int
	// batches as (quantity, days until expiry) pairs
	batches [][2]int
}

var demoSuppliers = []demoSupplier{
	{"Fresh Farm Logistics", "Fruits and Vegetables", "orders@freshfarm.example", "+95-1-555-0101"},
	{"Daily Dairy Co.", "Dairy", "supply@dailydairy.example", "+95-1-555-0102"},
	{"Global Snacking Inc.", "Snack Foods", "b2b@globalsnacking.example", "+95-1-555-0103"},
	{"Frozen Fast Foods", "Frozen Foods", "sales@frozenfast.example", "+95-1-555-0104"},
	{"Generic Grocers Ltd.", "Baking Goods", "contact@genericgrocers.example", "+95-1-555-0105"},
	{"Household Essentials", "Household", "orders@household.example", "+95-1-555-0106"},
	{"Beverage Distributors", "Soft Drinks", "orders@beveragedist.example", "+95-1-555-0107"},
	{"Canned Goods Supply", "Canned", "supply@cannedgoods.example", "+95-1-555-0108"},
	{"HealthPlus Hygiene", "Health and Hygiene", "sales@healthplus.example", "+95-1-555-0109"},
}

var demoProducts = []demoProduct{
	{"FDA15", "Whole Milk 1L", "Dairy", "2.50", 20, [][2]int{{40, 5}, {60, 20}}},
	{"FDX07", "Cheddar Cheese 200g", "Dairy", "4.80", 10, [][2]int{{25, 12}}},
	{"FDN15", "Orange Juice 1L", "Soft Drinks", "3.20", 15, [][2]int{{50, 30}}},
	{"FDO10", "Potato Chips 150g", "Snack Foods", "1.80", 30, [][2]int{{80, 90}, {120, 150}}},
	{"FDP36", "Frozen Peas 500g", "Frozen Foods", "2.10", 15, [][2]int{{35, 180}}},
	{"FDH17", "Tomatoes 1kg", "Fruits and Vegetables", "1.60", 25, [][2]int{{30, 3}, {45, 6}}},
	{"NCD19", "Dish Soap 500ml", "Household", "2.90", 10, [][2]int{{60, 365}}},
	{"FDW12", "Baking Flour 1kg", "Baking Goods", "1.40", 20, [][2]int{{70, 240}}},
	{"FDC37", "Canned Beans 400g", "Canned", "1.20", 20, [][2]int{{90, 540}}},
	{"NCB42", "Hand Sanitizer 250ml", "Health and Hygiene", "3.50", 10, [][2]int{{40, 400}}},
}

func main() {
	skipProducts := flag.Bool("suppliers-only", false, "Seed users and suppliers but no demo products/batches")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	models.MigrateTable()

	if err := models.SeedDefaultUsers(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed users: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("default users ready (admin/admin123, staff/staff123)")

	for _, s := range demoSuppliers {
		_, err := models.CreateSupplier(ctx, &models.NewSupplier{
			Name:         s.name,
			Category:     s.category,
			ContactEmail: s.email,
			Phone:        s.phone,
		})
		if err != nil {
			// Duplicate category on re-run is expected; report and move on.
			fmt.Fprintf(os.Stderr, "supplier %s: %v\n", s.name, err)
			continue
		}
		fmt.Printf("supplier %s (%s)\n", s.name, s.category)
	}

	if *skipProducts {
		return
	}

	for _, p := range demoProducts {
		mrp, err := decimal.NewFromString(p.mrp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "product %s: bad mrp %q\n", p.itemId, p.mrp)
			continue
		}
		product, err := models.CreateProduct(ctx, &models.NewProduct{
			ItemId:   p.itemId,
			Name:     p.name,
			Category: p.category,
			Mrp:      mrp,
			MinStock: p.minStock,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "product %s: %v\n", p.itemId, err)
			continue
		}

		for _, b := range p.batches {
			expiry := time.Now().UTC().AddDate(0, 0, b[1])
			_, err := models.CreateBatch(ctx, &models.NewBatch{
				ProductId:  product.ID,
				Quantity:   b[0],
				CostPrice:  mrp.Mul(decimal.NewFromFloat(0.6)).Round(2),
				ExpiryDate: expiry,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "product %s batch: %v\n", p.itemId, err)
			}
		}
		fmt.Printf("product %s %s with %d batch(es)\n", p.itemId, p.name, len(p.batches))
	}

	fmt.Println("demo data seeded")
}
