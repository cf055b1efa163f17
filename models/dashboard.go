package models

import (
	"context"
	"sort"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/shopspring/decimal"
)

type StockAlert struct {
	ProductId    int    `json:"product_id"`
	ProductName  string `json:"product_name"`
	ItemId       string `json:"item_id"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	Category     string `json:"category"`
}

type CategorySales struct {
	Category      string          `json:"category"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalQuantity int             `json:"total_quantity"`
}

type DashboardStats struct {
	TotalProducts      int             `json:"total_products"`
	TotalBatches       int             `json:"total_batches"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalWastageLoss   decimal.Decimal `json:"total_wastage_loss"`
	ExpiringSoon       int             `json:"expiring_soon"`
	LowStockCount      int             `json:"low_stock_count"`
	ExpiryAlerts       []*ExpiryAlert  `json:"expiry_alerts"`
	StockAlerts        []*StockAlert   `json:"stock_alerts"`
	CategorySales      []*CategorySales `json:"category_sales"`
	RecentTransactions []*Transaction  `json:"recent_transactions"`
}

func sumTransactionAmount(ctx context.Context, transactionType TransactionType) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&Transaction{}).
		Where("transaction_type = ?", transactionType).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

// GetDashboardStats builds the main dashboard overview: inventory
// valuation from batch cost prices, revenue/wastage totals, expiry and
// low-stock alerts, category sales and recent activity.
func GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := config.GetDB()

	var products []*Product
	if err := db.WithContext(ctx).Preload("Batches").Find(&products).Error; err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts:    len(products),
		TotalStockValue:  decimal.Zero,
		ExpiryAlerts:     []*ExpiryAlert{},
		StockAlerts:      []*StockAlert{},
		CategorySales:    []*CategorySales{},
	}

	// Valuation from batch-level cost prices, live batches only.
	for _, p := range products {
		for _, b := range p.Batches {
			if b.Quantity > 0 {
				stats.TotalStockValue = stats.TotalStockValue.
					Add(b.CostPrice.Mul(decimal.NewFromInt(int64(b.Quantity))))
			}
		}
		if p.TotalStock() < p.MinStock {
			stats.StockAlerts = append(stats.StockAlerts, &StockAlert{
				ProductId:    p.ID,
				ProductName:  p.Name,
				ItemId:       p.ItemId,
				CurrentStock: p.TotalStock(),
				MinStock:     p.MinStock,
				Category:     p.Category,
			})
		}
	}
	stats.TotalStockValue = stats.TotalStockValue.Round(2)
	stats.LowStockCount = len(stats.StockAlerts)

	var err error
	if stats.TotalRevenue, err = sumTransactionAmount(ctx, TransactionTypeSale); err != nil {
		return nil, err
	}
	if stats.TotalWastageLoss, err = sumTransactionAmount(ctx, TransactionTypeWastage); err != nil {
		return nil, err
	}

	// Same scope as the expiry monitor (one year out).
	alerts, err := ListExpiringBatches(ctx, 365)
	if err != nil {
		return nil, err
	}
	stats.ExpiryAlerts = alerts
	stats.TotalBatches = len(alerts)
	for _, a := range alerts {
		if a.Status != ExpiryStatusFresh {
			stats.ExpiringSoon++
		}
	}

	type categoryRow struct {
		Category string
		Total    decimal.Decimal
		Qty      int
	}
	var rows []categoryRow
	if err := db.WithContext(ctx).Model(&Transaction{}).
		Select("products.category AS category, COALESCE(SUM(transactions.total_amount), 0) AS total, COALESCE(SUM(transactions.quantity), 0) AS qty").
		Joins("JOIN products ON products.id = transactions.product_id").
		Where("transactions.transaction_type = ?", TransactionTypeSale).
		Group("products.category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.CategorySales = append(stats.CategorySales, &CategorySales{
			Category:      r.Category,
			TotalSales:    r.Total.Round(2),
			TotalQuantity: r.Qty,
		})
	}

	if stats.RecentTransactions, err = ListTransactions(ctx, "", 0, 10); err != nil {
		return nil, err
	}
	return stats, nil
}

type DashboardKPI struct {
	TotalProducts    int             `json:"total_products"`
	TotalBatches     int             `json:"total_batches"`
	TotalStockValue  decimal.Decimal `json:"total_stock_value"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalWastageLoss decimal.Decimal `json:"total_wastage_loss"`
	ExpiringSoon     int             `json:"expiring_soon"`
	LowStockCount    int             `json:"low_stock_count"`
}

// GetDashboardKPI is the lightweight variant for real-time polling:
// counters only, no alert lists.
func GetDashboardKPI(ctx context.Context) (*DashboardKPI, error) {
	db := config.GetDB()

	var products []*Product
	if err := db.WithContext(ctx).Preload("Batches").Find(&products).Error; err != nil {
		return nil, err
	}

	kpi := &DashboardKPI{
		TotalProducts:   len(products),
		TotalStockValue: decimal.Zero,
	}
	for _, p := range products {
		for _, b := range p.Batches {
			if b.Quantity > 0 {
				kpi.TotalStockValue = kpi.TotalStockValue.
					Add(b.CostPrice.Mul(decimal.NewFromInt(int64(b.Quantity))))
				kpi.TotalBatches++
			}
		}
		if p.TotalStock() < p.MinStock {
			kpi.LowStockCount++
		}
	}
	kpi.TotalStockValue = kpi.TotalStockValue.Round(2)

	var err error
	if kpi.TotalRevenue, err = sumTransactionAmount(ctx, TransactionTypeSale); err != nil {
		return nil, err
	}
	if kpi.TotalWastageLoss, err = sumTransactionAmount(ctx, TransactionTypeWastage); err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, 15)
	var atRisk int64
	if err := db.WithContext(ctx).Model(&Batch{}).
		Where("expiry_date <= ? AND quantity > 0", cutoff).
		Count(&atRisk).Error; err != nil {
		return nil, err
	}
	kpi.ExpiringSoon = int(atRisk)
	return kpi, nil
}

type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Wastage decimal.Decimal `json:"wastage"`
	Net     decimal.Decimal `json:"net"`
}

// RevenueAnalytics returns daily sale revenue vs wastage loss over the
// last `days` days, for days with any activity.
func RevenueAnalytics(ctx context.Context, days int) ([]*DailyRevenue, error) {
	db := config.GetDB()
	start := time.Now().UTC().AddDate(0, 0, -days)

	type dayRow struct {
		Day   string
		Total decimal.Decimal
	}
	sumByDay := func(transactionType TransactionType) (map[string]decimal.Decimal, error) {
		var rows []dayRow
		err := db.WithContext(ctx).Model(&Transaction{}).
			Select("DATE(transaction_date) AS day, COALESCE(SUM(total_amount), 0) AS total").
			Where("transaction_date >= ? AND transaction_type = ?", start, transactionType).
			Group("DATE(transaction_date)").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		byDay := make(map[string]decimal.Decimal, len(rows))
		for _, r := range rows {
			byDay[r.Day] = r.Total
		}
		return byDay, nil
	}

	revenue, err := sumByDay(TransactionTypeSale)
	if err != nil {
		return nil, err
	}
	wastage, err := sumByDay(TransactionTypeWastage)
	if err != nil {
		return nil, err
	}

	daySet := make(map[string]struct{}, len(revenue)+len(wastage))
	for d := range revenue {
		daySet[d] = struct{}{}
	}
	for d := range wastage {
		daySet[d] = struct{}{}
	}
	allDays := make([]string, 0, len(daySet))
	for d := range daySet {
		allDays = append(allDays, d)
	}
	sort.Strings(allDays)

	result := make([]*DailyRevenue, 0, len(allDays))
	for _, d := range allDays {
		r := revenue[d]
		w := wastage[d]
		result = append(result, &DailyRevenue{
			Date:    d,
			Revenue: r.Round(2),
			Wastage: w.Round(2),
			Net:     r.Sub(w).Round(2),
		})
	}
	return result, nil
}

type WastageByCategory struct {
	Category      string          `json:"category"`
	Incidents     int             `json:"incidents"`
	TotalQuantity int             `json:"total_quantity"`
	TotalLoss     decimal.Decimal `json:"total_loss"`
}

func WastageReport(ctx context.Context) ([]*WastageByCategory, error) {
	db := config.GetDB()
	var rows []*WastageByCategory
	err := db.WithContext(ctx).Model(&Transaction{}).
		Select("products.category AS category, COUNT(transactions.id) AS incidents, COALESCE(SUM(transactions.quantity), 0) AS total_quantity, COALESCE(SUM(transactions.total_amount), 0) AS total_loss").
		Joins("JOIN products ON products.id = transactions.product_id").
		Where("transactions.transaction_type = ?", TransactionTypeWastage).
		Group("products.category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		r.TotalLoss = r.TotalLoss.Round(2)
	}
	return rows, nil
}

type CategoryBreakdown struct {
	Category     string          `json:"category"`
	ProductCount int             `json:"product_count"`
	TotalStock   int             `json:"total_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// CategoryBreakdownReport aggregates live stock and its retail value
// (mrp-based) per category.
func CategoryBreakdownReport(ctx context.Context) ([]*CategoryBreakdown, error) {
	db := config.GetDB()
	var products []*Product
	if err := db.WithContext(ctx).Preload("Batches").Find(&products).Error; err != nil {
		return nil, err
	}

	byCategory := map[string]*CategoryBreakdown{}
	order := []string{}
	for _, p := range products {
		entry, ok := byCategory[p.Category]
		if !ok {
			entry = &CategoryBreakdown{Category: p.Category, StockValue: decimal.Zero}
			byCategory[p.Category] = entry
			order = append(order, p.Category)
		}
		stock := p.TotalStock()
		entry.ProductCount++
		entry.TotalStock += stock
		entry.StockValue = entry.StockValue.Add(p.Mrp.Mul(decimal.NewFromInt(int64(stock))))
	}

	result := make([]*CategoryBreakdown, 0, len(order))
	for _, cat := range order {
		entry := byCategory[cat]
		entry.StockValue = entry.StockValue.Round(2)
		result = append(result, entry)
	}
	return result, nil
}
