package forecast

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/models"
	"github.com/camstore/store_backend/utils"
)

// Observation is one historical sale data point for training.
type Observation struct {
	Category string
	Month    int
	Quantity int
	Amount   float64
}

type categoryModel struct {
	coeffs     [3]float64
	meanSales  float64
	stdSales   float64
	dataPoints int
}

type Prediction struct {
	Category        string  `json:"category"`
	Month           int     `json:"month"`
	MonthName       string  `json:"month_name"`
	PredictedDemand float64 `json:"predicted_demand"`
	Confidence      float64 `json:"confidence"`
}

type CategoryInsight struct {
	Category   string  `json:"category"`
	MeanDemand float64 `json:"mean_demand"`
	PeakMonth  string  `json:"peak_month"`
	LowMonth   string  `json:"low_month"`
	PeakDemand float64 `json:"peak_demand"`
	LowDemand  float64 `json:"low_demand"`
	Volatility float64 `json:"volatility"`
	DataPoints int     `json:"data_points"`
	Confidence float64 `json:"confidence"`
}

// Analyzer holds the per-category seasonal demand models. Categories
// without a trained model fall back to keyword heuristics; that is a
// two-tier strategy, not an error path. Construct one in main and pass
// the handle to every caller; there is no package-level instance.
type Analyzer struct {
	mu     sync.RWMutex
	models map[string]categoryModel
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{models: map[string]categoryModel{}}
}

func (a *Analyzer) IsTrained() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.models) > 0
}

// TrainFromObservations aggregates observations by category, then by
// month, and fits a degree-2 polynomial of monthly quantity against
// month number. Categories with fewer than 2 distinct months stay in
// heuristic mode. Re-training replaces the prior model per category.
func (a *Analyzer) TrainFromObservations(ctx context.Context, observations []Observation) error {
	if len(observations) == 0 {
		return nil
	}

	type categoryData struct {
		monthly    map[int]float64
		quantities []float64
	}
	byCategory := map[string]*categoryData{}
	for _, obs := range observations {
		if obs.Month < 1 || obs.Month > 12 {
			continue
		}
		data, ok := byCategory[obs.Category]
		if !ok {
			data = &categoryData{monthly: map[int]float64{}}
			byCategory[obs.Category] = data
		}
		data.monthly[obs.Month] += float64(obs.Quantity)
		data.quantities = append(data.quantities, float64(obs.Quantity))
	}

	trained := map[string]categoryModel{}
	for category, data := range byCategory {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(data.monthly) < 2 {
			// Insufficient signal; stays heuristic.
			continue
		}

		months := make([]int, 0, len(data.monthly))
		for m := range data.monthly {
			months = append(months, m)
		}
		sort.Ints(months)
		xs := make([]float64, len(months))
		ys := make([]float64, len(months))
		for i, m := range months {
			xs[i] = float64(m)
			ys[i] = data.monthly[m]
		}

		coeffs, err := fitQuadratic(xs, ys)
		if err != nil {
			// Two distinct months underdetermine a quadratic.
			coeffs, err = fitLinear(xs, ys)
			if err != nil {
				continue
			}
		}
		mean, std := meanStd(data.quantities)
		trained[category] = categoryModel{
			coeffs:     coeffs,
			meanSales:  mean,
			stdSales:   std,
			dataPoints: len(data.quantities),
		}
	}

	a.mu.Lock()
	for category, model := range trained {
		a.models[category] = model
	}
	a.mu.Unlock()
	return nil
}

// TrainFromTransactions trains from the recorded sale history.
func (a *Analyzer) TrainFromTransactions(ctx context.Context) error {
	db := config.GetDB()

	type obsRow struct {
		Category string
		Month    int
		Quantity int
		Amount   float64
	}
	var rows []obsRow
	if err := db.WithContext(ctx).Model(&models.Transaction{}).
		Select("products.category AS category, MONTH(transactions.transaction_date) AS month, transactions.quantity AS quantity, transactions.total_amount AS amount").
		Joins("JOIN products ON products.id = transactions.product_id").
		Where("transactions.transaction_type = ?", models.TransactionTypeSale).
		Scan(&rows).Error; err != nil {
		return err
	}

	observations := make([]Observation, 0, len(rows))
	for _, r := range rows {
		observations = append(observations, Observation{
			Category: r.Category,
			Month:    r.Month,
			Quantity: r.Quantity,
			Amount:   r.Amount,
		})
	}
	return a.TrainFromObservations(ctx, observations)
}

// Predict evaluates the category's model at the given month, or falls
// back to heuristics when untrained. Demand never goes negative.
func (a *Analyzer) Predict(category string, month int) Prediction {
	a.mu.RLock()
	model, ok := a.models[category]
	a.mu.RUnlock()

	prediction := Prediction{
		Category:  category,
		Month:     month,
		MonthName: utils.MonthName(month),
	}
	if !ok {
		prediction.PredictedDemand = heuristicDemand(category, month)
		prediction.Confidence = heuristicConfidence
		return prediction
	}

	demand := evalQuadratic(model.coeffs, float64(month))
	if demand < 0 {
		demand = 0
	}
	prediction.PredictedDemand = utils.Round2(demand)
	prediction.Confidence = utils.Round2(math.Min(1.0, float64(model.dataPoints)/50))
	return prediction
}

// AllPredictions returns predictions for every trained category across
// all 12 months.
func (a *Analyzer) AllPredictions() []Prediction {
	predictions := []Prediction{}
	for _, category := range a.trainedCategories() {
		for month := 1; month <= 12; month++ {
			predictions = append(predictions, a.Predict(category, month))
		}
	}
	return predictions
}

// Insights summarizes each trained category's yearly profile: peak and
// low months, demand range, and volatility (population standard
// deviation of the 12 monthly predictions). Empty when nothing is
// trained.
func (a *Analyzer) Insights() []CategoryInsight {
	insights := []CategoryInsight{}
	for _, category := range a.trainedCategories() {
		a.mu.RLock()
		model := a.models[category]
		a.mu.RUnlock()

		monthly := make([]float64, 12)
		for month := 1; month <= 12; month++ {
			monthly[month-1] = a.Predict(category, month).PredictedDemand
		}

		peakMonth, lowMonth := 1, 1
		sum := 0.0
		for i, demand := range monthly {
			sum += demand
			if demand > monthly[peakMonth-1] {
				peakMonth = i + 1
			}
			if demand < monthly[lowMonth-1] {
				lowMonth = i + 1
			}
		}
		mean := sum / 12
		variance := 0.0
		for _, demand := range monthly {
			variance += (demand - mean) * (demand - mean)
		}
		variance /= 12

		insights = append(insights, CategoryInsight{
			Category:   category,
			MeanDemand: utils.Round2(mean),
			PeakMonth:  utils.MonthName(peakMonth),
			LowMonth:   utils.MonthName(lowMonth),
			PeakDemand: utils.Round2(monthly[peakMonth-1]),
			LowDemand:  utils.Round2(monthly[lowMonth-1]),
			Volatility: utils.Round2(math.Sqrt(variance)),
			DataPoints: model.dataPoints,
			Confidence: utils.Round2(math.Min(1.0, float64(model.dataPoints)/50)),
		})
	}
	return insights
}

func (a *Analyzer) trainedCategories() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	categories := make([]string, 0, len(a.models))
	for category := range a.models {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values) - 1)
	return mean, math.Sqrt(variance)
}
