package forecast

import (
	"context"
	"math"
	"testing"
)

func TestFitQuadratic_RecoversExactPolynomial(t *testing.T) {
	// y = 2 + 3x + 0.5x^2 sampled without noise.
	want := [3]float64{2, 3, 0.5}
	xs := []float64{1, 2, 3, 4, 5, 6}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = want[0] + want[1]*x + want[2]*x*x
	}

	got, err := fitQuadratic(xs, ys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("coefficient %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestFitQuadratic_RejectsDegenerateInput(t *testing.T) {
	// A single repeated x value cannot pin down a quadratic.
	if _, err := fitQuadratic([]float64{2, 2, 2}, []float64{1, 1, 1}); err == nil {
		t.Error("expected an error for a singular system")
	}
}

func TestHeuristicDemand_SeasonalMultipliers(t *testing.T) {
	summerBeverage := heuristicDemand("Soft Drinks", 6)
	winterBeverage := heuristicDemand("Soft Drinks", 1)
	if summerBeverage <= winterBeverage {
		t.Errorf("beverage demand in June (%f) should exceed January (%f)", summerBeverage, winterBeverage)
	}

	summerFrozen := heuristicDemand("Frozen Foods", 5)
	if summerFrozen <= heuristicBaseDemand {
		t.Errorf("frozen demand in May = %f, want above base %f", summerFrozen, heuristicBaseDemand)
	}

	unknown := heuristicDemand("Machine Parts", 6)
	if unknown != heuristicBaseDemand {
		t.Errorf("unmatched category demand = %f, want base %f", unknown, heuristicBaseDemand)
	}
}

func TestPredict_UntrainedFallsBackToHeuristics(t *testing.T) {
	analyzer := NewAnalyzer()
	if analyzer.IsTrained() {
		t.Fatal("fresh analyzer must not be trained")
	}

	prediction := analyzer.Predict("Soft Drinks", 6)
	if prediction.Confidence != heuristicConfidence {
		t.Errorf("confidence = %f, want heuristic %f", prediction.Confidence, heuristicConfidence)
	}
	if prediction.PredictedDemand <= 0 {
		t.Errorf("predicted demand = %f, want positive", prediction.PredictedDemand)
	}
	if prediction.MonthName != "June" {
		t.Errorf("month name = %q, want June", prediction.MonthName)
	}
}

func seasonalObservations(category string) []Observation {
	// A smooth seasonal curve peaking mid-year.
	obs := []Observation{}
	for month := 1; month <= 12; month++ {
		qty := 100 - (month-7)*(month-7)*2
		for i := 0; i < 3; i++ {
			obs = append(obs, Observation{Category: category, Month: month, Quantity: qty / 3})
		}
	}
	return obs
}

func TestTrainFromObservations_PredictAndInsights(t *testing.T) {
	analyzer := NewAnalyzer()
	if err := analyzer.TrainFromObservations(context.Background(), seasonalObservations("Dairy")); err != nil {
		t.Fatalf("training failed: %v", err)
	}
	if !analyzer.IsTrained() {
		t.Fatal("analyzer should be trained after fitting a category")
	}

	prediction := analyzer.Predict("Dairy", 7)
	if prediction.Confidence == heuristicConfidence {
		t.Error("trained category must not report heuristic confidence")
	}
	if prediction.PredictedDemand < 0 {
		t.Errorf("predicted demand = %f, must not go negative", prediction.PredictedDemand)
	}

	midYear := analyzer.Predict("Dairy", 7).PredictedDemand
	winter := analyzer.Predict("Dairy", 1).PredictedDemand
	if midYear <= winter {
		t.Errorf("July demand (%f) should exceed January (%f) for a mid-year peak", midYear, winter)
	}

	insights := analyzer.Insights()
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	insight := insights[0]
	if insight.Category != "Dairy" {
		t.Errorf("category = %q, want Dairy", insight.Category)
	}
	if insight.PeakMonth == insight.LowMonth {
		t.Error("peak and low month must differ for a seasonal curve")
	}
	if insight.PeakDemand < insight.LowDemand {
		t.Errorf("peak %f below low %f", insight.PeakDemand, insight.LowDemand)
	}
	if insight.Volatility <= 0 {
		t.Errorf("volatility = %f, want positive for a seasonal curve", insight.Volatility)
	}
}

func TestTrainFromObservations_SingleMonthStaysHeuristic(t *testing.T) {
	analyzer := NewAnalyzer()
	obs := []Observation{
		{Category: "Canned", Month: 4, Quantity: 30},
		{Category: "Canned", Month: 4, Quantity: 25},
	}
	if err := analyzer.TrainFromObservations(context.Background(), obs); err != nil {
		t.Fatalf("training failed: %v", err)
	}
	if analyzer.IsTrained() {
		t.Error("one distinct month is not enough to train a model")
	}
	if got := analyzer.Predict("Canned", 4).Confidence; got != heuristicConfidence {
		t.Errorf("confidence = %f, want heuristic fallback %f", got, heuristicConfidence)
	}
}

func TestTrainFromObservations_TwoMonthsTrainsLinearModel(t *testing.T) {
	analyzer := NewAnalyzer()
	obs := []Observation{
		{Category: "Household", Month: 2, Quantity: 20},
		{Category: "Household", Month: 8, Quantity: 80},
	}
	if err := analyzer.TrainFromObservations(context.Background(), obs); err != nil {
		t.Fatalf("training failed: %v", err)
	}
	if !analyzer.IsTrained() {
		t.Fatal("two distinct months should be enough to train")
	}

	// The two observed months interpolate linearly.
	if got := analyzer.Predict("Household", 5).PredictedDemand; math.Abs(got-50) > 1e-6 {
		t.Errorf("interpolated demand = %f, want 50", got)
	}
}

func TestTrainFromObservations_ConfidenceScalesWithData(t *testing.T) {
	analyzer := NewAnalyzer()
	obs := []Observation{}
	for month := 1; month <= 12; month++ {
		for i := 0; i < 10; i++ {
			obs = append(obs, Observation{Category: "Snack Foods", Month: month, Quantity: 5})
		}
	}
	if err := analyzer.TrainFromObservations(context.Background(), obs); err != nil {
		t.Fatalf("training failed: %v", err)
	}

	// 120 data points, capped at 1.0.
	if got := analyzer.Predict("Snack Foods", 3).Confidence; got != 1.0 {
		t.Errorf("confidence = %f, want capped 1.0", got)
	}
}

func TestInsights_EmptyWhenUntrained(t *testing.T) {
	analyzer := NewAnalyzer()
	if insights := analyzer.Insights(); len(insights) != 0 {
		t.Errorf("insights = %d, want none for an untrained analyzer", len(insights))
	}
}
