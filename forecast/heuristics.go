package forecast

import (
	"strings"

	"github.com/camstore/store_backend/utils"
)

const heuristicBaseDemand = 50.0

// heuristicConfidence is deliberately below the ceiling a trained
// model can reach: a no-data guess is never worth more than medium.
const heuristicConfidence = 0.5

// heuristicRule maps category-name keywords to a seasonal multiplier.
// Rules are evaluated in order; the first whose keywords match wins.
type heuristicRule struct {
	name       string
	keywords   []string
	multiplier func(month int) float64
}

var heuristicRules = []heuristicRule{
	{
		name:     "beverages peak in summer",
		keywords: []string{"drink", "beverage", "juice", "cold"},
		multiplier: func(month int) float64 {
			switch {
			case month >= 4 && month <= 7:
				return 1.8
			case month == 12 || month == 1 || month == 2:
				return 0.6
			}
			return 1.0
		},
	},
	{
		name:     "ice cream and frozen goods peak Apr-Aug",
		keywords: []string{"cream", "frozen"},
		multiplier: func(month int) float64 {
			if month >= 4 && month <= 8 {
				return 2.0
			}
			return 0.5
		},
	},
	{
		name:     "stationery peaks around exams and the new semester",
		keywords: []string{"stationery", "book", "pen"},
		multiplier: func(month int) float64 {
			switch month {
			case 3, 4, 11, 12:
				return 1.5
			case 6:
				return 1.3
			}
			return 1.0
		},
	},
	{
		name:     "snacks peak in the festive season",
		keywords: []string{"snack", "food"},
		multiplier: func(month int) float64 {
			if month >= 10 && month <= 12 {
				return 1.2
			}
			return 1.0
		},
	},
}

// heuristicDemand is the fallback for untrained categories: keyword
// match against known seasonal patterns, multiplier applied to a fixed
// base demand.
func heuristicDemand(category string, month int) float64 {
	cat := strings.ToLower(category)
	for _, rule := range heuristicRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(cat, keyword) {
				return utils.Round2(heuristicBaseDemand * rule.multiplier(month))
			}
		}
	}
	return heuristicBaseDemand
}
