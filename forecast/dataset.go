package forecast

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TrainFromXlsx trains cold-start models from a retail sales dataset
// workbook. Each row carries a category (Item_Type), an establishment
// year and an outlet sales figure; we aggregate mean sales per year and
// fit the same quadratic per category against the year sequence.
// Categories with fewer than 3 distinct years are skipped. The analyzer
// is untouched when the file cannot be read.
func (a *Analyzer) TrainFromXlsx(ctx context.Context, path string) error {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("dataset %s has no sheets", path)
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("dataset %s has no data rows", path)
	}

	typeCol, yearCol, salesCol := -1, -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case "Item_Type":
			typeCol = i
		case "Outlet_Establishment_Year":
			yearCol = i
		case "Item_Outlet_Sales":
			salesCol = i
		}
	}
	if typeCol < 0 || yearCol < 0 || salesCol < 0 {
		return fmt.Errorf("dataset %s is missing expected columns", path)
	}

	type yearlyData struct {
		sum   map[int]float64
		count map[int]int
		rows  int
	}
	byCategory := map[string]*yearlyData{}
	for _, row := range rows[1:] {
		if typeCol >= len(row) || yearCol >= len(row) || salesCol >= len(row) {
			continue
		}
		category := strings.TrimSpace(row[typeCol])
		year, errYear := strconv.Atoi(strings.TrimSpace(row[yearCol]))
		sales, errSales := strconv.ParseFloat(strings.TrimSpace(row[salesCol]), 64)
		if category == "" || errYear != nil || errSales != nil {
			continue
		}
		data, ok := byCategory[category]
		if !ok {
			data = &yearlyData{sum: map[int]float64{}, count: map[int]int{}}
			byCategory[category] = data
		}
		data.sum[year] += sales
		data.count[year]++
		data.rows++
	}

	trained := map[string]categoryModel{}
	for category, data := range byCategory {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(data.sum) < 3 {
			continue
		}

		years := make([]int, 0, len(data.sum))
		for year := range data.sum {
			years = append(years, year)
		}
		sort.Ints(years)

		xs := make([]float64, len(years))
		ys := make([]float64, len(years))
		for i, year := range years {
			xs[i] = float64(i + 1)
			ys[i] = data.sum[year] / float64(data.count[year])
		}

		coeffs, err := fitQuadratic(xs, ys)
		if err != nil {
			continue
		}
		mean, std := meanStd(ys)
		trained[category] = categoryModel{
			coeffs:     coeffs,
			meanSales:  mean,
			stdSales:   std,
			dataPoints: data.rows,
		}
	}

	a.mu.Lock()
	for category, model := range trained {
		a.models[category] = model
	}
	a.mu.Unlock()
	return nil
}
