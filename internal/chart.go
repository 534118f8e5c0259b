package internal

import "github.com/shopspring/decimal"

// CategoryPoint is one bar (or pie slice) of a category chart.
// Share is the percentage of the series total and is only set for income and expense series.
type CategoryPoint struct {
	Category string
	Amount   decimal.Decimal
	Share    decimal.Decimal
}

// MonthPoint is one x-position of the monthly line graph
type MonthPoint struct {
	Month   MonthKey
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// BalancePoint is the cumulative balance at the end of a month
type BalancePoint struct {
	Month   MonthKey
	Balance decimal.Decimal
}

// ChartData holds every series an external renderer needs
type ChartData struct {
	NetByCategory     []CategoryPoint
	IncomeByCategory  []CategoryPoint
	ExpenseByCategory []CategoryPoint
	Monthly           []MonthPoint
	Balance           []BalancePoint
}

var hundred = decimal.NewFromInt(100)

// BuildChartData derives all chart series from an aggregation
func BuildChartData(agg Aggregation) ChartData {
	return ChartData{
		NetByCategory:     CategorySeries(agg, ""),
		IncomeByCategory:  CategorySeries(agg, KindIncome),
		ExpenseByCategory: CategorySeries(agg, KindExpense),
		Monthly:           MonthlySeries(agg),
		Balance:           BalanceSeries(agg),
	}
}

// CategorySeries returns category totals in first-seen order.
// An empty kind gives the net per category (every category present); income or
// expense give that kind's totals, leaving out categories with no rows of that kind.
// A category whose rows are all 0.00 stays in the series with a zero share.
func CategorySeries(agg Aggregation, kind Kind) []CategoryPoint {
	points := []CategoryPoint{}
	total := decimal.Zero

	for _, c := range agg.Categories {
		var amount decimal.Decimal
		rows := 1
		switch kind {
		case KindIncome:
			amount, rows = c.Income, c.IncomeCount
		case KindExpense:
			amount, rows = c.Expense, c.ExpenseCount
		default:
			amount = c.Net()
		}
		if rows == 0 {
			continue
		}
		total = total.Add(amount)
		points = append(points, CategoryPoint{Category: c.Category, Amount: amount, Share: decimal.Zero})
	}

	if kind != "" && total.IsPositive() {
		for i := range points {
			points[i].Share = points[i].Amount.Div(total).Mul(hundred).Round(2)
		}
	}
	return points
}

// MonthlySeries returns income, expense and net per month, oldest first
func MonthlySeries(agg Aggregation) []MonthPoint {
	points := make([]MonthPoint, 0, len(agg.Months))
	for _, b := range agg.Months {
		points = append(points, MonthPoint{
			Month:   b.Month,
			Income:  b.Income,
			Expense: b.Expense,
			Net:     b.Net(),
		})
	}
	return points
}

// BalanceSeries returns the running balance per month, oldest first
func BalanceSeries(agg Aggregation) []BalancePoint {
	points := make([]BalancePoint, 0, len(agg.Months))
	for _, b := range agg.Months {
		points = append(points, BalancePoint{Month: b.Month, Balance: b.Balance})
	}
	return points
}
