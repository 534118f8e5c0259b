package internal

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount is a category label with an amount attached
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// MonthlyBucket holds the totals for one calendar month
type MonthlyBucket struct {
	Month   MonthKey
	Income  decimal.Decimal
	Expense decimal.Decimal
	// Categories holds the net amount per category, in first-seen order
	Categories []CategoryAmount
	// Balance is the cumulative net of this and all earlier months
	Balance decimal.Decimal
}

// Net is income minus expense
func (b MonthlyBucket) Net() decimal.Decimal {
	return b.Income.Sub(b.Expense)
}

// CategoryNet returns the net amount of a category in this month
func (b MonthlyBucket) CategoryNet(category string) (decimal.Decimal, bool) {
	for _, c := range b.Categories {
		if SameCategory(c.Category, category) {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}

// CategoryNetSum adds up the category nets. It always equals Net().
func (b MonthlyBucket) CategoryNetSum() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range b.Categories {
		sum = sum.Add(c.Amount)
	}
	return sum
}

// CategoryTotal is the whole-set total for one category
type CategoryTotal struct {
	Category string
	Income   decimal.Decimal
	Expense  decimal.Decimal
	// IncomeCount and ExpenseCount are the number of rows of each kind, zero amounts included
	IncomeCount  int
	ExpenseCount int
}

func (c CategoryTotal) Net() decimal.Decimal {
	return c.Income.Sub(c.Expense)
}

// Aggregation is the result of one aggregation pass
type Aggregation struct {
	// Months is sparse and sorted chronologically; months without transactions are absent
	Months []MonthlyBucket
	// Categories holds grand totals per category, in first-seen order
	Categories []CategoryTotal
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Count      int
}

// Net is total income minus total expense
func (a Aggregation) Net() decimal.Decimal {
	return a.Income.Sub(a.Expense)
}

// Balance is the cumulative net after the last month
func (a Aggregation) Balance() decimal.Decimal {
	if len(a.Months) == 0 {
		return decimal.Zero
	}
	return a.Months[len(a.Months)-1].Balance
}

func (a Aggregation) IsEmpty() bool {
	return a.Count == 0
}

// categoryIndex assigns each case-folded category a stable position (first seen wins)
// and remembers the first spelling for display
type categoryIndex struct {
	order map[string]int
	names []string
}

func newCategoryIndex() *categoryIndex {
	return &categoryIndex{order: make(map[string]int)}
}

func (ci *categoryIndex) add(category string) int {
	key := categoryKey(category)
	if idx, ok := ci.order[key]; ok {
		return idx
	}
	idx := len(ci.names)
	ci.order[key] = idx
	ci.names = append(ci.names, category)
	return idx
}

type monthBuilder struct {
	income  decimal.Decimal
	expense decimal.Decimal
	nets    map[int]decimal.Decimal // category index -> net
}

// Aggregate groups transactions by month and category. Every call recomputes
// everything from the set; nothing is carried between calls.
func Aggregate(set TransactionSet) Aggregation {
	categories := newCategoryIndex()
	months := make(map[MonthKey]*monthBuilder)
	var totals []CategoryTotal

	agg := Aggregation{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Count:   len(set),
	}

	for _, tx := range set {
		idx := categories.add(tx.Category)
		if idx == len(totals) {
			totals = append(totals, CategoryTotal{Category: categories.names[idx], Income: decimal.Zero, Expense: decimal.Zero})
		}

		key := tx.Month()
		mb, ok := months[key]
		if !ok {
			mb = &monthBuilder{income: decimal.Zero, expense: decimal.Zero, nets: make(map[int]decimal.Decimal)}
			months[key] = mb
		}

		net, ok := mb.nets[idx]
		if !ok {
			net = decimal.Zero
		}

		switch tx.Kind {
		case KindIncome:
			mb.income = mb.income.Add(tx.Amount)
			agg.Income = agg.Income.Add(tx.Amount)
			totals[idx].Income = totals[idx].Income.Add(tx.Amount)
			totals[idx].IncomeCount++
		case KindExpense:
			mb.expense = mb.expense.Add(tx.Amount)
			agg.Expense = agg.Expense.Add(tx.Amount)
			totals[idx].Expense = totals[idx].Expense.Add(tx.Amount)
			totals[idx].ExpenseCount++
		}
		mb.nets[idx] = net.Add(tx.Signed())
	}

	keys := make([]MonthKey, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Before(keys[j])
	})

	balance := decimal.Zero
	for _, k := range keys {
		mb := months[k]

		idxs := make([]int, 0, len(mb.nets))
		for idx := range mb.nets {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)

		cats := make([]CategoryAmount, 0, len(idxs))
		for _, idx := range idxs {
			cats = append(cats, CategoryAmount{Category: categories.names[idx], Amount: mb.nets[idx]})
		}

		bucket := MonthlyBucket{
			Month:      k,
			Income:     mb.income,
			Expense:    mb.expense,
			Categories: cats,
		}
		balance = balance.Add(bucket.Net())
		bucket.Balance = balance
		agg.Months = append(agg.Months, bucket)
	}

	agg.Categories = totals
	return agg
}
