package internal

// Coverage describes which months a transaction set spans
type Coverage struct {
	Range DateRange
	// CompleteMonths are months fully covered by the data range
	CompleteMonths []MonthKey
	// Gaps are months inside the range that have no transactions
	Gaps []MonthKey
}

// AnalyzeCoverage returns the date range of the transactions, the complete months
// and the months without any transaction.
// A month is complete if it is not the last month of the range, or if the
// range ends on its last day.
func AnalyzeCoverage(set TransactionSet) Coverage {
	if len(set) == 0 {
		return Coverage{}
	}

	// Find date range
	minDate := set[0].Date
	maxDate := set[0].Date
	seen := make(map[MonthKey]bool)
	for _, tx := range set {
		if tx.Date.Before(minDate) {
			minDate = tx.Date
		}
		if tx.Date.After(maxDate) {
			maxDate = tx.Date
		}
		seen[tx.Month()] = true
	}

	cov := Coverage{Range: DateRange{Start: minDate, End: maxDate}}

	first := MonthKey{Year: minDate.Year(), Month: minDate.Month()}
	last := MonthKey{Year: maxDate.Year(), Month: maxDate.Month()}
	lastDayOfEndMonth := maxDate.AddDate(0, 1, -maxDate.Day()).Day()

	for m := first; !last.Before(m); m = m.Next() {
		if m.Before(last) || maxDate.Day() == lastDayOfEndMonth {
			cov.CompleteMonths = append(cov.CompleteMonths, m)
		}
		if !seen[m] {
			cov.Gaps = append(cov.Gaps, m)
		}
	}

	return cov
}
