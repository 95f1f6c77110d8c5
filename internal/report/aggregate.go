package report

import "sort"

// Row is one line of the state report.
type Row struct {
	State         string
	LeadCount     int
	TopLead       string
	TopRevenue    float64
	MedianRevenue float64
}

// Aggregate groups leads by state, in the order each state is first seen.
// The top lead is the first one holding the state's maximum revenue.
func Aggregate(leads []Lead) []Row {
	var order []string
	groups := make(map[string][]Lead)
	for _, l := range leads {
		if _, ok := groups[l.State]; !ok {
			order = append(order, l.State)
		}
		groups[l.State] = append(groups[l.State], l)
	}

	rows := make([]Row, 0, len(order))
	for _, state := range order {
		group := groups[state]

		top := group[0]
		revenues := make([]float64, len(group))
		for i, l := range group {
			revenues[i] = l.Revenue
			if l.Revenue > top.Revenue {
				top = l
			}
		}

		rows = append(rows, Row{
			State:         state,
			LeadCount:     len(group),
			TopLead:       top.Name,
			TopRevenue:    top.Revenue,
			MedianRevenue: Median(revenues),
		})
	}
	return rows
}

// Median returns the middle value of vs, or the mean of the two middle values
// when len(vs) is even. It returns 0 for an empty slice and does not modify vs.
func Median(vs []float64) float64 {
	n := len(vs)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
