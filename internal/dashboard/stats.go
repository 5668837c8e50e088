package dashboard

import (
	"stockwatch/internal/domain"
)

// Stats summarizes a set of watched stocks for the stats header.
type Stats struct {
	Total     int
	Gaining   int
	Losing    int
	AvgChange float64
	TopSector string
}

// Compute derives watchlist statistics from stock records. Stocks with a
// zero change percent count as neither gaining nor losing.
func Compute(stocks []domain.Stock) Stats {
	st := Stats{Total: len(stocks)}
	if len(stocks) == 0 {
		return st
	}

	var totalChange float64
	sectors := make(map[string]int)
	for _, s := range stocks {
		switch {
		case s.ChangePercent > 0:
			st.Gaining++
		case s.ChangePercent < 0:
			st.Losing++
		}
		totalChange += s.ChangePercent
		if s.Sector != "" {
			sectors[s.Sector]++
		}
	}
	st.AvgChange = totalChange / float64(len(stocks))

	best := 0
	for sector, n := range sectors {
		if n > best || (n == best && sector < st.TopSector) {
			best = n
			st.TopSector = sector
		}
	}
	return st
}
