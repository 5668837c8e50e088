package dashboard

import (
	"testing"
	"unicode/utf8"

	"stockwatch/internal/domain"
)

func TestFormatInt(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, c := range cases {
		if got := FormatInt(c.in); got != c.want {
			t.Errorf("FormatInt(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(185.5); got != "$185.50" {
		t.Errorf("FormatPrice(185.5) = %q", got)
	}
	if got := FormatPrice(0); got != "-" {
		t.Errorf("FormatPrice(0) = %q, want -", got)
	}
}

func TestFormatChange(t *testing.T) {
	if got := FormatChange(1.25); got != "+1.25%" {
		t.Errorf("FormatChange(1.25) = %q", got)
	}
	if got := FormatChange(-0.8); got != "-0.80%" {
		t.Errorf("FormatChange(-0.8) = %q", got)
	}
	if got := FormatChange(0); got != "-" {
		t.Errorf("FormatChange(0) = %q, want -", got)
	}
}

func TestFormatMarketCap(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2.5e12, "$2.5T"},
		{850e9, "$850.0B"},
		{3.2e6, "$3.2M"},
		{1500, "$1.5K"},
		{900, "$900"},
		{0, "-"},
	}
	for _, c := range cases {
		if got := FormatMarketCap(c.in); got != c.want {
			t.Errorf("FormatMarketCap(%g) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Apple Inc.", 28, "Apple Inc."},
		{"International Business Machines Corporation", 28, "International Business Ma..."},
		{"Société Générale Société Anonyme", 10, "Société..."},
		{"héllo", 3, "hél"},
	}
	for _, c := range cases {
		got := Truncate(c.in, c.max)
		if got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Truncate(%q, %d) split a rune: %q", c.in, c.max, got)
		}
	}
}

func TestComputeStats(t *testing.T) {
	stocks := []domain.Stock{
		{Symbol: "AAPL", ChangePercent: 2.0, Sector: "Technology"},
		{Symbol: "MSFT", ChangePercent: 1.0, Sector: "Technology"},
		{Symbol: "XOM", ChangePercent: -1.0, Sector: "Energy"},
		{Symbol: "KO", ChangePercent: 0, Sector: "Consumer Staples"},
	}

	st := Compute(stocks)
	if st.Total != 4 {
		t.Errorf("Total = %d, want 4", st.Total)
	}
	if st.Gaining != 2 {
		t.Errorf("Gaining = %d, want 2", st.Gaining)
	}
	if st.Losing != 1 {
		t.Errorf("Losing = %d, want 1", st.Losing)
	}
	if st.AvgChange != 0.5 {
		t.Errorf("AvgChange = %g, want 0.5", st.AvgChange)
	}
	if st.TopSector != "Technology" {
		t.Errorf("TopSector = %q, want Technology", st.TopSector)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := Compute(nil)
	if st.Total != 0 || st.Gaining != 0 || st.Losing != 0 || st.AvgChange != 0 || st.TopSector != "" {
		t.Errorf("Compute(nil) = %+v, want zero stats", st)
	}
}
