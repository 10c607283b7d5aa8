package entity

import "testing"

func TestRecord_Value(t *testing.T) {
	t.Parallel()

	r := Record{
		Company:         "Apple",
		Ticker:          "AAPL",
		PeerGroupRoot:   "Technology Hardware",
		Region:          "Americas",
		Country:         "United States",
		TotalESGScore:   Score(16.7),
		GovernanceScore: Score(9.2),
	}

	tests := []struct {
		column string
		want   string
		ok     bool
	}{
		{ColumnCompany, "Apple", true},
		{ColumnTicker, "AAPL", true},
		{ColumnPeerGroupRoot, "Technology Hardware", true},
		{ColumnRegion, "Americas", true},
		{ColumnCountry, "United States", true},
		{ColumnTotalESGScore, "", false},
		{ColumnGovernanceScore, "", false},
		{"Sector", "", false},
	}

	for _, tt := range tests {
		got, ok := r.Value(tt.column)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Value(%q) = (%q, %v), want (%q, %v)", tt.column, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategoricalColumnsAreInSchema(t *testing.T) {
	t.Parallel()

	schema := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		schema[c] = true
	}
	for _, c := range CategoricalColumns {
		if !schema[c] {
			t.Errorf("categorical column %q is missing from Columns", c)
		}
		if _, ok := (Record{}).Value(c); !ok {
			t.Errorf("categorical column %q has no Value accessor", c)
		}
	}
}

func TestRecord_Key(t *testing.T) {
	t.Parallel()

	a := Record{Company: "Apple", Ticker: "AAPL"}
	if a.Key() != (Record{Company: "Apple", Ticker: "AAPL", Region: "Americas"}).Key() {
		t.Error("Key should depend only on Company and Ticker")
	}
	if a.Key() == (Record{Company: "Apple", Ticker: "AAPL.L"}).Key() {
		t.Error("different tickers must not share a key")
	}
	// 区切り文字により連結の曖昧さを避ける
	if (Record{Company: "AB", Ticker: "C"}).Key() == (Record{Company: "A", Ticker: "BC"}).Key() {
		t.Error("Key must not collide on concatenation")
	}
}
