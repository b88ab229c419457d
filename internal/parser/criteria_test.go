package parser

import "testing"

func TestParseQueryPriceUnder(t *testing.T) {
	cases := []struct {
		query string
		want  float64
	}{
		{"tech stocks under $100", 100},
		{"price under 50", 50},
		{"stocks below $75", 75},
		{"less than $200 please", 200},
	}

	for _, tc := range cases {
		c := ParseQuery(tc.query)
		if c.MaxPrice == nil {
			t.Fatalf("%q: expected max price", tc.query)
		}
		if *c.MaxPrice != tc.want {
			t.Errorf("%q: max price %v, want %v", tc.query, *c.MaxPrice, tc.want)
		}
	}
}

func TestParseQueryPriceBetween(t *testing.T) {
	c := ParseQuery("stocks between $50 and $150")
	if c.MinPrice == nil || *c.MinPrice != 50 {
		t.Errorf("min price = %v, want 50", c.MinPrice)
	}
	if c.MaxPrice == nil || *c.MaxPrice != 150 {
		t.Errorf("max price = %v, want 150", c.MaxPrice)
	}
}

func TestParseQueryBetweenLosesToSingleSided(t *testing.T) {
	// Single-sided patterns are declared before "between", so their bound
	// sticks and only the missing side comes from the range.
	c := ParseQuery("under $80 but between $20 and $300")
	if c.MaxPrice == nil || *c.MaxPrice != 80 {
		t.Errorf("max price = %v, want 80", c.MaxPrice)
	}
	if c.MinPrice == nil || *c.MinPrice != 20 {
		t.Errorf("min price = %v, want 20", c.MinPrice)
	}
}

func TestParseQueryPERatioAndYield(t *testing.T) {
	c := ParseQuery("value stocks with pe under 15 and yield over 3")
	if c.MaxPE == nil || *c.MaxPE != 15 {
		t.Errorf("max PE = %v, want 15", c.MaxPE)
	}
	if c.MinDividendYield == nil || *c.MinDividendYield != 3 {
		t.Errorf("min yield = %v, want 3", c.MinDividendYield)
	}
	if !c.Value {
		t.Error("value flag not set")
	}
	if !c.Dividend {
		t.Error("yield mention must set dividend flag")
	}
}

func TestParseQueryCategoryFlags(t *testing.T) {
	c := ParseQuery("established blue chip healthcare and energy companies")
	if !c.LargeCap {
		t.Error("large cap flag not set")
	}
	if !c.Healthcare {
		t.Error("healthcare flag not set")
	}
	if !c.Energy {
		t.Error("energy flag not set")
	}
	if c.Tech {
		t.Error("tech flag wrongly set")
	}

	c = ParseQuery("AI software companies")
	if !c.Tech {
		t.Error("tech flag not set for AI query")
	}
}

func TestParseQueryUnconstrained(t *testing.T) {
	c := ParseQuery("show me some stocks")
	if c.MaxPrice != nil || c.MinPrice != nil || c.MaxPE != nil || c.MinDividendYield != nil {
		t.Error("plain query must leave numeric bounds unconstrained")
	}
	if c.OriginalQuery != "show me some stocks" {
		t.Errorf("original query = %q", c.OriginalQuery)
	}
}

func TestParseQueryCaseInsensitive(t *testing.T) {
	c := ParseQuery("DIVIDEND Stocks UNDER $60")
	if !c.Dividend {
		t.Error("dividend flag not set")
	}
	if c.MaxPrice == nil || *c.MaxPrice != 60 {
		t.Errorf("max price = %v, want 60", c.MaxPrice)
	}
}
