package universe

import "testing"

func TestLoadTables(t *testing.T) {
	s := Load()

	if len(s.DividendUniverse) != 25 {
		t.Errorf("dividend universe size = %d, want 25", len(s.DividendUniverse))
	}
	if len(s.TechUniverse) != 17 {
		t.Errorf("tech universe size = %d, want 17", len(s.TechUniverse))
	}
	if len(s.BroadUniverse) != 46 {
		t.Errorf("broad universe size = %d, want 46", len(s.BroadUniverse))
	}

	if len(s.SectorOrder) != 10 {
		t.Fatalf("sector count = %d, want 10", len(s.SectorOrder))
	}
	for _, sector := range s.SectorOrder {
		if len(s.SectorStocks[sector]) != 16 {
			t.Errorf("%s roster size = %d, want 16", sector, len(s.SectorStocks[sector]))
		}
	}

	if len(s.Themes) != 5 {
		t.Errorf("theme count = %d, want 5", len(s.Themes))
	}
	if len(s.Factors) != 4 {
		t.Errorf("factor count = %d, want 4", len(s.Factors))
	}
	if len(s.Managers) != 5 {
		t.Errorf("manager count = %d, want 5", len(s.Managers))
	}
	if len(s.HistoricalScenarios) != 3 {
		t.Errorf("historical scenario count = %d, want 3", len(s.HistoricalScenarios))
	}
	if len(s.AdHocScenarios) != 4 {
		t.Errorf("ad hoc scenario count = %d, want 4", len(s.AdHocScenarios))
	}
}

func TestSamplePortfolioWeights(t *testing.T) {
	s := Load()

	for name, p := range s.SamplePortfolios {
		if len(p) != 20 {
			t.Errorf("%s has %d holdings, want 20", name, len(p))
		}
		for sym, w := range p {
			if w <= 0 || w > 0.25 {
				t.Errorf("%s holds %s at weight %v, out of range", name, sym, w)
			}
		}
	}
}

func TestSectorFor(t *testing.T) {
	s := Load()

	cases := []struct {
		symbol string
		want   string
	}{
		{"AAPL", "Technology"},
		{"JNJ", "Healthcare"},
		{"BRK-B", "Financials"},
		{"XOM", "Energy"},
		{"DIS", "Communication"},
		{"KO", "Other"},
		{"ZZZZ", "Other"},
	}

	for _, tc := range cases {
		if got := s.SectorFor(tc.symbol); got != tc.want {
			t.Errorf("SectorFor(%s) = %s, want %s", tc.symbol, got, tc.want)
		}
	}
}

func TestFactorMembership(t *testing.T) {
	s := Load()

	if !s.IsFactorMember("Growth", "NVDA") {
		t.Error("NVDA must be a Growth member")
	}
	if s.IsFactorMember("Value", "NVDA") {
		t.Error("NVDA must not be a Value member")
	}
	if s.IsFactorMember("Nope", "NVDA") {
		t.Error("unknown factor must report no members")
	}
}

func TestThemeByName(t *testing.T) {
	s := Load()

	ai := s.ThemeByName("AI")
	if ai == nil {
		t.Fatal("AI theme missing")
	}
	if len(ai.Core) != 5 {
		t.Errorf("AI core size = %d, want 5", len(ai.Core))
	}
	if s.ThemeByName("Metaverse") != nil {
		t.Error("unknown theme must return nil")
	}
}

func TestScenarioImpactsCoverAllFactors(t *testing.T) {
	s := Load()

	for _, sc := range s.HistoricalScenarios {
		for _, f := range s.Factors {
			if _, ok := sc.FactorImpacts[f.Name]; !ok {
				t.Errorf("scenario %s missing impact for factor %s", sc.Name, f.Name)
			}
		}
	}
}
