package usecase

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
	"github.com/pureskin/dupefinder/internal/infrastructure/metrics"
)

func TestNewDupeService_Defaults(t *testing.T) {
	svc := NewDupeService(nil, DupeServiceConfig{}, zerolog.Nop())

	if svc.similarityFloor != defaultSimilarityFloor {
		t.Errorf("expected default similarity floor %v, got %v", defaultSimilarityFloor, svc.similarityFloor)
	}
	if svc.priceRatio != defaultPriceRatio {
		t.Errorf("expected default price ratio %v, got %v", defaultPriceRatio, svc.priceRatio)
	}
}

func TestQualifyDupes(t *testing.T) {
	tests := []struct {
		name            string
		candidates      []domain.SearchResult
		targetPrice     float64
		similarityFloor float64
		priceRatio      float64
		wantCount       int
		wantFirstID     string
		wantSavings     float64
	}{
		{
			name: "clears both thresholds",
			candidates: []domain.SearchResult{
				{ProductID: "A", Similarity: 0.80, Price: 10},
			},
			targetPrice:     20,
			similarityFloor: 0.70,
			priceRatio:      0.85,
			wantCount:       1,
			wantFirstID:     "A",
			wantSavings:     10,
		},
		{
			name: "similarity exactly at the floor is rejected",
			candidates: []domain.SearchResult{
				{ProductID: "A", Similarity: 0.70, Price: 10},
			},
			targetPrice:     20,
			similarityFloor: 0.70,
			priceRatio:      0.85,
			wantCount:       0,
		},
		{
			name: "price exactly at the ratio boundary is rejected",
			candidates: []domain.SearchResult{
				{ProductID: "A", Similarity: 0.90, Price: 17},
			},
			targetPrice:     20,
			similarityFloor: 0.70,
			priceRatio:      0.85,
			wantCount:       0,
		},
		{
			name: "price just under the boundary is accepted",
			candidates: []domain.SearchResult{
				{ProductID: "A", Similarity: 0.90, Price: 12.30},
			},
			targetPrice:     20,
			similarityFloor: 0.70,
			priceRatio:      0.85,
			wantCount:       1,
			wantFirstID:     "A",
			wantSavings:     7.7,
		},
		{
			name: "zero price never qualifies",
			candidates: []domain.SearchResult{
				{ProductID: "A", Similarity: 0.95, Price: 0},
			},
			targetPrice:     20,
			similarityFloor: 0.70,
			priceRatio:      0.85,
			wantCount:       0,
		},
		{
			name: "zero target price disables the price test",
			candidates: []domain.SearchResult{
				{ProductID: "A", Similarity: 0.90, Price: 999},
			},
			targetPrice:     0,
			similarityFloor: 0.70,
			priceRatio:      0.85,
			wantCount:       1,
			wantFirstID:     "A",
			wantSavings:     0,
		},
		{
			name: "cheaper lower-similarity candidate wins when the best match is too expensive",
			candidates: []domain.SearchResult{
				{ProductID: "PRICEY", Similarity: 0.95, Price: 90},
				{ProductID: "BUDGET", Similarity: 0.75, Price: 40},
			},
			targetPrice:     100,
			similarityFloor: 0.70,
			priceRatio:      0.70,
			wantCount:       1,
			wantFirstID:     "BUDGET",
			wantSavings:     60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qualifiers := qualifyDupes(tt.candidates, tt.targetPrice, tt.similarityFloor, tt.priceRatio)

			if len(qualifiers) != tt.wantCount {
				t.Fatalf("expected %d qualifiers, got %d", tt.wantCount, len(qualifiers))
			}
			if tt.wantCount == 0 {
				return
			}

			first := qualifiers[0]
			if first.ProductID != tt.wantFirstID {
				t.Errorf("expected first qualifier %s, got %s", tt.wantFirstID, first.ProductID)
			}
			if first.SavingsAmount != tt.wantSavings {
				t.Errorf("expected savings %v, got %v", tt.wantSavings, first.SavingsAmount)
			}
			if !first.IsEconomicDupe {
				t.Error("expected qualifier to be flagged as an economic dupe")
			}
		})
	}
}

func TestQualifyDupes_DoesNotMutateCandidates(t *testing.T) {
	candidates := []domain.SearchResult{
		{ProductID: "A", Similarity: 0.90, Price: 10},
	}

	qualifyDupes(candidates, 20, 0.70, 0.85)

	if candidates[0].IsEconomicDupe || candidates[0].SavingsAmount != 0 {
		t.Error("expected the input slice to be left unmodified")
	}
}

// newTestDupeService builds a dupe service over a live search service whose
// similarities are fixed by the product vectors: P0001 scores 0.95, P0002
// scores 0.75 and P0003 scores 0.5 against every query.
func newTestDupeService(t *testing.T, config DupeServiceConfig) *DupeService {
	t.Helper()

	svc, _, _ := newTestSearchService(t, []float32{1, 0}, [][]float32{
		{0.95, 0.31224990},
		{0.75, 0.66143783},
		{0.5, 0.86602540},
	})
	return NewDupeService(svc, config, zerolog.Nop())
}

func TestDupeService_FindsCheaperDupe(t *testing.T) {
	dupes := newTestDupeService(t, DupeServiceConfig{})

	// Catalog prices: P0001 42.00, P0002 12.50, P0003 9.99. A 50.00 target
	// allows anything under 42.50, so P0001 and P0002 qualify.
	verdict := dupes.FindDupes(context.Background(), domain.DupeQuery{
		Ingredients: "Aqua, Niacinamide",
		TargetPrice: 50,
	})

	if !verdict.FoundCheaperDupe {
		t.Fatal("expected a cheaper dupe to be found")
	}
	if verdict.BestDupe == nil {
		t.Fatal("expected a best dupe")
	}
	if verdict.BestDupe.ProductID != "P0001" {
		t.Errorf("expected the highest-ranked qualifier first, got %s", verdict.BestDupe.ProductID)
	}
	if verdict.BestDupe.SavingsAmount != 8 {
		t.Errorf("expected savings of 8.00, got %v", verdict.BestDupe.SavingsAmount)
	}
	if !verdict.BestDupe.IsEconomicDupe {
		t.Error("expected the best dupe to carry the economic flag")
	}
	if len(verdict.Alternatives) != 2 {
		t.Errorf("expected 2 qualifying alternatives, got %d", len(verdict.Alternatives))
	}
	if verdict.Message != "" {
		t.Errorf("expected no message on success, got %q", verdict.Message)
	}
}

func TestDupeService_FallsBackToClosestMatch(t *testing.T) {
	dupes := newTestDupeService(t, DupeServiceConfig{})

	// A 10.00 target allows nothing over 8.50, so no candidate qualifies.
	verdict := dupes.FindDupes(context.Background(), domain.DupeQuery{
		Ingredients: "Aqua, Niacinamide",
		TargetPrice: 10,
	})

	if verdict.FoundCheaperDupe {
		t.Fatal("expected no cheaper dupe")
	}
	if verdict.BestDupe == nil {
		t.Fatal("expected the closest match as a fallback best dupe")
	}
	if verdict.BestDupe.ProductID != "P0001" {
		t.Errorf("expected the highest-similarity candidate, got %s", verdict.BestDupe.ProductID)
	}
	if verdict.BestDupe.IsEconomicDupe {
		t.Error("fallback best dupe must not carry the economic flag")
	}
	if verdict.Message == "" {
		t.Error("expected an explanatory message")
	}
	if len(verdict.Alternatives) != 3 {
		t.Errorf("expected the raw candidates as alternatives, got %d", len(verdict.Alternatives))
	}
}

func TestDupeService_BudgetCandidateBeatsExpensiveMatch(t *testing.T) {
	dupes := newTestDupeService(t, DupeServiceConfig{PriceRatio: 0.25})

	// Ratio 0.25 on a 60.00 target caps qualifying prices at 15.00: P0001
	// (42.00, similarity 0.95) is out, P0002 (12.50, similarity 0.75) wins.
	verdict := dupes.FindDupes(context.Background(), domain.DupeQuery{
		Ingredients: "Aqua, Niacinamide",
		TargetPrice: 60,
	})

	if !verdict.FoundCheaperDupe {
		t.Fatal("expected a cheaper dupe to be found")
	}
	if verdict.BestDupe.ProductID != "P0002" {
		t.Errorf("expected the budget candidate to win, got %s", verdict.BestDupe.ProductID)
	}
	if verdict.BestDupe.SavingsAmount != 47.5 {
		t.Errorf("expected savings of 47.50, got %v", verdict.BestDupe.SavingsAmount)
	}
}

func TestDupeService_EmptyCatalog(t *testing.T) {
	search := NewSearchService(NewMockVectorCache(), NewMockEmbeddingProvider([]float32{1, 0}), metrics.NewCollector(), SearchServiceConfig{}, zerolog.Nop())
	dupes := NewDupeService(search, DupeServiceConfig{}, zerolog.Nop())

	verdict := dupes.FindDupes(context.Background(), domain.DupeQuery{Ingredients: "Aqua"})

	if verdict.FoundCheaperDupe {
		t.Error("expected no dupe without an index")
	}
	if verdict.BestDupe != nil {
		t.Error("expected no best dupe without candidates")
	}
	if verdict.Alternatives == nil || len(verdict.Alternatives) != 0 {
		t.Errorf("expected an empty alternatives slice, got %v", verdict.Alternatives)
	}
	if verdict.Message == "" {
		t.Error("expected an explanatory message")
	}
}

func TestCapAlternatives(t *testing.T) {
	results := make([]domain.SearchResult, 8)
	capped := capAlternatives(results)
	if len(capped) != maxDupeAlternatives {
		t.Errorf("expected %d alternatives, got %d", maxDupeAlternatives, len(capped))
	}

	short := make([]domain.SearchResult, 2)
	if got := capAlternatives(short); len(got) != 2 {
		t.Errorf("expected short slices untouched, got %d", len(got))
	}
}
