package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pureskin/dupefinder/config"
	"github.com/pureskin/dupefinder/internal/domain"
	"github.com/pureskin/dupefinder/internal/infrastructure/cache"
	"github.com/pureskin/dupefinder/internal/infrastructure/catalog"
	"github.com/pureskin/dupefinder/internal/infrastructure/metrics"
	"github.com/pureskin/dupefinder/internal/usecase"
)

var (
	benchSample  int
	benchCSVPath string
	benchSeed    int64
	benchJSON    bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure retrieval quality and latency over the catalog",
	Long: `Runs a self-retrieval benchmark: sampled products query the index with
their own ingredient list, and the rank at which each product comes back
measures ranking quality. Reports MRR, top-k accuracy and query latency.

A product can rank below first place when the catalog carries other
products with near-identical ingredient lists, so MRR below 1.0 is a
signal about the data as much as about the index.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchSample, "sample", 100, "number of products to query (0 = all)")
	benchCmd.Flags().StringVar(&benchCSVPath, "csv", "", "catalog CSV path (default from config)")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "sampling seed")
	benchCmd.Flags().BoolVar(&benchJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(benchCmd)
}

type benchAccuracy struct {
	Top1  float64 `json:"top1"`
	Top3  float64 `json:"top3"`
	Top5  float64 `json:"top5"`
	Top10 float64 `json:"top10"`
}

type benchLatency struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	P95  float64 `json:"p95"`
}

type benchReport struct {
	Timestamp      string        `json:"timestamp"`
	Products       int           `json:"products"`
	Queries        int           `json:"queries"`
	MRR            float64       `json:"mrr"`
	Accuracy       benchAccuracy `json:"accuracy"`
	LatencyMillis  benchLatency  `json:"latency_ms"`
	SimilarityMean float64       `json:"similarity_mean"`
	NotFound       int           `json:"not_found"`
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if benchCSVPath != "" {
		cfg.Catalog.CSVPath = benchCSVPath
	}

	logger := cliLogger()
	provider := newProvider(cfg, logger)
	ctx := context.Background()

	source := catalog.NewCSVSource(cfg.Catalog.CSVPath, logger)
	products, err := source.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	builder := usecase.NewIndexBuilder(provider, logger)
	index, err := builder.Build(ctx, products)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	search := usecase.NewSearchService(cache.NewMemoryCache(), provider, metrics.NewCollector(), usecase.SearchServiceConfig{}, logger)
	search.Swap(index)

	rng := rand.New(rand.NewSource(benchSeed))
	positions := rng.Perm(index.Len())
	if benchSample > 0 && len(positions) > benchSample {
		positions = positions[:benchSample]
	}

	report := runSelfRetrieval(ctx, search, index, positions)

	if benchJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Products:   %d   Queries: %d\n", report.Products, report.Queries)
	cmd.Printf("MRR:        %.3f\n", report.MRR)
	cmd.Printf("Accuracy:   top-1 %.1f%%   top-3 %.1f%%   top-5 %.1f%%   top-10 %.1f%%\n",
		report.Accuracy.Top1, report.Accuracy.Top3, report.Accuracy.Top5, report.Accuracy.Top10)
	cmd.Printf("Latency:    mean %.2fms   std %.2fms   p95 %.2fms\n",
		report.LatencyMillis.Mean, report.LatencyMillis.Std, report.LatencyMillis.P95)
	cmd.Printf("Similarity: %.3f mean over found\n", report.SimilarityMean)
	if report.NotFound > 0 {
		cmd.Printf("Not found:  %d products missing from their own top 10\n", report.NotFound)
	}

	return nil
}

// runSelfRetrieval queries the index with each sampled product's own
// ingredient list and scores the rank its source row comes back at.
func runSelfRetrieval(ctx context.Context, search *usecase.SearchService, index *domain.ProductIndex, positions []int) benchReport {
	const topN = 10

	report := benchReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Products:  index.Len(),
		Queries:   len(positions),
	}

	var reciprocalSum, similaritySum float64
	var hits1, hits3, hits5, hits10, found int
	latencies := make([]float64, 0, len(positions))

	for _, pos := range positions {
		product := index.Products[pos]

		start := time.Now()
		results := search.Search(ctx, domain.SearchQuery{
			Ingredients: product.Ingredients,
			Secondary:   product.SecondaryCategory,
			TopN:        topN,
		})
		latencies = append(latencies, float64(time.Since(start).Microseconds())/1000)

		rank := 0
		for i, result := range results {
			if result.ProductID == product.ID {
				rank = i + 1
				similaritySum += result.Similarity
				break
			}
		}
		if rank == 0 {
			report.NotFound++
			continue
		}

		found++
		reciprocalSum += 1 / float64(rank)
		if rank == 1 {
			hits1++
		}
		if rank <= 3 {
			hits3++
		}
		if rank <= 5 {
			hits5++
		}
		if rank <= 10 {
			hits10++
		}
	}

	if queries := float64(len(positions)); queries > 0 {
		report.MRR = round3(reciprocalSum / queries)
		report.Accuracy = benchAccuracy{
			Top1:  round1(float64(hits1) / queries * 100),
			Top3:  round1(float64(hits3) / queries * 100),
			Top5:  round1(float64(hits5) / queries * 100),
			Top10: round1(float64(hits10) / queries * 100),
		}
	}
	if found > 0 {
		report.SimilarityMean = round3(similaritySum / float64(found))
	}
	report.LatencyMillis = latencyStats(latencies)

	return report
}

func latencyStats(latencies []float64) benchLatency {
	if len(latencies) == 0 {
		return benchLatency{}
	}

	var sum float64
	for _, l := range latencies {
		sum += l
	}
	mean := sum / float64(len(latencies))

	var variance float64
	for _, l := range latencies {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(latencies))

	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)
	idx := int(math.Ceil(0.95*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}

	return benchLatency{
		Mean: round2(mean),
		Std:  round2(math.Sqrt(variance)),
		P95:  round2(sorted[idx]),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
