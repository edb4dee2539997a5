package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dealscout/backend/config"
	httpDelivery "github.com/dealscout/backend/internal/delivery/http"
	"github.com/dealscout/backend/internal/domain"
	"github.com/dealscout/backend/internal/infrastructure/cache"
	"github.com/dealscout/backend/internal/infrastructure/catalog"
	"github.com/dealscout/backend/internal/infrastructure/embedding"
	"github.com/dealscout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting DealScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Embedding service: %s", cfg.Embedding.BaseURL)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	debug := cfg.Server.Environment == "development" || cfg.Matching.EnableDebugLogging

	// Infrastructure
	memoryCache := cache.NewMemoryCache()

	embeddingClient := embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.Timeout, cfg.RateLimit.Embedding)
	embeddingClient.SetDebug(debug)

	amazonClient := catalog.NewClient(domain.SourceAmazon, cfg.Sources.AmazonBaseURL, cfg.RateLimit.Sources)
	flipkartClient := catalog.NewClient(domain.SourceFlipkart, cfg.Sources.FlipkartBaseURL, cfg.RateLimit.Sources)
	amazonClient.SetDebug(debug)
	flipkartClient.SetDebug(debug)

	// Usecase layer
	relevanceFilter := usecase.NewRelevanceFilter(embeddingClient, usecase.FilterConfig{
		Threshold:          cfg.Matching.SimilarityThreshold,
		ExcludeNonProduct:  cfg.Matching.ExcludeNonProduct,
		MaxResults:         cfg.Matching.MaxResults,
		EnableDebugLogging: debug,
	})

	matchingService := usecase.NewMatchingService(usecase.MatchConfig{
		NameSimilarityThreshold: cfg.Matching.NameSimilarityThreshold,
		EnableDebugLogging:      debug,
	})

	searchService := usecase.NewSearchService(
		amazonClient,
		flipkartClient,
		relevanceFilter,
		matchingService,
		usecase.NewComparisonService(),
		memoryCache,
		usecase.SearchServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			FallbackUnfiltered: cfg.Matching.FallbackUnfiltered,
			EnableDebugLogging: debug,
		},
	)

	log.Printf("Matching: similarity=%.2f, name_similarity=%.2f, max_results=%d, fallback_unfiltered=%v",
		cfg.Matching.SimilarityThreshold,
		cfg.Matching.NameSimilarityThreshold,
		cfg.Matching.MaxResults,
		cfg.Matching.FallbackUnfiltered)

	// HTTP delivery
	handler := httpDelivery.NewHandler(searchService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
