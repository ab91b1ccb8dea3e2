// Package cli implements the agrolens command-line interface with
// cobra. Commands talk to the core through the driving ports; service
// wiring happens once in Execute so individual commands stay thin.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harvest-labs/agrolens-cli/internal/adapters/driven/ai"
	configfile "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/config/file"
	pdfextract "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/extract/pdf"
	rowscsv "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/rows/csv"
	"github.com/harvest-labs/agrolens-cli/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/harvest-labs/agrolens-cli/internal/adapters/driven/vector/memory"
	"github.com/harvest-labs/agrolens-cli/internal/chunker"
	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
	"github.com/harvest-labs/agrolens-cli/internal/core/services"
	"github.com/harvest-labs/agrolens-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Services shared by the commands, wired in initServices. Tests swap
// these for mocks.
var (
	configStore driven.ConfigStore
	dataStore   *sqlite.Store

	queryService        driving.QueryService
	indexingService     driving.IndexingService
	datasetService      driving.DatasetService
	conversationService driving.ConversationService

	textChunker  *chunker.Chunker
	rowReader    driven.RowReader
	pdfExtractor *pdfextract.Extractor
)

var rootCmd = &cobra.Command{
	Use:   "agrolens",
	Short: "Ask questions about your agricultural datasets",
	Long: `AgroLens indexes agricultural data files (CSV, TXT, PDF) and answers
natural-language questions over them. Aggregation questions are computed
directly from the structured data; open questions are answered by a
language model grounded in retrieved context.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose pipeline logging")
}

// Execute wires the services and runs the root command.
func Execute() error {
	if err := initServices(); err != nil {
		return err
	}
	defer closeServices()

	return rootCmd.Execute()
}

// initServices builds the adapter stack and the core services. Provider
// connectivity failures are logged, not fatal: the query path degrades
// to explanatory answers.
func initServices() error {
	// Provider keys and URLs may live in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	dataStore = store

	embedding, err := ai.CreateEmbeddingService(configStore)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	if err := ai.Ping(embedding); err != nil {
		logger.Warn("Embedding provider unreachable: %v", err)
	}

	llm, err := ai.CreateLLMService(configStore)
	if err != nil {
		return fmt.Errorf("create LLM service: %w", err)
	}
	if err := ai.Ping(llm); err != nil {
		logger.Warn("LLM provider unreachable: %v", err)
	}

	vectorIndex := vectormem.NewIndex(embedding.Dimensions())
	if err := warmVectorIndex(context.Background(), store, vectorIndex); err != nil {
		logger.Warn("Vector index warm-up incomplete: %v", err)
	}

	rowReader = rowscsv.NewReader()
	pdfExtractor = pdfextract.New()
	textChunker = chunker.New(
		chunker.WithChunkSize(configStore.GetInt("chunker.size")),
		chunker.WithOverlap(configStore.GetInt("chunker.overlap")),
	)

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	rag := services.NewRAGService(
		services.NewClassifier(),
		services.NewComputationEngine(domain.DefaultVocabulary()),
		store.DatasetStore(),
		store.ChunkStore(),
		vectorIndex,
		embedding,
		llm,
		rowReader,
	)
	rag.SetPromptStore(promptStore)
	rag.SetTopK(configStore.GetInt("query.top_k"))
	queryService = rag

	indexingService = services.NewIndexer(
		store.DatasetStore(), store.ChunkStore(), vectorIndex, embedding,
	)
	datasetService = services.NewDatasetService(
		store.DatasetStore(), store.ChunkStore(), vectorIndex,
	)
	conversationService = services.NewConversationService(store.ConversationStore())

	return nil
}

// warmVectorIndex reloads stored embeddings into the in-memory index so
// retrieval works across process restarts.
func warmVectorIndex(ctx context.Context, store *sqlite.Store, index driven.VectorIndex) error {
	datasets, err := store.DatasetStore().ListByStatus(ctx, domain.StatusReady)
	if err != nil {
		return fmt.Errorf("list ready datasets: %w", err)
	}

	loaded := 0
	for _, ds := range datasets {
		chunks, err := store.ChunkStore().GetChunks(ctx, ds.ID)
		if err != nil {
			return fmt.Errorf("load chunks for %s: %w", ds.ID, err)
		}
		for _, chunk := range chunks {
			if !chunk.HasEmbedding() {
				continue
			}
			if err := index.Add(ctx, chunk.ID, chunk.Embedding); err != nil {
				return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
			}
			loaded++
		}
	}

	logger.Debug("Vector index warmed with %d chunks from %d datasets", loaded, len(datasets))
	return nil
}

func closeServices() {
	if dataStore != nil {
		if err := dataStore.Close(); err != nil {
			logger.Warn("Closing storage: %v", err)
		}
	}
}
