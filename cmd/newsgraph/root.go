package newsgraph

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	engine "github.com/newsgraph/newsgraph"
	"github.com/newsgraph/newsgraph/pkg/checkpoint"
	"github.com/newsgraph/newsgraph/pkg/config"
	"github.com/newsgraph/newsgraph/pkg/embedder"
	"github.com/newsgraph/newsgraph/pkg/graph"
	"github.com/newsgraph/newsgraph/pkg/ingest"
	"github.com/newsgraph/newsgraph/pkg/llm"
	"github.com/newsgraph/newsgraph/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "newsgraph",
		Short: "NewsGraph: news knowledge graph and hybrid search",
		Long: `NewsGraph ingests scraped news articles into a Neo4j knowledge graph,
embeds their fragments for vector search, and answers questions by routing
them across vector, graph-expanded and generated-Cypher retrieval.`,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.newsgraph.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json, color)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".newsgraph")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildEngine assembles the full client from configuration. The returned
// cleanup closes everything the engine opened, checkpoint store included.
func buildEngine(cfg *config.Config, log *slog.Logger) (engine.Engine, func(), error) {
	if log == nil {
		log = logger.New(cfg.Log.Level, cfg.Log.Format)
	}

	store, err := graph.NewNeo4jStore(cfg.Database.URI, cfg.Database.Username, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	embedClient := embedder.NewOpenAIClient(&embedder.Config{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})

	var llmClient llm.Client = llm.NewOpenAIClient(&llm.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, log)
	if cfg.CircuitBreaker.Enabled {
		llmClient = llm.NewCircuitBreakerClient(llmClient, llm.BreakerSettings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, log)
	}

	var cp ingest.Checkpoint
	var cpStore *checkpoint.Store
	if cfg.Ingest.CheckpointPath != "" {
		cpStore, err = checkpoint.Open(cfg.Ingest.CheckpointPath)
		if err != nil {
			return nil, nil, err
		}
		cp = cpStore
	}

	client, err := engine.NewClient(store, embedClient, llmClient, &engine.Config{
		IndexName:     cfg.Index.Name,
		ChunkSize:     cfg.Ingest.ChunkSize,
		Overlap:       cfg.Ingest.Overlap,
		ProgressEvery: cfg.Ingest.ProgressEvery,
		Checkpoint:    cp,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if cpStore != nil {
			cpStore.Close()
		}
	}
	return client, cleanup, nil
}
