package main

import (
	"fmt"
	"time"

	"github.com/poiesic/issuematch"
	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/ai/openai"
	"github.com/poiesic/issuematch/analysis"
	"github.com/urfave/cli/v2"
)

// newProvider builds the AI provider for commands that need one.
var newProvider = func(config *ai.Config) (ai.AIProvider, error) {
	return openai.NewProvider(config)
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func csvFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "csv",
		Usage:    "Reference table CSV (UTF-8 or CP949)",
		Required: true,
	}
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "kind",
		Aliases:  []string{"k"},
		Usage:    "Reference set: industry or past_issue",
		Required: true,
	}
}

func vectorKFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "vector-k",
		Usage: "Documents fetched by similarity search (default: 10, or 5 with --vector-only)",
	}
}

func vectorOnlyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "vector-only",
		Usage: "Shortlist industries by similarity alone and skip model ranking",
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   ai.DefaultHost,
			EnvVars: []string{"OPENAI_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   ai.DefaultEmbeddingModel,
			EnvVars: []string{"OPENAI_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI services",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
	}
}

func aiFlags() []cli.Flag {
	return append(embeddingFlags(),
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Chat service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name for ranking and explanation",
			Value:   ai.DefaultChatModel,
			EnvVars: []string{"OPENAI_CHAT_MODEL"},
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Sampling temperature for chat calls",
			Value: 0,
		},
	)
}

func reembedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of documents to process in each batch",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N documents",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum retry attempts for failed operations",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, group := range groups {
		flags = append(flags, group...)
	}
	return flags
}

// aiConfigFromFlags builds and validates the AI configuration. Commands
// without chat flags get the default chat settings.
func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	embeddingHost := c.String("embedding-host")
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = embeddingHost
	}

	opts := []ai.ConfigOption{
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithChatHost(chatHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
	}
	if model := c.String("chat-model"); model != "" {
		opts = append(opts, ai.WithChatModel(model))
	}
	if c.IsSet("temperature") {
		opts = append(opts, ai.WithTemperature(c.Float64("temperature")))
	}

	config := ai.NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

// profileFromFlags returns the profile named by --kind and --vector-only
// with --vector-k and --top-k applied.
func profileFromFlags(c *cli.Context) (analysis.Profile, error) {
	lookup := analysis.ProfileFor
	if c.Bool("vector-only") {
		lookup = analysis.VectorOnlyProfileFor
	}
	profile, err := lookup(c.String("kind"))
	if err != nil {
		return profile, err
	}
	if c.IsSet("vector-k") {
		profile.VectorK = c.Int("vector-k")
	}
	if c.IsSet("top-k") {
		profile.ModelTopK = c.Int("top-k")
	}
	if err := profile.Validate(); err != nil {
		return profile, err
	}
	return profile, nil
}

func openEngine(c *cli.Context) (*issuematch.Engine, error) {
	config, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	engine, err := issuematch.NewEngine(c.String("db"), issuematch.WithProvider(provider))
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}
