// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package issuematch

import (
	"errors"
	"io"
	"log/slog"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/ai/openai"
	"github.com/poiesic/issuematch/analysis"
	"github.com/poiesic/issuematch/ingestion"
	"github.com/poiesic/issuematch/reembed"
	"github.com/poiesic/issuematch/retrieval"
	"github.com/poiesic/issuematch/storage"
	"github.com/poiesic/issuematch/storage/badger"
)

// Engine owns the document store and the AI provider and builds the
// components that use them.
type Engine struct {
	backend  *badger.Backend
	docRepo  storage.DocumentRepository
	provider ai.AIProvider
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
}

// WithAIConfig sets the configuration for the OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The engine closes it on Close.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps the store in memory. The path is ignored.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens the store at filePath, creating it when missing.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			docRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Engine{
		backend:  backend,
		docRepo:  docRepo,
		provider: provider,
		logger:   slog.Default().With("component", "engine"),
	}, nil
}

// Close releases the provider, the repository and the store, in that order.
func (e *Engine) Close() error {
	var errs []error
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if err := e.docRepo.Close(); err != nil {
		e.logger.Error("error closing document repository", "err", err)
		errs = append(errs, err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) Repository() storage.DocumentRepository {
	return e.docRepo
}

func (e *Engine) Provider() ai.AIProvider {
	return e.provider
}

func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.docRepo, e.provider.Embedder(), opts...)
}

func (e *Engine) NewSearcher(opts ...retrieval.Option) (*retrieval.Searcher, error) {
	return retrieval.NewSearcher(e.docRepo, e.provider.Embedder(), opts...)
}

// NewAnalyzer builds an analyzer for profile that matches against dict.
func (e *Engine) NewAnalyzer(dict analysis.Dictionary, profile analysis.Profile, opts ...analysis.Option) (*analysis.Analyzer, error) {
	searcher, err := e.NewSearcher()
	if err != nil {
		return nil, err
	}
	return analysis.NewAnalyzer(searcher, e.provider.Ranker(), e.provider.Explainer(), dict, profile, opts...)
}

// NewReembedder builds a reembedder that reports progress to w.
// A nil config uses reembed.DefaultConfig.
func (e *Engine) NewReembedder(config *reembed.Config, w io.Writer) (*reembed.Reembedder, error) {
	if config == nil {
		config = reembed.DefaultConfig()
	}
	return reembed.NewReembedder(e.docRepo, e.provider.Embedder(), config, w)
}
