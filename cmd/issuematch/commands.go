package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/issuematch/analysis"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/ingestion"
	"github.com/poiesic/issuematch/issues"
	"github.com/poiesic/issuematch/reembed"
	"github.com/poiesic/issuematch/refdb"
	"github.com/poiesic/issuematch/retrieval"
	"github.com/poiesic/issuematch/storage"
	"github.com/poiesic/issuematch/storage/badger"
	"github.com/urfave/cli/v2"
)

// Columns of an issue table accepted by the snapshot command.
const (
	issueNumberColumn  = "이슈번호"
	issueTitleColumn   = "제목"
	issueContentColumn = "내용"
)

const previewRunes = 80

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:   "ingest",
		Usage:  "Embed a reference table into the database",
		Action: ingestAction,
		Flags: withFlags([]cli.Flag{
			dbFlag(),
			csvFlag(),
			kindFlag(),
			&cli.IntFlag{
				Name:  "chunk-size",
				Usage: "Maximum chunk length in characters",
				Value: ingestion.DefaultChunkSize,
			},
			&cli.IntFlag{
				Name:  "chunk-overlap",
				Usage: "Characters shared by neighbouring chunks",
				Value: ingestion.DefaultChunkOverlap,
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Chunks embedded per request",
				Value: ingestion.DefaultBatchSize,
			},
			&cli.IntFlag{
				Name:  "pool-size",
				Usage: "Concurrent embedding batches",
				Value: 4,
			},
		}, embeddingFlags()),
	}
}

func ingestAction(c *cli.Context) error {
	ctx := context.Background()

	profile, err := profileFromFlags(c)
	if err != nil {
		return err
	}
	table, err := refdb.LoadTable(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to load reference table: %w", err)
	}
	dict, err := refdb.NewDict(table, profile.Schema)
	if err != nil {
		return fmt.Errorf("reference table does not match %s: %w", profile.Subject, err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestionPipeline(
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithChunkOverlap(c.Int("chunk-overlap")),
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithPoolSize(c.Int("pool-size")),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Reference table: %s (%d rows, %d names)\n", c.String("csv"), len(table.Rows), dict.Len())
	fmt.Fprintf(os.Stderr, "Namespace: %s\n", profile.Namespace)
	fmt.Fprintln(os.Stderr)

	start := time.Now()
	stats, err := pipeline.Ingest(ctx, profile.Namespace, table)
	fmt.Fprintf(c.App.Writer, "Ingested %d documents from %d rows (%d chunks, %d/%d batches failed, %d empty rows) in %v\n",
		stats.Documents, stats.Rows, stats.Chunks, stats.FailedBatches, stats.Batches, stats.SkippedRows,
		time.Since(start).Round(time.Millisecond))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:   "analyze",
		Usage:  "Find the references related to each issue of a snapshot",
		Action: analyzeAction,
		Flags: withFlags([]cli.Flag{
			dbFlag(),
			csvFlag(),
			kindFlag(),
			&cli.StringFlag{
				Name:  "issues",
				Usage: "Snapshot file to analyse",
			},
			&cli.StringFlag{
				Name:  "issues-dir",
				Usage: "Directory holding snapshots; the newest one is analysed",
				Value: ".",
			},
			vectorKFlag(),
			&cli.IntFlag{
				Name:  "top-k",
				Usage: "Candidates requested from the model (default: 10)",
			},
			vectorOnlyFlag(),
		}, aiFlags()),
	}
}

func analyzeAction(c *cli.Context) error {
	ctx := context.Background()

	profile, err := profileFromFlags(c)
	if err != nil {
		return err
	}

	path := c.String("issues")
	if path == "" {
		path, err = issues.Latest(c.String("issues-dir"))
		if err != nil {
			return err
		}
	}
	snapshot, err := issues.Load(path)
	if err != nil {
		return err
	}

	table, err := refdb.LoadTable(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to load reference table: %w", err)
	}
	dict, err := refdb.NewDict(table, profile.Schema)
	if err != nil {
		return fmt.Errorf("reference table does not match %s: %w", profile.Subject, err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	printer := &reportPrinter{w: c.App.Writer, total: len(snapshot.Issues)}
	analyzer, err := engine.NewAnalyzer(dict, profile, analysis.WithMonitor(printer))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Snapshot: %s (%d issues)\n", path, len(snapshot.Issues))
	fmt.Fprintf(os.Stderr, "Reference set: %s (%d names)\n", profile.Subject, dict.Len())

	reports, err := analyzer.AnalyzeAll(ctx, snapshot.Issues)
	if err != nil {
		return fmt.Errorf("analysis stopped after %d of %d issues: %w", len(reports), len(snapshot.Issues), err)
	}
	fmt.Fprintf(c.App.Writer, "\n총 %d개 이슈 분석 완료!\n", len(reports))
	return printer.err
}

// reportPrinter writes each report as soon as its issue is finished.
type reportPrinter struct {
	w        io.Writer
	total    int
	position int
	err      error
}

var _ analysis.Monitor = (*reportPrinter)(nil)

func (p *reportPrinter) Start(_ core.Issue)                         { p.position++ }
func (p *reportPrinter) AfterVectorSearch(_ []core.VectorCandidate) {}
func (p *reportPrinter) AfterModelRanking(_ []core.ModelCandidate)  {}
func (p *reportPrinter) AfterMerge(_ []core.Candidate)              {}
func (p *reportPrinter) AfterExplain(_ string)                      {}

func (p *reportPrinter) Finish(report *analysis.Report) {
	if p.position > 1 {
		fmt.Fprintf(p.w, "\n%s\n", strings.Repeat("-", 80))
	}
	if err := analysis.WriteReport(p.w, report, p.position, p.total); err != nil && p.err == nil {
		p.err = err
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:   "search",
		Usage:  "Show the vector candidates for a query",
		Action: searchAction,
		Flags: withFlags([]cli.Flag{
			dbFlag(),
			csvFlag(),
			kindFlag(),
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Query text",
				Required: true,
			},
			vectorKFlag(),
			vectorOnlyFlag(),
		}, embeddingFlags()),
	}
}

func searchAction(c *cli.Context) error {
	ctx := context.Background()

	profile, err := profileFromFlags(c)
	if err != nil {
		return err
	}
	table, err := refdb.LoadTable(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to load reference table: %w", err)
	}
	dict, err := refdb.NewDict(table, profile.Schema)
	if err != nil {
		return fmt.Errorf("reference table does not match %s: %w", profile.Subject, err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}
	skips := &skipReporter{w: c.App.ErrWriter}
	candidates, err := searcher.FindCandidatesWithMonitor(ctx, profile.Namespace, profile.Layout, c.String("query"), profile.VectorK, dict, skips)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Found %d candidates\n", len(candidates))
	for i, candidate := range candidates {
		fmt.Fprintf(c.App.Writer, "%d. %s [%s%%] %s\n", i+1, candidate.Name,
			strconv.FormatFloat(candidate.Similarity, 'f', -1, 64), preview(candidate.Description))
	}
	return nil
}

// skipReporter lists the similarity matches that produced no candidate.
type skipReporter struct {
	w       io.Writer
	matches int
}

var _ retrieval.SearchMonitor = (*skipReporter)(nil)

func (r *skipReporter) Start(_, _ string) {}

func (r *skipReporter) AfterSimilaritySearch(matches []*core.SimilarityMatch) {
	r.matches = len(matches)
}

func (r *skipReporter) Skipped(match *core.SimilarityMatch, reason retrieval.SkipReason) {
	fmt.Fprintf(r.w, "Skipped %s match [%s%%]: %s\n", reason,
		strconv.FormatFloat(retrieval.Similarity(match.Distance), 'f', -1, 64), preview(match.Document.Text))
}

func (r *skipReporter) Finish(candidates []core.VectorCandidate) {
	if skipped := r.matches - len(candidates); skipped > 0 {
		fmt.Fprintf(r.w, "%d of %d matches skipped\n", skipped, r.matches)
	}
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes]) + "..."
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:   "snapshot",
		Usage:  "Write an issue table as a snapshot file",
		Action: snapshotAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "csv",
				Usage:    "Issue table with 제목 and 내용 columns (이슈번호 optional)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to write the snapshot to",
				Value: ".",
			},
		},
	}
}

func snapshotAction(c *cli.Context) error {
	table, err := refdb.LoadTable(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to load issue table: %w", err)
	}
	loaded, err := issuesFromTable(table)
	if err != nil {
		return err
	}

	path, err := issues.Save(c.String("dir"), loaded, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d issues to %s\n", len(loaded), path)
	return nil
}

// issuesFromTable reads issues from a table, numbering them by row when the
// table has no number column. Rows without a title are skipped.
func issuesFromTable(table *refdb.Table) ([]core.Issue, error) {
	titleIdx, err := table.ColumnIndex(issueTitleColumn)
	if err != nil {
		return nil, err
	}
	contentIdx, err := table.ColumnIndex(issueContentColumn)
	if err != nil {
		return nil, err
	}
	numberIdx, err := table.ColumnIndex(issueNumberColumn)
	if err != nil {
		numberIdx = -1
	}

	var result []core.Issue
	for i, row := range table.Rows {
		if strings.TrimSpace(row[titleIdx]) == "" {
			continue
		}
		number := i + 1
		if numberIdx >= 0 {
			number, err = strconv.Atoi(strings.TrimSpace(row[numberIdx]))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q", i+1, issueNumberColumn, row[numberIdx])
			}
		}
		result = append(result, core.Issue{
			Number:  number,
			Title:   strings.TrimSpace(row[titleIdx]),
			Content: strings.TrimSpace(row[contentIdx]),
		})
	}
	return result, nil
}

func reembedCommand() *cli.Command {
	return &cli.Command{
		Name:   "reembed",
		Usage:  "Reembed every document of a reference set with the current embedding model",
		Action: reembedAction,
		Flags:  withFlags([]cli.Flag{dbFlag(), kindFlag()}, reembedFlags(), embeddingFlags()),
	}
}

func reembedAction(c *cli.Context) error {
	ctx := context.Background()

	profile, err := profileFromFlags(c)
	if err != nil {
		return err
	}

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	reembedder, err := engine.NewReembedder(config, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if _, err := reembedder.Run(ctx, profile.Namespace); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func namespacesCommand() *cli.Command {
	return &cli.Command{
		Name:  "namespaces",
		Usage: "Inspect or remove stored reference sets",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List namespaces with their document counts",
				Action: listNamespacesAction,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "delete",
				Usage:  "Delete every document of the given namespaces",
				Action: deleteNamespacesAction,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringSliceFlag{
						Name:     "namespace",
						Aliases:  []string{"n"},
						Usage:    "Namespace to delete (repeatable)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm the deletion",
					},
				},
			},
		},
	}
}

// withRepository opens the store without an AI provider.
func withRepository(c *cli.Context, fn func(repo storage.DocumentRepository) error) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	return fn(repo)
}

func listNamespacesAction(c *cli.Context) error {
	return withRepository(c, func(repo storage.DocumentRepository) error {
		counts, err := repo.Namespaces(context.Background())
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Fprintln(c.App.Writer, "No namespaces")
			return nil
		}

		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(c.App.Writer, "%s\t%d\n", name, counts[name])
		}
		return nil
	})
}

func deleteNamespacesAction(c *cli.Context) error {
	if !c.Bool("yes") {
		return fmt.Errorf("refusing to delete %s without --yes", strings.Join(c.StringSlice("namespace"), ", "))
	}
	return withRepository(c, func(repo storage.DocumentRepository) error {
		ctx := context.Background()
		for _, namespace := range c.StringSlice("namespace") {
			count, err := repo.DeleteNamespace(ctx, namespace)
			if err != nil {
				return fmt.Errorf("failed to delete %q: %w", namespace, err)
			}
			fmt.Fprintf(c.App.Writer, "Deleted %d documents from %s\n", count, namespace)
		}
		return nil
	})
}
