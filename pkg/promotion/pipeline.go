package promotion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Killi-Poyi/TheCredX/pkg/embeddings"
	"github.com/Killi-Poyi/TheCredX/pkg/eventstream"
	"github.com/Killi-Poyi/TheCredX/pkg/eventstream/nop"
	"github.com/Killi-Poyi/TheCredX/pkg/logger"
	"github.com/Killi-Poyi/TheCredX/pkg/storage"
	"github.com/Killi-Poyi/TheCredX/pkg/vector"
)

// Opener establishes the run's single connection.
type Opener func(ctx context.Context) (storage.Conn, error)

// Options configures run behavior.
type Options struct {
	// DryRun computes every update, then rolls it back.
	DryRun bool

	// Limit caps the jobs attempted in one run. 0 means no limit.
	Limit int

	// Model is recorded as the event source.
	Model string
}

// Config wires a Pipeline's collaborators.
type Config struct {
	Open     Opener
	Embedder embeddings.Embedder

	// Publisher receives an event after each commit. Defaults to a no-op.
	Publisher eventstream.Publisher

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	Options Options
}

// Pipeline runs promotion embedding jobs.
type Pipeline struct {
	open      Opener
	embedder  embeddings.Embedder
	publisher eventstream.Publisher
	logger    *slog.Logger
	options   Options
}

// New creates a Pipeline. The embedder is reused for every job.
func New(cfg Config) *Pipeline {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = nop.NewPublisher()
	}

	l := cfg.Logger
	if l == nil {
		l = logger.Nop()
	}

	return &Pipeline{
		open:      cfg.Open,
		embedder:  cfg.Embedder,
		publisher: publisher,
		logger:    l.With("component", "promotion"),
		options:   cfg.Options,
	}
}

// Run processes every pending promotion once and reports what happened.
// It never returns an error: failures are logged and recorded in the
// report, and the connection is released on every path.
func (p *Pipeline) Run(ctx context.Context) (report *Report) {
	report = &Report{StartedAt: time.Now()}

	defer func() {
		if r := recover(); r != nil {
			report.Aborted = fmt.Errorf("%w: %v", ErrPanic, r)
			p.logger.Error("unexpected error, run aborted", "error", report.Aborted)
		}
		report.Duration = time.Since(report.StartedAt)
		p.logger.Info(report.Summary(), "duration", report.Duration)
	}()

	p.logger.Info("promotion worker starting", "dry_run", p.options.DryRun, "limit", p.options.Limit)

	if p.open == nil {
		report.Aborted = storage.ErrNoConnectionString
		p.logger.Error("no database configured", "error", report.Aborted)
		return report
	}

	conn, err := p.open(ctx)
	if err != nil {
		report.Aborted = fmt.Errorf("connecting to database: %w", err)
		p.logger.Error("failed to connect to database", "error", err)
		return report
	}
	defer storage.Close(ctx, conn, p.logger)

	stmts, err := statementsFor(conn.Dialect())
	if err != nil {
		report.Aborted = err
		p.logger.Error("cannot run against this database", "error", err)
		return report
	}

	jobs, err := p.discover(ctx, conn, stmts)
	if err != nil {
		report.Aborted = fmt.Errorf("discovering jobs: %w", err)
		p.logger.Error("failed to discover jobs", "error", err)
		p.rollback(ctx, conn, p.logger)
		return report
	}
	// discovery is read-only; start the first job on a fresh transaction
	p.rollback(ctx, conn, p.logger)

	report.Discovered = len(jobs)
	if len(jobs) == 0 {
		p.logger.Info("no new jobs")
		return report
	}
	p.logger.Info("discovered jobs", "count", len(jobs))

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			report.Aborted = err
			p.logger.Warn("run cancelled", "error", err)
			break
		}
		report.add(p.process(ctx, conn, stmts, job))
	}

	return report
}

func (p *Pipeline) discover(ctx context.Context, conn storage.Conn, stmts statements) ([]Job, error) {
	var res storage.Result
	if p.options.Limit > 0 {
		res = conn.Execute(ctx, stmts.discoverLimit, []any{p.options.Limit}, storage.FetchAll)
	} else {
		res = conn.Execute(ctx, stmts.discover, nil, storage.FetchAll)
	}
	if !res.OK() {
		return nil, res.Err
	}

	jobs := make([]Job, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: discovery row has %d columns", ErrMalformedRow, len(row))
		}
		jobs = append(jobs, Job{ID: row[0], ArticleID: row[1]})
	}
	return jobs, nil
}

// process runs one job inside its own transaction. Every failure, including
// a panic, ends in a rollback so the next job starts clean.
func (p *Pipeline) process(ctx context.Context, conn storage.Conn, stmts statements, job Job) (res JobResult) {
	res = JobResult{
		PromotionID: FormatID(job.ID),
		ArticleID:   FormatID(job.ArticleID),
	}
	log := p.logger.With("promotion_id", res.PromotionID, "article_id", res.ArticleID)

	fail := func(msg string, err error) JobResult {
		p.rollback(ctx, conn, log)
		log.Error(msg, "error", err)
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res = fail("unexpected error processing job", fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()

	log.Info("processing job")

	item, found, err := p.resolve(ctx, conn, stmts, job)
	if err != nil {
		return fail("failed to look up content item", err)
	}
	if !found {
		p.rollback(ctx, conn, log)
		log.Error("no content item found for promotion")
		res.Outcome = OutcomeSkipped
		res.Err = ErrContentNotFound
		return res
	}

	embedding, err := p.embedder.Embed(ctx, EmbeddingText(item))
	if err != nil {
		return fail("failed to embed content", err)
	}

	upd := conn.Execute(ctx, stmts.update, []any{
		item.Title,
		item.Description,
		item.Tags,
		item.Category,
		vector.Format(embedding),
		job.ID,
	}, storage.NoFetch)
	if !upd.OK() {
		return fail("failed to update promotion", upd.Err)
	}
	if upd.RowsAffected == 0 {
		return fail("failed to update promotion", ErrNoRowsUpdated)
	}

	if p.options.DryRun {
		p.rollback(ctx, conn, log)
		log.Info("dry run, update rolled back", "dimensions", len(embedding))
		res.Outcome = OutcomePlanned
		return res
	}

	if err := conn.Commit(ctx); err != nil {
		return fail("failed to commit promotion", err)
	}

	log.Info("promotion activated", "dimensions", len(embedding))
	res.Outcome = OutcomeActivated

	p.publish(ctx, res, item, len(embedding), log)
	return res
}

func (p *Pipeline) resolve(ctx context.Context, conn storage.Conn, stmts statements, job Job) (ContentItem, bool, error) {
	res := conn.Execute(ctx, stmts.resolve, []any{job.ArticleID}, storage.FetchOne)
	if !res.OK() {
		return ContentItem{}, false, res.Err
	}
	if res.Row == nil {
		return ContentItem{}, false, nil
	}
	if len(res.Row) < 4 {
		return ContentItem{}, false, fmt.Errorf("%w: content row has %d columns", ErrMalformedRow, len(res.Row))
	}

	tags, err := asTags(res.Row[2])
	if err != nil {
		return ContentItem{}, false, err
	}

	return ContentItem{
		Title:       asString(res.Row[0]),
		Description: asString(res.Row[1]),
		Tags:        tags,
		Category:    asString(res.Row[3]),
	}, true, nil
}

// publish is best effort: the row is already committed.
func (p *Pipeline) publish(ctx context.Context, res JobResult, item ContentItem, dims int, log *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("failed to publish activation event", "error", fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()

	event := eventstream.NewPromotionActivatedEvent(eventstream.PromotionMeta{
		ID:         res.PromotionID,
		ArticleID:  res.ArticleID,
		Title:      item.Title,
		Tags:       item.Tags,
		Categories: item.Category,
		Dimensions: dims,
	}, eventstream.EventSource{Model: p.options.Model})

	if err := p.publisher.PublishPromotionActivated(ctx, event); err != nil {
		log.Warn("failed to publish activation event", "error", err)
		return
	}
	log.Debug("published activation event", "event_id", event.EventID)
}

func (p *Pipeline) rollback(ctx context.Context, conn storage.Conn, log *slog.Logger) {
	if err := conn.Rollback(ctx); err != nil {
		log.Error("failed to roll back transaction", "error", err)
	}
}
