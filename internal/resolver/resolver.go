package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dpriskorn/WikidataPaperFinder/internal/extract"
	"github.com/dpriskorn/WikidataPaperFinder/internal/sparql"
	"github.com/dpriskorn/WikidataPaperFinder/internal/wikidata"
)

// Extractor asks the AI service for citation fields. It must return a
// non-nil Response even when it also returns an error.
type Extractor interface {
	Extract(ctx context.Context, referenceText string) (*extract.Response, error)
}

// EntitySearcher looks up Wikidata items by name.
type EntitySearcher interface {
	Search(ctx context.Context, name string) ([]wikidata.Candidate, error)
}

// QueryExecutor runs a SPARQL query.
type QueryExecutor interface {
	Execute(ctx context.Context, query string) (*sparql.Result, error)
}

// Resolver advances records through the pipeline.
type Resolver struct {
	extractor Extractor
	searcher  EntitySearcher
	executor  QueryExecutor
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for stage diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver from its three collaborators.
func New(ex Extractor, searcher EntitySearcher, executor QueryExecutor, opts ...Option) *Resolver {
	r := &Resolver{
		extractor: ex,
		searcher:  searcher,
		executor:  executor,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs a fresh record for referenceText.
func (r *Resolver) Resolve(ctx context.Context, referenceText string) *Record {
	rec := NewRecord(referenceText)
	r.Run(ctx, rec)
	return rec
}

// Run advances rec from its derived state and returns the state reached.
// Stages whose output is already populated are skipped, so Run may be
// called again after a partial failure. A failed stage does not stop the
// run: each later stage still runs when its inputs happen to be present,
// and Status keeps the last failure written.
func (r *Resolver) Run(ctx context.Context, rec *Record) State {
	log := r.logger.With("record", rec.ID)

	for _, t := range transitionsFrom(StateOf(rec)) {
		if !t.Ready(rec) {
			log.Debug("stage skipped", "stage", t.Name)
			continue
		}
		if !t.step(r, ctx, rec) {
			log.Info("stage failed", "stage", t.Name, "status", rec.Status)
			continue
		}
		log.Debug("stage complete", "stage", t.Name, "state", t.To)
		if t.To == StateDone {
			return StateDone
		}
	}
	return StateOf(rec)
}

// Step runs the single transition leaving rec's derived state. It reports
// the transition attempted and whether it succeeded; ok is false with a
// zero Transition when there is nothing left to run.
func (r *Resolver) Step(ctx context.Context, rec *Record) (Transition, bool) {
	t, found := transitionFrom(StateOf(rec))
	if !found {
		return Transition{}, false
	}
	return t, t.step(r, ctx, rec)
}

func (r *Resolver) extract(ctx context.Context, rec *Record) bool {
	if strings.TrimSpace(rec.ReferenceText) == "" {
		rec.Status = StatusNoReference
		return false
	}

	resp, err := r.extractor.Extract(ctx, rec.ReferenceText)
	if err != nil {
		r.logger.Warn("extraction failed", "record", rec.ID, "error", err)
	}
	if resp == nil {
		resp = extract.ErrorResponse(extract.MsgRequestFailed)
	}
	rec.AIResponse = resp
	return true
}

// normalize fills each field it can derive and leaves fields that are
// already set untouched.
func (r *Resolver) normalize(_ context.Context, rec *Record) bool {
	fields, err := extract.Normalize(rec.AIResponse)

	if rec.JournalName == "" {
		rec.JournalName = fields.Journal
	}
	if rec.Year == 0 {
		rec.Year = fields.Year
	}
	if rec.Volume == "" {
		rec.Volume = fields.Volume
	}
	if rec.Pages == "" {
		rec.Pages = fields.Pages
	}
	if rec.StartPage == "" {
		rec.StartPage = fields.StartPage
	}

	if err != nil {
		if errors.Is(err, extract.ErrInvalidYear) {
			rec.Status = fmt.Sprintf(statusInvalidYear, rec.AIResponse)
		} else {
			rec.Status = fmt.Sprintf(statusInvalidData, rec.AIResponse)
		}
		return false
	}
	return true
}

func (r *Resolver) resolve(ctx context.Context, rec *Record) bool {
	if rec.JournalName == "" {
		rec.Status = StatusNoJournal
		return false
	}

	candidates, err := r.searcher.Search(ctx, rec.JournalName)
	if err != nil {
		rec.Status = fmt.Sprintf(statusLookupFailed, rec.JournalName, err)
		return false
	}

	match, ok := MatchCandidate(candidates, rec.JournalName)
	if !ok {
		rec.Status = fmt.Sprintf(statusQIDNotFound, rec.JournalName)
		return false
	}

	rec.JournalQID = match.ID
	rec.JournalLabelEn = match.Label
	return true
}

func (r *Resolver) synthesize(_ context.Context, rec *Record) bool {
	query, err := sparql.Build(sparql.Params{
		JournalQID: rec.JournalQID,
		Year:       rec.Year,
		Volume:     rec.Volume,
		StartPage:  rec.StartPage,
	})
	if err != nil {
		rec.Status = fmt.Sprintf(statusBuildFailed, err)
		return false
	}
	rec.SPARQLQuery = query
	return true
}

// execute marks the query as run whatever the outcome; a failed call leaves
// the result unset, which reads as empty.
func (r *Resolver) execute(ctx context.Context, rec *Record) bool {
	result, err := r.executor.Execute(ctx, rec.SPARQLQuery)
	rec.QueryExecuted = true
	if err != nil {
		r.logger.Warn("query execution failed", "record", rec.ID, "error", err)
		return true
	}
	rec.QueryResult = result
	return true
}

func (r *Resolver) finish(_ context.Context, rec *Record) bool {
	rec.Status = StatusFor(rec)
	return true
}

// MatchCandidate returns the first candidate whose label or matched text
// equals name, ignoring case. Candidate order is kept as given.
func MatchCandidate(candidates []wikidata.Candidate, name string) (wikidata.Candidate, bool) {
	fold := cases.Fold()
	target := fold.String(strings.TrimSpace(name))
	if target == "" {
		return wikidata.Candidate{}, false
	}
	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		if fold.String(c.Label) == target || fold.String(c.Match.Text) == target {
			return c, true
		}
	}
	return wikidata.Candidate{}, false
}
