package lint

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"eipw/internal/diag"
	"eipw/internal/fetch"
	"eipw/internal/trace"
)

// Lint is a single rule.
type Lint interface {
	// FindResources declares the documents the rule will look up.
	FindResources(ctx *FetchContext) error
	// Lint checks one document and reports findings through ctx.
	Lint(slug string, ctx *Context) error
}

// NoResources provides a FindResources that requests nothing.
type NoResources struct{}

func (NoResources) FindResources(*FetchContext) error { return nil }

// Phase is a step of the per-document pipeline.
type Phase uint8

const (
	PhaseParse Phase = iota
	PhaseDiscover
	PhaseFetch
	PhaseModify
	PhaseLint
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseDiscover:
		return "discover"
	case PhaseFetch:
		return "fetch"
	case PhaseModify:
		return "modify"
	case PhaseLint:
		return "lint"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

type registration struct {
	severity Severity
	lint     Lint
}

type docSource struct {
	origin string
	text   string
	file   bool
}

// Summary describes a finished run.
type Summary struct {
	Documents   int          // sources processed
	ParseFailed int          // sources whose preamble could not be parsed
	Fetched     int          // distinct paths fetched
	RuleErrors  []*RuleError // internal rule failures, in occurrence order
}

// Linter is a configured lint run. Build it, queue sources, then call Run
// once.
type Linter struct {
	reporter  diag.Reporter
	fetcher   fetch.Fetcher
	format    string
	jobs      int
	lints     map[string]registration
	modifiers []Modifier
	sources   []docSource
	progress  ProgressSink
}

// New creates a Linter with no rules, no modifiers and the Null fetcher.
func New(reporter diag.Reporter) *Linter {
	return &Linter{
		reporter: reporter,
		fetcher:  fetch.Null{},
		format:   DefaultProposalFormat,
		lints:    make(map[string]registration),
		progress: nopSink{},
	}
}

// Register adds a rule under slug with the given severity override.
func (l *Linter) Register(slug string, severity Severity, rule Lint) error {
	if _, ok := l.lints[slug]; ok {
		return fmt.Errorf("%w: `%s`", ErrDuplicateSlug, slug)
	}
	l.lints[slug] = registration{severity: severity, lint: rule}
	return nil
}

// Deny registers rule so its findings are errors.
func (l *Linter) Deny(slug string, rule Lint) error {
	return l.Register(slug, SeverityDeny, rule)
}

// Warn registers rule so its findings are warnings.
func (l *Linter) Warn(slug string, rule Lint) error {
	return l.Register(slug, SeverityWarn, rule)
}

// SetSeverity changes the override of an already registered slug.
func (l *Linter) SetSeverity(slug string, severity Severity) error {
	reg, ok := l.lints[slug]
	if !ok {
		return fmt.Errorf("%w: `%s`", ErrUnknownSlug, slug)
	}
	reg.severity = severity
	l.lints[slug] = reg
	return nil
}

// Allow removes a registered rule.
func (l *Linter) Allow(slug string) error {
	if _, ok := l.lints[slug]; !ok {
		return fmt.Errorf("%w: `%s`", ErrUnknownSlug, slug)
	}
	delete(l.lints, slug)
	return nil
}

// ClearLints removes every rule.
func (l *Linter) ClearLints() { clear(l.lints) }

// Slugs returns the registered slugs in execution order.
func (l *Linter) Slugs() []string {
	return slices.Sorted(maps.Keys(l.lints))
}

// Modify appends a modifier. Modifiers run in the order they were added.
func (l *Linter) Modify(m Modifier) { l.modifiers = append(l.modifiers, m) }

// SetFetch replaces the fetcher used for sources and references.
func (l *Linter) SetFetch(f fetch.Fetcher) { l.fetcher = f }

// SetProposalFormat sets the file name pattern for proposals, e.g. "eip-{}".
func (l *Linter) SetProposalFormat(format string) { l.format = format }

// SetProgress installs a sink for per-document progress events.
func (l *Linter) SetProgress(p ProgressSink) {
	if p == nil {
		p = nopSink{}
	}
	l.progress = p
}

// SetJobs bounds the number of concurrent fetches.
func (l *Linter) SetJobs(n int) { l.jobs = n }

// CheckSlice queues in-memory text. origin may be empty; relative references
// resolve against its directory.
func (l *Linter) CheckSlice(origin, text string) {
	l.sources = append(l.sources, docSource{origin: origin, text: text})
}

// CheckFile queues a file, read through the fetcher when Run starts on it.
func (l *Linter) CheckFile(path string) {
	l.sources = append(l.sources, docSource{origin: path, file: true})
}

// Run checks every queued source. A *diag.ReportError or a cancelled ctx
// stops the run; rule failures are collected in the Summary.
func (l *Linter) Run(ctx context.Context) (*Summary, error) {
	if len(l.lints) == 0 {
		return nil, ErrNoLints
	}
	if len(l.sources) == 0 {
		return nil, ErrNoSources
	}

	ctx, span := trace.Start(ctx, trace.ScopeRun, "run")
	defer span.End("")

	r := &run{
		linter:  l,
		cache:   newCache(l.fetcher, l.format, l.jobs),
		slugs:   l.Slugs(),
		summary: &Summary{},
	}
	defer func() { r.summary.Fetched = r.cache.fetches }()

	for _, src := range l.sources {
		l.progress.OnEvent(Event{Origin: src.origin, Status: StatusQueued})
	}
	for _, src := range l.sources {
		start := time.Now()
		failures := r.failures()
		err := r.document(ctx, src)
		status := StatusDone
		if err != nil || r.failures() > failures {
			status = StatusError
		}
		l.progress.OnEvent(Event{Origin: src.origin, Phase: PhaseDone, Status: status, Err: err, Elapsed: time.Since(start)})
		if err != nil {
			return r.summary, err
		}
		r.summary.Documents++
	}
	span.WithExtra("documents", strconv.Itoa(r.summary.Documents))
	return r.summary, nil
}

type run struct {
	linter  *Linter
	cache   *cache
	slugs   []string
	summary *Summary
}

func (r *run) failures() int {
	return r.summary.ParseFailed + len(r.summary.RuleErrors)
}

func (r *run) enter(ctx context.Context, origin string, p Phase) (context.Context, *trace.Span) {
	r.linter.progress.OnEvent(Event{Origin: origin, Phase: p, Status: StatusWorking})
	return trace.Start(ctx, trace.ScopePhase, p.String())
}

func (r *run) document(ctx context.Context, src docSource) error {
	ctx, span := trace.Start(ctx, trace.ScopeDocument, "document:"+src.origin)
	defer span.End("")

	text := src.text
	if src.file {
		var err error
		if text, err = r.linter.fetcher.Fetch(ctx, src.origin); err != nil {
			return &SourceError{Path: src.origin, Err: err}
		}
	}

	_, ps := r.enter(ctx, src.origin, PhaseParse)
	doc, err := ParseDocument(src.origin, text)
	ps.End("")
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) {
			return err
		}
		r.summary.ParseFailed++
		for _, msg := range perr.Messages {
			if err := r.linter.reporter.Report(msg); err != nil {
				return diag.Wrap(err)
			}
		}
		return nil
	}

	active, err := r.discover(ctx, doc)
	if err != nil {
		return err
	}

	settings, err := r.modify(ctx, doc)
	if err != nil {
		return err
	}

	return r.lint(ctx, doc, settings, active)
}

// discover asks every rule for its references and fetches them. It returns
// the slugs still active, in execution order.
func (r *run) discover(ctx context.Context, doc *Document) ([]string, error) {
	_, span := r.enter(ctx, doc.origin, PhaseDiscover)
	fc := newFetchContext(doc)
	active := make([]string, 0, len(r.slugs))
	for _, slug := range r.slugs {
		refused := fc.refusals()
		err := r.linter.lints[slug].lint.FindResources(fc)
		if err == nil && fc.refusals() > refused {
			err = ErrOriginlessFetch
		}
		if err != nil {
			r.summary.RuleErrors = append(r.summary.RuleErrors, &RuleError{
				Slug: slug, Origin: doc.origin, Phase: PhaseDiscover, Err: err,
			})
			continue
		}
		active = append(active, slug)
	}
	keys := r.cache.pending(fc)
	span.WithExtra("pending", strconv.Itoa(len(keys))).End("")

	fctx, fspan := r.enter(ctx, doc.origin, PhaseFetch)
	err := r.cache.fill(fctx, keys)
	fspan.End("")
	if err != nil {
		return nil, err
	}
	return active, nil
}

func (r *run) modify(ctx context.Context, doc *Document) (Settings, error) {
	_, span := r.enter(ctx, doc.origin, PhaseModify)
	defer span.End("")

	settings := DefaultSettings()
	for i, m := range r.linter.modifiers {
		mctx := &Context{doc: doc, level: settings.DefaultAnnotationLevel, reporter: r.linter.reporter, cache: r.cache}
		if err := m.Modify(mctx, &settings); err != nil {
			if isFatal(err) {
				return settings, err
			}
			return settings, fmt.Errorf("modifier %d (%T) on `%s`: %w", i, m, doc.origin, err)
		}
	}
	return settings, nil
}

func (r *run) lint(ctx context.Context, doc *Document, settings Settings, active []string) error {
	ctx, span := r.enter(ctx, doc.origin, PhaseLint)
	defer span.End("")

	for _, slug := range active {
		reg := r.linter.lints[slug]
		lctx := &Context{
			doc:      doc,
			level:    reg.severity.level(settings),
			reporter: r.linter.reporter,
			cache:    r.cache,
		}

		_, rs := trace.Start(ctx, trace.ScopeRule, "rule:"+slug)
		err := reg.lint.Lint(slug, lctx)
		rs.End("")
		if err == nil {
			continue
		}
		if isFatal(err) {
			return err
		}
		r.summary.RuleErrors = append(r.summary.RuleErrors, &RuleError{
			Slug: slug, Origin: doc.origin, Phase: PhaseLint, Err: err,
		})
	}
	return nil
}
