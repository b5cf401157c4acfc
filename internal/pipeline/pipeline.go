// Package pipeline orchestrates one build: discover documents, derive
// fragment payloads, compute the build fingerprint, render pages, and emit
// the edge dispatch script.
//
// The fragment phase is necessarily two-stage. Every fragment's public route
// name embeds a digest over all fragment content, so no route can be named
// until every payload is staged. Between those stages sits a hard barrier;
// everything else (documents, image variants) processes concurrently.
package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/edgebuilder/internal/assets"
	"git.home.luguber.info/inful/edgebuilder/internal/config"
	"git.home.luguber.info/inful/edgebuilder/internal/content"
	"git.home.luguber.info/inful/edgebuilder/internal/edge"
	"git.home.luguber.info/inful/edgebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/edgebuilder/internal/images"
	"git.home.luguber.info/inful/edgebuilder/internal/layouts"
	"git.home.luguber.info/inful/edgebuilder/internal/markdown"
	"git.home.luguber.info/inful/edgebuilder/internal/metrics"
	"git.home.luguber.info/inful/edgebuilder/internal/minify"
	"git.home.luguber.info/inful/edgebuilder/internal/partials"
)

// Pipeline runs one build.
type Pipeline struct {
	cfg         *config.Config
	outputDir   string
	engine      *images.Engine
	recorder    metrics.Recorder
	concurrency int
}

// Result summarizes a completed build.
type Result struct {
	BuildID      string
	Fingerprint  string
	Pages        int
	Fragments    int
	SkippedPages int
	ImageStats   images.Stats
	Start        time.Time
	End          time.Time
}

// Duration returns the total build duration.
func (r *Result) Duration() time.Duration { return r.End.Sub(r.Start) }

// New creates a pipeline for the given configuration.
func New(cfg *config.Config, outputDir string) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		outputDir: filepath.Clean(outputDir),
		engine: &images.Engine{
			AssetRoot:     cfg.Assets.Directory,
			OutputRoot:    filepath.Clean(outputDir),
			DefaultWidths: cfg.Images.DefaultWidths,
			Quality:       cfg.Images.Quality,
		},
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder injects a metrics recorder.
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline {
	if r != nil {
		p.recorder = r
	}
	return p
}

// WithConcurrency overrides the document worker count.
func (p *Pipeline) WithConcurrency(n int) *Pipeline {
	p.concurrency = n
	return p
}

// docResult is the stage-one outcome for one source document.
type docResult struct {
	doc     *content.Document
	payload string // fragments: minified pass-1 body; pages: pass-1 body
	stats   images.Stats
	err     error
}

// Run executes the build.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{BuildID: uuid.NewString(), Start: time.Now()}
	log := slog.With("build_id", result.BuildID)

	// Pre-flight: a missing content root aborts before any side effect.
	discoverStart := time.Now()
	sources, err := content.Discover(p.cfg.Content.Directory)
	if err != nil {
		return nil, err
	}
	p.recorder.ObserveStageDuration("discover", time.Since(discoverStart))
	log.Info("Discovered documents", "count", len(sources))

	if p.cfg.Output.Clean {
		if err := os.RemoveAll(p.outputDir); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "clean output directory").
				WithContext("path", p.outputDir).Build()
		}
	}
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", p.outputDir).Build()
	}
	if err := assets.CopyTree(p.cfg.Assets.Directory, p.outputDir); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "copy asset tree").Build()
	}

	// Stage one: parse every document and derive its pass-1 body. Documents
	// are independent, so they process concurrently; results land in
	// discovery order so the fingerprint stays deterministic.
	fragStart := time.Now()
	results := p.processDocuments(ctx, sources)
	p.recorder.ObserveStageDuration("documents", time.Since(fragStart))

	store := partials.NewStore()
	var pages []docResult
	for _, r := range results {
		if r.err != nil {
			logSkip(log, r.err)
			result.SkippedPages++
			p.recorder.IncPageResult(metrics.ResultSkipped)
			continue
		}
		result.ImageStats.Add(r.stats)
		if r.doc.Fragment {
			if err := store.StageFragment(r.doc.Slug, r.payload); err != nil {
				return nil, err
			}
			p.recorder.IncFragmentStaged()
			continue
		}
		pages = append(pages, r)
	}

	// Barrier: all fragment content is now known.
	result.Fingerprint = store.ComputeFingerprint()
	result.Fragments = store.FragmentCount()
	log.Info("Computed build fingerprint", "fingerprint", result.Fingerprint, "fragments", result.Fragments)

	// Stage two: render pages against the sealed fingerprint.
	pageStart := time.Now()
	rendered, skipped, pageStats := p.renderPages(ctx, pages, result.Fingerprint, store, log)
	p.recorder.ObserveStageDuration("pages", time.Since(pageStart))
	result.Pages = rendered
	result.SkippedPages += skipped
	result.ImageStats.Add(pageStats)

	// Route-key assignment happens only after the fingerprint is sealed,
	// and the edge script runs last.
	routes, err := store.FinalizeRoutes()
	if err != nil {
		return nil, err
	}
	edgeStart := time.Now()
	scriptPath := filepath.Join(p.outputDir, filepath.FromSlash(p.cfg.Edge.ScriptPath))
	if err := edge.EmitFile(scriptPath, routes); err != nil {
		return nil, err
	}
	p.recorder.ObserveStageDuration("edge", time.Since(edgeStart))
	log.Info("Emitted edge dispatch script", "path", scriptPath, "routes", len(routes))

	result.End = time.Now()
	p.recorder.ObserveBuildDuration(result.Duration())
	p.recordVariantMetrics(result.ImageStats)

	if err := WriteReport(p.outputDir, result); err != nil {
		// The build itself succeeded; a report write failure only warns.
		logSkip(log, errors.WrapError(err, errors.CategoryFileSystem, "write build report").Warning().Build())
	}
	return result, nil
}

// processDocuments runs stage one over all sources with a bounded worker pool.
func (p *Pipeline) processDocuments(ctx context.Context, sources []content.SourceFile) []docResult {
	concurrency := p.concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency > len(sources) {
		concurrency = len(sources)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	p.recorder.SetDocConcurrency(concurrency)

	results := make([]docResult, len(sources))
	tasks := make(chan int)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range tasks {
			select {
			case <-ctx.Done():
				results[i] = docResult{err: ctx.Err()}
				continue
			default:
			}
			results[i] = p.processDocument(sources[i])
		}
	}
	wg.Add(concurrency)
	for range concurrency {
		go worker()
	}
	for i := range sources {
		tasks <- i
	}
	close(tasks)
	wg.Wait()
	return results
}

// processDocument parses one source and derives its pass-1 body.
func (p *Pipeline) processDocument(src content.SourceFile) docResult {
	doc, err := content.Read(src)
	if err != nil {
		return docResult{err: err}
	}

	body := doc.Body
	if doc.Markdown {
		rendered, err := markdown.Render(body)
		if err != nil {
			return docResult{err: errors.WrapError(err, errors.CategoryContent, "render markdown").
				WithContext("path", src.Path).Build()}
		}
		body = rendered
	}

	// Pass 1: body only. This is the payload the edge script serves, so
	// layout-contributed images are out of scope here.
	body, stats, err := p.engine.RewriteFragment(body)
	if err != nil {
		return docResult{err: err}
	}

	if doc.Fragment {
		minified, err := minify.HTML(body)
		if err != nil {
			return docResult{err: errors.WrapError(err, errors.CategoryContent, "minify fragment").
				WithContext("path", src.Path).Build()}
		}
		return docResult{doc: doc, payload: minified, stats: stats}
	}
	return docResult{doc: doc, payload: body, stats: stats}
}

// pageOutcome is the stage-two result for one page.
type pageOutcome struct {
	routeKey   string
	outputFile string
	stats      images.Stats
	err        error
}

// renderPages runs stage two: layout application, the pass-2 image rewrite,
// minification and the disk write. Pages are independent and render
// concurrently; the store stays single-writer.
func (p *Pipeline) renderPages(ctx context.Context, pages []docResult, fingerprint string, store *partials.Store, log *slog.Logger) (rendered, skipped int, stats images.Stats) {
	outcomes := make([]pageOutcome, len(pages))

	concurrency := p.concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency > len(pages) {
		concurrency = len(pages)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	tasks := make(chan int)
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for range concurrency {
		go func() {
			defer wg.Done()
			for i := range tasks {
				select {
				case <-ctx.Done():
					outcomes[i] = pageOutcome{err: ctx.Err()}
					continue
				default:
				}
				outcomes[i] = p.renderPage(pages[i], fingerprint)
			}
		}()
	}
	for i := range pages {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			logSkip(log, o.err)
			skipped++
			p.recorder.IncPageResult(metrics.ResultSkipped)
			continue
		}
		store.AddPage(o.routeKey, o.outputFile)
		stats.Add(o.stats)
		rendered++
		p.recorder.IncPageResult(metrics.ResultSuccess)
	}
	return rendered, skipped, stats
}

func (p *Pipeline) renderPage(r docResult, fingerprint string) (o pageOutcome) {
	doc := r.doc
	full, err := layouts.Render(doc.Layout(p.cfg.Layouts.Default), layouts.PageData{
		Meta:        doc.Metadata,
		Body:        r.payload,
		Fingerprint: fingerprint,
	})
	if err != nil {
		o.err = err
		return o
	}

	// Pass 2: the assembled document, catching layout-contributed images.
	full, stats, err := p.engine.RewriteDocument(full)
	if err != nil {
		o.err = err
		return o
	}
	o.stats = stats

	minified, err := minify.HTML(full)
	if err != nil {
		o.err = errors.WrapError(err, errors.CategoryContent, "minify page").
			WithContext("slug", doc.Slug).Build()
		return o
	}

	outPath := filepath.Join(p.outputDir, filepath.FromSlash(doc.OutputFile()))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		o.err = errors.WrapError(err, errors.CategoryFileSystem, "create page directory").
			WithContext("path", outPath).Build()
		return o
	}
	if err := os.WriteFile(outPath, []byte(minified), 0o644); err != nil {
		o.err = errors.WrapError(err, errors.CategoryFileSystem, "write page").
			WithContext("path", outPath).Build()
		return o
	}

	o.routeKey = doc.RouteKey()
	o.outputFile = doc.OutputFile()
	return o
}

func (p *Pipeline) recordVariantMetrics(stats images.Stats) {
	for range stats.Derived {
		p.recorder.IncVariantResult(metrics.ResultSuccess)
	}
	for range stats.FailedVariants {
		p.recorder.IncVariantResult(metrics.ResultFailed)
	}
}

func logSkip(log *slog.Logger, err error) {
	var cerr *errors.ClassifiedError
	if stderrors.As(err, &cerr) {
		log.Warn(cerr.Message(), cerr.LogArgs()...)
		return
	}
	log.Warn("Skipping unit", "error", err)
}
