// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"slideforge/internal/common/config"
	pkgerrors "slideforge/internal/common/errors"
	"slideforge/internal/common/logger"
	"slideforge/internal/common/metrics"
	"slideforge/internal/common/observability"
	"slideforge/internal/deck"
	"slideforge/internal/llm"
	"slideforge/internal/stages/extractcontent"
	"slideforge/internal/stages/paraphrase"
	"slideforge/internal/stages/segment"
	"slideforge/internal/stages/selecttemplate"
	"slideforge/internal/verify"
)

// ProgressFunc receives one event per logical step, synchronously, in
// execution order, with a monotonically increasing current counter.
type ProgressFunc func(stage string, current, total int)

// Options controls one run. Recursion wraps every stage with the
// verify-and-regenerate loop.
type Options struct {
	Recursion  bool
	MaxRetries int // production/verification retry budget per stage; defaults to 2
	OnProgress ProgressFunc
}

// Pipeline sequences the four generation stages into a slide deck. A Pipeline
// is immutable after construction and safe for concurrent runs; each run owns
// its slide list exclusively until it returns.
type Pipeline struct {
	paraphrase *paraphrase.Handler
	segment    *segment.Handler
	selector   *selecttemplate.Handler
	extractor  *extractcontent.Handler
	verifier   *verify.Verifier
	logger     logger.Logger
	obs        *observability.Observability
}

// New wires the stage handlers against one generation backend. The
// configuration is bound here, never through process-global state, so
// independent pipelines can target different backends concurrently.
func New(cfg *config.PipelineConfig, gen llm.Generator, log logger.Logger, obs *observability.Observability) *Pipeline {
	t := cfg.Temperatures
	return &Pipeline{
		paraphrase: paraphrase.NewHandler(&paraphrase.Config{Temperature: t.Paraphrase}, gen, log),
		segment:    segment.NewHandler(&segment.Config{Temperature: t.Segment}, gen, log),
		selector:   selecttemplate.NewHandler(&selecttemplate.Config{Temperature: t.SelectTemplate}, gen, log),
		extractor:  extractcontent.NewHandler(&extractcontent.Config{Temperature: t.ExtractContent}, gen, log),
		verifier:   verify.NewVerifier(&verify.Config{Temperature: t.Verification}, gen, log),
		logger:     log,
		obs:        obs,
	}
}

type progressTracker struct {
	current int
	total   int
	fn      ProgressFunc
}

func (t *progressTracker) emit(stage string) {
	t.current++
	if t.fn != nil {
		t.fn(stage, t.current, t.total)
	}
}

// Run executes the full pipeline on one transcript: Paraphrase, Segment, then
// per topic SelectTemplate and ExtractContent, assembling the ordered deck.
// Stages run strictly sequentially; cancellation is honored at stage and topic
// boundaries. On any unrecovered stage failure the partial deck is discarded.
func (p *Pipeline) Run(ctx context.Context, transcript string, opts Options) (*deck.PipelineResult, error) {
	startTime := time.Now().UTC()
	runID := uuid.NewString()

	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = verify.DefaultMaxRetries
	}

	log := p.logger.With(map[string]interface{}{
		"runId": runID,
	})

	// The announced totals predate per-topic fan-out and undercount decks
	// with more than one topic. Kept as the progress denominator.
	totalStages := 5
	if opts.Recursion {
		totalStages = 9
	}
	progress := &progressTracker{total: totalStages, fn: opts.OnProgress}

	log.Info("starting generation pipeline", map[string]interface{}{
		"recursion":        opts.Recursion,
		"transcriptLength": len(transcript),
		"maxRetries":       maxRetries,
	})

	progress.emit("Paraphrasing transcript")
	paraOut, err := p.runParaphrase(ctx, transcript, opts.Recursion, maxRetries)
	if err != nil {
		return nil, p.fail(ctx, log, startTime, paraphrase.StageName, err)
	}
	log.Info("paraphrase stage done", map[string]interface{}{
		"confidence": paraOut.Confidence,
	})

	if err := ctx.Err(); err != nil {
		return nil, p.fail(ctx, log, startTime, segment.StageName, err)
	}

	progress.emit("Segmenting into topics")
	segOut, err := p.runSegment(ctx, transcript, opts.Recursion, maxRetries)
	if err != nil {
		return nil, p.fail(ctx, log, startTime, segment.StageName, err)
	}

	topics := make([]deck.Topic, len(segOut.Topics))
	copy(topics, segOut.Topics)
	// Stable sort: topics with equal order keep their returned position.
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Order < topics[j].Order
	})

	log.Info("processing topics", map[string]interface{}{
		"topicCount": len(topics),
	})

	slides := make([]deck.Slide, 0, len(topics)+1)

	progress.emit("Creating title slide")
	slides = append(slides, titleSlide(topics, startTime))

	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, p.fail(ctx, log, startTime, selecttemplate.StageName, err)
		}

		log.Info("processing topic", map[string]interface{}{
			"index": i + 1,
			"total": len(topics),
			"title": topic.Title,
		})

		progress.emit(fmt.Sprintf("Selecting template for %q", topic.Title))
		selOut, err := p.runSelectTemplate(ctx, topic, transcript, opts.Recursion, maxRetries)
		if err != nil {
			return nil, p.fail(ctx, log, startTime, selecttemplate.StageName, err)
		}

		progress.emit(fmt.Sprintf("Extracting content for %q", topic.Title))
		content, err := p.runExtractContent(ctx, topic, selOut.Type, transcript, opts.Recursion, maxRetries)
		if err != nil {
			return nil, p.fail(ctx, log, startTime, extractcontent.StageName, err)
		}

		slides = append(slides, deck.Slide{
			Type:    selOut.Type,
			Content: content,
			Order:   topic.Order + 1,
		})
	}

	sort.SliceStable(slides, func(i, j int) bool {
		return slides[i].Order < slides[j].Order
	})

	endTime := time.Now().UTC()
	duration := endTime.Sub(startTime)

	metrics.RunsCompleted.WithLabelValues("success").Inc()
	metrics.RunDuration.Observe(duration.Seconds())
	if p.obs != nil {
		p.obs.RecordRun(ctx, "success", duration)
	}

	log.Info("pipeline complete", map[string]interface{}{
		"slideCount": len(slides),
		"durationMs": duration.Milliseconds(),
	})

	return &deck.PipelineResult{
		Slides: slides,
		Metadata: deck.Metadata{
			RunID:            runID,
			StartTime:        startTime,
			EndTime:          endTime,
			DurationMillis:   duration.Milliseconds(),
			RecursionEnabled: opts.Recursion,
			TotalStages:      totalStages,
		},
	}, nil
}

// titleSlide synthesizes the order-0 opening slide from the first topic.
func titleSlide(topics []deck.Topic, generatedAt time.Time) deck.Slide {
	title := "Presentation"
	if len(topics) > 0 {
		title = topics[0].Title
	}
	return deck.Slide{
		Type: deck.SlideTypeTitle,
		Content: deck.TitleContent{
			Title:    title,
			Subtitle: "Generated from transcript on " + generatedAt.Format("January 2, 2006"),
		},
		Order: 0,
	}
}

func (p *Pipeline) runParaphrase(ctx context.Context, transcript string, recursion bool, maxRetries int) (*paraphrase.Output, error) {
	produce := func(ctx context.Context) (*paraphrase.Output, error) {
		return p.paraphrase.Execute(ctx, transcript)
	}
	return observe(ctx, p, paraphrase.StageName, func() (*paraphrase.Output, error) {
		if recursion {
			return verify.WithVerification(ctx, p.verifier, paraphrase.StageName, produce, transcript, maxRetries)
		}
		return produce(ctx)
	})
}

func (p *Pipeline) runSegment(ctx context.Context, transcript string, recursion bool, maxRetries int) (*segment.Output, error) {
	produce := func(ctx context.Context) (*segment.Output, error) {
		return p.segment.Execute(ctx, transcript)
	}
	return observe(ctx, p, segment.StageName, func() (*segment.Output, error) {
		if recursion {
			return verify.WithVerification(ctx, p.verifier, segment.StageName, produce, transcript, maxRetries)
		}
		return produce(ctx)
	})
}

func (p *Pipeline) runSelectTemplate(ctx context.Context, topic deck.Topic, transcript string, recursion bool, maxRetries int) (*selecttemplate.Output, error) {
	produce := func(ctx context.Context) (*selecttemplate.Output, error) {
		return p.selector.Execute(ctx, topic, transcript)
	}
	stage := fmt.Sprintf("%s (%s)", selecttemplate.StageName, topic.Title)
	return observe(ctx, p, selecttemplate.StageName, func() (*selecttemplate.Output, error) {
		if recursion {
			return verify.WithVerification(ctx, p.verifier, stage, produce, transcript, maxRetries)
		}
		return produce(ctx)
	})
}

func (p *Pipeline) runExtractContent(ctx context.Context, topic deck.Topic, slideType deck.SlideType, transcript string, recursion bool, maxRetries int) (deck.SlideContent, error) {
	produce := func(ctx context.Context) (deck.SlideContent, error) {
		return p.extractor.Execute(ctx, topic, slideType, transcript)
	}
	stage := fmt.Sprintf("%s (%s)", extractcontent.StageName, topic.Title)
	return observe(ctx, p, extractcontent.StageName, func() (deck.SlideContent, error) {
		if recursion {
			return verify.WithVerification(ctx, p.verifier, stage, produce, transcript, maxRetries)
		}
		return produce(ctx)
	})
}

// observe records duration and outcome counters around one stage execution.
func observe[T any](ctx context.Context, p *Pipeline, stage string, run func() (T, error)) (T, error) {
	start := time.Now()
	out, err := run()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StagesFailed.WithLabelValues(stage, errorCode(err)).Inc()
		if p.obs != nil {
			p.obs.RecordStage(ctx, stage, "failed")
		}
	} else {
		metrics.StagesCompleted.WithLabelValues(stage).Inc()
		if p.obs != nil {
			p.obs.RecordStage(ctx, stage, "completed")
		}
	}
	return out, err
}

func errorCode(err error) string {
	if code := pkgerrors.CodeOf(err); code != "" {
		return string(code)
	}
	return "UNKNOWN"
}

func (p *Pipeline) fail(ctx context.Context, log logger.Logger, startTime time.Time, stage string, err error) error {
	status := "failed"
	if ctx.Err() != nil {
		status = "canceled"
	}
	duration := time.Since(startTime)
	metrics.RunsCompleted.WithLabelValues(status).Inc()
	metrics.RunDuration.Observe(duration.Seconds())
	if p.obs != nil {
		p.obs.RecordRun(ctx, status, duration)
	}
	log.Error("pipeline aborted", map[string]interface{}{
		"stage":  stage,
		"status": status,
		"error":  err.Error(),
	})
	return err
}
