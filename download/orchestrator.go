// Package download fetches selected asset URLs and saves them to local storage, with retries, rate limiting and
// collision-free naming.
package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/storage"
)

type Config struct {
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	MaxRetries        uint64        `yaml:"max_retries"`
	RetryBase         time.Duration `yaml:"retry_base"`
	Concurrency       int           `yaml:"concurrency"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	BatchSize         int           `yaml:"batch_size"`
	BatchPause        time.Duration `yaml:"batch_pause"`
	ProviderTemplate  string        `yaml:"provider_template"`
	TitleTemplate     string        `yaml:"title_template"`
}

var DefaultConfig = Config{
	Timeout:           30 * time.Second,
	UserAgent:         "media-archiver/1.0 (+https://github.com/alanbriolat/media-archiver)",
	MaxRetries:        3,
	RetryBase:         2 * time.Second,
	Concurrency:       1,
	RequestsPerSecond: 2,
	Burst:             1,
	BatchSize:         50,
	BatchPause:        5 * time.Second,
	ProviderTemplate:  DefaultProviderTemplate,
	TitleTemplate:     DefaultTitleTemplate,
}

// A Limiter is waited on before each item is started; *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewLimiter builds a token bucket for rps requests per second. A non-positive rps means no limit.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), max(burst, 1))
}

// A PauseFunc blocks for d between batches, returning early with an error if ctx is done.
type PauseFunc func(ctx context.Context, d time.Duration) error

type Option func(*Orchestrator)

func WithClient(client *http.Client) Option {
	return func(o *Orchestrator) {
		o.client = client
	}
}

func WithLimiter(limiter Limiter) Option {
	return func(o *Orchestrator) {
		o.limiter = limiter
	}
}

func WithPause(pause PauseFunc) Option {
	return func(o *Orchestrator) {
		o.pause = pause
	}
}

func WithMirror(mirror storage.Mirror) Option {
	return func(o *Orchestrator) {
		o.mirror = mirror
	}
}

// WithUpdateCallback registers f to be called on every status change of every item. Calls are serialized.
func WithUpdateCallback(f func(Outcome)) Option {
	return func(o *Orchestrator) {
		o.onUpdate = f
	}
}

// An Orchestrator owns one output directory and its FilenameRegistry for the duration of a run.
type Orchestrator struct {
	config   Config
	client   *http.Client
	store    *storage.Local
	mirror   storage.Mirror
	registry *FilenameRegistry
	namer    *Namer
	limiter  Limiter
	pause    PauseFunc
	log      *zap.SugaredLogger

	updateMu sync.Mutex
	onUpdate func(Outcome)
}

func New(config Config, store *storage.Local, opts ...Option) (*Orchestrator, error) {
	if config.RetryBase <= 0 {
		config.RetryBase = DefaultConfig.RetryBase
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig.UserAgent
	}
	config.Concurrency = max(config.Concurrency, 1)
	if config.ProviderTemplate == "" {
		config.ProviderTemplate = DefaultProviderTemplate
	}
	if config.TitleTemplate == "" {
		config.TitleTemplate = DefaultTitleTemplate
	}
	namer, err := NewNamer(config.ProviderTemplate, config.TitleTemplate)
	if err != nil {
		return nil, err
	}
	existing, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list %v: %w", store.Dir(), err)
	}

	o := &Orchestrator{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		store:    store,
		registry: NewFilenameRegistry(existing...),
		namer:    namer,
		limiter:  NewLimiter(config.RequestsPerSecond, config.Burst),
		pause:    sleep,
		log:      zap.S().Named("download"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Orchestrator) Registry() *FilenameRegistry {
	return o.registry
}

func (o *Orchestrator) update(out *Outcome, status Status) {
	out.Status = status
	if o.onUpdate == nil {
		return
	}
	o.updateMu.Lock()
	defer o.updateMu.Unlock()
	o.onUpdate(*out)
}

func (o *Orchestrator) fail(out *Outcome, err error) Outcome {
	out.Err = err
	o.log.Warnw("download failed", "url", out.ReplayURL(), "id", out.CanonicalID, "error", err)
	o.update(out, StatusFailed)
	return *out
}

// Download fetches and saves a single item. Once the first request has been made the item runs to completion even
// if ctx is cancelled; cancellation only prevents further retries.
func (o *Orchestrator) Download(ctx context.Context, item Item) Outcome {
	out := Outcome{
		SourceURL:   item.SourceURL,
		Title:       item.Title,
		CanonicalID: item.Asset.String(),
		Status:      StatusPending,
	}
	selected, ok := item.Selection.URL.Get()
	if !ok {
		if item.Selection.NeedsReview {
			return o.fail(&out, ErrNeedsReview)
		}
		return o.fail(&out, ErrNoViableURL)
	}
	out.URL = selected
	o.update(&out, StatusFetching)

	attempt := 0
	backoff := retry.WithMaxRetries(o.config.MaxRetries, retry.NewExponential(o.config.RetryBase))
	err := retry.Do(context.WithoutCancel(ctx), backoff, func(fetchCtx context.Context) error {
		attempt++
		if attempt > 1 {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.log.Debugw("retrying", "url", selected, "attempt", attempt)
		}
		name, n, err := o.fetch(fetchCtx, item, selected)
		if err != nil {
			if isRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		out.FilePath = o.store.Path(name)
		out.Size = n
		return nil
	})
	if err != nil {
		return o.fail(&out, err)
	}
	o.log.Infow("saved", "url", selected, "path", out.FilePath, "bytes", out.Size)
	o.update(&out, StatusSaved)
	return out
}

func (o *Orchestrator) fetch(ctx context.Context, item Item, u string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", o.config.UserAgent)
	resp, err := o.client.Do(req)
	if err != nil {
		return "", 0, transportError(err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", 0, err
	}

	body := bufio.NewReader(resp.Body)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		peek, _ := body.Peek(512)
		contentType = http.DetectContentType(peek)
	}
	// A media URL answering with a web page is almost always a placeholder or login wall
	if storage.IsHTML(contentType) {
		return "", 0, fmt.Errorf("%w: %v", ErrUnexpectedContent, contentType)
	}

	name := o.registry.Reserve(o.namer.Name(item, chooseExtension(u, contentType, item.Kind)))
	tracked := &trackingReader{r: body}
	n, err := o.store.Save(name, tracked)
	if err != nil {
		o.registry.Release(name)
		if tracked.err != nil {
			return "", n, transportError(tracked.err)
		}
		return "", n, &WriteError{Name: name, Err: err}
	}
	o.mirrorUpload(ctx, name)
	return name, n, nil
}

func (o *Orchestrator) mirrorUpload(ctx context.Context, name string) {
	if o.mirror == nil {
		return
	}
	if key, err := o.mirror.Upload(ctx, o.store.Path(name), name); err != nil {
		o.log.Warnw("mirror upload failed", "name", name, "error", err)
	} else {
		o.log.Debugw("mirrored", "name", name, "key", key)
	}
}

// SaveNote records a text reference as a small .txt file holding its title and URL.
func (o *Orchestrator) SaveNote(ctx context.Context, ref media_archiver.MediaReference) Outcome {
	item := Item{MediaReference: ref}
	out := Outcome{SourceURL: ref.SourceURL, Title: ref.Title, CanonicalID: ref.SourceURL, Status: StatusPending}
	if err := ctx.Err(); err != nil {
		return o.fail(&out, err)
	}
	o.update(&out, StatusFetching)

	var content strings.Builder
	if ref.Title != "" {
		content.WriteString(ref.Title + "\n")
	}
	content.WriteString(ref.SourceURL + "\n")

	name := o.registry.Reserve(o.namer.Name(item, ".txt"))
	n, err := o.store.Save(name, strings.NewReader(content.String()))
	if err != nil {
		o.registry.Release(name)
		return o.fail(&out, &WriteError{Name: name, Err: err})
	}
	out.FilePath = o.store.Path(name)
	out.Size = n
	o.update(&out, StatusSaved)
	return out
}

// Run downloads items with a bounded worker pool, waiting on the limiter before each item and pausing after every
// BatchSize items. Cancelling ctx stops new items from starting; those are reported as pending.
func (o *Orchestrator) Run(ctx context.Context, items []Item) *Report {
	report := &Report{Outcomes: make([]Outcome, len(items))}
	started := make([]bool, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < o.config.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Lost the race with cancellation
				if ctx.Err() != nil {
					continue
				}
				started[i] = true
				report.Outcomes[i] = o.Download(ctx, items[i])
			}
		}()
	}

schedule:
	for i := range items {
		if i > 0 && o.config.BatchSize > 0 && i%o.config.BatchSize == 0 && o.config.BatchPause > 0 {
			o.log.Infow("pausing between batches", "done", i, "pause", o.config.BatchPause)
			if err := o.pause(ctx, o.config.BatchPause); err != nil {
				break
			}
		}
		if err := o.limiter.Wait(ctx); err != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			break schedule
		}
	}
	close(jobs)
	wg.Wait()

	cause := context.Cause(ctx)
	for i, item := range items {
		if started[i] {
			continue
		}
		report.Outcomes[i] = Outcome{
			SourceURL:   item.SourceURL,
			URL:         item.Selection.URL.UnwrapOr(""),
			Title:       item.Title,
			CanonicalID: item.Asset.String(),
			Status:      StatusPending,
			Err:         fmt.Errorf("not started: %w", notNil(cause)),
		}
	}
	return report
}

func notNil(err error) error {
	if err == nil {
		return errors.New("run stopped")
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// trackingReader remembers the first read error, to tell network failures apart from storage failures.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
