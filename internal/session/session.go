package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/download"
	"github.com/alanbriolat/media-archiver/input"
	"github.com/alanbriolat/media-archiver/storage"
)

type Option func(*Session)

// WithOutcomeCallback registers f to receive each item's final outcome as soon as it's known.
func WithOutcomeCallback(f func(download.Outcome)) Option {
	return func(s *Session) {
		s.onOutcome = f
	}
}

// WithDownloadOptions passes extra options through to the download.Orchestrator.
func WithDownloadOptions(opts ...download.Option) Option {
	return func(s *Session) {
		s.downloadOpts = append(s.downloadOpts, opts...)
	}
}

// A Session is one archiving run into one output directory.
type Session struct {
	config Config
	ctx    context.Context
	id     string
	log    *zap.SugaredLogger

	store        *storage.Local
	orchestrator *download.Orchestrator
	downloadOpts []download.Option
	onOutcome    func(download.Outcome)
}

func New(ctx context.Context, config Config, opts ...Option) (*Session, error) {
	defaults := DefaultConfig()
	if config.ProviderRegistry == nil {
		config.ProviderRegistry = defaults.ProviderRegistry
	}
	if config.Classifier == nil {
		config.Classifier = defaults.Classifier
	}
	if config.Selector == nil {
		config.Selector = defaults.Selector
	}

	s := &Session{
		config: config,
		ctx:    ctx,
		id:     uuid.NewString(),
	}
	s.log = zap.S().Named("session").With("run", s.id)
	for _, opt := range opts {
		opt(s)
	}

	store, err := storage.NewLocal(config.Dest)
	if err != nil {
		return nil, err
	}
	s.store = store

	downloadOpts := []download.Option{download.WithUpdateCallback(s.handleUpdate)}
	if config.S3.Enabled() {
		if mirror, err := storage.NewS3Mirror(ctx, config.S3); err != nil {
			s.log.Warnw("S3 mirror disabled", "error", err)
		} else {
			downloadOpts = append(downloadOpts, download.WithMirror(mirror))
		}
	}
	s.orchestrator, err = download.New(config.Download, store, append(downloadOpts, s.downloadOpts...)...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Store() *storage.Local {
	return s.store
}

// FailureLogPath returns where failures are recorded, or "" if they aren't.
func (s *Session) FailureLogPath() string {
	if s.config.FailureLog == "" || filepath.IsAbs(s.config.FailureLog) {
		return s.config.FailureLog
	}
	return filepath.Join(s.config.Dest, s.config.FailureLog)
}

func (s *Session) handleUpdate(out download.Outcome) {
	if out.Status.IsTerminal() && s.onOutcome != nil {
		s.onOutcome(out)
	}
}

// A Plan is what a run will do with its input.
type Plan struct {
	Items   []download.Item
	Notes   []media_archiver.MediaReference
	Skipped []media_archiver.MediaReference
}

// Len is the number of outcomes running the plan will produce.
func (p Plan) Len() int {
	return len(p.Items) + len(p.Notes)
}

// Plan classifies every URL, groups media URLs by asset across all posts, and selects one variant per asset. Each
// asset takes its metadata from the post its first variant appeared in.
func (s *Session) Plan(posts []input.Post) Plan {
	var plan Plan
	var media []string
	refs := make(map[string]media_archiver.MediaReference)
	notes := make(map[string]bool)
	for _, post := range posts {
		for _, u := range post.URLs {
			ref := s.config.Classifier.Reference(post.Title, u)
			ref.Subreddit = post.Subreddit
			ref.Author = post.Author
			switch {
			case ref.Kind.IsFetchable():
				if _, ok := refs[ref.SourceURL]; !ok {
					refs[ref.SourceURL] = ref
					media = append(media, ref.SourceURL)
				}
			case ref.Kind == media_archiver.KindText:
				if !notes[ref.SourceURL] {
					notes[ref.SourceURL] = true
					plan.Notes = append(plan.Notes, ref)
				}
			default:
				s.log.Warnw("skipping unsupported URL", "url", u)
				plan.Skipped = append(plan.Skipped, ref)
			}
		}
	}

	for _, group := range s.config.ProviderRegistry.Group(media) {
		ref := refs[group.VariantURLs[0]]
		selection := s.config.Selector.Select(group.VariantURLs)
		if selected, ok := selection.URL.Get(); ok {
			ref.Kind = s.config.Classifier.Classify(selected)
		}
		s.log.Debugw("selected", "id", group.CanonicalID(), "variants", len(group.VariantURLs), "rule", selection.Rule, "url", selection.URL.UnwrapOr(""))
		plan.Items = append(plan.Items, download.Item{
			MediaReference: ref,
			Asset:          group.AssetID,
			Selection:      selection,
		})
	}
	return plan
}

// Run archives posts. Per-item failures are in the report; the error is only for failing to record them.
func (s *Session) Run(posts []input.Post) (*download.Report, error) {
	return s.RunPlan(s.Plan(posts))
}

func (s *Session) RunPlan(plan Plan) (*download.Report, error) {
	s.log.Infow("starting run", "items", len(plan.Items), "notes", len(plan.Notes), "skipped", len(plan.Skipped), "dest", s.store.Dir())

	var notes []download.Outcome
	for _, ref := range plan.Notes {
		notes = append(notes, s.orchestrator.SaveNote(s.ctx, ref))
	}
	report := s.orchestrator.Run(s.ctx, plan.Items)
	report.RunID = s.id
	report.Outcomes = append(notes, report.Outcomes...)

	failed, pending := len(report.Failed()), len(report.Pending())
	s.log.Infow("run finished", "saved", len(report.Saved()), "failed", failed, "pending", pending)
	if path := s.FailureLogPath(); path != "" && failed+pending > 0 {
		n, err := download.WriteFailureLog(path, s.id, report.Outcomes)
		if err != nil {
			return report, err
		}
		s.log.Infof("recorded %d failures in %v", n, path)
	}
	return report, nil
}

// Retry replays the URLs recorded in a failure log.
func (s *Session) Retry(path string) (*download.Report, error) {
	urls, err := download.ReadFailureLog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", path, err)
	}
	return s.Run(input.FromURLs(urls))
}
