// Package studio orchestrates draft generation: attribute records go in,
// drafts come out, and the registries are updated along the way.
package studio

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"product_draft_studio/apperr"
	"product_draft_studio/generator"
	"product_draft_studio/logger"
	"product_draft_studio/registry"
)

// DefaultSessionTTL is how long a generated draft stays addressable by id.
const DefaultSessionTTL = 30 * time.Minute

// DefaultRewriteTimeout bounds one LLM rewrite call.
const DefaultRewriteTimeout = 60 * time.Second

// Service wires the synthesizer, registries and optional rewrite agent.
type Service struct {
	regs      *registry.Registries
	agent     *generator.Agent
	log       *slog.Logger
	synthOpts []generator.Option
	sessions  *gocache.Cache
	rand      *rand.Rand
	timeout   time.Duration
}

type options struct {
	agent     *generator.Agent
	log       *slog.Logger
	synthOpts []generator.Option
	ttl       time.Duration
	rand      *rand.Rand
	timeout   time.Duration
}

// Option configures New.
type Option func(*options)

// WithAgent enables comment-driven rewrites.
func WithAgent(a *generator.Agent) Option {
	return func(o *options) { o.agent = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithSynthOptions is applied to every synthesizer the service builds.
func WithSynthOptions(opts ...generator.Option) Option {
	return func(o *options) { o.synthOpts = append(o.synthOpts, opts...) }
}

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithRewriteTimeout overrides DefaultRewriteTimeout.
func WithRewriteTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRand fixes the source used to pick sample products.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

func New(regs *registry.Registries, opts ...Option) *Service {
	o := options{ttl: DefaultSessionTTL, timeout: DefaultRewriteTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Discard()
	}
	return &Service{
		regs:      regs,
		agent:     o.agent,
		log:       o.log,
		synthOpts: o.synthOpts,
		sessions:  gocache.New(o.ttl, 2*o.ttl),
		rand:      o.rand,
		timeout:   o.timeout,
	}
}

// Registries exposes the underlying registries for direct CRUD.
func (s *Service) Registries() *registry.Registries {
	return s.regs
}

// CanRewrite reports whether a rewrite agent is configured.
func (s *Service) CanRewrite() bool {
	return s.agent != nil
}

// GenerateRequest 一次生成请求。Spreadsheet 优先于 Mock，Mock 优先于 Products。
type GenerateRequest struct {
	Products        []generator.Product `json:"products"`
	Mock            bool                `json:"mock"`
	Spreadsheet     string              `json:"spreadsheet"`
	MainImages      []string            `json:"mainImages"`
	ReferenceImages []string            `json:"referenceImages"`
	ReferenceLink   string              `json:"referenceLink"`
	// SaveToLibrary overrides settings.defaultSaveToLibrary when set.
	SaveToLibrary *bool `json:"saveToLibrary"`
}

// GenerateResult is what a generation returns to the rendering layer.
type GenerateResult struct {
	Drafts  []generator.Draft      `json:"drafts"`
	Library []registry.LibraryItem `json:"library"`
	Stats   registry.Stats         `json:"stats"`
}

func (r GenerateRequest) products() ([]generator.Product, error) {
	switch {
	case r.Spreadsheet != "":
		return generator.ImportSpreadsheet(r.Spreadsheet)
	case r.Mock:
		return generator.MockImport(), nil
	}
	return r.Products, nil
}

// Generate synthesizes one draft per product. Nothing is persisted when any
// product fails validation.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	products, err := req.products()
	if err != nil {
		return GenerateResult{}, err
	}
	settings, err := s.regs.Settings.Get(ctx)
	if err != nil {
		return GenerateResult{}, err
	}

	synth := s.synthesizer(settings)
	drafts, err := synth.SynthesizeBatch(generator.Batch{
		Products:        products,
		MainImages:      req.MainImages,
		ReferenceImages: req.ReferenceImages,
		ReferenceLink:   req.ReferenceLink,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	save := settings.DefaultSaveToLibrary
	if req.SaveToLibrary != nil {
		save = *req.SaveToLibrary
	}
	res := GenerateResult{Drafts: drafts, Library: []registry.LibraryItem{}}
	if save {
		items, err := s.regs.Library.SaveProducts(ctx, products, req.MainImages, req.ReferenceImages)
		if err != nil {
			return GenerateResult{}, err
		}
		res.Library = items
	}

	for _, d := range drafts {
		s.sessions.SetDefault(d.ID, generator.NewSession(d, s.agent))
	}
	if res.Stats, err = s.regs.Dashboard.Stats(ctx); err != nil {
		return GenerateResult{}, err
	}
	s.log.InfoContext(ctx, "drafts generated", "count", len(drafts), "saved", len(res.Library))
	return res, nil
}

// Sample generates a draft from a random test product.
func (s *Service) Sample(ctx context.Context) (GenerateResult, error) {
	b := generator.RandomSample(s.rand).Batch()
	return s.Generate(ctx, GenerateRequest{
		Products:        b.Products,
		MainImages:      b.MainImages,
		ReferenceImages: b.ReferenceImages,
		ReferenceLink:   b.ReferenceLink,
	})
}

func (s *Service) synthesizer(settings registry.Settings) *generator.Synthesizer {
	opts := append([]generator.Option{generator.WithSloganLimit(settings.DefaultSloganCount)}, s.synthOpts...)
	return generator.NewSynthesizer(opts...)
}

// DraftView is a draft with the session it belongs to. Latest is the most
// recent rewrite, which equals Draft unless Draft has been rewritten since.
type DraftView struct {
	Draft   generator.Draft  `json:"draft"`
	Latest  generator.Draft  `json:"latest"`
	Origin  generator.Draft  `json:"origin"`
	History []generator.Turn `json:"history"`
}

func (s *Service) lookup(id string) (*generator.Session, generator.Draft, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, generator.Draft{}, apperr.NotFoundf("draft %s not found", id)
	}
	sess, ok := v.(*generator.Session)
	if !ok {
		return nil, generator.Draft{}, apperr.NotFoundf("draft %s not found", id)
	}
	d, ok := sess.Lookup(id)
	if !ok {
		return nil, generator.Draft{}, apperr.NotFoundf("draft %s not found", id)
	}
	return sess, d, nil
}

// Draft looks up a recently generated or rewritten draft.
func (s *Service) Draft(_ context.Context, id string) (DraftView, error) {
	sess, d, err := s.lookup(id)
	if err != nil {
		return DraftView{}, err
	}
	return viewOf(sess, d), nil
}

func viewOf(sess *generator.Session, d generator.Draft) DraftView {
	origin, latest, history := sess.Snapshot()
	if history == nil {
		history = []generator.Turn{}
	}
	return DraftView{Draft: d, Latest: latest, Origin: origin, History: history}
}

// Favorite saves the draft as a template.
func (s *Service) Favorite(ctx context.Context, draftID string) (registry.Template, error) {
	_, d, err := s.lookup(draftID)
	if err != nil {
		return registry.Template{}, err
	}
	tpl, err := s.regs.Templates.FromDraft(ctx, d)
	if err != nil {
		return registry.Template{}, err
	}
	s.log.InfoContext(ctx, "draft favorited", "draft", draftID, "template", tpl.ID)
	return tpl, nil
}

// Rewrite asks the agent to revise the session the draft belongs to,
// starting from its latest draft. The new draft gets its own id.
func (s *Service) Rewrite(ctx context.Context, draftID, comment string) (DraftView, error) {
	if s.agent == nil {
		return DraftView{}, apperr.Conflictf("rewrite is not configured; set llm.provider")
	}
	if comment == "" {
		return DraftView{}, apperr.ValidationWithDetails("validation failed", map[string]string{"comment": "is required"})
	}
	sess, _, err := s.lookup(draftID)
	if err != nil {
		return DraftView{}, err
	}
	settings, err := s.regs.Settings.Get(ctx)
	if err != nil {
		return DraftView{}, err
	}

	start := time.Now()
	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	d, err := sess.Revise(rctx, comment, settings.Style())
	if err != nil {
		s.log.WarnContext(ctx, "rewrite failed", "draft", draftID, "err", err)
		return DraftView{}, err
	}
	s.sessions.SetDefault(d.ID, sess)
	s.log.InfoContext(ctx, "draft rewritten", "from", draftID, "to", d.ID, "elapsed", time.Since(start))
	return viewOf(sess, d), nil
}

// Stats is the dashboard rollup.
func (s *Service) Stats(ctx context.Context) (registry.Stats, error) {
	return s.regs.Dashboard.Stats(ctx)
}
