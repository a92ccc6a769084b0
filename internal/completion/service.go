// Package completion answers configuration completion requests: locate the
// schema for a project, resolve the key path and build candidates.
package completion

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dejo1307/symfonymcp/internal/candidates"
	"github.com/dejo1307/symfonymcp/internal/config"
	"github.com/dejo1307/symfonymcp/internal/logger"
	"github.com/dejo1307/symfonymcp/internal/resolver"
	"github.com/dejo1307/symfonymcp/internal/schema"
	"github.com/dejo1307/symfonymcp/internal/source"
)

// Request is one completion lookup.
type Request struct {
	// ProjectRoot is searched for a schema override; empty uses the
	// configured root.
	ProjectRoot string
	// Path holds the YAML keys enclosing the cursor, root first.
	Path []string
}

// Service orchestrates schema loading, resolution and candidate building.
type Service struct {
	cfg     *config.Config
	locator *source.Locator
	cache   *source.Cache
	watcher *source.Watcher
	log     *zap.SugaredLogger
}

// New creates a Service.
func New(cfg *config.Config, cache *source.Cache) *Service {
	return &Service{
		cfg:     cfg,
		locator: source.NewLocator(cfg.Schema.OverridePath),
		cache:   cache,
		log:     logger.ComponentLogger("completion"),
	}
}

// SetWatcher makes the service register every override it loads with w.
func (s *Service) SetWatcher(w *source.Watcher) {
	s.watcher = w
}

// Cache returns the document cache.
func (s *Service) Cache() *source.Cache {
	return s.cache
}

// Config returns the service config.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Complete returns the candidates for req. Load and resolution failures are
// logged and produce no candidates; they never reach the caller.
func (s *Service) Complete(ctx context.Context, req Request) []candidates.Candidate {
	start := time.Now()
	if len(req.Path) == 0 {
		return nil
	}

	doc, src, err := s.Document(ctx, req.ProjectRoot)
	if err != nil {
		s.log.Warnw("schema unavailable", logger.FieldSource, src.String(), logger.FieldError, err)
		return nil
	}

	node, ok := resolver.Resolve(doc, req.Path)
	if !ok {
		s.log.Debugw("no schema node for path", logger.FieldPath, req.Path, logger.FieldSource, src.String())
		return nil
	}

	out := candidates.Build(node, candidates.Options{MaxDocLength: s.cfg.Completion.MaxDocLength})
	s.log.Debugw("completion",
		logger.FieldPath, req.Path,
		"node", node.Path(),
		logger.FieldCount, len(out),
		"duration", time.Since(start))
	return out
}

// Resolve returns the resolution trace for req. Unlike Complete it reports
// why a lookup failed; errors are marked with schema.ErrSchemaLoad or
// resolver.ErrResolutionMiss.
func (s *Service) Resolve(ctx context.Context, req Request) (*resolver.Result, source.Source, error) {
	doc, src, err := s.Document(ctx, req.ProjectRoot)
	if err != nil {
		return nil, src, err
	}
	res, err := resolver.Trace(doc, req.Path)
	if err != nil {
		return nil, src, errors.Wrapf(err, "resolving in %s", src)
	}
	return res, src, nil
}

// Document returns the schema that applies to projectRoot.
func (s *Service) Document(ctx context.Context, projectRoot string) (*schema.Document, source.Source, error) {
	if projectRoot == "" {
		projectRoot = s.cfg.ProjectRoot
	}
	src := s.locator.Locate(projectRoot)

	if s.watcher != nil && s.cfg.Schema.Watch {
		if err := s.watcher.Watch(s.locator.OverrideFile(projectRoot)); err != nil {
			s.log.Warnw("cannot watch override", logger.FieldError, err)
		}
	}

	doc, err := s.cache.Get(ctx, src)
	if err != nil {
		return nil, src, err
	}
	return doc, src, nil
}
