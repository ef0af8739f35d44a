// Package download turns package URLs into adapter calls and collects
// per-version results.
package download

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/engine"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/module/registry/version"
	"github.com/WS-QA/OSSGadget/util/common/progress"

	"github.com/gobwas/glob"
)

// Registries resolves the configuration of a backend. A zero value means
// the backend defaults.
type Registries interface {
	Registry(t types.RegistryType) types.RegistryConfig
}

// Options control a batch download.
type Options struct {
	Extract     bool
	Concurrency int
}

// Result is one row of a batch download.
type Result struct {
	Purl     string             `json:"purl"`
	Registry types.RegistryType `json:"registry"`
	Version  string             `json:"version,omitempty"`
	Status   types.Status       `json:"status"`
	Path     string             `json:"path,omitempty"`
	Paths    []string           `json:"paths,omitempty"`
	Bytes    int64              `json:"bytes,omitempty"`
	Size     string             `json:"size,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Service owns the adapters of one process. Adapters are created on first
// use and share the environment's client and cache.
type Service struct {
	env        adapter.Env
	registries Registries
	reporter   progress.Reporter

	mu       sync.Mutex
	adapters map[types.RegistryType]adapter.Adapter
}

func NewService(env adapter.Env, registries Registries, reporter progress.Reporter) *Service {
	if reporter == nil {
		reporter = progress.NewNopReporter()
	}
	return &Service{
		env:        env,
		registries: registries,
		reporter:   reporter,
		adapters:   map[types.RegistryType]adapter.Adapter{},
	}
}

// Adapter returns the backend serving id.
func (s *Service) Adapter(ctx context.Context, id types.Identifier) (adapter.Adapter, error) {
	return s.AdapterFor(ctx, types.RegistryTypeOf(id))
}

// AdapterFor returns the backend registered for t.
func (s *Service) AdapterFor(ctx context.Context, t types.RegistryType) (adapter.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.adapters[t]; ok {
		return a, nil
	}

	cfg := types.RegistryConfig{Type: t}
	if s.registries != nil {
		cfg = s.registries.Registry(t)
		cfg.Type = t
	}
	a, err := adapter.GetAdapter(ctx, cfg, s.env)
	if err != nil {
		return nil, err
	}
	s.adapters[t] = a
	return a, nil
}

func (s *Service) resolve(ctx context.Context, purl string) (types.Identifier, adapter.Adapter, error) {
	id, err := types.ParseIdentifier(purl)
	if err != nil {
		return id, nil, err
	}
	a, err := s.Adapter(ctx, id)
	if err != nil {
		return id, nil, err
	}
	return id, a, nil
}

// Versions lists the versions of purl, newest first. The version part of
// purl, if any, is ignored.
func (s *Service) Versions(ctx context.Context, purl string) (types.Identifier, []string, error) {
	id, a, err := s.resolve(ctx, purl)
	if err != nil {
		return id, nil, err
	}
	versions, err := a.EnumerateVersions(ctx, types.WithVersion(id, ""))
	return id, versions, err
}

// Metadata returns the registry document of purl.
func (s *Service) Metadata(ctx context.Context, purl string) (types.Identifier, types.MetadataResult, error) {
	id, a, err := s.resolve(ctx, purl)
	if err != nil {
		return id, types.MetadataResult{Status: types.StatusNotFound}, err
	}
	res, err := a.GetMetadata(ctx, id)
	return id, res, err
}

// SelectVersions expands the version of id: empty means the newest
// enumerated version, a pattern containing '*' selects every matching
// version, anything else is taken as is.
func SelectVersions(ctx context.Context, a adapter.Adapter, id types.Identifier) ([]string, error) {
	requested := strings.TrimSpace(id.Version)
	if requested != "" && !strings.Contains(requested, "*") {
		return []string{requested}, nil
	}

	versions, err := a.EnumerateVersions(ctx, types.WithVersion(id, ""))
	if err != nil {
		return nil, err
	}
	if requested == "" {
		if len(versions) == 0 {
			return nil, nil
		}
		return []string{version.Latest(versions)}, nil
	}

	g, err := glob.Compile(requested)
	if err != nil {
		return nil, fmt.Errorf("invalid version pattern %q: %w", requested, err)
	}
	var selected []string
	for _, v := range versions {
		if g.Match(v) {
			selected = append(selected, v)
		}
	}
	return selected, nil
}

// Download runs one job per purl and returns the rows in input order.
// The error joins the failures of individual purls; rows are returned
// for those too.
func (s *Service) Download(ctx context.Context, purls []string, opts Options) ([]Result, error) {
	rows := make([][]Result, len(purls))
	jobs := make([]engine.Job, len(purls))
	for i, purl := range purls {
		jobs[i] = newJob(s, purl, opts, &rows[i])
	}

	s.reporter.Start(fmt.Sprintf("Downloading %d package(s)", len(purls)))
	err := engine.NewEngine(opts.Concurrency, jobs).Execute(ctx)
	s.reporter.End()

	var results []Result
	for _, r := range rows {
		results = append(results, r...)
	}
	return results, err
}
