// Package npm reads package documents ("packuments") and tarballs from an
// npm registry.
package npm

import (
	"context"
	"encoding/json"
	"fmt"

	adp "github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/module/registry/version"
)

const DefaultEndpoint = "https://registry.npmjs.org"

func init() {
	if err := adp.RegisterFactory(types.NPM, new(factory)); err != nil {
		return
	}
}

type factory struct{}

func (f factory) Create(_ context.Context, config types.RegistryConfig, env adp.Env) (adp.Adapter, error) {
	return newAdapter(config, env), nil
}

type adapter struct {
	adp.Base
}

func newAdapter(config types.RegistryConfig, env adp.Env) *adapter {
	return &adapter{Base: adp.NewBase(types.NPM, DefaultEndpoint, config, env)}
}

// packumentURL escapes the scope separator: /@scope%2Fname.
func (a *adapter) packumentURL(id types.Identifier) string {
	return a.URL(adp.PathEscape(types.FullName(id)))
}

// tarballURL is the conventional location: /@scope/name/-/name-1.0.0.tgz.
func (a *adapter) tarballURL(id types.Identifier) string {
	file := fmt.Sprintf("%s-%s.tgz", id.Name, id.Version)
	segments := []string{adp.PathEscape(id.Name), "-", adp.PathEscape(file)}
	if id.Namespace != "" {
		segments = append([]string{adp.PathEscape(id.Namespace)}, segments...)
	}
	return a.URL(segments...)
}

func (a *adapter) packument(ctx context.Context, id types.Identifier) (*Packument, error) {
	body, err := a.Fetch(ctx, a.packumentURL(id))
	if err != nil {
		return nil, err
	}
	var doc Packument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode packument: %w", err)
	}
	return &doc, nil
}

func (a *adapter) EnumerateVersions(ctx context.Context, id types.Identifier) ([]string, error) {
	if err := adp.RequireName(id); err != nil {
		return nil, err
	}

	doc, err := a.packument(ctx, id)
	if err != nil {
		logger := a.Logger(id)
		logger.Warn().Err(err).Msg("packument unavailable")
		return []string{}, nil
	}

	versions := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		versions = append(versions, v)
	}
	return version.Sort(versions), nil
}

// DownloadVersion prefers the tarball URL the registry advertises and
// falls back to the conventional path.
func (a *adapter) DownloadVersion(ctx context.Context, id types.Identifier, extract bool) (types.DownloadResult, error) {
	if err := adp.RequireNameAndVersion(id); err != nil {
		return types.NotFound(), err
	}

	fallback := a.tarballURL(id)
	var candidates []string
	if doc, err := a.packument(ctx, id); err == nil {
		if pv, ok := doc.Versions[id.Version]; ok && pv != nil && pv.Dist.Tarball != "" && pv.Dist.Tarball != fallback {
			candidates = append(candidates, pv.Dist.Tarball)
		}
	}
	candidates = append(candidates, fallback)

	return a.Download(ctx, id, extract, []adp.Artifact{{Candidates: candidates}}), nil
}

// GetMetadata returns the packument, which covers every version.
func (a *adapter) GetMetadata(ctx context.Context, id types.Identifier) (types.MetadataResult, error) {
	if err := adp.RequireName(id); err != nil {
		return types.MetadataResult{Status: types.StatusNotFound}, err
	}
	return a.Metadata(ctx, id, nil, func(string) (string, error) {
		return a.packumentURL(id), nil
	}), nil
}
