// Package pypi reads the Python Package Index through its JSON API and the
// PEP 503 simple index.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	adp "github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/htmlutil"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/module/registry/version"
)

const (
	DefaultEndpoint  = "https://pypi.org"
	packageTypeSdist = "sdist"
)

func init() {
	if err := adp.RegisterFactory(types.PYPI, new(factory)); err != nil {
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
	return &adapter{Base: adp.NewBase(types.PYPI, DefaultEndpoint, config, env)}
}

// nolint:tagliatelle
type projectInfo struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
	URLs     []releaseFile            `json:"urls"`
}

// nolint:tagliatelle
type releaseFile struct {
	Filename    string `json:"filename"`
	PackageType string `json:"packagetype"`
	URL         string `json:"url"`
	Yanked      bool   `json:"yanked"`
}

func (a *adapter) projectURL(name string) string {
	return a.URL("pypi", adp.PathEscape(name), "json")
}

func (a *adapter) releaseURL(name, v string) string {
	return a.URL("pypi", adp.PathEscape(name), adp.PathEscape(v), "json")
}

func (a *adapter) simpleURL(name string) string {
	return a.URL("simple", adp.PathEscape(name)) + "/"
}

func (a *adapter) fetchInfo(ctx context.Context, url string) (*projectInfo, error) {
	body, err := a.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var info projectInfo
	if err := json.Unmarshal([]byte(body), &info); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &info, nil
}

// EnumerateVersions merges the JSON API release keys with versions parsed
// from file names on the simple index, which also lists files of releases
// the JSON API no longer reports.
func (a *adapter) EnumerateVersions(ctx context.Context, id types.Identifier) ([]string, error) {
	if err := adp.RequireName(id); err != nil {
		return nil, err
	}
	logger := a.Logger(id)

	info, err := a.fetchInfo(ctx, a.projectURL(id.Name))
	if err != nil {
		logger.Warn().Err(err).Msg("project json unavailable")
		return []string{}, nil
	}

	versions := make([]string, 0, len(info.Releases))
	for v := range info.Releases {
		versions = append(versions, v)
	}

	page, found, err := a.FetchOptional(ctx, a.simpleURL(id.Name))
	if err != nil {
		logger.Warn().Err(err).Msg("simple index unavailable")
		return []string{}, nil
	}
	if found {
		hrefs, err := htmlutil.Anchors(strings.NewReader(page))
		if err != nil {
			logger.Warn().Err(err).Msg("simple index unparsable")
			return []string{}, nil
		}
		for _, href := range hrefs {
			href, _, _ = strings.Cut(href, "#")
			if v := versionFromFilename(path.Base(href)); v != "" {
				versions = append(versions, v)
			}
		}
	}

	return version.Sort(versions), nil
}

// DownloadVersion tries the release's source distribution first, then
// every other file of the release in the order PyPI lists them.
func (a *adapter) DownloadVersion(ctx context.Context, id types.Identifier, extract bool) (types.DownloadResult, error) {
	if err := adp.RequireNameAndVersion(id); err != nil {
		return types.NotFound(), err
	}

	info, err := a.fetchInfo(ctx, a.releaseURL(id.Name, id.Version))
	if err != nil {
		logger := a.Logger(id)
		logger.Warn().Err(err).Msg("release json unavailable")
		return types.NotFound(), nil
	}

	return a.Download(ctx, id, extract, []adp.Artifact{{Candidates: candidates(info.URLs)}}), nil
}

func candidates(files []releaseFile) []string {
	var sdists, others []string
	for _, f := range files {
		if f.URL == "" {
			continue
		}
		if f.PackageType == packageTypeSdist {
			sdists = append(sdists, f.URL)
		} else {
			others = append(others, f.URL)
		}
	}
	return append(sdists, others...)
}

// GetMetadata returns the JSON document of the requested, or newest, release.
func (a *adapter) GetMetadata(ctx context.Context, id types.Identifier) (types.MetadataResult, error) {
	if err := adp.RequireName(id); err != nil {
		return types.MetadataResult{Status: types.StatusNotFound}, err
	}
	return a.Metadata(ctx, id, a.EnumerateVersions, func(v string) (string, error) {
		return a.releaseURL(id.Name, v), nil
	}), nil
}
