// Package cran talks to the Comprehensive R Archive Network. The current
// release of a package lives in src/contrib; older releases are moved to
// src/contrib/Archive/{name}.
package cran

import (
	"context"
	"fmt"
	"path"
	"strings"

	adp "github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/htmlutil"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/module/registry/version"
)

const (
	DefaultEndpoint = "https://cran.r-project.org"
	sourceExt       = ".tar.gz"
	versionLabel    = "Version:"
)

func init() {
	if err := adp.RegisterFactory(types.CRAN, new(factory)); err != nil {
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
	return &adapter{Base: adp.NewBase(types.CRAN, DefaultEndpoint, config, env)}
}

func (a *adapter) indexURL(name string) string {
	return a.URL("web", "packages", adp.PathEscape(name), "index.html")
}

func (a *adapter) archiveURL(name string) string {
	return a.URL("src", "contrib", "Archive", adp.PathEscape(name)) + "/"
}

func fileName(name, v string) string {
	return fmt.Sprintf("%s_%s%s", name, v, sourceExt)
}

// EnumerateVersions merges the version on the package page with every
// tarball in the package's archive directory.
func (a *adapter) EnumerateVersions(ctx context.Context, id types.Identifier) ([]string, error) {
	if err := adp.RequireName(id); err != nil {
		return nil, err
	}
	logger := a.Logger(id)

	page, err := a.Fetch(ctx, a.indexURL(id.Name))
	if err != nil {
		logger.Warn().Err(err).Msg("package page unavailable")
		return []string{}, nil
	}

	var versions []string
	current, ok, err := htmlutil.TableValue(strings.NewReader(page), versionLabel)
	if err != nil {
		logger.Warn().Err(err).Msg("package page unparsable")
		return []string{}, nil
	}
	if ok {
		versions = append(versions, current)
	}

	listing, found, err := a.FetchOptional(ctx, a.archiveURL(id.Name))
	if err != nil {
		logger.Warn().Err(err).Msg("archive listing unavailable")
		return []string{}, nil
	}
	if found {
		archived, err := archivedVersions(listing, id.Name)
		if err != nil {
			logger.Warn().Err(err).Msg("archive listing unparsable")
			return []string{}, nil
		}
		versions = append(versions, archived...)
	}

	return version.Sort(versions), nil
}

func archivedVersions(listing, name string) ([]string, error) {
	hrefs, err := htmlutil.Anchors(strings.NewReader(listing))
	if err != nil {
		return nil, err
	}
	prefix := name + "_"
	var out []string
	for _, href := range hrefs {
		file := path.Base(href)
		if strings.HasPrefix(file, prefix) && strings.HasSuffix(file, sourceExt) {
			if v := strings.TrimSuffix(strings.TrimPrefix(file, prefix), sourceExt); v != "" {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// DownloadVersion tries the current release location first and the
// archive second.
func (a *adapter) DownloadVersion(ctx context.Context, id types.Identifier, extract bool) (types.DownloadResult, error) {
	if err := adp.RequireNameAndVersion(id); err != nil {
		return types.NotFound(), err
	}
	file := adp.PathEscape(fileName(id.Name, id.Version))
	return a.Download(ctx, id, extract, []adp.Artifact{{
		Candidates: []string{
			a.URL("src", "contrib", file),
			a.URL("src", "contrib", "Archive", adp.PathEscape(id.Name), file),
		},
	}}), nil
}

// GetMetadata returns the package page HTML. It is not version specific.
func (a *adapter) GetMetadata(ctx context.Context, id types.Identifier) (types.MetadataResult, error) {
	if err := adp.RequireName(id); err != nil {
		return types.MetadataResult{Status: types.StatusNotFound}, err
	}
	return a.Metadata(ctx, id, nil, func(string) (string, error) {
		return a.indexURL(id.Name), nil
	}), nil
}
