// Package golang reads modules from a GOPROXY-protocol server.
package golang

import (
	"context"
	"encoding/json"
	"strings"

	adp "github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/module/registry/version"
	"github.com/WS-QA/OSSGadget/util/common/errors"

	"golang.org/x/mod/module"
)

const DefaultEndpoint = "https://proxy.golang.org"

func init() {
	if err := adp.RegisterFactory(types.GOLANG, new(factory)); err != nil {
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
	return &adapter{Base: adp.NewBase(types.GOLANG, DefaultEndpoint, config, env)}
}

// nolint:tagliatelle
type versionInfo struct {
	Version string `json:"Version"`
	Time    string `json:"Time"`
}

// modulePath escapes the module path for the proxy: upper case letters
// become "!" + lower case.
func modulePath(id types.Identifier) (string, error) {
	escaped, err := module.EscapePath(types.FullName(id))
	if err != nil {
		return "", errors.NewValidationError("name", err.Error())
	}
	return escaped, nil
}

func (a *adapter) moduleURL(id types.Identifier, rest ...string) (string, error) {
	p, err := modulePath(id)
	if err != nil {
		return "", err
	}
	return a.URL(append([]string{p}, rest...)...), nil
}

func (a *adapter) versionURL(id types.Identifier, ext string) (string, error) {
	v, err := module.EscapeVersion(id.Version)
	if err != nil {
		return "", errors.NewValidationError("version", err.Error())
	}
	return a.moduleURL(id, "@v", v+ext)
}

// EnumerateVersions merges the proxy's tagged version list with @latest,
// which also reports pseudo-versions of untagged modules.
func (a *adapter) EnumerateVersions(ctx context.Context, id types.Identifier) ([]string, error) {
	if err := adp.RequireName(id); err != nil {
		return nil, err
	}
	listURL, err := a.moduleURL(id, "@v", "list")
	if err != nil {
		return nil, err
	}
	latestURL, _ := a.moduleURL(id, "@latest")
	logger := a.Logger(id)

	list, err := a.Fetch(ctx, listURL)
	if err != nil {
		logger.Warn().Err(err).Msg("version list unavailable")
		return []string{}, nil
	}
	versions := strings.Fields(list)

	latest, found, err := a.FetchOptional(ctx, latestURL)
	if err != nil {
		logger.Warn().Err(err).Msg("latest version unavailable")
		return []string{}, nil
	}
	if found {
		var info versionInfo
		if err := json.Unmarshal([]byte(latest), &info); err != nil {
			logger.Warn().Err(err).Msg("latest version unparsable")
			return []string{}, nil
		}
		if info.Version != "" {
			versions = append(versions, info.Version)
		}
	}

	return version.Sort(versions), nil
}

// DownloadVersion fetches the module zip.
func (a *adapter) DownloadVersion(ctx context.Context, id types.Identifier, extract bool) (types.DownloadResult, error) {
	if err := adp.RequireNameAndVersion(id); err != nil {
		return types.NotFound(), err
	}
	zipURL, err := a.versionURL(id, ".zip")
	if err != nil {
		return types.NotFound(), err
	}
	return a.Download(ctx, id, extract, []adp.Artifact{{Candidates: []string{zipURL}}}), nil
}

// GetMetadata returns the .info document of the requested, or newest, version.
func (a *adapter) GetMetadata(ctx context.Context, id types.Identifier) (types.MetadataResult, error) {
	if err := adp.RequireName(id); err != nil {
		return types.MetadataResult{Status: types.StatusNotFound}, err
	}
	if _, err := modulePath(id); err != nil {
		return types.MetadataResult{Status: types.StatusNotFound}, err
	}
	return a.Metadata(ctx, id, a.EnumerateVersions, func(v string) (string, error) {
		return a.versionURL(types.WithVersion(id, v), ".info")
	}), nil
}
