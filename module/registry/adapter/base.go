package adapter

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/WS-QA/OSSGadget/module/registry/archive"
	rhttp "github.com/WS-QA/OSSGadget/module/registry/http"
	"github.com/WS-QA/OSSGadget/module/registry/http/auth/basic"
	"github.com/WS-QA/OSSGadget/module/registry/http/auth/bearer"
	"github.com/WS-QA/OSSGadget/module/registry/httpcache"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/util/common/errors"
	"github.com/WS-QA/OSSGadget/util/common/fileutil"
	"github.com/WS-QA/OSSGadget/util/common/progress"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Artifact is one file a download must produce. Candidates are tried in
// order until one succeeds; the result is stored under the identifier's
// target name with Suffix appended to the package name.
type Artifact struct {
	Suffix     string
	Candidates []string
}

// Base holds what every backend shares: endpoint, HTTP client, cache and
// download directory. Backends embed it.
type Base struct {
	kind        types.RegistryType
	endpoint    string
	client      *rhttp.Client
	cache       *httpcache.Cache
	downloadDir string
	progress    bool
}

// NewBase resolves cfg against defaultEndpoint and attaches credentials
// from cfg to every request sent to the endpoint host.
func NewBase(kind types.RegistryType, defaultEndpoint string, cfg types.RegistryConfig, env Env) Base {
	endpoint := strings.TrimSuffix(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = strings.TrimSuffix(defaultEndpoint, "/")
	}

	client := env.Client
	if client == nil {
		client = rhttp.NewClient(nil)
	}
	cache := env.Cache
	if cache == nil {
		cache = httpcache.New(client)
	}

	switch creds := cfg.Credentials; {
	case creds.Token != "":
		client = client.With(bearer.NewAuthorizer(endpoint, creds.Token))
		cache = cache.Using(client)
	case creds.Username != "":
		client = client.With(basic.NewAuthorizer(endpoint, creds.Username, creds.Password))
		cache = cache.Using(client)
	}

	dir := env.DownloadDir
	if dir == "" {
		dir = "."
	}

	return Base{
		kind:        kind,
		endpoint:    endpoint,
		client:      client,
		cache:       cache,
		downloadDir: dir,
		progress:    env.Progress,
	}
}

func (b *Base) Type() types.RegistryType {
	return b.kind
}

func (b *Base) Endpoint() string {
	return b.endpoint
}

// URL joins path segments onto the endpoint. Segments are used verbatim,
// callers escape them.
func (b *Base) URL(segments ...string) string {
	return b.endpoint + "/" + strings.Join(segments, "/")
}

// Logger returns a logger annotated with the registry and identifier.
func (b *Base) Logger(id types.Identifier) zerolog.Logger {
	return log.With().
		Str("registry", string(b.kind)).
		Str("purl", types.Describe(id)).
		Logger()
}

// Fetch returns the text body of url through the shared cache.
func (b *Base) Fetch(ctx context.Context, url string) (string, error) {
	return b.cache.GetString(ctx, url)
}

// FetchOptional is Fetch where HTTP 404 means the document does not exist:
// it returns found=false and no error.
func (b *Base) FetchOptional(ctx context.Context, url string) (body string, found bool, err error) {
	body, err = b.cache.GetString(ctx, url)
	if err != nil {
		if rhttp.IsStatus(err, http.StatusNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return body, true, nil
}

func RequireName(id types.Identifier) error {
	if strings.TrimSpace(id.Name) == "" {
		return errors.NewValidationError("name", "package name is required")
	}
	return nil
}

func RequireNameAndVersion(id types.Identifier) error {
	if err := RequireName(id); err != nil {
		return err
	}
	if strings.TrimSpace(id.Version) == "" {
		return errors.NewValidationError("version", "package version is required")
	}
	if strings.ContainsAny(id.Version, "/\\") || strings.Contains(id.Version, "..") {
		return errors.NewValidationError("version", "package version cannot contain path separators or '..'")
	}
	return nil
}

// Download fetches every artifact in order. Within an artifact the
// candidates are tried one at a time; a non-2xx answer, a transport error
// or an extraction failure moves on to the next candidate. If any artifact
// runs out of candidates the whole download is not found.
func (b *Base) Download(ctx context.Context, id types.Identifier, extract bool, artifacts []Artifact) types.DownloadResult {
	logger := b.Logger(id)
	if len(artifacts) == 0 {
		return types.NotFound()
	}

	if err := fileutil.EnsureDir(b.downloadDir); err != nil {
		logger.Error().Err(err).Str("dir", b.downloadDir).Msg("download directory unavailable")
		return types.NotFound()
	}

	paths := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		target := filepath.Join(b.downloadDir, types.TargetName(id, artifact.Suffix))
		if !fileutil.Within(b.downloadDir, target) {
			logger.Error().Str("target", target).Str("dir", b.downloadDir).Msg("target escapes download directory")
			return types.NotFound()
		}

		stored := false
		for _, candidate := range artifact.Candidates {
			if ctx.Err() != nil {
				logger.Warn().Err(ctx.Err()).Msg("download cancelled")
				return types.NotFound()
			}
			if err := b.store(ctx, candidate, target, extract); err != nil {
				logger.Debug().Err(err).Str("candidate", candidate).Msg("candidate failed")
				continue
			}
			logger.Debug().Str("candidate", candidate).Str("target", target).Msg("artifact stored")
			stored = true
			break
		}

		if !stored {
			logger.Warn().
				Str("suffix", artifact.Suffix).
				Int("candidates", len(artifact.Candidates)).
				Msg("no candidate could be downloaded")
			return types.NotFound()
		}
		paths = append(paths, target)
	}

	return types.DownloadResult{
		Status: types.StatusFound,
		Path:   paths[len(paths)-1],
		Paths:  paths,
	}
}

func (b *Base) store(ctx context.Context, url, target string, extract bool) error {
	resp, err := b.client.Open(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if b.progress {
		r, done := progress.Reader(resp.ContentLength, resp.Body, filepath.Base(target))
		defer done()
		body = r
	}

	if !extract {
		_, err := fileutil.WriteStream(target, body)
		return err
	}

	if err := fileutil.ResetDir(target); err != nil {
		return err
	}
	if err := archive.Extract(body, target); err != nil {
		_ = os.RemoveAll(target)
		return errors.NewFileError(target, "extract", err)
	}
	return nil
}

// LatestVersion enumerates through enumerate and returns the first
// (newest) entry, or "" when there is none.
func LatestVersion(ctx context.Context, id types.Identifier, enumerate func(context.Context, types.Identifier) ([]string, error)) string {
	versions, err := enumerate(ctx, id)
	if err != nil || len(versions) == 0 {
		return ""
	}
	return versions[0]
}

// Metadata fetches the document at url for id. When versioned is non-nil
// the document is keyed by version: a missing version is resolved to the
// newest enumerated one, and NoVersion is returned without any metadata
// request if none exists.
func (b *Base) Metadata(
	ctx context.Context,
	id types.Identifier,
	versioned func(context.Context, types.Identifier) ([]string, error),
	url func(version string) (string, error),
) types.MetadataResult {
	v := id.Version
	if versioned != nil && v == "" {
		v = LatestVersion(ctx, id, versioned)
		if v == "" {
			return types.MetadataResult{Status: types.StatusNoVersion}
		}
	}

	logger := b.Logger(id)
	u, err := url(v)
	if err != nil {
		logger.Warn().Err(err).Str("version", v).Msg("no metadata location for version")
		return types.MetadataResult{Status: types.StatusNotFound, Version: v}
	}
	doc, err := b.Fetch(ctx, u)
	if err != nil {
		logger.Warn().Err(err).Msg("metadata unavailable")
		return types.MetadataResult{Status: types.StatusNotFound, Version: v}
	}
	return types.MetadataResult{Status: types.StatusFound, Version: v, Document: doc}
}

// PathEscape escapes a single path segment.
func PathEscape(s string) string {
	return url.PathEscape(s)
}
