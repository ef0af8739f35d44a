package golang

import (
	"context"
	"path/filepath"
	"testing"

	adp "github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/registrytest"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/util/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, srv *registrytest.Server) (*adapter, string) {
	t.Helper()
	dir := t.TempDir()
	return newAdapter(types.RegistryConfig{Endpoint: srv.URL}, adp.Env{DownloadDir: dir}), dir
}

var burnt = types.Identifier{Type: "golang", Namespace: "github.com/BurntSushi", Name: "toml"}

func TestEnumerateVersions(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/github.com/!burnt!sushi/toml/@v/list", "v1.2.0\nv1.10.0\nv0.4.1\n").
		HandleString("/github.com/!burnt!sushi/toml/@latest", `{"Version":"v1.10.0","Time":"2024-01-01T00:00:00Z"}`)
	a, _ := newTestAdapter(t, srv)

	versions, err := a.EnumerateVersions(context.Background(), burnt)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.10.0", "v1.2.0", "v0.4.1"}, versions)
}

func TestEnumerateVersionsUntaggedModule(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/example.com/tool/@v/list", "").
		HandleString("/example.com/tool/@latest", `{"Version":"v0.0.0-20240101000000-abcdef123456"}`)
	a, _ := newTestAdapter(t, srv)

	versions, err := a.EnumerateVersions(context.Background(), types.Identifier{Type: "golang", Namespace: "example.com", Name: "tool"})
	require.NoError(t, err)
	assert.Equal(t, []string{"v0.0.0-20240101000000-abcdef123456"}, versions)
}

func TestEnumerateVersionsInvalidPath(t *testing.T) {
	srv := registrytest.NewServer(t)
	a, _ := newTestAdapter(t, srv)

	_, err := a.EnumerateVersions(context.Background(), types.Identifier{Type: "golang", Name: "bad path"})
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	assert.Equal(t, int64(0), srv.Total())
}

func TestDownloadModuleZip(t *testing.T) {
	srv := registrytest.NewServer(t).
		Handle("/github.com/!burnt!sushi/toml/@v/v1.5.0.zip", registrytest.Zip(t, map[string]string{
			"github.com/!burnt!sushi/toml@v1.5.0/go.mod": "module github.com/BurntSushi/toml\n",
		}))
	a, dir := newTestAdapter(t, srv)

	res, err := a.DownloadVersion(context.Background(), types.WithVersion(burnt, "v1.5.0"), true)
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, filepath.Join(dir, "golang-github.com-BurntSushi-toml@v1.5.0"), res.Path)
	assert.FileExists(t, filepath.Join(res.Path, "github.com", "!burnt!sushi", "toml@v1.5.0", "go.mod"))
}

func TestGetMetadata(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/github.com/!burnt!sushi/toml/@v/list", "v1.5.0\n").
		HandleString("/github.com/!burnt!sushi/toml/@v/v1.5.0.info", `{"Version":"v1.5.0"}`)
	a, _ := newTestAdapter(t, srv)

	res, err := a.GetMetadata(context.Background(), burnt)
	require.NoError(t, err)
	assert.Equal(t, types.MetadataResult{Status: types.StatusFound, Version: "v1.5.0", Document: `{"Version":"v1.5.0"}`}, res)
}

func TestGetMetadataNoVersion(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/example.com/empty/@v/list", "")
	a, _ := newTestAdapter(t, srv)

	res, err := a.GetMetadata(context.Background(), types.Identifier{Type: "golang", Namespace: "example.com", Name: "empty"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusNoVersion, res.Status)
	// only @v/list and @latest were requested
	assert.Equal(t, int64(2), srv.Total())
}
