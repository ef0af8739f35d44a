package adapter

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/WS-QA/OSSGadget/module/registry/registrytest"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/util/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBase(t *testing.T, endpoint string) (Base, string) {
	t.Helper()
	dir := t.TempDir()
	return NewBase("test", endpoint, types.RegistryConfig{}, Env{DownloadDir: dir}), dir
}

func TestDownloadFallsBackInOrder(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleStatus("/primary.tgz", http.StatusNotFound, nil).
		HandleStatus("/secondary.tgz", http.StatusInternalServerError, nil).
		Handle("/tertiary.tgz", registrytest.TarGz(t, map[string]string{"pkg/README": "hi"}))

	b, dir := newTestBase(t, srv.URL)
	id := types.Identifier{Type: "test", Name: "pkg", Version: "1.0"}

	res := b.Download(context.Background(), id, true, []Artifact{{
		Candidates: []string{
			srv.URL + "/primary.tgz",
			srv.URL + "/secondary.tgz",
			srv.URL + "/tertiary.tgz",
			srv.URL + "/never.tgz",
		},
	}})

	require.True(t, res.Found())
	assert.Equal(t, filepath.Join(dir, "test-pkg@1.0"), res.Path)
	assert.FileExists(t, filepath.Join(res.Path, "pkg", "README"))
	assert.Equal(t, int64(1), srv.Hits("/primary.tgz"))
	assert.Equal(t, int64(1), srv.Hits("/secondary.tgz"))
	assert.Equal(t, int64(1), srv.Hits("/tertiary.tgz"))
	assert.Equal(t, int64(0), srv.Hits("/never.tgz"))
}

func TestDownloadAllCandidatesFail(t *testing.T) {
	srv := registrytest.NewServer(t)
	b, dir := newTestBase(t, srv.URL)
	id := types.Identifier{Type: "test", Name: "pkg", Version: "1.0"}

	res := b.Download(context.Background(), id, false, []Artifact{{
		Candidates: []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"},
	}})

	assert.Equal(t, types.StatusNotFound, res.Status)
	assert.Empty(t, res.Path)
	for _, p := range []string{"/a", "/b", "/c"} {
		assert.Equal(t, int64(1), srv.Hits(p), p)
	}
	assert.NoFileExists(t, filepath.Join(dir, "test-pkg@1.0"))
}

func TestDownloadIsAllOrNothing(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/one.jar", "first").
		HandleString("/three.jar", "third")

	b, _ := newTestBase(t, srv.URL)
	id := types.Identifier{Type: "test", Name: "pkg", Version: "1.0"}

	res := b.Download(context.Background(), id, false, []Artifact{
		{Suffix: "-one", Candidates: []string{srv.URL + "/one.jar"}},
		{Suffix: "-two", Candidates: []string{srv.URL + "/two.jar"}},
		{Suffix: "", Candidates: []string{srv.URL + "/three.jar"}},
	})

	assert.Equal(t, types.StatusNotFound, res.Status)
	// processing stops at the first exhausted artifact
	assert.Equal(t, int64(0), srv.Hits("/three.jar"))
}

func TestDownloadRawWritesEveryArtifact(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/one.jar", "first").
		HandleString("/two.jar", "second")

	b, dir := newTestBase(t, srv.URL)
	id := types.Identifier{Type: "test", Namespace: "org.example", Name: "pkg", Version: "1.0"}

	res := b.Download(context.Background(), id, false, []Artifact{
		{Suffix: "-one", Candidates: []string{srv.URL + "/one.jar"}},
		{Suffix: "", Candidates: []string{srv.URL + "/two.jar"}},
	})

	require.True(t, res.Found())
	assert.Equal(t, []string{
		filepath.Join(dir, "test-org.example-pkg-one@1.0"),
		filepath.Join(dir, "test-org.example-pkg@1.0"),
	}, res.Paths)
	assert.Equal(t, res.Paths[1], res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDownloadExtractionFailureTriesNextCandidate(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/broken.tgz", "<html>this is an error page</html>").
		Handle("/good.tgz", registrytest.TarGz(t, map[string]string{"ok.txt": "ok"}))

	b, _ := newTestBase(t, srv.URL)
	id := types.Identifier{Type: "test", Name: "pkg", Version: "2.0"}

	res := b.Download(context.Background(), id, true, []Artifact{{
		Candidates: []string{srv.URL + "/broken.tgz", srv.URL + "/good.tgz"},
	}})

	require.True(t, res.Found())
	assert.FileExists(t, filepath.Join(res.Path, "ok.txt"))
}

func TestDownloadOverwritesPreviousRun(t *testing.T) {
	srv := registrytest.NewServer(t).
		Handle("/pkg.tgz", registrytest.TarGz(t, map[string]string{"new.txt": "new"}))

	b, dir := newTestBase(t, srv.URL)
	id := types.Identifier{Type: "test", Name: "pkg", Version: "1.0"}

	stale := filepath.Join(dir, "test-pkg@1.0", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	res := b.Download(context.Background(), id, true, []Artifact{{Candidates: []string{srv.URL + "/pkg.tgz"}}})
	require.True(t, res.Found())
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(res.Path, "new.txt"))
}

func TestDownloadWithoutArtifacts(t *testing.T) {
	b, _ := newTestBase(t, "http://127.0.0.1:0")
	res := b.Download(context.Background(), types.Identifier{Type: "test", Name: "x", Version: "1"}, false, nil)
	assert.Equal(t, types.StatusNotFound, res.Status)
}

func TestFetchOptional(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/present", "body").
		HandleStatus("/broken", http.StatusBadGateway, nil)

	b, _ := newTestBase(t, srv.URL)

	body, found, err := b.FetchOptional(context.Background(), b.URL("present"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "body", body)

	_, found, err = b.FetchOptional(context.Background(), b.URL("absent"))
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = b.FetchOptional(context.Background(), b.URL("broken"))
	assert.Error(t, err)
}

func TestMetadata(t *testing.T) {
	srv := registrytest.NewServer(t).
		HandleString("/meta/2.0", "doc-2.0")

	b, _ := newTestBase(t, srv.URL)
	url := func(v string) (string, error) { return b.URL("meta", v), nil }
	id := types.Identifier{Type: "test", Name: "pkg"}

	t.Run("resolves latest version", func(t *testing.T) {
		enumerate := func(context.Context, types.Identifier) ([]string, error) {
			return []string{"2.0", "1.0"}, nil
		}
		res := b.Metadata(context.Background(), id, enumerate, url)
		assert.Equal(t, types.MetadataResult{Status: types.StatusFound, Version: "2.0", Document: "doc-2.0"}, res)
	})

	t.Run("no version skips the metadata request", func(t *testing.T) {
		before := srv.Total()
		enumerate := func(context.Context, types.Identifier) ([]string, error) { return nil, nil }
		res := b.Metadata(context.Background(), id, enumerate, url)
		assert.Equal(t, types.StatusNoVersion, res.Status)
		assert.Equal(t, before, srv.Total())
	})

	t.Run("missing document", func(t *testing.T) {
		res := b.Metadata(context.Background(), types.WithVersion(id, "9.9"), nil, url)
		assert.Equal(t, types.StatusNotFound, res.Status)
	})
}

func TestRequireNameAndVersion(t *testing.T) {
	assert.True(t, errors.Is(RequireName(types.Identifier{}), errors.ErrInvalidArgument))
	assert.True(t, errors.Is(RequireNameAndVersion(types.Identifier{Name: "x"}), errors.ErrInvalidArgument))
	assert.NoError(t, RequireNameAndVersion(types.Identifier{Name: "x", Version: "1"}))
	for _, v := range []string{"../../outside", "1.0/evil", `1.0\evil`, ".."} {
		assert.True(t, errors.Is(RequireNameAndVersion(types.Identifier{Name: "x", Version: v}), errors.ErrInvalidArgument), v)
	}
}

func TestDownloadStaysInsideDownloadDir(t *testing.T) {
	srv := registrytest.NewServer(t).HandleString("/pkg.jar", "payload")

	root := t.TempDir()
	dir := filepath.Join(root, "downloads")
	b := NewBase("test", srv.URL, types.RegistryConfig{}, Env{DownloadDir: dir})
	id := types.Identifier{Type: "test", Name: "pkg", Version: "../../../outside"}

	for _, extract := range []bool{true, false} {
		res := b.Download(context.Background(), id, extract, []Artifact{{Candidates: []string{srv.URL + "/pkg.jar"}}})
		if res.Found() {
			assert.Equal(t, dir, filepath.Dir(res.Path))
		}
	}
	assert.NoFileExists(t, filepath.Join(root, "outside"))
	assert.NoDirExists(t, filepath.Join(root, "outside"))
	assert.FileExists(t, filepath.Join(dir, "test-pkg@..-..-..-outside"))
}

func TestNewBaseEndpoint(t *testing.T) {
	b := NewBase("test", "https://default.example/", types.RegistryConfig{}, Env{})
	assert.Equal(t, "https://default.example", b.Endpoint())
	assert.Equal(t, "https://default.example/a/b", b.URL("a", "b"))

	b = NewBase("test", "https://default.example", types.RegistryConfig{Endpoint: " https://mirror.example/repo/ "}, Env{})
	assert.Equal(t, "https://mirror.example/repo", b.Endpoint())
}
