// Package registrytest builds fixtures for backend tests: in-memory
// archives and a fake registry server that counts requests per path.
package registrytest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// TarGz returns a gzip-compressed tar holding files (name -> content).
func TarGz(t testing.TB, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)
	for _, name := range sortedKeys(files) {
		body := files[name]
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Zip returns a zip archive holding files (name -> content).
func Zip(t testing.TB, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range sortedKeys(files) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Server is a fake registry. Routes map a request path to a response;
// unrouted paths answer 404. Every request is counted.
type Server struct {
	*httptest.Server

	mu     sync.RWMutex
	routes map[string]Response
	hits   sync.Map // path -> *atomic.Int64
	total  atomic.Int64
}

type Response struct {
	Status      int
	Body        []byte
	ContentType string
}

func NewServer(t testing.TB) *Server {
	s := &Server{routes: map[string]Response{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle routes path to a 200 response with body.
func (s *Server) Handle(path string, body []byte) *Server {
	return s.HandleStatus(path, http.StatusOK, body)
}

func (s *Server) HandleString(path, body string) *Server {
	return s.Handle(path, []byte(body))
}

func (s *Server) HandleStatus(path string, status int, body []byte) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = Response{Status: status, Body: body}
	return s
}

// Hits returns the number of requests seen for path.
func (s *Server) Hits(path string) int64 {
	v, ok := s.hits.Load(path)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// Total returns the number of requests seen for any path.
func (s *Server) Total() int64 {
	return s.total.Load()
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.EscapedPath()
	v, _ := s.hits.LoadOrStore(path, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
	s.total.Add(1)

	s.mu.RLock()
	resp, ok := s.routes[path]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
