package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/WS-QA/OSSGadget/module/registry/http"
	"github.com/WS-QA/OSSGadget/module/registry/httpcache"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	cerrors "github.com/WS-QA/OSSGadget/util/common/errors"
)

// Adapter is the contract every registry backend implements.
//
// EnumerateVersions and GetMetadata return an error only when the
// identifier is unusable; registry failures surface as an empty version
// list or a not-found status. DownloadVersion behaves the same way.
type Adapter interface {
	Type() types.RegistryType
	Endpoint() string
	EnumerateVersions(ctx context.Context, id types.Identifier) ([]string, error)
	DownloadVersion(ctx context.Context, id types.Identifier, extract bool) (types.DownloadResult, error)
	GetMetadata(ctx context.Context, id types.Identifier) (types.MetadataResult, error)
}

// Env carries the process-wide collaborators shared by all adapters.
type Env struct {
	Client      *http.Client
	Cache       *httpcache.Cache
	DownloadDir string
	// Progress enables a progress bar per downloaded artifact.
	Progress bool
}

type Factory interface {
	Create(ctx context.Context, config types.RegistryConfig, env Env) (Adapter, error)
}

var (
	mu       sync.RWMutex
	registry = map[types.RegistryType]Factory{}
)

// RegisterFactory registers one adapter factory to the registry.
func RegisterFactory(t types.RegistryType, factory Factory) error {
	if len(t) == 0 {
		return errors.New("invalid type")
	}
	if factory == nil {
		return errors.New("empty adapter factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exist := registry[t]; exist {
		return fmt.Errorf("adapter factory for %s already exists", t)
	}
	registry[t] = factory
	return nil
}

// GetFactory gets the adapter factory by the specified name.
func GetFactory(t types.RegistryType) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	factory, exist := registry[t]
	if !exist {
		return nil, fmt.Errorf("adapter factory for %s: %w", t, cerrors.ErrUnsupportedRegistry)
	}
	return factory, nil
}

// RegisteredTypes lists every registry type with a factory, sorted.
func RegisteredTypes() []types.RegistryType {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]types.RegistryType, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func GetAdapter(ctx context.Context, cfg types.RegistryConfig, env Env) (Adapter, error) {
	factory, err := GetFactory(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to get adapter factory: %w", err)
	}
	adapter, err := factory.Create(ctx, cfg, env)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}
	return adapter, nil
}
