package cmdutils

import (
	"sync"

	"github.com/WS-QA/OSSGadget/config"
	"github.com/WS-QA/OSSGadget/internal/terminal"
	"github.com/WS-QA/OSSGadget/module/registry/adapter"
	_ "github.com/WS-QA/OSSGadget/module/registry/adapter/all"
	"github.com/WS-QA/OSSGadget/module/registry/download"
	rhttp "github.com/WS-QA/OSSGadget/module/registry/http"
	"github.com/WS-QA/OSSGadget/module/registry/http/modifier"
	"github.com/WS-QA/OSSGadget/module/registry/httpcache"
	"github.com/WS-QA/OSSGadget/util/common/printer"
	"github.com/WS-QA/OSSGadget/util/common/progress"
)

// Factory hands commands their collaborators. Fields are funcs so tests
// can replace them; the defaults are built once, on first use.
type Factory struct {
	Terminal terminal.Info

	Config  func() (*config.Config, error)
	Service func() (*download.Service, error)
}

func NewFactory() *Factory {
	f := &Factory{}

	var (
		cfgOnce sync.Once
		cfg     *config.Config
		cfgErr  error
	)
	f.Config = func() (*config.Config, error) {
		cfgOnce.Do(func() {
			cfg, cfgErr = config.LoadConfig(config.Global.ConfigPath)
		})
		return cfg, cfgErr
	}

	var (
		svcOnce sync.Once
		svc     *download.Service
		svcErr  error
	)
	f.Service = func() (*download.Service, error) {
		svcOnce.Do(func() {
			var c *config.Config
			c, svcErr = f.Config()
			if svcErr != nil {
				return
			}
			svc = newService(c, f.Terminal)
		})
		return svc, svcErr
	}

	return f
}

func newService(cfg *config.Config, term terminal.Info) *download.Service {
	client := rhttp.NewClient(
		rhttp.NewStandardClient(
			rhttp.WithTimeout(cfg.HTTP.Timeout),
			rhttp.WithRetryMax(cfg.HTTP.RetryMax),
			rhttp.WithInsecure(cfg.HTTP.Insecure),
		),
		modifier.UserAgent(cfg.HTTP.UserAgent),
	)

	dir := config.Global.DownloadDir
	if dir == "" {
		dir = cfg.Download.Directory
	}

	var reporter progress.Reporter = progress.NewNopReporter()
	if config.Global.Format != printer.FormatJSON {
		reporter = progress.NewAutoReporter()
	}

	env := adapter.Env{
		Client:      client,
		Cache:       httpcache.New(client),
		DownloadDir: dir,
		Progress:    term.ProgressEnabled && config.Global.Format != printer.FormatJSON,
	}
	return download.NewService(env, cfg, reporter)
}
