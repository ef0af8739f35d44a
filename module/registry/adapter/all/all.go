// Package all registers every registry backend with the adapter factory.
package all

import (
	_ "github.com/WS-QA/OSSGadget/module/registry/adapter/cran"
	_ "github.com/WS-QA/OSSGadget/module/registry/adapter/golang"
	_ "github.com/WS-QA/OSSGadget/module/registry/adapter/maven"
	_ "github.com/WS-QA/OSSGadget/module/registry/adapter/npm"
	_ "github.com/WS-QA/OSSGadget/module/registry/adapter/pypi"
)
