package types

import (
	"fmt"
	"strings"

	"github.com/WS-QA/OSSGadget/util/common/errors"

	"github.com/package-url/packageurl-go"
)

// Identifier is a parsed package URL. Operations receive it by value and
// never modify the caller's copy.
type Identifier = packageurl.PackageURL

// ParseIdentifier parses a purl such as pkg:cran/ggplot2@3.4.0.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identifier{}, errors.NewValidationError("purl", "package url cannot be empty")
	}
	id, err := packageurl.FromString(s)
	if err != nil {
		return Identifier{}, errors.NewValidationError("purl", err.Error())
	}
	if id.Name == "" {
		return Identifier{}, errors.NewValidationError("purl", "package name is required")
	}
	return id, nil
}

// WithVersion returns a copy of id pinned to version.
func WithVersion(id Identifier, version string) Identifier {
	id.Version = version
	return id
}

// FullName joins namespace and name with a slash, as registries display them.
func FullName(id Identifier) string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "/" + id.Name
}

// TargetName is the deterministic file or directory name an artifact is
// stored under: {type}-{namespace}-{name}{suffix}@{version}. Path
// separators in any part become hyphens so the target always lives directly
// in the download directory.
func TargetName(id Identifier, suffix string) string {
	var b strings.Builder
	b.WriteString(id.Type)
	b.WriteByte('-')
	if id.Namespace != "" {
		b.WriteString(flatten(id.Namespace))
		b.WriteByte('-')
	}
	b.WriteString(flatten(id.Name))
	b.WriteString(suffix)
	b.WriteByte('@')
	b.WriteString(flatten(id.Version))
	return b.String()
}

var separators = strings.NewReplacer("/", "-", "\\", "-")

func flatten(s string) string { return separators.Replace(s) }

func RegistryTypeOf(id Identifier) RegistryType {
	t := RegistryType(strings.ToLower(id.Type))
	if t == "go" {
		return GOLANG
	}
	return t
}

// Describe is used in log fields and printed results.
func Describe(id Identifier) string {
	if id.Version == "" {
		return fmt.Sprintf("pkg:%s/%s", id.Type, FullName(id))
	}
	return fmt.Sprintf("pkg:%s/%s@%s", id.Type, FullName(id), id.Version)
}
