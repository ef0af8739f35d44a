// Package maven reads Maven 2 layout repositories such as Maven Central.
package maven

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	adp "github.com/WS-QA/OSSGadget/module/registry/adapter"
	"github.com/WS-QA/OSSGadget/module/registry/types"
	"github.com/WS-QA/OSSGadget/module/registry/version"
	"github.com/WS-QA/OSSGadget/util/common/errors"
)

const (
	DefaultEndpoint   = "https://repo1.maven.org/maven2"
	mavenMetadataFile = "maven-metadata.xml"
	extensionPom      = ".pom"
	extensionJar      = ".jar"
)

// Classifiers downloaded for every version, in order. A version counts as
// downloaded only when all of them are.
var Classifiers = []string{"-sources", "-javadoc", ""}

func init() {
	if err := adp.RegisterFactory(types.MAVEN, new(factory)); err != nil {
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
	return &adapter{Base: adp.NewBase(types.MAVEN, DefaultEndpoint, config, env)}
}

type metadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

func requireCoordinates(id types.Identifier) error {
	if err := adp.RequireName(id); err != nil {
		return err
	}
	if strings.TrimSpace(id.Namespace) == "" {
		return errors.NewValidationError("namespace", "maven group id is required")
	}
	return nil
}

// artifactDir is {group as path}/{artifact}.
func (a *adapter) artifactDir(id types.Identifier) string {
	group := strings.Split(id.Namespace, ".")
	for i := range group {
		group[i] = adp.PathEscape(group[i])
	}
	return a.URL(append(group, adp.PathEscape(id.Name))...)
}

func (a *adapter) fileURL(id types.Identifier, suffix, ext string) string {
	file := fmt.Sprintf("%s-%s%s%s", id.Name, id.Version, suffix, ext)
	return strings.Join([]string{a.artifactDir(id), adp.PathEscape(id.Version), adp.PathEscape(file)}, "/")
}

func (a *adapter) EnumerateVersions(ctx context.Context, id types.Identifier) ([]string, error) {
	if err := requireCoordinates(id); err != nil {
		return nil, err
	}
	logger := a.Logger(id)

	body, err := a.Fetch(ctx, a.artifactDir(id)+"/"+mavenMetadataFile)
	if err != nil {
		logger.Warn().Err(err).Msg("maven metadata unavailable")
		return []string{}, nil
	}

	var md metadata
	if err := xml.Unmarshal([]byte(body), &md); err != nil {
		logger.Warn().Err(err).Msg("maven metadata unparsable")
		return []string{}, nil
	}
	versions := md.Versioning.Versions
	if md.Versioning.Release != "" {
		versions = append(versions, md.Versioning.Release)
	}
	return version.Sort(versions), nil
}

// DownloadVersion fetches the sources, javadoc and binary jars.
func (a *adapter) DownloadVersion(ctx context.Context, id types.Identifier, extract bool) (types.DownloadResult, error) {
	if err := adp.RequireNameAndVersion(id); err != nil {
		return types.NotFound(), err
	}
	if err := requireCoordinates(id); err != nil {
		return types.NotFound(), err
	}

	artifacts := make([]adp.Artifact, 0, len(Classifiers))
	for _, suffix := range Classifiers {
		artifacts = append(artifacts, adp.Artifact{
			Suffix:     suffix,
			Candidates: []string{a.fileURL(id, suffix, extensionJar)},
		})
	}
	return a.Download(ctx, id, extract, artifacts), nil
}

// GetMetadata returns the POM of the requested, or newest, version.
func (a *adapter) GetMetadata(ctx context.Context, id types.Identifier) (types.MetadataResult, error) {
	if err := requireCoordinates(id); err != nil {
		return types.MetadataResult{Status: types.StatusNotFound}, err
	}
	return a.Metadata(ctx, id, a.EnumerateVersions, func(v string) (string, error) {
		return a.fileURL(types.WithVersion(id, v), "", extensionPom), nil
	}), nil
}
