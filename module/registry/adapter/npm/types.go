package npm

// Packument is the subset of the npm package document the adapter reads.
// https://github.com/npm/registry/blob/master/docs/REGISTRY-API.md#package
// nolint:tagliatelle
type Packument struct {
	ID       string                     `json:"_id"`
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags,omitempty"`
	Versions map[string]*PackageVersion `json:"versions"`
}

// PackageVersion https://github.com/npm/registry/blob/master/docs/REGISTRY-API.md#version
// nolint:tagliatelle
type PackageVersion struct {
	Name    string              `json:"name"`
	Version string              `json:"version"`
	Dist    PackageDistribution `json:"dist"`
}

// PackageDistribution https://github.com/npm/registry/blob/master/docs/REGISTRY-API.md#version
// nolint:tagliatelle
type PackageDistribution struct {
	Integrity string `json:"integrity"`
	Shasum    string `json:"shasum"`
	Tarball   string `json:"tarball"`
}
