package types

type RegistryType string

var (
	CRAN   RegistryType = "cran"
	MAVEN  RegistryType = "maven"
	NPM    RegistryType = "npm"
	PYPI   RegistryType = "pypi"
	GOLANG RegistryType = "golang"
)

// RegistryConfig describes one upstream registry. An empty Endpoint means
// the backend's public default.
type RegistryConfig struct {
	Type        RegistryType      `yaml:"type" toml:"type"`
	Endpoint    string            `yaml:"endpoint" toml:"endpoint"`
	Credentials CredentialsConfig `yaml:"credentials" toml:"credentials"`
}

// CredentialsConfig defines the credential configuration
type CredentialsConfig struct {
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password,omitempty" toml:"password"`
	Token    string `yaml:"token,omitempty" toml:"token"`
}

type Status string

const (
	StatusFound     Status = "found"
	StatusNotFound  Status = "not_found"
	StatusNoVersion Status = "no_version"
)

// DownloadResult is the outcome of a versioned download. Path is the last
// artifact written; Paths holds every artifact in the order processed.
type DownloadResult struct {
	Status Status   `json:"status"`
	Path   string   `json:"path,omitempty"`
	Paths  []string `json:"paths,omitempty"`
}

func (r DownloadResult) Found() bool {
	return r.Status == StatusFound
}

// MetadataResult carries the registry's native metadata document unparsed.
type MetadataResult struct {
	Status   Status `json:"status"`
	Version  string `json:"version,omitempty"`
	Document string `json:"document,omitempty"`
}

func (r MetadataResult) Found() bool {
	return r.Status == StatusFound
}

func NotFound() DownloadResult {
	return DownloadResult{Status: StatusNotFound}
}
