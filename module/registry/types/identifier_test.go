package types

import (
	"testing"

	"github.com/WS-QA/OSSGadget/util/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	id, err := ParseIdentifier("pkg:maven/org.apache.commons/commons-lang3@3.12.0")
	require.NoError(t, err)
	assert.Equal(t, "maven", id.Type)
	assert.Equal(t, "org.apache.commons", id.Namespace)
	assert.Equal(t, "commons-lang3", id.Name)
	assert.Equal(t, "3.12.0", id.Version)
	assert.Equal(t, MAVEN, RegistryTypeOf(id))

	t.Run("empty", func(t *testing.T) {
		_, err := ParseIdentifier("   ")
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	})

	t.Run("not a purl", func(t *testing.T) {
		_, err := ParseIdentifier("ggplot2")
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	})
}

func TestTargetName(t *testing.T) {
	tests := []struct {
		name   string
		id     Identifier
		suffix string
		want   string
	}{
		{
			name: "no namespace",
			id:   Identifier{Type: "cran", Name: "ggplot2", Version: "3.4.0"},
			want: "cran-ggplot2@3.4.0",
		},
		{
			name:   "namespace with suffix",
			id:     Identifier{Type: "maven", Namespace: "org.apache.commons", Name: "commons-lang3", Version: "3.12.0"},
			suffix: "-sources",
			want:   "maven-org.apache.commons-commons-lang3-sources@3.12.0",
		},
		{
			name: "slashes in namespace are flattened",
			id:   Identifier{Type: "golang", Namespace: "github.com/rs", Name: "zerolog", Version: "v1.34.0"},
			want: "golang-github.com-rs-zerolog@v1.34.0",
		},
		{
			name: "separators in version are flattened",
			id:   Identifier{Type: "npm", Name: "left-pad", Version: `../..\etc`},
			want: "npm-left-pad@..-..-etc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetName(tt.id, tt.suffix))
			// same inputs, same name
			assert.Equal(t, TargetName(tt.id, tt.suffix), TargetName(tt.id, tt.suffix))
		})
	}
}

func TestWithVersionDoesNotModifyOriginal(t *testing.T) {
	id := Identifier{Type: "npm", Name: "left-pad"}
	pinned := WithVersion(id, "1.3.0")
	assert.Equal(t, "", id.Version)
	assert.Equal(t, "1.3.0", pinned.Version)
	assert.Equal(t, "pkg:npm/left-pad@1.3.0", Describe(pinned))
	assert.Equal(t, "pkg:npm/left-pad", Describe(id))
}

func TestRegistryTypeOfGoAlias(t *testing.T) {
	assert.Equal(t, GOLANG, RegistryTypeOf(Identifier{Type: "go", Name: "x"}))
	assert.Equal(t, GOLANG, RegistryTypeOf(Identifier{Type: "golang", Name: "x"}))
}
