package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/WS-QA/OSSGadget/cmd/cmdutils"
	"github.com/WS-QA/OSSGadget/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.Global = config.GlobalFlags{}

	cmd := newRootCmd(cmdutils.NewFactory())
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "oss-download version dev")
}

func TestJSONFlagOverridesFormat(t *testing.T) {
	_, err := execute(t, "--json", "version")
	require.NoError(t, err)
	assert.Equal(t, "json", config.Global.Format)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := execute(t, "--format", "yaml", "version")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestSubcommandsRegistered(t *testing.T) {
	cmd := newRootCmd(cmdutils.NewFactory())
	for _, name := range []string{"download", "versions", "metadata", "registries", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestBrokenConfigFails(t *testing.T) {
	_, err := execute(t, "--config", "/nonexistent/oss-download.yaml", "registries")
	assert.ErrorContains(t, err, "error reading config file")
}
