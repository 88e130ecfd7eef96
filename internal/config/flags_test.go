package config_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spirit-dev/repo-ci/internal/config"
)

func parsePair(t *testing.T, args ...string) *bool {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.AddBoolPair(fs, "dry-run", "log mutating actions instead of performing them")
	require.NoError(t, fs.Parse(args))
	return config.BoolPair(fs, "dry-run")
}

func TestBoolPair_UnsetIsNil(t *testing.T) {
	assert.Nil(t, parsePair(t))
}

func TestBoolPair_SetForcesTrue(t *testing.T) {
	v := parsePair(t, "--dry-run")
	require.NotNil(t, v)
	assert.True(t, *v)
}

func TestBoolPair_NoTwinForcesFalse(t *testing.T) {
	v := parsePair(t, "--no-dry-run")
	require.NotNil(t, v)
	assert.False(t, *v)
}

func TestBoolPair_NoTwinWinsWhenBothGiven(t *testing.T) {
	v := parsePair(t, "--dry-run", "--no-dry-run")
	require.NotNil(t, v)
	assert.False(t, *v)
}
