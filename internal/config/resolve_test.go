package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spirit-dev/repo-ci/internal/faults"
)

func TestResolve_FlagWins(t *testing.T) {
	t.Setenv("REPOCI_TEST_VALUE", "from-env")

	v, err := Resolve("group", "from-flag", "from-file", "REPOCI_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", v)
}

func TestResolve_FileBeatsEnv(t *testing.T) {
	t.Setenv("REPOCI_TEST_VALUE", "from-env")

	v, err := Resolve("group", "", "from-file", "REPOCI_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "from-file", v)
}

func TestResolve_EnvFallback(t *testing.T) {
	t.Setenv("REPOCI_TEST_VALUE", "from-env")

	v, err := Resolve("group", "", "", "REPOCI_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}

func TestResolve_AllAbsent(t *testing.T) {
	_, err := Resolve("group", "", "", "REPOCI_TEST_UNSET_VALUE")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.Configuration))
	assert.Contains(t, err.Error(), "REPOCI_TEST_UNSET_VALUE")
}

func TestResolveBool(t *testing.T) {
	yes, no := true, false

	assert.True(t, ResolveBool(&yes, &no, false), "flag wins over file")
	assert.False(t, ResolveBool(&no, &yes, true), "explicit false wins over file true")
	assert.True(t, ResolveBool(nil, &yes, false), "file wins over default")
	assert.False(t, ResolveBool(nil, nil, false), "default when both absent")
}

func TestFirstEnv(t *testing.T) {
	t.Setenv("REPOCI_TEST_SECOND", "second")

	v, err := FirstEnv("api URL", "REPOCI_TEST_FIRST_UNSET", "REPOCI_TEST_SECOND")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	_, err = FirstEnv("api URL", "REPOCI_TEST_FIRST_UNSET", "REPOCI_TEST_ALSO_UNSET")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.Configuration))
}
