package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leafConfig struct {
	Path  string `env_interpolation:"yes"`
	Plain string
}

type rootConfig struct {
	Name   string `env_interpolation:"yes"`
	Nested leafConfig
	Leaves []leafConfig
	Tags   []string `env_interpolation:"yes"`

	unexported string `env_interpolation:"yes"`
}

func TestInterpolateStruct(t *testing.T) {
	t.Setenv("PIXELBUS_TEST_ROOT", "/srv")

	cfg := &rootConfig{
		Name:   "${PIXELBUS_TEST_ROOT}/run",
		Nested: leafConfig{Path: "${PIXELBUS_TEST_ROOT}/nested", Plain: "${PIXELBUS_TEST_ROOT}"},
		Leaves: []leafConfig{
			{Path: "${PIXELBUS_TEST_ROOT}/a"},
			{Path: "${PIXELBUS_TEST_ROOT}/b"},
		},
		Tags:       []string{"${PIXELBUS_TEST_ROOT}", "static"},
		unexported: "${PIXELBUS_TEST_ROOT}",
	}

	require.NoError(t, InterpolateStruct(cfg))

	assert.Equal(t, "/srv/run", cfg.Name)
	assert.Equal(t, "/srv/nested", cfg.Nested.Path)
	// Untagged fields are left alone.
	assert.Equal(t, "${PIXELBUS_TEST_ROOT}", cfg.Nested.Plain)
	assert.Equal(t, "/srv/a", cfg.Leaves[0].Path)
	assert.Equal(t, "/srv/b", cfg.Leaves[1].Path)
	assert.Equal(t, []string{"/srv", "static"}, cfg.Tags)
	assert.Equal(t, "${PIXELBUS_TEST_ROOT}", cfg.unexported)
}

func TestInterpolateStructErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, InterpolateStruct(nil))
	assert.NoError(t, InterpolateStruct((*rootConfig)(nil)))
	assert.Error(t, InterpolateStruct("not a struct"))
}

func TestInterpolateStructMissingVar(t *testing.T) {
	t.Parallel()

	cfg := &rootConfig{Name: "${PIXELBUS_DEFINITELY_UNSET}"}
	err := InterpolateStruct(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "PIXELBUS_DEFINITELY_UNSET")
}
