package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayoutPaths(t *testing.T) {
	t.Parallel()
	l := Layout{BuildRoot: "_builds"}
	require.Equal(t, filepath.Join("_builds", "site"), l.SiteDir())
	require.Equal(t, filepath.Join("_builds", "data", "004"), l.DataDir("004"))
	require.Equal(t, filepath.Join("_builds", "temp"), l.TempDir())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	m := Defaults()
	require.Error(t, m.Validate(), "defaults have no pipeline command")

	m.Pipeline.Args = []string{"sdg-build", "{config}"}
	require.NoError(t, m.Validate())

	m.Publish.Endpoint = "minio:9000"
	m.Publish.Bucket = "sites"
	err := m.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "REGIONGRID_S3_ACCESS_KEY")

	ApplyEnv(m, Env{S3AccessKey: "ak", S3SecretKey: "sk"})
	require.NoError(t, m.Validate())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("REGIONGRID_LIMIT=2\nREGIONGRID_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("REGIONGRID_LIMIT")
		os.Unsetenv("REGIONGRID_LOG_LEVEL")
	})

	e, err := LoadEnv(dotenv, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	require.NotNil(t, e.Limit)
	require.Equal(t, 2, *e.Limit)
	require.Equal(t, "debug", e.LogLevel)
	require.Equal(t, "text", e.LogFormat)
	require.True(t, e.OtelEnabled)

	m := Defaults()
	ApplyEnv(m, e)
	require.Equal(t, 2, m.Limit)
}

func TestApplyEnv_Limit(t *testing.T) {
	t.Parallel()

	zero, two := 0, 2
	testCases := []struct {
		name string
		env  Env
		want int
	}{
		{name: "unset keeps run file value", env: Env{}, want: 5},
		{name: "zero lifts the cap", env: Env{Limit: &zero}, want: 0},
		{name: "positive replaces", env: Env{Limit: &two}, want: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := Defaults()
			m.Limit = 5
			ApplyEnv(m, tc.env)
			require.Equal(t, tc.want, m.Limit)
		})
	}
}

func TestLoadEnv_ZeroLimitIsSet(t *testing.T) {
	t.Setenv("REGIONGRID_LIMIT", "0")

	e, err := LoadEnv()
	require.NoError(t, err)
	require.NotNil(t, e.Limit)
	require.Equal(t, 0, *e.Limit)
}
