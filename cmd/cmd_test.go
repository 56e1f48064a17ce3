package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/testutil"
	"github.com/grovetools/kit/util/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	testutil.IsolateConfig(t)

	out, err := execute(t, context.Background(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "kit dev\n"), out)

	out, err = execute(t, context.Background(), "version", "--json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
}

func TestEnsureCommand(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	target := filepath.Join(dir, "a", "b")

	out, err := execute(t, context.Background(), "ensure", target)
	require.NoError(t, err)
	assert.Contains(t, out, "created directory")
	assert.Contains(t, out, target)

	out, err = execute(t, context.Background(), "ensure", "--json", target, filepath.Join(dir, "logs", "run.log"))
	require.NoError(t, err)
	var results []pathutil.EnsureResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, pathutil.TypeDirectory, results[0].Type)
	assert.False(t, results[0].Created)
	assert.Equal(t, pathutil.TypeFile, results[1].Type)
	assert.True(t, results[1].Created)
}

func TestEnsureCommandUsesConfig(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	testutil.WriteFile(t, dir, "kit.yml", "version: \"1.0\"\nensure:\n  max_retries: -1\n")

	_, err := execute(t, context.Background(), "ensure", filepath.Join(dir, "x"))
	require.Error(t, err)
}

func TestEnsureCommandRequiresPath(t *testing.T) {
	testutil.IsolateConfig(t)
	_, err := execute(t, context.Background(), "ensure")
	require.Error(t, err)
}

func TestStatusCommand(t *testing.T) {
	testutil.IsolateConfig(t)

	out, err := execute(t, context.Background(), "status", "200", "404")
	require.NoError(t, err)
	assert.Equal(t, "200 OK (success)\n404 Not Found (client_error)\n", out)

	out, err = execute(t, context.Background(), "status", "--summary", "--json", "200", "201", "503")
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, map[string]any{
		"http.total":        float64(3),
		"http.success":      float64(2),
		"http.server_error": float64(1),
		"http.last":         float64(503),
	}, summary)
}

func TestStatusCommandErrors(t *testing.T) {
	testutil.IsolateConfig(t)

	_, err := execute(t, context.Background(), "status", "abc")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = execute(t, context.Background(), "status", "99")
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange))
}

func TestSchemaCommand(t *testing.T) {
	dir := testutil.IsolateConfig(t)

	out, err := execute(t, context.Background(), "schema")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "Kit Configuration", schema["title"])

	path := filepath.Join(dir, "kit.schema.json")
	out, err = execute(t, context.Background(), "schema", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, path)
}

func TestConfigCommand(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	testutil.WriteFile(t, dir, "kit.yml", "version: \"1.0\"\nreporter:\n  initial:\n    build: ok\n")
	testutil.WriteFile(t, dir, "kit.override.yml", "reporter:\n  initial:\n    build: failed\n")

	out, err := execute(t, context.Background(), "config")
	require.NoError(t, err)
	assert.Contains(t, out, "--- # PROJECT CONFIG")
	assert.Contains(t, out, "--- # OVERRIDE CONFIG")
	assert.Contains(t, out, "--- # FINAL MERGED CONFIG")

	out, err = execute(t, context.Background(), "config", "--json")
	require.NoError(t, err)
	var final map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &final))
	assert.Equal(t, map[string]any{"build": "failed"}, final["reporter"].(map[string]any)["initial"])
}

func TestConfigCommandWithoutConfig(t *testing.T) {
	testutil.IsolateConfig(t)
	_, err := execute(t, context.Background(), "config")
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestBenchCommand(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	target := filepath.Join(dir, "bench")

	out, err := execute(t, context.Background(), "bench", "-n", "3", target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ensure: 3 iterations"), out)
	assert.DirExists(t, target)

	out, err = execute(t, context.Background(), "bench", "--json", "-n", "2", target)
	require.NoError(t, err)
	var published map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &published))
	assert.Equal(t, float64(2), published["bench.ensure.iterations"])
	assert.Contains(t, published, "bench.ensure.mean_ms")

	_, err = execute(t, context.Background(), "bench", "-n", "0", target)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

const watchConfig = `version: "1.0"
reporter:
  initial:
    build.status: ok
    build.time: 12
    count: 3
`

func TestWatchOnce(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	testutil.WriteFile(t, dir, "kit.yml", watchConfig)

	out, err := execute(t, context.Background(), "watch", "--once", "--json")
	require.NoError(t, err)
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, map[string]any{
		"build.status": "ok",
		"build.time":   float64(12),
		"count":        float64(3),
	}, snapshot)
}

func TestWatchMatch(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	testutil.WriteFile(t, dir, "kit.yml", watchConfig)

	out, err := execute(t, context.Background(), "watch", "--once", "--json", "--match", "build", "--match", "!build.time")
	require.NoError(t, err)
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, map[string]any{"build.status": "ok"}, snapshot)

	_, err = execute(t, context.Background(), "watch", "--once", "--match", "[")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestWatchStreamsUntilCancelled(t *testing.T) {
	dir := testutil.IsolateConfig(t)
	testutil.WriteFile(t, dir, "kit.yml", watchConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := execute(t, ctx, "watch", "--json")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"count":3`)
}

func TestWatchRequiresConfig(t *testing.T) {
	testutil.IsolateConfig(t)
	_, err := execute(t, context.Background(), "watch", "--once")
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestPathsCommand(t *testing.T) {
	testutil.IsolateConfig(t)
	t.Setenv("KIT_HOME", "/opt/kit")

	out, err := execute(t, context.Background(), "paths")
	require.NoError(t, err)
	assert.Equal(t, "config_dir: /opt/kit/config\nstate_dir: /opt/kit/state\nlog_dir: /opt/kit/state/logs\ncache_dir: /opt/kit/cache\n", out)

	out, err = execute(t, context.Background(), "paths", "--json")
	require.NoError(t, err)
	var dirs map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &dirs))
	assert.Equal(t, "/opt/kit/config", dirs["config_dir"])
}
