package collector_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thir-lang/thir/collector"
	"github.com/thir-lang/thir/internal/thlog"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestCollectBuildsProjectAndLibMaps(t *testing.T) {
	projectDir := t.TempDir()
	libDir := t.TempDir()

	writeFile(t, filepath.Join(projectDir, "main.py"), "x = 1\n")
	writeFile(t, filepath.Join(projectDir, "pkg", "__init__.py"), "y = 2\n")
	writeFile(t, filepath.Join(projectDir, "venv", "skip.py"), "bad syntax (((\n")
	writeFile(t, filepath.Join(libDir, "os_stub.py"), "z = 3\n")

	var buf bytes.Buffer
	log := thlog.NewWithWriter(thlog.LevelFull, &buf)

	res, err := collector.Collect(projectDir, libDir, filepath.Join(projectDir, "main.py"), true, log)
	require.NoError(t, err)

	assert.Equal(t, "main", res.EntryQual)
	assert.Contains(t, res.ProjectMap, "main")
	assert.Contains(t, res.ProjectMap, "pkg.__init__")
	assert.Contains(t, res.LibMap, "os_stub")
	assert.NotContains(t, res.ProjectMap, "venv.skip")
}

func TestCollectSkipsUnreadableFileWithoutAborting(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, "good.py"), "x = 1\n")
	badPath := filepath.Join(projectDir, "bad.py")
	writeFile(t, badPath, "x = 1\n")
	require.NoError(t, os.Chmod(badPath, 0o000))
	defer os.Chmod(badPath, 0o644)

	var buf bytes.Buffer
	log := thlog.NewWithWriter(thlog.LevelNone, &buf)

	res, err := collector.Collect(projectDir, "", filepath.Join(projectDir, "good.py"), true, log)
	require.NoError(t, err)
	assert.Contains(t, res.ProjectMap, "good")
}
