package thlog_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thir-lang/thir/internal/thlog"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := thlog.NewWithWriter(thlog.LevelResultOnly, &buf)
	l.Result("done: %d modules", 3)
	l.Progress("collecting %s", "a.py")
	l.Debug("node %d", 1)
	out := buf.String()
	assert.Contains(t, out, "done: 3 modules")
	assert.NotContains(t, out, "collecting")
	assert.NotContains(t, out, "node 1")
}

func TestWarningAndErrorAlwaysPrint(t *testing.T) {
	var buf bytes.Buffer
	l := thlog.NewWithWriter(thlog.LevelNone, &buf)
	l.Warning("skip %s", "x.py")
	l.Error("bad %s", "y.py")
	out := buf.String()
	assert.Contains(t, out, "Warning: skip x.py")
	assert.Contains(t, out, "Error: bad y.py")
}

func TestParseLevel(t *testing.T) {
	lvl, err := thlog.ParseLevel("full")
	assert.NoError(t, err)
	assert.Equal(t, thlog.LevelFull, lvl)

	_, err = thlog.ParseLevel("verbose")
	assert.Error(t, err)
}
