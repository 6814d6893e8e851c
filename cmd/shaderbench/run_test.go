package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaderbench/internal/db"
)

type mockHistoryStore struct {
	saved []db.StoredRun
	runs  []db.StoredRun
	err   error
}

func (m *mockHistoryStore) SaveRun(run db.StoredRun) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.saved = append(m.saved, run)
	return int64(len(m.saved)), nil
}

func (m *mockHistoryStore) ListRuns(limit int) ([]db.StoredRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockHistoryStore) Close() error { return nil }

func writeTestScript(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()

	shader := filepath.Join(dir, "shader.glsl")
	source := "void mainImage(out vec4 fragColor, in vec2 fragCoord)\n{\n    fragColor = vec4(1.0);\n}\n"
	require.NoError(t, os.WriteFile(shader, []byte(source), 0644))

	script := filepath.Join(dir, "bench.txt")
	content := strings.ReplaceAll(strings.Join(lines, "\n"), "SHADER", shader)
	require.NoError(t, os.WriteFile(script, []byte(content), 0644))
	return script
}

func TestRunCmd(t *testing.T) {
	script := writeTestScript(t,
		"# tiny smoke benchmark",
		"resolution 16 16",
		"framerate 120",
		"run SHADER 3",
		"print total=${sum frame-time} frames=${frame-time}",
	)

	cmd := newRunCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{script})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "total=")
	assert.NotContains(t, out.String(), "${")
}

func TestRunCmdSave(t *testing.T) {
	defer func(orig func() (db.Store, error)) { newHistoryStore = orig }(newHistoryStore)
	mock := &mockHistoryStore{}
	newHistoryStore = func() (db.Store, error) { return mock, nil }

	script := writeTestScript(t,
		"resolution 16 16",
		"framerate 120",
		"run SHADER 2",
		"run SHADER 2",
	)

	cmd := newRunCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{script, "--save"})

	require.NoError(t, cmd.Execute())
	require.Len(t, mock.saved, 2)
	assert.Len(t, mock.saved[0].Frames, 2)
	assert.Equal(t, 16, mock.saved[0].Width)
	assert.Contains(t, mock.saved[0].Script, "bench.txt")
}

func TestRunCmdScriptErrorFatal(t *testing.T) {
	script := writeTestScript(t, "clear", "explode now")

	cmd := newRunCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{script})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRunCmdMissingScript(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.txt")})
	assert.Error(t, cmd.Execute())
}

func TestDialectFlag(t *testing.T) {
	var d dialectValue
	assert.Equal(t, "glsl", d.String())
	require.NoError(t, d.Set("slang"))
	assert.Equal(t, "slang", d.String())
	assert.Error(t, d.Set("hlsl"))
	assert.Equal(t, "dialect", d.Type())
}
