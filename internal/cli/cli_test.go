package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divVerent/haydnop20/internal/dataset"
	"github.com/divVerent/haydnop20/internal/file"
	_ "github.com/divVerent/haydnop20/internal/humdrum"
)

func dataHome(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/op20n1-01.hrm")
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "op20n1-01.hrm"), b, 0o666))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestTracksCommand(t *testing.T) {
	out, err := run(t, "--data-home", dataHome(t), "tracks")
	require.NoError(t, err)
	assert.Equal(t, "op20n1-01\top20n1-01\top20n1-01.hrm\n", out)
}

func TestKeysCommand(t *testing.T) {
	home := dataHome(t)
	out, err := run(t, "--data-home", home, "keys", "op20n1-01")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0\t83\tC:major",
		"84\t167\tG:major",
		"168\t195\tD:major",
		"196\t196\tG:major",
	}, lines(out))

	out, err = run(t, "--data-home", home, "--resolution", "1", "keys", "--raw", "op20n1-01")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0\tC major",
		"1\tC major",
		"2\tC major",
		"3\tG major",
		"5\tG major",
		"6\tD major",
		"7\tG major",
	}, lines(out))
}

func TestChordsCommand(t *testing.T) {
	home := dataHome(t)
	out, err := run(t, "--data-home", home, "chords", "op20n1-01")
	require.NoError(t, err)
	l := lines(out)
	require.Len(t, l, 7)
	assert.Equal(t, "84\t139\tD-dominant seventh chord", l[3])

	out, err = run(t, "--data-home", home, "chords", "--raw", "op20n1-01")
	require.NoError(t, err)
	assert.Equal(t, "168\tA-major triad", lines(out)[5])
}

func TestRomansCommand(t *testing.T) {
	out, err := run(t, "--data-home", dataHome(t), "romans", "op20n1-01")
	require.NoError(t, err)
	assert.Equal(t, "168\tV/V", lines(out)[5])
}

func TestUnknownTrack(t *testing.T) {
	_, err := run(t, "--data-home", dataHome(t), "keys", "nope")
	assert.ErrorIs(t, err, dataset.ErrUnknownTrack)
}

func TestMIDICommand(t *testing.T) {
	home := dataHome(t)
	out, err := run(t, "--data-home", home, "midi", "op20n1-01")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, filepath.Join(home, "op20n1-01.midi")+"\t"), out)
	assert.Contains(t, out, "3 tracks\t16 notes")
	assert.Contains(t, out, "\npart\tVioloncello\t7 notes\tkeys 48-55\tup to 1 sounding\n")
	assert.Contains(t, out, "\npart\tViolino\t9 notes\tkeys 59-67\tup to 2 sounding\n")
}

func TestPreloadCommand(t *testing.T) {
	out, err := run(t, "--data-home", dataHome(t), "preload")
	require.NoError(t, err)
	assert.Contains(t, out, "parsed 1 tracks with 16 notes and 7 annotations")
}

func TestValidateCommand(t *testing.T) {
	home := dataHome(t)
	out, err := run(t, "--data-home", home, "validate")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	index := `{"version": "1.3", "tracks": {"0": {"annotations": ["gone.hrm", null]}}}`
	require.NoError(t, os.WriteFile(filepath.Join(home, dataset.IndexFile("1.3")), []byte(index), 0o666))
	out, err = run(t, "--data-home", home, "validate")
	assert.Error(t, err)
	assert.Equal(t, "missing\t0\n", out)
}

func TestConfigFile(t *testing.T) {
	home := dataHome(t)
	cfgFile := filepath.Join(t.TempDir(), "haydn.yml")
	out, err := run(t, "--data-home", home, "--resolution", "4", "config", "init", cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+cfgFile+"\n", out)

	cfg, err := file.ReadConfig(os.DirFS(filepath.Dir(cfgFile)), filepath.Base(cfgFile))
	require.NoError(t, err)
	assert.Equal(t, home, cfg.DataHome)
	assert.Equal(t, 4, cfg.Resolution)

	out, err = run(t, "-c", cfgFile, "keys", "op20n1-01")
	require.NoError(t, err)
	assert.Equal(t, "12\t23\tG:major", lines(out)[1])

	_, err = run(t, "-c", filepath.Join(t.TempDir(), "missing.yml"), "tracks")
	assert.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "haydnop20 version")
}
