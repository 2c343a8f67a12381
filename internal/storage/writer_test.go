package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w, err := NewAudioWriter(dir)
	require.NoError(t, err)

	path, err := w.Write("Hello_af_bella.mp3", []byte("audio"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(w.Dir(), "Hello_af_bella.mp3"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), data)
}

func TestAudioWriter_Overwrites(t *testing.T) {
	w, err := NewAudioWriter(t.TempDir())
	require.NoError(t, err)

	_, err = w.Write("same.wav", []byte("first take"))
	require.NoError(t, err)
	path, err := w.Write("same.wav", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestAudioWriter_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	w, err := NewAudioWriter(dir)
	require.NoError(t, err)

	_, err = w.Write("clip.opus", []byte{1, 2, 3})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "clip.opus", entries[0].Name())
}

func TestAudioWriter_RejectsPaths(t *testing.T) {
	w, err := NewAudioWriter(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../escape.mp3", "sub/dir.mp3"} {
		_, err := w.Write(name, []byte("x"))
		assert.Error(t, err, "name %q", name)
	}
}

func TestAudioWriter_MissingDir(t *testing.T) {
	w, err := NewAudioWriter(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	_, err = w.Write("clip.mp3", []byte("x"))
	assert.Error(t, err)
}
