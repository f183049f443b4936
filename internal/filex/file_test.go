package filex

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jpegHeader is the minimal JFIF marker http.DetectContentType recognizes.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func TestReadPhoto_Jpeg(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	content := append(bytes.Clone(jpegHeader), bytes.Repeat([]byte{0xAB}, 128)...)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	data, mime, err := ReadPhoto(path)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, "image/jpeg", mime)
}

func TestReadPhoto_Missing(t *testing.T) {
	_, _, err := ReadPhoto(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestReadPhoto_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.jpg")
	require.NoError(t, os.WriteFile(path, make([]byte, MaxPhotoSize+1), 0o600))

	_, _, err := ReadPhoto(path)
	assert.ErrorContains(t, err, "too large")
}
