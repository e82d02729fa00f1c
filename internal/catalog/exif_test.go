package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveImageFields(t *testing.T) {
	t.Run("jpeg with exif", func(t *testing.T) {
		content := buildExifJPEG(t, "Canon", "EOS 5D", 1024, 768, 1)
		path := writeFile(t, t.TempDir(), "camera.jpg", content)

		fields := deriveImageFields(path)

		require.NotNil(t, fields.Camera)
		require.NotNil(t, fields.Camera.Make)
		require.NotNil(t, fields.Camera.Model)
		assert.Equal(t, "Canon", *fields.Camera.Make)
		assert.Equal(t, "EOS 5D", *fields.Camera.Model)

		require.NotNil(t, fields.Resolution)
		assert.Equal(t, 1024, fields.Resolution.Width)
		assert.Equal(t, 768, fields.Resolution.Height)

		assert.Equal(t, "1", fields.Orientation)
		assert.False(t, fields.HasThumbnail, "fixture carries no embedded preview")
	})

	t.Run("jpeg without exif", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "plain.jpg", jpegHeader)

		fields := deriveImageFields(path)
		assert.Nil(t, fields.Camera)
		assert.Nil(t, fields.Resolution)
		assert.Empty(t, fields.Orientation)
		assert.False(t, fields.HasThumbnail)
	})

	t.Run("non-jpeg image is gated out", func(t *testing.T) {
		// Valid PNG header; richer extraction is intentionally scoped
		// to the JPEG signature.
		png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
		path := writeFile(t, t.TempDir(), "pic.png", png)

		fields := deriveImageFields(path)
		assert.Nil(t, fields.Camera)
		assert.Nil(t, fields.Resolution)
		assert.Empty(t, fields.Orientation)
	})

	t.Run("corrupt exif payload yields no fields", func(t *testing.T) {
		content := append([]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x08}, []byte("garbage")...)
		path := writeFile(t, t.TempDir(), "broken.jpg", content)

		fields := deriveImageFields(path)
		assert.Nil(t, fields.Camera)
		assert.Nil(t, fields.Resolution)
	})

	t.Run("missing file yields no fields", func(t *testing.T) {
		fields := deriveImageFields("/no/such/file.jpg")
		assert.Nil(t, fields.Camera)
	})
}
