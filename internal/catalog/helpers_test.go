package catalog

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"mediacat/internal/sniff"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// jpegHeader is a minimal JFIF file: SOI, APP0, EOI.
var jpegHeader = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10,
	'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00,
	0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0xFF, 0xD9,
}

// junk is binary content no magic matcher recognizes.
var junk = []byte{0x00, 0x13, 0x37, 0xDE, 0xAD, 0x00, 0xBE, 0xEF, 0x00}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// newTestClassifier returns a classifier whose diagnostics land in the
// returned buffer, one JSON line per event.
func newTestClassifier(t *testing.T) (*Classifier, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewClassifier(sniff.New(), zerolog.New(&buf)), &buf
}

func newTestWalker(t *testing.T) (*Walker, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	classifier := NewClassifier(sniff.New(), logger)
	return NewWalker(WithLogger(logger), WithClassifier(classifier)), &buf
}

func warnCount(buf *bytes.Buffer) int {
	return bytes.Count(buf.Bytes(), []byte(`"level":"warn"`))
}

// buildExifJPEG assembles a JPEG whose APP1 segment carries a little-
// endian TIFF block with Make, Model and Orientation in IFD0 and the
// pixel dimensions in the Exif sub-IFD.
func buildExifJPEG(t *testing.T, makeStr, modelStr string, width, height uint32, orientation uint16) []byte {
	t.Helper()
	le := binary.LittleEndian

	makeVal := append([]byte(makeStr), 0)
	modelVal := append([]byte(modelStr), 0)

	const ifd0Off = 8
	const ifd0Size = 2 + 4*12 + 4
	const exifOff = ifd0Off + ifd0Size
	const exifSize = 2 + 2*12 + 4
	const makeOff = exifOff + exifSize
	modelOff := makeOff + len(makeVal)

	entry := func(buf []byte, tag, typ uint16, count, value uint32) []byte {
		buf = le.AppendUint16(buf, tag)
		buf = le.AppendUint16(buf, typ)
		buf = le.AppendUint32(buf, count)
		buf = le.AppendUint32(buf, value)
		return buf
	}

	tiff := []byte{'I', 'I', 0x2A, 0x00}
	tiff = le.AppendUint32(tiff, ifd0Off)

	// IFD0: Make, Model, Orientation, ExifIFDPointer (tag-ordered).
	tiff = le.AppendUint16(tiff, 4)
	tiff = entry(tiff, 0x010F, 2, uint32(len(makeVal)), makeOff)
	tiff = entry(tiff, 0x0110, 2, uint32(len(modelVal)), uint32(modelOff))
	tiff = entry(tiff, 0x0112, 3, 1, uint32(orientation))
	tiff = entry(tiff, 0x8769, 4, 1, exifOff)
	tiff = le.AppendUint32(tiff, 0)

	// Exif sub-IFD: PixelXDimension, PixelYDimension.
	tiff = le.AppendUint16(tiff, 2)
	tiff = entry(tiff, 0xA002, 4, 1, width)
	tiff = entry(tiff, 0xA003, 4, 1, height)
	tiff = le.AppendUint32(tiff, 0)

	tiff = append(tiff, makeVal...)
	tiff = append(tiff, modelVal...)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE1}
	jpeg = binary.BigEndian.AppendUint16(jpeg, uint16(len(payload)+2))
	jpeg = append(jpeg, payload...)
	jpeg = append(jpeg, 0xFF, 0xD9)
	return jpeg
}
