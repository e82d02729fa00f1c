package catalog

import (
	"os"

	"mediacat/internal/sniff"

	exiflib "github.com/rwcarlsen/goexif/exif"
)

// deriveImageFields extracts the image field group from the file's
// embedded EXIF metadata. Derivation is gated on the raw JPEG header
// signature; other image encodings keep all fields unset. On any
// decode failure the zero value is returned.
func deriveImageFields(path string) ImageFields {
	var fields ImageFields
	if !sniff.IsJPEG(path) {
		return fields
	}

	f, err := os.Open(path)
	if err != nil {
		return fields
	}
	defer f.Close()

	x, err := exiflib.Decode(f)
	if err != nil {
		return fields
	}

	// The pair exists whenever EXIF decoded; members stay nil when
	// their tags are absent.
	camera := &Camera{
		Make:  tagString(x, exiflib.Make),
		Model: tagString(x, exiflib.Model),
	}
	fields.Camera = camera

	if width, err := tagInt(x, exiflib.PixelXDimension); err == nil {
		if height, err := tagInt(x, exiflib.PixelYDimension); err == nil {
			fields.Resolution = &Resolution{Width: width, Height: height}
		}
	}

	if tag, err := x.Get(exiflib.Orientation); err == nil {
		fields.Orientation = tag.String()
	}

	if thumb, err := x.JpegThumbnail(); err == nil && len(thumb) > 0 {
		fields.HasThumbnail = true
	}

	return fields
}

func tagString(x *exiflib.Exif, name exiflib.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	val, err := tag.StringVal()
	if err != nil {
		return nil
	}
	return &val
}

func tagInt(x *exiflib.Exif, name exiflib.FieldName) (int, error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, err
	}
	return tag.Int(0)
}
