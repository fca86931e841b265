package upload

import (
	"io"
	"os"

	exiflib "github.com/rwcarlsen/goexif/exif"
)

// ExifLayout is how capture dates are written in EXIF and by the backend
const ExifLayout = "2006:01:02 15:04:05"

// DateTaken reads DateTimeOriginal (or DateTime) from the image at path.
// Any failure (non-image, missing EXIF, read error) reports no date.
func DateTaken(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	return dateTakenFrom(f)
}

func dateTakenFrom(r io.Reader) (string, bool) {
	// sub-IFD errors still return the main IFD
	x, _ := exiflib.Decode(r)
	if x == nil {
		return "", false
	}
	t, err := x.DateTime()
	if err != nil {
		return "", false
	}
	return t.Format(ExifLayout), true
}
