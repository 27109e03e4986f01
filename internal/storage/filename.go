package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// imageDir is the prefix under which all product images are stored.
const imageDir = "product/images"

// ImagePath builds a unique storage path for an uploaded image, keeping the
// original base name for traceability: <base>-<Month-DD-YYYY>_<uid><ext>.
func ImagePath(originalName string, now time.Time) string {
	ext := path.Ext(originalName)
	base := strings.TrimSuffix(path.Base(originalName), ext)
	if base == "" || base == "." {
		base = "image"
	}

	date := now.Format("January-02-2006")
	uid := strings.ReplaceAll(uuid.New().String(), "-", "")[:13]

	return path.Join(imageDir, fmt.Sprintf("%s-%s_%s%s", base, date, uid, ext))
}
