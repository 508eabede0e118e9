package storage

import (
	"context"
	"path"
	"strings"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the S3-compatible operations used to archive raw
// uploads and to import sheets dropped into a bucket.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// UploadKey names the archived copy of an uploaded file:
// <prefix><organization>/<yyyy>/<mm>/<analysis>-<file>
func UploadKey(prefix, organizationID, analysisID, fileName string, at time.Time) string {
	name := strings.ReplaceAll(path.Base(strings.ReplaceAll(fileName, "\\", "/")), " ", "_")
	return prefix + path.Join(organizationID, at.UTC().Format("2006/01"), analysisID+"-"+name)
}
