package store

import (
	"fmt"
	"time"
)

// TransferInfo summarises a single completed upload or download.
type TransferInfo struct {
	BytesTransferred int64
	TransferSpeed    float64 // in MB/s
	Duration         time.Duration
}

// PublicURL returns the public HTTP URL for an object in a GCS bucket. This is
// pure string formatting, no check is made that the object is readable.
func PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

func transferSpeedMBps(bytes int64, duration time.Duration) float64 {
	return float64(bytes) / duration.Seconds() / 1000 / 1000
}
