package application

import "expvar"

// Counters published under /debug/vars as "gallery".
var metrics = expvar.NewMap("gallery")

const (
	metricUploads              = "uploads"
	metricUploadFailures       = "upload_failures"
	metricDownloadsOriginal    = "downloads_original"
	metricDownloadsWatermarked = "downloads_watermarked"
	metricDisplays             = "displays"
	metricDeletes              = "photo_deletes"
)
