package models

import (
	"path/filepath"
	"strings"
)

// MIME types for upload payloads. Attachment bytes are opaque to the client;
// the extension of the suggested filename is the only hint sent upstream.
const (
	MIMEOctetStream = "application/octet-stream"
)

var mimeByExtension = map[string]string{
	// Documents
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".pdf":  "application/pdf",
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	// Voice clips
	".wav": "audio/wav",
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".ogg": "audio/ogg",
}

// MIMEForFilename returns the MIME hint for an attachment filename.
// Unknown extensions fall back to application/octet-stream.
func MIMEForFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return MIMEOctetStream
}

// IsAudioFilename reports whether the filename extension marks a voice clip
func IsAudioFilename(name string) bool {
	return strings.HasPrefix(MIMEForFilename(name), "audio/")
}

// VoiceClipExtension is the suggested extension for recorded voice clips
// that arrive as raw bytes without a filename.
const VoiceClipExtension = ".m4a"
