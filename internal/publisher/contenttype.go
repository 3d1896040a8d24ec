package publisher

import (
	"path"
	"strings"
)

// DefaultContentType is used when an extension has no known mapping.
const DefaultContentType = "application/octet-stream"

// contentTypes maps lower case file extensions to the content type served
// for them. Text types carry no charset parameter.
var contentTypes = map[string]string{
	// documents
	".htm":         "text/html",
	".html":        "text/html",
	".xhtml":       "application/xhtml+xml",
	".css":         "text/css",
	".csv":         "text/csv",
	".txt":         "text/plain",
	".text":        "text/plain",
	".md":          "text/markdown",
	".markdown":    "text/markdown",
	".xml":         "application/xml",
	".rss":         "application/rss+xml",
	".atom":        "application/atom+xml",
	".pdf":         "application/pdf",
	".ics":         "text/calendar",
	".vtt":         "text/vtt",
	".appcache":    "text/cache-manifest",
	".webmanifest": "application/manifest+json",

	// scripts and data
	".js":     "application/javascript",
	".mjs":    "application/javascript",
	".cjs":    "application/javascript",
	".json":   "application/json",
	".map":    "application/json",
	".jsonld": "application/ld+json",
	".wasm":   "application/wasm",
	".yaml":   "text/yaml",
	".yml":    "text/yaml",

	// images
	".apng": "image/apng",
	".avif": "image/avif",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".ico":  "image/vnd.microsoft.icon",
	".jpe":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".svgz": "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",

	// fonts
	".eot":   "application/vnd.ms-fontobject",
	".otf":   "font/otf",
	".ttf":   "font/ttf",
	".woff":  "font/woff",
	".woff2": "font/woff2",

	// audio and video
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".oga":  "audio/ogg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".weba": "audio/webm",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".mpeg": "video/mpeg",
	".ogv":  "video/ogg",
	".webm": "video/webm",

	// archives
	".gz":  "application/gzip",
	".tar": "application/x-tar",
	".zip": "application/zip",
}

// ContentType resolves the content type of name from its extension.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if contentType, ok := contentTypes[ext]; ok {
		return contentType
	}
	return DefaultContentType
}
