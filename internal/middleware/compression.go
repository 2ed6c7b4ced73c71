package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths are path prefixes served as is. Probes answer with a few
// bytes and the Prometheus handler negotiates its own encoding.
var uncompressedPaths = []string{"/metrics", "/healthz", "/readyz"}

// Compression gzips responses for clients that accept it. Page collections
// are large and repetitive, so the content routes shrink well.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths(uncompressedPaths),
		gzip.WithExcludedExtensions([]string{".png", ".ico"}),
	)
}
