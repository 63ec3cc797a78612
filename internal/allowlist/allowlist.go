package allowlist

import (
	"mime"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether an uploaded file may be sent for classification
type Checker struct {
	extensions []string
	mediaTypes []string
	logger     *zap.Logger
}

// NewChecker creates a new upload allow-list checker
func NewChecker(extensions []string, mediaTypes []string, logger *zap.Logger) *Checker {
	// Normalize extensions (lowercase, leading dot)
	normalizedExts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalizedExts = append(normalizedExts, ext)
	}

	normalizedTypes := make([]string, 0, len(mediaTypes))
	for _, mt := range mediaTypes {
		mt = strings.ToLower(strings.TrimSpace(mt))
		if mt != "" {
			normalizedTypes = append(normalizedTypes, mt)
		}
	}

	if logger != nil {
		logger.Debug("Initialized upload allow-list",
			zap.Strings("extensions", normalizedExts),
			zap.Strings("media_types", normalizedTypes))
	}

	return &Checker{
		extensions: normalizedExts,
		mediaTypes: normalizedTypes,
		logger:     logger,
	}
}

// Extensions returns the accepted file extensions
func (c *Checker) Extensions() []string {
	return append([]string(nil), c.extensions...)
}

// Allows reports whether a file with this name or media type is accepted.
// Either an accepted extension or an accepted media type is enough.
func (c *Checker) Allows(name, contentType string) bool {
	return c.AllowsExtension(name) || c.AllowsMediaType(contentType)
}

// AllowsExtension checks the file name's extension
func (c *Checker) AllowsExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, allowed := range c.extensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

// AllowsMediaType checks a Content-Type value, ignoring its parameters
func (c *Checker) AllowsMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	for _, allowed := range c.mediaTypes {
		if allowed == mediaType {
			if c.logger != nil {
				c.logger.Debug("Media type is allowed", zap.String("media_type", mediaType))
			}
			return true
		}
	}
	return false
}
