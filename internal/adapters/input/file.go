package input

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mikey/email-triage/internal/core"
)

// LoadFile reads a file for upload. Nothing is read past maxBytes+1 so the
// validator can still reject an oversized file without holding all of it.
func LoadFile(path string, maxBytes int64) (*core.FileBlob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := io.Reader(f)
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := filepath.Base(path)
	return &core.FileBlob{
		Name:        name,
		ContentType: DetectContentType(name, data),
		Data:        data,
	}, nil
}

// DetectContentType picks the media type for an upload. A registered
// extension wins. Otherwise the content is sniffed, and for a named
// extension the sniffed type only counts when it belongs to that extension,
// so notes.log is not passed off as text/plain.
func DetectContentType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	if len(data) == 0 {
		return ""
	}

	detected := mimetype.Detect(data)
	if ext != "" && detected.Extension() != ext {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String()
	}
	return mediaType
}
