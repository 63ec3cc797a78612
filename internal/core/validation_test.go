package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Text(t *testing.T) {
	v := DefaultValidator()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "          \n\t ", true},
		{"nine chars padded", "   123456789   ", true},
		{"exactly ten", "1234567890", false},
		{"combining marks count once", "cafe\u0301cafe\u0301c", true},
		{"combining marks count once", "cafécaféc", true},
		{"accented ten", strings.Repeat("e\u0301", 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(TextInput(tt.content, ""))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "content", ve.Field)
		})
	}
}

func TestValidator_File(t *testing.T) {
	v := DefaultValidator()

	tests := []struct {
		name    string
		file    *FileBlob
		wantErr bool
	}{
		{"nil file", nil, true},
		{"txt", &FileBlob{Name: "mail.txt", Data: []byte("hello there")}, false},
		{"pdf", &FileBlob{Name: "mail.pdf", Data: []byte("%PDF-1.4")}, false},
		{"plain type without extension", &FileBlob{Name: "mail", ContentType: "text/plain", Data: []byte("x")}, false},
		{"docx", &FileBlob{Name: "mail.docx", Data: []byte("x")}, true},
		{"html type", &FileBlob{Name: "mail.html", ContentType: "text/html", Data: []byte("x")}, true},
		{"empty", &FileBlob{Name: "mail.txt"}, true},
		{"at limit", &FileBlob{Name: "big.txt", Data: bytes.Repeat([]byte("a"), DefaultMaxUploadBytes)}, false},
		{"over limit", &FileBlob{Name: "big.txt", Data: bytes.Repeat([]byte("a"), DefaultMaxUploadBytes+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(FileInput(tt.file, ""))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "file", ve.Field)
		})
	}
}

func TestValidator_UnknownKind(t *testing.T) {
	err := DefaultValidator().Validate(ClassificationInput{Kind: "voice"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "kind", ve.Field)
}
