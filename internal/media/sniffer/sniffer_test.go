package sniffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	webpHead := append([]byte("RIFF"), 0, 0, 0, 0)
	webpHead = append(webpHead, []byte("WEBP")...)

	cases := []struct {
		name     string
		head     []byte
		wantType MediaType
		wantMIME string
		wantErr  bool
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, TypeJPEG, "image/jpeg", false},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}, TypePNG, "image/png", false},
		{"webp", webpHead, TypeWEBP, "image/webp", false},
		{"gif rejected", []byte("GIF89a"), "", "", true},
		{"pdf rejected", []byte("%PDF-1.7"), "", "", true},
		{"riff without webp", []byte("RIFF????WAVE"), "", "", true},
		{"empty", nil, "", "", true},
		{"short jpeg", []byte{0xff, 0xd8}, "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, result.Type)
			assert.Equal(t, tc.wantMIME, result.MIME)
		})
	}
}

func TestDetectReadsHead(t *testing.T) {
	payload := append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0x01}, 1024)...)

	result, head, err := Detect(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, TypeJPEG, result.Type)
	assert.Len(t, head, 512)
}

func TestDeclaredMatches(t *testing.T) {
	assert.True(t, DeclaredMatches("image/jpeg", "image/jpeg"))
	assert.True(t, DeclaredMatches("image/jpg", "image/jpeg"))
	assert.True(t, DeclaredMatches("image/png", "image/png"))
	assert.False(t, DeclaredMatches("image/png", "image/jpeg"))
	assert.False(t, DeclaredMatches("image/webp", "image/png"))
}

func TestAllowedDeclaredMIME(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/jpg", "image/png", "image/webp"} {
		assert.True(t, AllowedDeclaredMIME(mime), mime)
	}
	for _, mime := range []string{"image/gif", "application/pdf", "text/html", ""} {
		assert.False(t, AllowedDeclaredMIME(mime), mime)
	}
}
