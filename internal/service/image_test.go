package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	contentType, data, err := decodeDataURL("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte("fake image bytes"), data)

	// Missing content type falls back to PNG.
	contentType, _, err = decodeDataURL("data:;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, _, err = decodeDataURL("data:image/png;base64")
	assert.Error(t, err, "no comma separator")

	_, _, err = decodeDataURL("data:image/png;uuencode," + payload)
	assert.Error(t, err, "only base64 payloads are supported")

	_, _, err = decodeDataURL("data:image/png;base64,not*base64*at*all")
	assert.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, "jpg", extensionFor("image/jpeg"))
	assert.Equal(t, "gif", extensionFor("image/gif"))
	assert.Equal(t, "webp", extensionFor("image/webp"))
	assert.Equal(t, "png", extensionFor("image/png"))
	assert.Equal(t, "png", extensionFor("application/octet-stream"))
}
