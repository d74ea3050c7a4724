package utils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"community-helper-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveKey(t *testing.T) {
	key := ArchiveKey("Welcome Message", models.ResponseKindPhoto)
	assert.True(t, strings.HasPrefix(key, "responses/photo/welcome-message-"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)

	key = ArchiveKey("!!!", models.ResponseKindDocument)
	assert.True(t, strings.HasPrefix(key, "responses/document/response-"), key)
	assert.True(t, strings.HasSuffix(key, ".bin"), key)
}

func TestMediaArchive_Put(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
		gotBody string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath = r.URL.Path
		gotBody = string(body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	archive, err := NewMediaArchive(context.Background(), R2Config{
		AccessKeyID:     "key",
		AccessKeySecret: "secret",
		Bucket:          "media",
		Endpoint:        srv.URL,
	})
	require.NoError(t, err)

	url, err := archive.Put(context.Background(), "responses/photo/x.jpg", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/media/responses/photo/x.jpg", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/media/responses/photo/x.jpg", gotPath)
	assert.Contains(t, gotBody, "jpeg-bytes")
}

func TestMediaArchive_SkipsText(t *testing.T) {
	archive := &MediaArchive{}
	url, err := archive.ArchiveResponse(context.Background(), "hi", models.ResponseKindText, []byte("hi"))
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	data, err := Download(context.Background(), srv.URL+"/file")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = Download(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}
