package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header so the sniffer recognizes the type
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

func uploadFile(t *testing.T, a *API, tok, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

func TestFileUpload(t *testing.T) {
	a, _ := newTestAPI(t)
	user := createUser(t, a, "Ana", "ana@example.com", "password123")
	tok := token(t, user.ID)

	t.Run("stores an image and serves it back", func(t *testing.T) {
		rr := uploadFile(t, a, tok, "banner.png", pngBytes)
		require.Equal(t, http.StatusOK, rr.Code)

		body := decodeBody(t, rr)
		assert.Equal(t, "banner.png", body["name"])
		assert.NotEmpty(t, body["path"])
		assert.NotEmpty(t, body["url"])

		key := body["path"].(string)

		serve := doRequest(t, a, http.MethodGet, "/files/"+key, "", nil)
		require.Equal(t, http.StatusOK, serve.Code)
		assert.Equal(t, pngBytes, serve.Body.Bytes())
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		rr := uploadFile(t, a, tok, "notes.txt", []byte("just some text"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		rr := uploadFile(t, a, "", "banner.png", pngBytes)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown key is a 404", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodGet, "/files/missing.png", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
