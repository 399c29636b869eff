package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

// smallest valid PNG header is enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	st := NewStore(DefaultOwners(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	ts := httptest.NewServer(New(zerolog.Nop(), st))
	t.Cleanup(ts.Close)
	return ts, st
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func upload(t *testing.T, url string, fields map[string]string, fileName string, file []byte) (*http.Response, model.TodoItem) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/todo/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	var it model.TodoItem
	_ = json.NewDecoder(resp.Body).Decode(&it)
	return resp, it
}

func TestOwners(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, data := doJSON(t, http.MethodGet, ts.URL+"/api/todo/owner", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var owners []model.OwnerItem
	require.NoError(t, json.Unmarshal(data, &owners))
	require.Len(t, owners, 2)
	assert.Equal(t, "Ada Lovelace", owners[0].Name)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", owners[0].CreatedAt)
}

func TestUploadCreateAndServeImage(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, it := upload(t, ts.URL, map[string]string{"todoText": "Buy milk"}, "milk.PNG", pngBytes)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, "Buy milk", it.TodoText)
	require.True(t, it.HasImage())
	assert.Regexp(t, `^/uploads/[0-9a-f-]+\.png$`, it.Image())

	resp, data := doJSON(t, http.MethodGet, ts.URL+it.Image(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, pngBytes, data)
}

func TestUploadValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := upload(t, ts.URL, map[string]string{"todoText": "  "}, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = upload(t, ts.URL, map[string]string{"todoText": "x"}, "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = upload(t, ts.URL, map[string]string{"todoText": "x", "id": "missing"}, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadWithIDReplacesImage(t *testing.T) {
	ts, st := newTestServer(t)
	_, created := upload(t, ts.URL, map[string]string{"todoText": "first"}, "a.png", pngBytes)

	resp, replaced := upload(t, ts.URL, map[string]string{"todoText": "second", "id": created.ID}, "b.png", pngBytes)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, "second", replaced.TodoText)
	assert.NotEqual(t, created.Image(), replaced.Image())
	assert.Len(t, st.Todos(), 1)
}

func TestPatchKeepsImage(t *testing.T) {
	ts, st := newTestServer(t)
	_, created := upload(t, ts.URL, map[string]string{"todoText": "first"}, "a.png", pngBytes)

	resp, _ := doJSON(t, http.MethodPatch, ts.URL+"/api/todo", map[string]string{"id": created.ID, "todoText": "renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	todos := st.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "renamed", todos[0].TodoText)
	assert.Equal(t, created.Image(), todos[0].Image())
	assert.Equal(t, created.CreatedAt, todos[0].CreatedAt)

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/todo", map[string]string{"id": "nope", "todoText": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/todo", map[string]string{"id": created.ID, "todoText": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	ts, st := newTestServer(t)
	a := st.Create("a", nil)
	st.Create("b", nil)

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/todo", map[string]string{"id": a.ID})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Len(t, st.Todos(), 1)
	assert.Equal(t, "b", st.Todos()[0].TodoText)

	resp, data := doJSON(t, http.MethodDelete, ts.URL+"/api/todo", map[string]string{"id": a.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"todo not found"}`, string(data))

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/todo", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStoreClock(t *testing.T) {
	st := NewStore(nil)
	st.SetClock(func() time.Time { return time.Date(2025, 8, 9, 14, 30, 0, 0, time.UTC) })
	it := st.Create("x", nil)
	assert.Equal(t, "2025-08-09T14:30:00.000Z", it.CreatedAt)
	assert.Equal(t, it.CreatedAt, it.UpdatedAt)
}

func TestStoreOnChangeAndRestore(t *testing.T) {
	st := NewStore(nil)
	var snapshots [][]model.TodoItem
	st.OnChange(func(todos []model.TodoItem) { snapshots = append(snapshots, todos) })

	a := st.Create("a", nil)
	_, err := st.SetText(a.ID, "b")
	require.NoError(t, err)
	require.NoError(t, st.Delete(a.ID))
	assert.ErrorIs(t, st.Delete(a.ID), ErrNotFound)

	require.Len(t, snapshots, 3)
	assert.Equal(t, "a", snapshots[0][0].TodoText)
	assert.Equal(t, "b", snapshots[1][0].TodoText)
	assert.Empty(t, snapshots[2])

	st2 := NewStore(nil)
	st2.Restore(snapshots[1])
	assert.Equal(t, snapshots[1], st2.Todos())
}
