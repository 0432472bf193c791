package paramcheck_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v "github.com/Gobd/paramcheck"
)

func TestRequestData_Query(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?a=1&tag=x&tag=y", nil)
	data, err := v.RequestData(r, 1024)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "tag": []string{"x", "y"}}, data)
}

func TestRequestData_JSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string]any
		wantErr string
	}{
		{
			name: "object",
			body: `{"a": 2, "b": "x"}`,
			want: map[string]any{"a": json.Number("2"), "b": "x", "q": "1"},
		},
		{
			name: "data is unwrapped",
			body: `{"data": {"a": 2}}`,
			want: map[string]any{"a": json.Number("2"), "q": "1"},
		},
		{
			name: "data next to other keys is kept",
			body: `{"data": {"a": 2}, "b": true}`,
			want: map[string]any{"data": map[string]any{"a": json.Number("2")}, "b": true, "q": "1"},
		},
		{
			name: "body overrides query",
			body: `{"q": "2"}`,
			want: map[string]any{"q": "2"},
		},
		{
			name: "empty body",
			body: "  ",
			want: map[string]any{"q": "1"},
		},
		{name: "not an object", body: `[1]`, wantErr: "decoding body"},
		{name: "trailing data", body: `{} {}`, wantErr: "unexpected data after object"},
		{name: "too large", body: `{"a": "` + strings.Repeat("x", 100) + `"}`, wantErr: "larger than 64 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/?q=1", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json; charset=utf-8")
			data, err := v.RequestData(r, 64)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)

			b, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(b), "body is restored")
		})
	}
}

func TestRequestData_Form(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/?a=query", strings.NewReader("a=form&b=1&b=2"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	data, err := v.RequestData(r, 1024)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "form", "b": []string{"1", "2"}}, data)

	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, "a=form&b=1&b=2", string(b))
}

func TestRequestData_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "report"))
	fw, err := mw.CreateFormFile("upload", "report.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	data, err := v.RequestData(r, 1<<20)
	require.NoError(t, err)

	assert.Equal(t, "report", data["title"])
	files, ok := data["upload"].([]*multipart.FileHeader)
	require.True(t, ok)
	require.Len(t, files, 1)
	assert.Equal(t, "report.txt", files[0].Filename)
	assert.Equal(t, int64(5), files[0].Size)
}

func TestRequestData_OtherContentType(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/?a=1", strings.NewReader("raw"))
	r.Header.Set("Content-Type", "text/plain")
	data, err := v.RequestData(r, 1024)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1"}, data)
}
