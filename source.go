package paramcheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// RequestData merges the query string and the body of r into one map. Query
// values come first and body values override them. Keys with a single query
// value map to a string, repeated keys to a []string. JSON object bodies are
// decoded with json.Number; an object whose only key is "data" holding an
// object is unwrapped. Form and multipart bodies contribute their values and
// uploaded files (as []*multipart.FileHeader).
//
// At most maxBytes of the body are read. The body is restored so that the
// next handler can read it again.
func RequestData(r *http.Request, maxBytes int64) (map[string]any, error) {
	data := map[string]any{}
	for k, vs := range r.URL.Query() {
		data[k] = flatten(vs)
	}
	if r.Body == nil || r.Body == http.NoBody {
		return data, nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		b, err := readBody(r, maxBytes)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(b)) == 0 {
			return data, nil
		}
		body, err := decodeObject(b)
		if err != nil {
			return nil, err
		}
		for k, v := range body {
			data[k] = v
		}
	case ct == "application/x-www-form-urlencoded":
		b, err := readBody(r, maxBytes)
		if err != nil {
			return nil, err
		}
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parsing form: %w", err)
		}
		for k, vs := range r.PostForm {
			data[k] = flatten(vs)
		}
		r.Body = io.NopCloser(bytes.NewReader(b))
	case ct == "multipart/form-data":
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, fmt.Errorf("parsing multipart form: %w", err)
		}
		for k, vs := range r.MultipartForm.Value {
			data[k] = flatten(vs)
		}
		for k, fs := range r.MultipartForm.File {
			data[k] = fs
		}
	}
	return data, nil
}

// readBody reads at most maxBytes and puts a fresh reader back on r.
func readBody(r *http.Request, maxBytes int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	_ = r.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("reading body: larger than %d bytes", maxBytes)
	}
	r.Body = io.NopCloser(bytes.NewReader(b))
	return b, nil
}

func decodeObject(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decoding body: unexpected data after object")
	}
	if inner, ok := body["data"].(map[string]any); ok && len(body) == 1 {
		return inner, nil
	}
	return body, nil
}

func flatten(vs []string) any {
	if len(vs) == 1 {
		return vs[0]
	}
	return vs
}
