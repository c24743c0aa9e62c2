package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/facturador/internal/validation"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

// readInput accepts a flat JSON object or a URL-encoded/multipart form.
// Nested JSON values are kept as their JSON text so fields such as invoice
// items can be parsed by the validator.
func readInput(w http.ResponseWriter, r *http.Request) (validation.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSON(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, errBadBody
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, errBadBody
		}
	}

	in := make(validation.Input, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			in[k] = v[0]
		}
	}
	return in, nil
}

func readJSON(r *http.Request) (validation.Input, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errBadBody
	}

	in := make(validation.Input, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			in[k] = ""
		case string:
			in[k] = val
		case json.Number:
			in[k] = val.String()
		case bool:
			in[k] = strconv.FormatBool(val)
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s", errBadBody, k)
			}
			in[k] = string(b)
		}
	}
	return in, nil
}
