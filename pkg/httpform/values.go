package httpform

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
)

// values reads the submitted element values. Form encodings and JSON objects
// are accepted; JSON scalars become one value, arrays one value per item.
func (s *Server) values(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return url.Values{}, nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, ErrUnsupportedType
	}

	switch mediaType {
	case "application/json":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, bodyError(err)
		}
		return jsonValues(body)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		return r.PostForm, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.maxBytes); err != nil {
			return nil, bodyError(err)
		}
		return r.MultipartForm.Value, nil
	default:
		return nil, ErrUnsupportedType
	}
}

func jsonValues(body map[string]any) (url.Values, error) {
	out := make(url.Values, len(body))
	for name, raw := range body {
		switch v := raw.(type) {
		case nil:
			out[name] = []string{}
		case []any:
			list := make([]string, 0, len(v))
			for _, item := range v {
				s, err := scalar(item)
				if err != nil {
					return nil, fmt.Errorf("%w: %s", ErrBadRequest, name)
				}
				list = append(list, s)
			}
			out[name] = list
		default:
			s, err := scalar(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrBadRequest, name)
			}
			out[name] = []string{s}
		}
	}
	return out, nil
}

func scalar(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported value %T", v)
	}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrEntityTooLarge
	}
	return errors.Join(ErrBadRequest, err)
}
