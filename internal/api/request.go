package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/myfishingdiary/internal/geo"
)

const maxBodyBytes = 1 << 20

// timeLayouts are accepted for the trip time, most specific first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// readParams returns the fields of a form-encoded or JSON request body.
// JSON arrays become comma separated values, matching what form clients send.
func readParams(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return readJSONParams(r.Body)
	}
	if err := r.ParseForm(); err != nil {
		return nil, badRequest("Request body is not valid.")
	}
	return r.PostForm, nil
}

func readJSONParams(body io.Reader) (url.Values, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return url.Values{}, nil
		}
		return nil, badRequest("Request body is not valid JSON.")
	}

	params := url.Values{}
	for k, v := range raw {
		if s, ok := paramString(v); ok {
			params.Set(k, s)
		}
	}
	return params, nil
}

func paramString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := paramString(e)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

// parseTime parses the trip time. An empty string yields the zero time.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, badRequest("Parameter 'time' is not a valid date.")
}

// parseCoordinates parses "lng,lat". An empty string yields nil.
func parseCoordinates(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	p, err := geo.ParseCoordinates(s)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("Parameter 'coordinates' is not valid: %s.", err))
	}
	return p.Coordinates(), nil
}

// parseOptionalFloat returns nil for an empty value.
func parseOptionalFloat(name, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := parseFinite(s)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("Parameter '%s' must be a number.", name))
	}
	return &v, nil
}

// queryInt returns def when the query parameter is absent.
func queryInt(q url.Values, name string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("Query parameter '%s' must be an integer.", name))
	}
	return v, nil
}

// queryFloat returns def when the query parameter is absent.
func queryFloat(q url.Values, name string, def float64) (float64, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return def, nil
	}
	v, err := parseFinite(s)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("Query parameter '%s' must be a number.", name))
	}
	return v, nil
}

// parseFinite is strconv.ParseFloat without "Inf" and "NaN".
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
