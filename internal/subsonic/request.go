package subsonic

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/auth"
)

// params is a flattened view over one request's arguments regardless of
// whether it arrived as a URL-encoded form (GET or POST) or a JSON POST
// body — §4.8's "three shapes a single endpoint may accept".
type params struct {
	values map[string][]string
}

func parseParams(r *http.Request) (params, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		_ = r.ParseForm()
	}
	values := map[string][]string{}
	for k, v := range r.URL.Query() {
		values[k] = append(values[k], v...)
	}
	if r.Method == http.MethodPost {
		ct := r.Header.Get("Content-Type")
		if ct == "application/json" {
			var body map[string]interface{}
			dec := json.NewDecoder(r.Body)
			if err := dec.Decode(&body); err == nil {
				for k, v := range body {
					values[k] = append(values[k], toStrings(v)...)
				}
			}
		} else if r.PostForm != nil {
			for k, v := range r.PostForm {
				values[k] = append(values[k], v...)
			}
		}
	}
	return params{values: values}, nil
}

func toStrings(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, toStrings(e)...)
		}
		return out
	case float64:
		return []string{strconv.FormatFloat(t, 'f', -1, 64)}
	case bool:
		return []string{strconv.FormatBool(t)}
	default:
		return nil
	}
}

func (p params) get(key string) string {
	if v := p.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (p params) all(key string) []string { return p.values[key] }

func (p params) getInt(key string, def int) int {
	v := p.get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (p params) getFloat(key string, def float64) float64 {
	v := p.get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return n
}

func (p params) getBool(key string, def bool) bool {
	v := p.get(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// credentials extracts the auth fields §4.8 requires be pulled from the
// request before a handler ever sees its own parameters.
func (p params) credentials() auth.Credentials {
	return auth.Credentials{
		Username: p.get("u"),
		Salt:     p.get("s"),
		Token:    p.get("t"),
		Password: p.get("p"),
	}
}

// requiredParam returns a BadRequest error matching Subsonic error code
// 10 ("required parameter is missing") when key is absent.
func (p params) requiredParam(key string) (string, error) {
	v := p.get(key)
	if v == "" {
		return "", apperr.New(apperr.BadRequest, "missing required parameter: "+key)
	}
	return v, nil
}
