package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	models "github.com/chrisdamba/daytrip/internal"
)

const ContentTypeJSON = "application/json"

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

type ErrorBody struct {
	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  any    `json:"detail,omitempty"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// DecodeEnvelope unmarshals the "data" member of body into dst. It reports
// whether data was present and non-null.
func DecodeEnvelope(body []byte, dst interface{}) (bool, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(env.Data, dst)
}

// ErrorFromResponse classifies a non-2xx response, pulling the message out of
// either {"message": ...} or FastAPI's {"detail": ...}.
func ErrorFromResponse(resp *http.Response) *models.ApiError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return models.NewStatusError(resp.StatusCode, MessageFromBody(body))
}

func MessageFromBody(body []byte) string {
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	switch d := eb.Detail.(type) {
	case string:
		return d
	case []interface{}:
		// pydantic validation errors: [{"msg": ...}, ...]
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]interface{}); ok {
				if s, ok := m["msg"].(string); ok {
					msgs = append(msgs, s)
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func JsonDecodeBody(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(body, dst)
}

func RenderJSON(w http.ResponseWriter, statusCode int, res interface{}) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	var body []byte
	if res != nil {
		var err error
		body, err = json.Marshal(res)
		if err != nil {
			statusCode = http.StatusInternalServerError
			body = []byte(fmt.Sprintf(`{"error":true,"message":%q}`, err.Error()))
		}
	}
	w.WriteHeader(statusCode)
	if len(body) > 0 {
		w.Write(body)
	}
}

func RenderData(w http.ResponseWriter, statusCode int, data interface{}) {
	RenderJSON(w, statusCode, map[string]interface{}{"data": data})
}

func RenderError(w http.ResponseWriter, statusCode int, msg string) {
	RenderJSON(w, statusCode, ErrorBody{Error: true, Message: msg})
}

func AllowedMethods(next http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if existsInSlice(methods, r.Method) {
			next(w, r)
		} else {
			RenderError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// BearerToken extracts the credential from an Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func existsInSlice(list []string, needle string) bool {
	for i := range list {
		if list[i] == needle {
			return true
		}
	}
	return false
}
