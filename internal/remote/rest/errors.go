package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
)

var (
	// errStreamCancelled ends a stream for good: the server no longer lets
	// us read the path.
	errStreamCancelled = errors.New("stream cancelled by server")
	// errAuthRevoked ends the current connection; the stream reconnects with
	// whatever token the client holds by then.
	errAuthRevoked = errors.New("stream auth revoked")
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}
	return httpError(resp.StatusCode(), resp.Body())
}

func httpError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &remote.HTTPError{StatusCode: status, Message: msg}
}
