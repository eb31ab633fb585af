package chartclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/psychro/internal/common"
	"github.com/Veraticus/psychro/internal/model"
)

const statusSuccess = "success"

// maxErrorBody caps how much of a failed response is read for its detail.
const maxErrorBody = 64 << 10

// envelope is the response schema shared by every endpoint. Figure is a
// JSON-encoded string holding {data, layout}.
type envelope struct {
	Status  *string         `json:"status"`
	Message string          `json:"message"`
	Figure  json.RawMessage `json:"figure"`
}

func parseEnvelope(body []byte, endpoint string, requireSuccessStatus bool) (model.ChartPayload, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedBody, err)
	}

	if requireSuccessStatus {
		status := ""
		if env.Status != nil {
			status = *env.Status
		}
		if status != statusSuccess {
			return nil, &common.ApplicationError{
				Endpoint: endpoint,
				Status:   status,
				Message:  env.Message,
			}
		}
	}

	if len(env.Figure) == 0 || string(env.Figure) == "null" {
		return nil, common.ErrMissingFigure
	}

	var figure string
	if err := json.Unmarshal(env.Figure, &figure); err != nil {
		return nil, fmt.Errorf("%w: figure must be a JSON-encoded string", common.ErrMalformedBody)
	}
	if strings.TrimSpace(figure) == "" {
		return nil, common.ErrMissingFigure
	}
	if !json.Valid([]byte(figure)) {
		return nil, common.ErrMalformedFigure
	}

	return model.ChartPayload(figure), nil
}

// transportError converts a non-2xx response. The FastAPI-style detail field
// is kept for logging; the message stays the status text.
func transportError(resp *http.Response) error {
	tErr := &common.TransportError{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		var payload struct {
			Detail json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
			var detail string
			if json.Unmarshal(payload.Detail, &detail) == nil {
				tErr.Detail = detail
			} else {
				tErr.Detail = string(payload.Detail)
			}
		}
	}

	return tErr
}

// statusText returns the reason phrase, e.g. "Bad Request" for "400 Bad Request".
func statusText(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if text := strings.TrimPrefix(resp.Status, prefix); text != "" && text != resp.Status {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}
