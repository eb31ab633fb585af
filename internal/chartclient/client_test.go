package chartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Veraticus/psychro/internal/common"
	"github.com/Veraticus/psychro/internal/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFigure = `{"data":[{"type":"scatter","x":[25],"y":[9.9]}],"layout":{"title":{"text":"Psychrometric Chart"}}}`

// figureBody wraps a figure the way the service does: as a JSON string field.
func figureBody(t *testing.T, figure string, extra map[string]any) []byte {
	t.Helper()
	body := map[string]any{"status": "success", "figure": figure}
	for k, v := range extra {
		body[k] = v
	}
	out, err := json.Marshal(body)
	require.NoError(t, err)
	return out
}

type capturedRequest struct {
	header      http.Header
	form        map[string]string
	query       map[string][]string
	fileName    string
	method      string
	path        string
	contentType string
	fileBytes   []byte
	body        []byte
}

// recordingServer answers every request with status/body and records what it saw.
type recordingServer struct {
	*httptest.Server
	requests []capturedRequest
	mu       sync.Mutex
}

func newRecordingServer(t *testing.T, status int, body []byte) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.Query(),
			header:      r.Header.Clone(),
			contentType: r.Header.Get("Content-Type"),
			form:        map[string]string{},
		}

		if r.Method == http.MethodPost && r.Header.Get("Content-Type") != "application/json" {
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				for k, v := range r.MultipartForm.Value {
					captured.form[k] = v[0]
				}
				if files := r.MultipartForm.File["file"]; len(files) > 0 {
					captured.fileName = files[0].Filename
					f, err := files[0].Open()
					if err == nil {
						captured.fileBytes, _ = io.ReadAll(f)
						_ = f.Close()
					}
				}
			}
		} else {
			captured.body, _ = io.ReadAll(r.Body)
		}

		rs.mu.Lock()
		rs.requests = append(rs.requests, captured)
		rs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) last(t *testing.T) capturedRequest {
	t.Helper()
	rs.mu.Lock()
	defer rs.mu.Unlock()
	require.NotEmpty(t, rs.requests, "no request reached the server")
	return rs.requests[len(rs.requests)-1]
}

func TestFetchDefault(t *testing.T) {
	zone := model.DesignZone{MinTemp: 20, MaxTemp: 24, MinRH: 40, MaxRH: 60}

	tests := []struct {
		zone      *model.DesignZone
		wantQuery map[string]string
		name      string
		showZone  bool
	}{
		{
			name:      "zone hidden",
			showZone:  false,
			zone:      &zone,
			wantQuery: map[string]string{"showDesignZone": "false"},
		},
		{
			name:     "zone shown with bounds",
			showZone: true,
			zone:     &zone,
			wantQuery: map[string]string{
				"showDesignZone": "true",
				"minTemp":        "20",
				"maxTemp":        "24",
				"minRH":          "40",
				"maxRH":          "60",
			},
		},
		{
			name:      "zone shown without bounds",
			showZone:  true,
			wantQuery: map[string]string{"showDesignZone": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecordingServer(t, http.StatusOK, figureBody(t, testFigure, nil))
			client := New(srv.URL)

			payload, err := client.FetchDefault(context.Background(), tt.showZone, tt.zone)
			require.NoError(t, err)
			assert.JSONEq(t, testFigure, string(payload))

			got := srv.last(t)
			assert.Equal(t, http.MethodGet, got.method)
			assert.Equal(t, PathDefaultChart, got.path)
			assert.Len(t, got.query, len(tt.wantQuery))
			for k, v := range tt.wantQuery {
				assert.Equal(t, []string{v}, got.query[k], "query %s", k)
			}
		})
	}
}

func TestPlotManualPoint_WithoutZone(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, figureBody(t, testFigure, nil))
	client := New(srv.URL)

	payload, err := client.PlotManualPoint(context.Background(), model.ManualPoint{Temperature: 25, Humidity: 50}, false, nil)
	require.NoError(t, err)
	assert.JSONEq(t, testFigure, string(payload))

	got := srv.last(t)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, PathPlotPoint, got.path)
	assert.Contains(t, got.contentType, "multipart/form-data")
	assert.Equal(t, map[string]string{
		"temperature":    "25",
		"humidity":       "50",
		"showDesignZone": "false",
	}, got.form)
}

func TestPlotManualPoint_WithZone(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, figureBody(t, testFigure, nil))
	client := New(srv.URL)

	zone := model.DesignZone{MinTemp: 18.5, MaxTemp: 26, MinRH: 30, MaxRH: 65}
	_, err := client.PlotManualPoint(context.Background(), model.ManualPoint{Temperature: 22.5, Humidity: 47.25}, true, &zone)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"temperature":    "22.5",
		"humidity":       "47.25",
		"showDesignZone": "true",
		"minTemp":        "18.5",
		"maxTemp":        "26",
		"minRH":          "30",
		"maxRH":          "65",
	}, srv.last(t).form)
}

func TestGenerateFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := []byte("PK\x03\x04 fake workbook bytes")
	require.NoError(t, afero.WriteFile(fs, "/data/readings.xlsx", content, 0o644))

	srv := newRecordingServer(t, http.StatusOK, figureBody(t, testFigure, nil))

	var progress bytes.Buffer
	client := New(srv.URL, WithFs(fs), WithUploadProgress(&progress))

	zone := model.DefaultDesignZone()
	payload, err := client.GenerateFromFile(context.Background(), "/data/readings.xlsx", true, &zone)
	require.NoError(t, err)
	assert.JSONEq(t, testFigure, string(payload))

	got := srv.last(t)
	assert.Equal(t, PathGenerateChart, got.path)
	assert.Equal(t, "readings.xlsx", got.fileName)
	assert.Equal(t, content, got.fileBytes)
	assert.Equal(t, map[string]string{
		"showDesignZone": "true",
		"minTemp":        "20",
		"maxTemp":        "24",
		"minRH":          "40",
		"maxRH":          "60",
	}, got.form)
	assert.NotEmpty(t, progress.String(), "upload progress should be rendered")
}

func TestGenerateFromFile_MissingFile(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, figureBody(t, testFigure, nil))
	client := New(srv.URL, WithFs(afero.NewMemMapFs()))

	_, err := client.GenerateFromFile(context.Background(), "/nope.xlsx", false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope.xlsx")

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Empty(t, srv.requests, "no request is sent when the file cannot be read")
}

func TestClear(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, figureBody(t, testFigure, map[string]any{"message": "Data cleared successfully"}))
	client := New(srv.URL)

	payload, err := client.Clear(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, testFigure, string(payload))

	got := srv.last(t)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, PathClearData, got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Empty(t, got.body)
}

func TestClear_ApplicationFailure(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
	}{
		{name: "failure status", body: `{"status":"failure"}`, wantStatus: "failure"},
		{name: "failure with figure", body: `{"status":"error","message":"locked","figure":"{}"}`, wantStatus: "error"},
		{name: "missing status", body: `{"figure":"{}"}`, wantStatus: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecordingServer(t, http.StatusOK, []byte(tt.body))
			client := New(srv.URL)

			_, err := client.Clear(context.Background())
			var appErr *common.ApplicationError
			require.True(t, errors.As(err, &appErr), "expected ApplicationError, got %v", err)
			assert.Equal(t, "clear-data", appErr.Endpoint)
			assert.Equal(t, tt.wantStatus, appErr.Status)
		})
	}
}

func TestTransportErrors(t *testing.T) {
	srv := newRecordingServer(t, http.StatusBadRequest, []byte(`{"detail":"Invalid file type. Only .xlsx files are supported."}`))
	client := New(srv.URL)

	_, err := client.PlotManualPoint(context.Background(), model.ManualPoint{Temperature: 25, Humidity: 50}, false, nil)

	var tErr *common.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, http.StatusBadRequest, tErr.StatusCode)
	assert.Equal(t, "Bad Request", tErr.Error())
	assert.Equal(t, "Invalid file type. Only .xlsx files are supported.", tErr.Detail)
}

func TestTransportError_ValidationDetailList(t *testing.T) {
	srv := newRecordingServer(t, http.StatusUnprocessableEntity, []byte(`{"detail":[{"loc":["body","temperature"],"msg":"field required"}]}`))
	client := New(srv.URL)

	_, err := client.FetchDefault(context.Background(), false, nil)

	var tErr *common.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "Unprocessable Entity", tErr.Error())
	assert.Contains(t, tErr.Detail, "field required")
}

func TestMalformedResponses(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		body    string
	}{
		{name: "not json", body: `<html>oops</html>`, wantErr: common.ErrMalformedBody},
		{name: "missing figure", body: `{"status":"success"}`, wantErr: common.ErrMissingFigure},
		{name: "null figure", body: `{"figure":null}`, wantErr: common.ErrMissingFigure},
		{name: "empty figure", body: `{"figure":""}`, wantErr: common.ErrMissingFigure},
		{name: "figure not a string", body: `{"figure":{"data":[]}}`, wantErr: common.ErrMalformedBody},
		{name: "figure string not json", body: `{"figure":"{data"}`, wantErr: common.ErrMalformedFigure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecordingServer(t, http.StatusOK, []byte(tt.body))
			client := New(srv.URL)

			_, err := client.FetchDefault(context.Background(), false, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, figureBody(t, testFigure, nil))
	client := New(srv.URL+"/", WithUserAgent("psychro-test"))

	_, err := client.FetchDefault(context.Background(), false, nil)
	require.NoError(t, err)
	_, err = client.FetchDefault(context.Background(), false, nil)
	require.NoError(t, err)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.Len(t, srv.requests, 2)

	first := srv.requests[0].header.Get(RequestIDHeader)
	second := srv.requests[1].header.Get(RequestIDHeader)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second, "each request gets its own id")
	assert.Equal(t, "psychro-test", srv.requests[0].header.Get("User-Agent"))
	assert.Equal(t, PathDefaultChart, srv.requests[0].path, "trailing slash on the base URL is ignored")
}

func TestConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Clear(context.Background())
	require.Error(t, err)

	var tErr *common.TransportError
	assert.False(t, errors.As(err, &tErr), "network failures are not HTTP status failures")
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		status string
		want   string
		code   int
	}{
		{code: 500, status: "500 Internal Server Error", want: "Internal Server Error"},
		{code: 418, status: "418 I'm a teapot", want: "I'm a teapot"},
		{code: 404, status: "404", want: "Not Found"},
		{code: 599, status: "", want: "HTTP 599"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, statusText(&http.Response{StatusCode: tt.code, Status: tt.status}))
		})
	}
}
