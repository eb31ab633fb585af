package chartclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/psychro/internal/model"
	"github.com/schollz/progressbar/v3"
)

// Form and query field names.
const (
	fieldShowZone    = "showDesignZone"
	fieldMinTemp     = "minTemp"
	fieldMaxTemp     = "maxTemp"
	fieldMinRH       = "minRH"
	fieldMaxRH       = "maxRH"
	fieldFile        = "file"
	fieldTemperature = "temperature"
	fieldHumidity    = "humidity"
)

type field struct {
	name  string
	value string
}

// zoneFields returns showDesignZone followed by the four bounds when they apply.
func zoneFields(showZone bool, zone *model.DesignZone) []field {
	fields := []field{{fieldShowZone, strconv.FormatBool(showZone)}}
	if !showZone || zone == nil {
		return fields
	}
	return append(fields,
		field{fieldMinTemp, model.FormatNumber(zone.MinTemp)},
		field{fieldMaxTemp, model.FormatNumber(zone.MaxTemp)},
		field{fieldMinRH, model.FormatNumber(zone.MinRH)},
		field{fieldMaxRH, model.FormatNumber(zone.MaxRH)},
	)
}

func (c *Client) newDefaultRequest(ctx context.Context, showZone bool, zone *model.DesignZone) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + PathDefaultChart)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	for _, f := range zoneFields(showZone, zone) {
		q.Set(f.name, f.value)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

func (c *Client) newPointRequest(ctx context.Context, point model.ManualPoint, showZone bool, zone *model.DesignZone) (*http.Request, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := []field{
		{fieldTemperature, model.FormatNumber(point.Temperature)},
		{fieldHumidity, model.FormatNumber(point.Humidity)},
	}
	fields = append(fields, zoneFields(showZone, zone)...)
	if err := writeFields(mw, fields); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	return c.newMultipartRequest(ctx, PathPlotPoint, mw.FormDataContentType(), &body, "")
}

func (c *Client) newFileRequest(ctx context.Context, path string, showZone bool, zone *model.DesignZone) (*http.Request, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile(fieldFile, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := writeFields(mw, zoneFields(showZone, zone)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	return c.newMultipartRequest(ctx, PathGenerateChart, mw.FormDataContentType(), &body, filepath.Base(path))
}

// newMultipartRequest wraps the encoded form in a progress reader when an
// upload name is given and progress output is configured.
func (c *Client) newMultipartRequest(ctx context.Context, path, contentType string, body *bytes.Buffer, upload string) (*http.Request, error) {
	size := int64(body.Len())

	var reader io.Reader = body
	if upload != "" && c.progress != nil {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(c.progress),
			progressbar.OptionSetDescription("Uploading "+upload),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		reader = io.TeeReader(body, bar)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

func writeFields(mw *multipart.Writer, fields []field) error {
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}
	return nil
}
