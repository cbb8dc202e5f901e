// Package datadog uploads FOCUS batches to the Datadog Custom Costs API.
// A batch is all-or-nothing: any failure means nothing was ingested.
package datadog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"go.uber.org/zap"

	"github.com/CruGlobal/datadog-custom-costs/core/focus"
	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/internal/logging"
	"github.com/CruGlobal/datadog-custom-costs/internal/transport"
)

const costsPath = "/api/v2/cost/custom_costs"

// Uploader submits cost record batches as a multipart file PUT
type Uploader struct {
	http    *http.Client
	baseURL string
	apiKey  string
	appKey  string
}

// NewUploader validates credentials and builds the sink. Missing keys fail
// here, before a run spends time collecting.
func NewUploader(cfg config.DatadogConfig, httpCfg config.HTTPConfig) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Uploader{
		http:    transport.NewClient(transport.FromConfig(httpCfg, "")),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		appKey:  cfg.AppKey,
	}, nil
}

// Name identifies the sink in logs
func (u *Uploader) Name() string {
	return "datadog"
}

// Upload submits the whole batch under a source label. The upload is a
// multipart PUT of one JSON file named after the source and the batch's
// date range.
func (u *Uploader) Upload(ctx context.Context, records []focus.Record, source string) error {
	if len(records) == 0 {
		return errors.Sink("no cost data to upload", nil)
	}

	payload, err := focus.MarshalBatch(records)
	if err != nil {
		return errors.Internal("marshaling cost batch", err)
	}

	filename := uploadFilename(records, source)
	logging.Info("uploading cost records",
		zap.Int("records", len(records)),
		zap.String("source", source),
		zap.String("filename", filename))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := createJSONPart(writer, filename)
	if err != nil {
		return errors.Internal("building multipart body", err)
	}
	if _, err := part.Write(payload); err != nil {
		return errors.Internal("building multipart body", err)
	}
	if err := writer.Close(); err != nil {
		return errors.Internal("building multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.baseURL+costsPath, &body)
	if err != nil {
		return errors.Internal("building upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("DD-API-KEY", u.apiKey)
	req.Header.Set("DD-APPLICATION-KEY", u.appKey)

	resp, err := u.http.Do(req)
	if err != nil {
		return errors.Transport("upload request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case 401:
			return errors.Auth("Authentication failed. Check your DD_API_KEY.")
		case 403:
			return errors.Permission("Forbidden. Check your DD_APPLICATION_KEY permissions.")
		default:
			return errors.Newf(errors.TypeSink, "upload failed with status %d: %s",
				resp.StatusCode, respBody)
		}
	}

	// Ingestion is asynchronous on the Datadog side; visibility lags the
	// accepted upload by up to 24-48 hours.
	logging.Info("upload accepted", zap.Int("records", len(records)))
	return nil
}

// uploadFilename names the batch file after the source and its date range:
// source_date.json for a single day, source_start_to_end.json otherwise.
func uploadFilename(records []focus.Record, source string) string {
	if source == "" {
		source = "data"
	}

	start := records[0].ChargePeriodStart
	end := records[0].ChargePeriodEnd
	for _, r := range records[1:] {
		if r.ChargePeriodStart < start {
			start = r.ChargePeriodStart
		}
		if r.ChargePeriodEnd > end {
			end = r.ChargePeriodEnd
		}
	}

	if start == end {
		return fmt.Sprintf("%s_%s.json", source, start)
	}
	return fmt.Sprintf("%s_%s_to_%s.json", source, start, end)
}

// createJSONPart writes a file part carrying an application/json content
// type; CreateFormFile would stamp application/octet-stream.
func createJSONPart(writer *multipart.Writer, filename string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", "application/json")
	return writer.CreatePart(header)
}
