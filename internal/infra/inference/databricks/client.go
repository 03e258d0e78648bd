// Package databricks implements the remote transit-time predictor
// against a Databricks-style model serving endpoint.
package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skystream/logistics-cloud/internal/domain/shipment"
	apperrors "github.com/skystream/logistics-cloud/pkg/errors"
)

const defaultPredictionField = "predictions"

// columns is the exact training schema order; the data row must align
// positionally with it.
var columns = []string{
	"Carrier",
	"Origin_Warehouse",
	"Destination",
	"Shipment_Month",
	"Distance_miles",
	"Weight_kg",
	"Cost",
	"Status",
	"Delivery_Date",
}

// EndpointError reports a non-success HTTP status from the serving
// endpoint, keeping the raw body for the user-facing message.
type EndpointError struct {
	Status int
	Body   string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.Status, e.Body)
}

// Client performs inference requests against the serving endpoint.
type Client struct {
	endpointURL     string
	token           string
	predictionField string
	httpClient      *http.Client
}

// NewClient constructs an inference client. The URL and bearer token are
// resolved once at startup and injected here; the client never reads the
// environment itself.
func NewClient(endpointURL, token, predictionField string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(endpointURL) == "" {
		return nil, errors.New("serving endpoint url cannot be empty")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("serving endpoint token cannot be empty")
	}
	if strings.TrimSpace(predictionField) == "" {
		predictionField = defaultPredictionField
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpointURL:     endpointURL,
		token:           token,
		predictionField: predictionField,
		httpClient:      &http.Client{Timeout: timeout},
	}, nil
}

type dataframeSplit struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

type inferenceRequest struct {
	DataframeSplit dataframeSplit `json:"dataframe_split"`
}

// Predict sends one feature row and returns the predicted transit days.
// Every call is a fresh network round-trip: no caching, no automatic
// retry. Failures carry one of the codes network_error, endpoint_error
// or malformed_response.
func (c *Client) Predict(ctx context.Context, req shipment.ShipmentRequest) (float64, error) {
	payload, err := json.Marshal(inferenceRequest{
		DataframeSplit: dataframeSplit{
			Columns: columns,
			Data: [][]any{{
				string(req.Carrier),
				req.OriginWarehouse,
				req.Destination,
				string(req.ShipmentMonth),
				req.DistanceMiles,
				req.WeightKg,
				req.Cost,
				req.Status,
				req.DeliveryDate,
			}},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("encode inference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build inference request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, apperrors.Wrap("network_error", "inference request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, apperrors.Wrap("network_error", "read inference response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, apperrors.Wrap("endpoint_error", "serving endpoint rejected the request", &EndpointError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		})
	}

	days, err := c.parsePrediction(body)
	if err != nil {
		return 0, apperrors.Wrap("malformed_response", "serving endpoint response malformed", err)
	}
	return days, nil
}

// parsePrediction extracts the numeric prediction. The field name is
// configuration, not a hard-coded literal, and the value may be either a
// scalar or a one-row array depending on the deployed model signature.
func (c *Client) parsePrediction(body []byte) (float64, error) {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(body, &wire); err != nil {
		return 0, fmt.Errorf("decode response body: %w", err)
	}

	raw, ok := wire[c.predictionField]
	if !ok {
		return 0, fmt.Errorf("response missing field %q", c.predictionField)
	}

	var scalar float64
	if err := json.Unmarshal(raw, &scalar); err == nil {
		return scalar, nil
	}

	var list []float64
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return 0, fmt.Errorf("field %q holds an empty array", c.predictionField)
		}
		return list[0], nil
	}

	return 0, fmt.Errorf("field %q is not numeric", c.predictionField)
}

var _ shipment.Predictor = (*Client)(nil)
