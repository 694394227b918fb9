// Package face talks to the external face-recognition service and adapts it
// to the engine's enrollment gateway contract.
package face

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds every call to the face service. The remote capability
// cold-starts slowly, so this is deliberately generous.
const DefaultTimeout = 90 * time.Second

// ErrServiceUnavailable marks transport-level failures (connection refused,
// timeout, 5xx). Distinct from a verification non-match, which is a
// definitive answer.
var ErrServiceUnavailable = errors.New("face service unavailable")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	EmployeeID         string `json:"employee_id"`
	ImageBase64ToCheck string `json:"image_base64_to_check"`
}

// VerifyResult is the service's answer for one sample.
type VerifyResult struct {
	Match    bool    `json:"match"`
	Reason   string  `json:"reason"`
	Distance float64 `json:"distance"`
}

type enrollRequest struct {
	EmployeeID  string `json:"employee_id"`
	ImageBase64 string `json:"image_base64"`
}

type enrollResponse struct {
	TemplateRef string `json:"template_ref"`
	Message     string `json:"message"`
}

// Verify submits a sample for comparison against the enrolled template.
// A 400 from the service is a definitive non-match (bad sample, no face
// detected); anything transport-shaped maps to ErrServiceUnavailable.
func (c *Client) Verify(ctx context.Context, employeeID, imageBase64 string) (VerifyResult, error) {
	body, err := c.post(ctx, "/verify_face", verifyRequest{
		EmployeeID:         employeeID,
		ImageBase64ToCheck: imageBase64,
	}, http.StatusOK, http.StatusBadRequest)
	if err != nil {
		return VerifyResult{}, err
	}

	var result VerifyResult
	if err := json.Unmarshal(body, &result); err != nil {
		return VerifyResult{}, errors.Wrap(err, "decoding verify response")
	}
	return result, nil
}

// Enroll registers a face template for the employee and returns the remote
// template reference.
func (c *Client) Enroll(ctx context.Context, employeeID, imageBase64 string) (string, error) {
	body, err := c.post(ctx, "/enroll_face", enrollRequest{
		EmployeeID:  employeeID,
		ImageBase64: imageBase64,
	}, http.StatusOK, http.StatusCreated)
	if err != nil {
		return "", err
	}

	var result enrollResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", errors.Wrap(err, "decoding enroll response")
	}
	if result.TemplateRef == "" {
		return "", errors.New("no face detected in the image")
	}
	return result.TemplateRef, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}, acceptedStatuses ...int) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrServiceUnavailable, "calling %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	if !statusAccepted(resp.StatusCode, acceptedStatuses) {
		return nil, errors.Wrapf(ErrServiceUnavailable, "%s returned status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	return body, nil
}

func statusAccepted(code int, accepted []int) bool {
	for _, s := range accepted {
		if code == s {
			return true
		}
	}
	return false
}
