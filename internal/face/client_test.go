package face

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify_face", r.URL.Path)

		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req["employee_id"])
		assert.NotEmpty(t, req["image_base64_to_check"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"match":    true,
			"distance": 0.31,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result, err := client.Verify(context.Background(), "42", "aW1hZ2U=")
	assert.NoError(t, err)
	assert.True(t, result.Match)
	assert.InDelta(t, 0.31, result.Distance, 0.001)
}

func TestClient_Verify_NonMatchIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"match":  false,
			"reason": "no face detected",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result, err := client.Verify(context.Background(), "42", "aW1hZ2U=")
	assert.NoError(t, err)
	assert.False(t, result.Match)
	assert.Equal(t, "no face detected", result.Reason)
}

func TestClient_Verify_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Verify(context.Background(), "42", "aW1hZ2U=")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClient_Verify_ConnectionRefusedIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Verify(context.Background(), "42", "aW1hZ2U=")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClient_Enroll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enroll_face", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"template_ref": "tmpl-42",
			"message":      "enrolled",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	ref, err := client.Enroll(context.Background(), "42", "aW1hZ2U=")
	assert.NoError(t, err)
	assert.Equal(t, "tmpl-42", ref)
}

func TestClient_Enroll_NoTemplateRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "no face found"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Enroll(context.Background(), "42", "aW1hZ2U=")
	assert.Error(t, err)
}
