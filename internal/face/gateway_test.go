package face

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"intelliface/backend/internal/attendance"
)

type fakeTemplates struct {
	hasFn func(ctx context.Context, userID int) (bool, error)
}

func (f *fakeTemplates) HasFaceTemplate(ctx context.Context, userID int) (bool, error) {
	return f.hasFn(ctx, userID)
}

type fakeVerifier struct {
	verifyFn func(ctx context.Context, employeeID, imageBase64 string) (VerifyResult, error)
}

func (f *fakeVerifier) Verify(ctx context.Context, employeeID, imageBase64 string) (VerifyResult, error) {
	return f.verifyFn(ctx, employeeID, imageBase64)
}

func TestGateway_HasEnrollment(t *testing.T) {
	templates := &fakeTemplates{hasFn: func(ctx context.Context, userID int) (bool, error) {
		return userID == 7, nil
	}}
	gateway := NewGateway(templates, &fakeVerifier{})

	enrolled, err := gateway.HasEnrollment(context.Background(), 7)
	assert.NoError(t, err)
	assert.True(t, enrolled)

	enrolled, err = gateway.HasEnrollment(context.Background(), 8)
	assert.NoError(t, err)
	assert.False(t, enrolled)
}

func TestGateway_VerifySample(t *testing.T) {
	verifier := &fakeVerifier{verifyFn: func(ctx context.Context, employeeID, imageBase64 string) (VerifyResult, error) {
		assert.Equal(t, "7", employeeID)
		return VerifyResult{Match: true}, nil
	}}
	gateway := NewGateway(&fakeTemplates{}, verifier)

	result, err := gateway.VerifySample(context.Background(), 7, attendance.Sample{Data: "aW1hZ2U="})
	assert.NoError(t, err)
	assert.True(t, result.IsMatch)
}

func TestGateway_VerifySample_TransportFailure(t *testing.T) {
	verifier := &fakeVerifier{verifyFn: func(ctx context.Context, employeeID, imageBase64 string) (VerifyResult, error) {
		return VerifyResult{}, errors.Wrap(ErrServiceUnavailable, "dial tcp: connection refused")
	}}
	gateway := NewGateway(&fakeTemplates{}, verifier)

	_, err := gateway.VerifySample(context.Background(), 7, attendance.Sample{Data: "aW1hZ2U="})
	assert.ErrorIs(t, err, attendance.ErrVerificationUnavailable)
	assert.NotErrorIs(t, err, attendance.ErrFaceMismatch)
}
