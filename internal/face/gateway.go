package face

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"intelliface/backend/internal/attendance"
)

// TemplateStore reports whether a user has an enrolled face template.
// Implemented by the user repository.
type TemplateStore interface {
	HasFaceTemplate(ctx context.Context, userID int) (bool, error)
}

// Verifier is the remote comparison capability, implemented by Client.
type Verifier interface {
	Verify(ctx context.Context, employeeID, imageBase64 string) (VerifyResult, error)
}

// Gateway joins local enrollment state with the remote verification service
// and implements attendance.EnrollmentGateway.
type Gateway struct {
	templates TemplateStore
	verifier  Verifier
}

func NewGateway(templates TemplateStore, verifier Verifier) *Gateway {
	return &Gateway{templates: templates, verifier: verifier}
}

func (g *Gateway) HasEnrollment(ctx context.Context, userID int) (bool, error) {
	return g.templates.HasFaceTemplate(ctx, userID)
}

// VerifySample forwards the sample to the face service. Transport failures
// surface as attendance.ErrVerificationUnavailable so callers can
// distinguish a retryable outage from a definitive mismatch.
func (g *Gateway) VerifySample(ctx context.Context, userID int, sample attendance.Sample) (attendance.MatchResult, error) {
	result, err := g.verifier.Verify(ctx, strconv.Itoa(userID), sample.Data)
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			return attendance.MatchResult{}, errors.Wrap(attendance.ErrVerificationUnavailable, err.Error())
		}
		return attendance.MatchResult{}, err
	}

	return attendance.MatchResult{IsMatch: result.Match, Reason: result.Reason}, nil
}
