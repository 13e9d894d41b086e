package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
	"sentinel-server/internal/service"
)

// stubAIClient returns a canned response or error for every call.
type stubAIClient struct {
	response string
	err      error
	calls    int
}

func (s *stubAIClient) GenerateText(_ context.Context, _, _ string) (string, service.UsageInfo, error) {
	s.calls++
	if s.err != nil {
		return "", service.UsageInfo{}, s.err
	}
	return s.response, service.UsageInfo{TotalTokens: 42}, nil
}

func TestScannerService_AnalyzeContent(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a well-formed answer", func(t *testing.T) {
		ai := &stubAIClient{response: "Risk level: high\n" +
			"Explanation: This matches the classic MoMo reversal pattern.\n" +
			"Advice: Do not send anything back; call your provider."}
		svc := service.NewScannerService(ai, zap.NewNop())

		analysis, err := svc.AnalyzeContent(ctx, "I sent you money by mistake, please reverse it")
		require.NoError(t, err)
		assert.Equal(t, models.RiskHigh, analysis.Risk)
		assert.Equal(t, "This matches the classic MoMo reversal pattern.", analysis.Explanation)
		assert.Equal(t, "Do not send anything back; call your provider.", analysis.Advice)
	})

	t.Run("risk label is case-insensitive", func(t *testing.T) {
		ai := &stubAIClient{response: "RISK LEVEL: Low\nExplanation: Looks like a normal receipt.\nAdvice: Nothing to do."}
		svc := service.NewScannerService(ai, zap.NewNop())

		analysis, err := svc.AnalyzeContent(ctx, "receipt text")
		require.NoError(t, err)
		assert.Equal(t, models.RiskLow, analysis.Risk)
	})

	t.Run("unformatted answer degrades to medium with full text", func(t *testing.T) {
		freeform := "This looks suspicious but I cannot be sure."
		ai := &stubAIClient{response: freeform}
		svc := service.NewScannerService(ai, zap.NewNop())

		analysis, err := svc.AnalyzeContent(ctx, "weird message")
		require.NoError(t, err)
		assert.Equal(t, models.RiskMedium, analysis.Risk)
		assert.Equal(t, freeform, analysis.Explanation)
		assert.NotEmpty(t, analysis.Advice)
	})

	t.Run("AI outage returns the cautious fallback", func(t *testing.T) {
		ai := &stubAIClient{err: fmt.Errorf("%w: upstream 503", service.ErrAIGenerationFailed)}
		svc := service.NewScannerService(ai, zap.NewNop())

		analysis, err := svc.AnalyzeContent(ctx, "some message")
		require.NoError(t, err)
		assert.Equal(t, models.RiskMedium, analysis.Risk)
		assert.Equal(t, "Unable to analyze at this time.", analysis.Explanation)
	})

	t.Run("oversized prompt propagates", func(t *testing.T) {
		ai := &stubAIClient{err: fmt.Errorf("%w: 9000 tokens", service.ErrPromptTooLarge)}
		svc := service.NewScannerService(ai, zap.NewNop())

		_, err := svc.AnalyzeContent(ctx, "huge message")
		assert.ErrorIs(t, err, service.ErrPromptTooLarge)
	})

	t.Run("blank input is rejected without an AI call", func(t *testing.T) {
		ai := &stubAIClient{err: errors.New("must not be called")}
		svc := service.NewScannerService(ai, zap.NewNop())

		_, err := svc.AnalyzeContent(ctx, "   ")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		assert.Zero(t, ai.calls)
	})
}
