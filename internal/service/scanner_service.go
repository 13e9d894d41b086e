package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

// scamAnalysisPrompt instructs the model to grade a suspicious message or
// screenshot description. Mirrors the mobile client's analysis flow.
const scamAnalysisPrompt = `Analyze this image/text for potential scams, fraud, or digital abuse patterns.
Focus on common African contexts like MoMo reversals, romance fraud, job scams, photo leaks.
Provide a risk level (low/medium/high), brief explanation, and safety advice.
Format the answer as three labelled sections: "Risk level:", "Explanation:", "Advice:".
Keep response under 200 words.`

// ScannerService grades suspicious content with the AI backend.
type ScannerService interface {
	// AnalyzeContent returns a risk assessment for the given text. An AI
	// outage degrades to a cautious medium-risk answer instead of failing
	// the request; ErrPromptTooLarge still propagates because retrying the
	// same input cannot succeed.
	AnalyzeContent(ctx context.Context, text string) (*models.ScamAnalysis, error)
}

type scannerService struct {
	ai     AIClient
	logger *zap.Logger
}

// NewScannerService creates a ScannerService.
func NewScannerService(ai AIClient, logger *zap.Logger) ScannerService {
	return &scannerService{
		ai:     ai,
		logger: logger.Named("ScannerService"),
	}
}

var riskLevelPattern = regexp.MustCompile(`(?i)risk level:?\s*(low|medium|high)`)

func (s *scannerService) AnalyzeContent(ctx context.Context, text string) (*models.ScamAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrInvalidInput
	}

	response, usage, err := s.ai.GenerateText(ctx, scamAnalysisPrompt, "Text context: "+text)
	if err != nil {
		if errors.Is(err, ErrPromptTooLarge) {
			return nil, err
		}
		s.logger.Warn("AI analysis failed, returning fallback assessment", zap.Error(err))
		return &models.ScamAnalysis{
			Risk:        models.RiskMedium,
			Explanation: "Unable to analyze at this time.",
			Advice:      "When in doubt, don't engage. Report to authorities if concerned.",
		}, nil
	}

	s.logger.Debug("Content analyzed", zap.Int("totalTokens", usage.TotalTokens))
	return parseScamAnalysis(response), nil
}

// parseScamAnalysis extracts the labelled sections from the model's answer.
// Models do not always follow the format, so each field falls back to
// something usable instead of erroring.
func parseScamAnalysis(response string) *models.ScamAnalysis {
	analysis := &models.ScamAnalysis{
		Risk:        models.RiskMedium,
		Explanation: strings.TrimSpace(response),
		Advice:      "Stay vigilant and report suspicious activity.",
	}

	if m := riskLevelPattern.FindStringSubmatch(response); m != nil {
		analysis.Risk = models.RiskLevel(strings.ToLower(m[1]))
	}

	lower := strings.ToLower(response)
	if i := strings.Index(lower, "explanation:"); i >= 0 {
		rest := response[i+len("explanation:"):]
		if j := strings.Index(strings.ToLower(rest), "advice:"); j >= 0 {
			analysis.Explanation = strings.TrimSpace(rest[:j])
		} else {
			analysis.Explanation = strings.TrimSpace(rest)
		}
	}
	if i := strings.Index(lower, "advice:"); i >= 0 {
		if advice := strings.TrimSpace(response[i+len("advice:"):]); advice != "" {
			analysis.Advice = advice
		}
	}

	return analysis
}
