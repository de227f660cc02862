package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/prompts"
	"github.com/gabeliss/kandidly/internal/utils"
)

// SubmissionAnalyzer implements lifecycle.Analyzer on top of an LLM
// provider. It builds the evaluation prompt, calls the provider, and parses
// the JSON verdict.
type SubmissionAnalyzer struct {
	provider      Provider
	promptManager prompts.PromptProvider
	logger        *zap.Logger
}

func NewSubmissionAnalyzer(provider Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *SubmissionAnalyzer {
	return &SubmissionAnalyzer{
		provider:      provider,
		promptManager: promptManager,
		logger:        logger,
	}
}

func (a *SubmissionAnalyzer) Analyze(ctx context.Context, challenge *models.Challenge, submissionNotes, artifactRef string) (*models.Evaluation, error) {
	prompt, err := a.promptManager.BuildPrompt("evaluate", map[string]string{
		"Title":        challenge.Title,
		"Description":  challenge.Description,
		"Instructions": challenge.Instructions,
		"Notes":        submissionNotes,
		"ArtifactRef":  artifactRef,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	raw, err := a.provider.GenerateAnalysis(ctx, prompt)
	if err != nil {
		return nil, err
	}

	eval, err := parseEvaluation(raw)
	if err != nil {
		a.logger.Error("unparseable analysis response",
			zap.String("provider", a.provider.GetProviderName()),
			zap.Error(err))
		return nil, err
	}
	return eval, nil
}

// parseEvaluation decodes the provider's JSON verdict. Models wrap JSON in
// code fences often enough that stripping them first is worth it.
func parseEvaluation(raw string) (*models.Evaluation, error) {
	cleaned := utils.StripFences(raw)

	var eval models.Evaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return nil, fmt.Errorf("analysis response is not valid JSON: %w", err)
	}
	if err := eval.Validate(); err != nil {
		return nil, fmt.Errorf("analysis response rejected: %w", err)
	}
	return &eval, nil
}
