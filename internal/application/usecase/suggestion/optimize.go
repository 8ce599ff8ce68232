package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/domain/suggestion"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

var tracer = otel.Tracer("suggestion_usecase")

var ErrMalformedReply = errors.New("model reply does not match the suggestion schema")

type OptimizeUseCase struct {
	llm      service.LLMService
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// llm may be nil when no model is configured; every request then fails as misconfigured.
func NewOptimizeUseCase(llm service.LLMService, m *metrics.Metrics, log logger.Logger) *OptimizeUseCase {
	return &OptimizeUseCase{
		llm:      llm,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  m,
		logger:   log,
	}
}

func (uc *OptimizeUseCase) Execute(ctx context.Context, input suggestion.Input) (*suggestion.Output, error) {
	input = input.Normalize()
	if err := uc.validate.Struct(input); err != nil {
		uc.metrics.SuggestionRequests.WithLabelValues("invalid").Inc()
		return nil, apperror.NewInvalidInput(describeValidation(err), err)
	}
	if uc.llm == nil {
		uc.metrics.SuggestionRequests.WithLabelValues("unavailable").Inc()
		return nil, apperror.NewAppError(apperror.ErrMisconfigured, "AI suggestions are not configured", "no language model is configured", nil)
	}

	ctx, span := tracer.Start(ctx, "Optimize")
	defer span.End()

	l := uc.logger.With(zap.Int("proposal_len", len(input.ProposalText)))
	l.Info("OptimizeUseCase generating suggestions")

	raw, err := uc.llm.GenerateSuggestion(ctx, buildPrompt(input))
	if err != nil {
		span.RecordError(err)
		uc.metrics.SuggestionRequests.WithLabelValues("error").Inc()
		l.Error("Language model request failed", err)
		return nil, apperror.NewInternal("failed to generate suggestions", err)
	}

	out, err := uc.decode(raw)
	if err != nil {
		span.RecordError(err)
		uc.metrics.SuggestionRequests.WithLabelValues("malformed").Inc()
		l.Error("Language model reply rejected", err)
		return nil, apperror.NewInternal("failed to generate suggestions", err)
	}

	uc.metrics.SuggestionRequests.WithLabelValues("ok").Inc()
	return out, nil
}

func (uc *OptimizeUseCase) decode(raw string) (*suggestion.Output, error) {
	var out suggestion.Output
	if err := json.Unmarshal([]byte(stripFence(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	out = out.Normalize()
	if err := uc.validate.Struct(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return &out, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe.Field())))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fieldName(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fieldName(fe.Field())))
		}
	}
	return strings.Join(msgs, "; ")
}

func fieldName(f string) string {
	switch f {
	case "ProposalText":
		return "proposal_text"
	case "UserEngagementData":
		return "user_engagement_data"
	case "CommunityNeeds":
		return "community_needs"
	}
	return f
}

func buildPrompt(in suggestion.Input) string {
	var b strings.Builder
	b.WriteString("You analyze community event and project proposals together with member engagement data.\n\n")
	b.WriteString("Suggest how to change the proposal so it better matches community interests and is more likely to be accepted. ")
	b.WriteString("Then write a revised version of the proposal that applies your suggestions.\n\n")
	b.WriteString("--- Proposal ---\n")
	b.WriteString(in.ProposalText)
	b.WriteString("\n\n--- User Engagement Data ---\n")
	b.WriteString(in.UserEngagementData)
	b.WriteString("\n\n--- Community Needs ---\n")
	b.WriteString(in.CommunityNeeds)
	b.WriteString("\n\n--- Answer ---\n")
	b.WriteString(`Reply with a single JSON object: {"suggestions": string, "revised_proposal": string}.`)
	return b.String()
}
