package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
	apperrors "github.com/parwely/brands-intelligence-platform/internal/errors"
)

const defaultWindowHours = 24

type mentionPayload struct {
	Text      string            `json:"text"`
	Timestamp time.Time         `json:"timestamp,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type sentimentResponse struct {
	Score                float64               `json:"score"`
	Label                domain.SentimentLabel `json:"label"`
	Confidence           float64               `json:"confidence"`
	ModelUsed            domain.ModelUsed      `json:"model_used"`
	CrisisIndicatorCount int                   `json:"crisis_indicator_count"`
}

type crisisResponse struct {
	Score               float64            `json:"score"`
	Level               domain.CrisisLevel `json:"level"`
	BaseScore           float64            `json:"base_score"`
	VelocityScore       float64            `json:"velocity_score"`
	IntensityMultiplier float64            `json:"intensity_multiplier"`
	MatchedKeywords     []string           `json:"matched_keywords"`
	Urgency             domain.Urgency     `json:"urgency"`
	Timestamp           time.Time          `json:"timestamp"`
}

type healthResponse struct {
	Brand           string             `json:"brand"`
	HealthScore     float64            `json:"health_score"`
	HealthLevel     domain.HealthLevel `json:"health_level"`
	Sentiment       sentimentMetrics   `json:"sentiment"`
	Crisis          crisisMetrics      `json:"crisis"`
	Recommendations []string           `json:"recommendations"`
	WindowHours     int                `json:"window_hours"`
}

type sentimentMetrics struct {
	Average       float64 `json:"average"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
	TotalMentions int     `json:"total_mentions"`
}

type crisisSummaryResponse struct {
	Brand           string           `json:"brand"`
	TotalIncidents  int              `json:"total_incidents"`
	RecentIncidents int              `json:"recent_incidents"`
	MaxScore        float64          `json:"max_score"`
	AvgScore        float64          `json:"avg_score"`
	CurrentVelocity float64          `json:"current_velocity"`
	RiskLevel       domain.RiskLevel `json:"risk_level"`
}

type crisisMetrics struct {
	MaxScore      float64            `json:"max_score"`
	DominantLevel domain.CrisisLevel `json:"dominant_level"`
	FlaggedCount  int                `json:"flagged_count"`
}

func (s *Server) handleAnalyzeSentiment(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Text == "" {
		return apperrors.ValidationError("text is required").WithField("field", "text")
	}

	result := s.engine.ScoreSentiment(c.Request().Context(), req.Text)

	if err := c.JSON(200, map[string]any{
		"id":        uuid.NewString(),
		"sentiment": toSentimentResponse(result),
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyzeSentimentBatch(c echo.Context) error {
	var req struct {
		Texts []string `json:"texts"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if len(req.Texts) == 0 {
		return apperrors.ValidationError("texts is required").WithField("field", "texts")
	}

	results := s.engine.ScoreSentimentBatch(c.Request().Context(), req.Texts)

	out := make([]sentimentResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toSentimentResponse(r))
	}

	if err := c.JSON(200, map[string]any{
		"id":      uuid.NewString(),
		"results": out,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyzeCrisis(c echo.Context) error {
	var req struct {
		Text      string    `json:"text"`
		Brand     string    `json:"brand"`
		Timestamp time.Time `json:"timestamp,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Brand == "" {
		return apperrors.ValidationError("brand is required").WithField("field", "brand")
	}
	if req.Text == "" {
		return apperrors.ValidationError("text is required").WithField("field", "text")
	}
	c.Set("brand", req.Brand)

	result := s.engine.DetectCrisis(c.Request().Context(), req.Text, req.Brand, req.Timestamp)

	if err := c.JSON(200, map[string]any{
		"brand":  req.Brand,
		"crisis": toCrisisResponse(result),
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyzeCrisisBatch(c echo.Context) error {
	var req struct {
		Brand    string           `json:"brand"`
		Mentions []mentionPayload `json:"mentions"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Brand == "" {
		return apperrors.ValidationError("brand is required").WithField("field", "brand")
	}
	c.Set("brand", req.Brand)

	mentions := make([]domain.Mention, 0, len(req.Mentions))
	for _, m := range req.Mentions {
		mentions = append(mentions, domain.Mention{
			Text:      m.Text,
			Brand:     req.Brand,
			Timestamp: m.Timestamp,
			Metadata:  m.Metadata,
		})
	}

	results := s.engine.DetectCrisisBatch(c.Request().Context(), mentions, req.Brand)

	out := make([]crisisResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toCrisisResponse(r))
	}

	if err := c.JSON(200, map[string]any{
		"brand":   req.Brand,
		"results": out,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyzeMention(c echo.Context) error {
	var req struct {
		Text      string            `json:"text"`
		Brand     string            `json:"brand"`
		Timestamp time.Time         `json:"timestamp,omitempty"`
		Metadata  map[string]string `json:"metadata,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Brand == "" {
		return apperrors.ValidationError("brand is required").WithField("field", "brand")
	}
	if req.Text == "" {
		return apperrors.ValidationError("text is required").WithField("field", "text")
	}
	c.Set("brand", req.Brand)

	analysis := s.engine.AnalyzeMention(c.Request().Context(), domain.Mention{
		Text:      req.Text,
		Brand:     req.Brand,
		Timestamp: req.Timestamp,
		Metadata:  req.Metadata,
	})

	if err := c.JSON(200, map[string]any{
		"id":        uuid.NewString(),
		"brand":     req.Brand,
		"sentiment": toSentimentResponse(analysis.Sentiment),
		"crisis":    toCrisisResponse(analysis.Crisis),
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleBrandHealth(c echo.Context) error {
	var req struct {
		Brand       string           `json:"brand"`
		WindowHours int              `json:"window_hours,omitempty"`
		Mentions    []mentionPayload `json:"mentions"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Brand == "" {
		return apperrors.ValidationError("brand is required").WithField("field", "brand")
	}
	c.Set("brand", req.Brand)

	windowHours := req.WindowHours
	if windowHours <= 0 {
		windowHours = defaultWindowHours
	}

	ctx := c.Request().Context()
	analyses := make([]domain.MentionAnalysis, 0, len(req.Mentions))
	for _, m := range req.Mentions {
		analyses = append(analyses, s.engine.AnalyzeMention(ctx, domain.Mention{
			Text:      m.Text,
			Brand:     req.Brand,
			Timestamp: m.Timestamp,
			Metadata:  m.Metadata,
		}))
	}

	report := s.engine.AssessBrandHealth(ctx, req.Brand, analyses, windowHours)

	if err := c.JSON(200, toHealthResponse(report)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleBrandCrisisSummary(c echo.Context) error {
	brand := c.Param("brand")
	if brand == "" {
		return apperrors.ValidationError("brand is required").WithField("field", "brand")
	}
	c.Set("brand", brand)

	summary := s.engine.BrandCrisisSummary(brand)

	if err := c.JSON(200, crisisSummaryResponse{
		Brand:           summary.Brand,
		TotalIncidents:  summary.TotalIncidents,
		RecentIncidents: summary.RecentIncidents,
		MaxScore:        summary.MaxScore,
		AvgScore:        summary.AvgScore,
		CurrentVelocity: summary.CurrentVelocity,
		RiskLevel:       summary.RiskLevel,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(200, s.engine.Status())
}

func toSentimentResponse(r domain.SentimentResult) sentimentResponse {
	return sentimentResponse{
		Score:                r.Score,
		Label:                r.Label,
		Confidence:           r.Confidence,
		ModelUsed:            r.ModelUsed,
		CrisisIndicatorCount: r.CrisisIndicatorCount,
	}
}

func toCrisisResponse(r domain.CrisisResult) crisisResponse {
	return crisisResponse{
		Score:               r.Score,
		Level:               r.Level,
		BaseScore:           r.BaseScore,
		VelocityScore:       r.VelocityScore,
		IntensityMultiplier: r.IntensityMultiplier,
		MatchedKeywords:     r.MatchedKeywords,
		Urgency:             r.Urgency,
		Timestamp:           r.Timestamp,
	}
}

func toHealthResponse(r domain.BrandHealthReport) healthResponse {
	return healthResponse{
		Brand:       r.Brand,
		HealthScore: r.HealthScore,
		HealthLevel: r.HealthLevel,
		Sentiment: sentimentMetrics{
			Average:       r.Sentiment.Average,
			PositiveRatio: r.Sentiment.PositiveRatio,
			NegativeRatio: r.Sentiment.NegativeRatio,
			NeutralRatio:  r.Sentiment.NeutralRatio,
			TotalMentions: r.Sentiment.TotalMentions,
		},
		Crisis: crisisMetrics{
			MaxScore:      r.Crisis.MaxScore,
			DominantLevel: r.Crisis.DominantLevel,
			FlaggedCount:  r.Crisis.FlaggedCount,
		},
		Recommendations: r.Recommendations,
		WindowHours:     r.WindowHours,
	}
}
