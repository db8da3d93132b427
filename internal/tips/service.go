package tips

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/gemini"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
	redislib "github.com/redis/go-redis/v9"
)

const dateLayout = "2006-01-02"

// tipPrompt asks the model for one standalone tip per day.
const tipPrompt = `You are an expert agricultural advisor. Generate ONE practical, actionable farming tip.

Requirements:
- Keep it concise (2-3 sentences maximum, around 50-80 words)
- Make it practical and actionable
- Focus on one specific aspect (crop care, soil health, pest management, water conservation, etc.)
- Use simple, clear language
- Make it relevant for small to medium-scale farmers
- Don't include greetings or sign-offs, just the tip itself

Generate a unique farming tip now:`

// defaultFallbackTips back the endpoint when the model is down and no cached
// tip exists. The endpoint never errors.
var defaultFallbackTips = []string{
	"Water your plants early in the morning to reduce water loss through evaporation. This also helps prevent fungal diseases that thrive in moist conditions during cooler evening hours.",
	"Rotate your crops each season to prevent soil nutrient depletion and reduce pest buildup. For example, follow nitrogen-fixing legumes with heavy feeders like corn or tomatoes.",
	"Apply mulch around your plants to retain soil moisture, regulate temperature, and suppress weeds. Organic mulches also improve soil health as they decompose.",
	"Monitor your crops regularly for early signs of pests or diseases. Early detection allows for quicker intervention and prevents widespread damage to your harvest.",
	"Test your soil pH annually to ensure optimal nutrient availability. Most crops thrive in slightly acidic to neutral soil (pH 6.0-7.0).",
}

type tipStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	TipKey(date string) string
}

type generator interface {
	GenerateContent(ctx context.Context, systemInstruction string, turns []gemini.Turn) (string, error)
}

// TipResponse is the daily tip payload. Cached marks a redis hit; Fallback
// marks anything other than a fresh same-day generation.
type TipResponse struct {
	Tip      string `json:"tip"`
	Cached   bool   `json:"cached"`
	Fallback bool   `json:"fallback"`
	Date     string `json:"date"`
}

// Service serves the daily farming tip with its degrade chain.
type Service struct {
	store     tipStore
	generator generator
	cacheTTL  time.Duration
	logg      *logger.Logger
	now       func() time.Time
	pick      func(n int) int
}

// ServiceParams packages the dependencies for the tip service. Now and Pick
// default to the wall clock and a seeded random pick.
type ServiceParams struct {
	Store     tipStore
	Generator generator
	CacheTTL  time.Duration
	Logger    *logger.Logger
	Now       func() time.Time
	Pick      func(n int) int
}

// NewService builds the tip service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, errors.New("tip store required")
	}
	if params.Generator == nil {
		return nil, errors.New("generator required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	pick := params.Pick
	if pick == nil {
		pick = rand.Intn
	}
	return &Service{
		store:     params.Store,
		generator: params.Generator,
		cacheTTL:  ttl,
		logg:      params.Logger,
		now:       now,
		pick:      pick,
	}, nil
}

// DailyTip returns today's tip. The chain is cache hit, fresh generation,
// yesterday's cached tip, then a hand-authored fallback. It never errors.
func (s *Service) DailyTip(ctx context.Context) *TipResponse {
	today := s.now().Format(dateLayout)

	if tip, err := s.store.Get(ctx, s.store.TipKey(today)); err == nil && tip != "" {
		return &TipResponse{Tip: tip, Cached: true, Date: today}
	} else if err != nil && !errors.Is(err, redislib.Nil) {
		s.logg.Error(ctx, "tip cache read failed", err)
	}

	tip, err := s.generator.GenerateContent(ctx, "", []gemini.Turn{{Role: gemini.RoleUser, Text: tipPrompt}})
	if err == nil {
		if setErr := s.store.Set(ctx, s.store.TipKey(today), tip, s.cacheTTL); setErr != nil {
			s.logg.Error(ctx, "tip cache write failed", setErr)
		}
		return &TipResponse{Tip: tip, Date: today}
	}
	s.logg.Error(ctx, "tip generation failed", err)

	yesterday := s.now().AddDate(0, 0, -1).Format(dateLayout)
	if tip, err := s.store.Get(ctx, s.store.TipKey(yesterday)); err == nil && tip != "" {
		return &TipResponse{Tip: tip, Cached: true, Fallback: true, Date: yesterday}
	}

	return &TipResponse{
		Tip:      defaultFallbackTips[s.pick(len(defaultFallbackTips))],
		Fallback: true,
		Date:     today,
	}
}
