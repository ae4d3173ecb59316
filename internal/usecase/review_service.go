package usecase

import (
	"math"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

// Sentiment labels follow the uppercase convention the mobile client
// already parses.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// maxReviewLength caps the analyzed text; anything beyond it is noise for
// a verdict on one product.
const maxReviewLength = 512

// reviewTokenPattern extracts lowercase word tokens, keeping apostrophes
// so contractions stay whole
var reviewTokenPattern = regexp.MustCompile(`[a-z']+`)

// positiveReviewTerms and negativeReviewTerms form the sentiment lexicon.
// Terms are matched as whole tokens, so "glove" never trips "love".
var positiveReviewTerms = map[string]bool{
	"love": true, "loved": true, "loves": true, "amazing": true,
	"great": true, "excellent": true, "perfect": true, "wonderful": true,
	"gentle": true, "smooth": true, "soft": true, "hydrating": true,
	"hydrated": true, "glowing": true, "glow": true, "recommend": true,
	"recommended": true, "favorite": true, "best": true, "happy": true,
	"impressed": true, "works": true, "worked": true, "beautiful": true,
}

var negativeReviewTerms = map[string]bool{
	"hate": true, "hated": true, "terrible": true, "awful": true,
	"horrible": true, "worst": true, "breakout": true, "breakouts": true,
	"irritation": true, "irritated": true, "irritating": true, "burn": true,
	"burning": true, "burned": true, "sticky": true, "greasy": true,
	"drying": true, "waste": true, "wasted": true, "disappointed": true,
	"disappointing": true, "allergic": true, "rash": true, "itchy": true,
}

// ReviewService scores free-form review text against a sentiment lexicon
type ReviewService struct {
	logger zerolog.Logger
}

// NewReviewService creates a review sentiment service
func NewReviewService(logger zerolog.Logger) *ReviewService {
	return &ReviewService{logger: logger}
}

// Analyze returns the sentiment verdict for one review.
// Flow: truncate -> tokenize -> count lexicon hits -> label and confidence
//
// Confidence is the winning side's share of all lexicon hits. Text with
// no lexicon hits stays NEUTRAL at zero confidence; an exact tie stays
// NEUTRAL at half confidence.
func (s *ReviewService) Analyze(query domain.ReviewQuery) domain.ReviewAnalysis {
	text := query.Text
	if runes := []rune(text); len(runes) > maxReviewLength {
		text = string(runes[:maxReviewLength])
	}
	lowered := strings.ToLower(text)

	var positive, negative int
	for _, token := range reviewTokenPattern.FindAllString(lowered, -1) {
		if positiveReviewTerms[token] {
			positive++
		}
		if negativeReviewTerms[token] {
			negative++
		}
	}

	analysis := domain.ReviewAnalysis{
		Sentiment:         SentimentNeutral,
		Confidence:        0.0,
		SkinTypeMentioned: "none",
	}

	total := positive + negative
	if total > 0 {
		switch {
		case positive > negative:
			analysis.Sentiment = SentimentPositive
			analysis.Confidence = roundConfidence(float64(positive) / float64(total))
		case negative > positive:
			analysis.Sentiment = SentimentNegative
			analysis.Confidence = roundConfidence(float64(negative) / float64(total))
		default:
			analysis.Confidence = 0.5
		}
	}

	skinType := strings.ToLower(strings.TrimSpace(query.SkinType))
	if skinType != "" && strings.Contains(lowered, skinType) {
		analysis.SkinTypeMentioned = query.SkinType
	}

	return analysis
}

func roundConfidence(value float64) float64 {
	return math.Round(value*1000) / 1000
}
