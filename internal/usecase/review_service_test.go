package usecase

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

func TestReviewService_Analyze(t *testing.T) {
	svc := NewReviewService(zerolog.Nop())

	tests := []struct {
		name           string
		text           string
		skinType       string
		wantSentiment  string
		wantConfidence float64
		wantSkinType   string
	}{
		{
			name:           "clearly positive review",
			text:           "I love this cream, amazing texture and it leaves my face so smooth",
			wantSentiment:  SentimentPositive,
			wantConfidence: 1.0,
			wantSkinType:   "none",
		},
		{
			name:           "clearly negative review",
			text:           "Terrible product, caused breakouts and left everything greasy",
			wantSentiment:  SentimentNegative,
			wantConfidence: 1.0,
			wantSkinType:   "none",
		},
		{
			name:           "majority wins on mixed reviews",
			text:           "love love the scent but a bit greasy",
			wantSentiment:  SentimentPositive,
			wantConfidence: 0.667,
			wantSkinType:   "none",
		},
		{
			name:           "an exact tie stays neutral",
			text:           "love the smell, hate the texture",
			wantSentiment:  SentimentNeutral,
			wantConfidence: 0.5,
			wantSkinType:   "none",
		},
		{
			name:           "no lexicon hits stays neutral at zero",
			text:           "this is a cream in a jar",
			wantSentiment:  SentimentNeutral,
			wantConfidence: 0.0,
			wantSkinType:   "none",
		},
		{
			name:           "lexicon terms only match whole tokens",
			text:           "bought a glove and a bestseller sticker",
			wantSentiment:  SentimentNeutral,
			wantConfidence: 0.0,
			wantSkinType:   "none",
		},
		{
			name:           "skin type mention is detected and echoed",
			text:           "perfect for my dry skin all winter",
			skinType:       "Dry",
			wantSentiment:  SentimentPositive,
			wantConfidence: 1.0,
			wantSkinType:   "Dry",
		},
		{
			name:           "absent skin type reports none",
			text:           "perfect for winter",
			skinType:       "oily",
			wantSentiment:  SentimentPositive,
			wantConfidence: 1.0,
			wantSkinType:   "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := svc.Analyze(domain.ReviewQuery{Text: tt.text, SkinType: tt.skinType})

			if analysis.Sentiment != tt.wantSentiment {
				t.Errorf("sentiment = %s, want %s", analysis.Sentiment, tt.wantSentiment)
			}
			if analysis.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", analysis.Confidence, tt.wantConfidence)
			}
			if analysis.SkinTypeMentioned != tt.wantSkinType {
				t.Errorf("skin type mentioned = %q, want %q", analysis.SkinTypeMentioned, tt.wantSkinType)
			}
		})
	}
}

func TestReviewService_TruncatesLongReviews(t *testing.T) {
	svc := NewReviewService(zerolog.Nop())

	// The negative term sits beyond the truncation point and must not count.
	text := strings.Repeat("a ", maxReviewLength/2) + "terrible"
	analysis := svc.Analyze(domain.ReviewQuery{Text: text})

	if analysis.Sentiment != SentimentNeutral {
		t.Errorf("sentiment = %s, want NEUTRAL for text truncated before the term", analysis.Sentiment)
	}
	if analysis.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0", analysis.Confidence)
	}
}
