// Package instagram recovers link metadata (author, caption, hashtags) for
// Instagram posts and reels, degrading to what can be read from the URL alone
// when the post itself cannot be fetched.
package instagram

import (
	"context"
	"fmt"
	"strings"

	"github.com/keepr/mediakit/pkg/logger"
	"github.com/samber/lo"
)

const (
	maxTitleRunes   = 50
	maxCaptionRunes = 1000
	maxHashtagTags  = 5

	successRelevance  = 7.0
	fallbackRelevance = 5.0

	FallbackNote = "Extracted using fallback method - limited data available"
)

var log = logger.Get("Instagram")

type (
	// Result is the link metadata produced for a single URL. The JSON shape is
	// consumed directly by the link-saving backend.
	Result struct {
		Success           bool     `json:"success"`
		Platform          string   `json:"platform"`
		URL               string   `json:"url"`
		Title             string   `json:"title"`
		Caption           string   `json:"caption"`
		Description       string   `json:"description"`
		Username          string   `json:"username"`
		Hashtags          []string `json:"hashtags"`
		Type              string   `json:"type"`
		Domain            string   `json:"domain"`
		ContentType       string   `json:"content_type"`
		Category          string   `json:"category"`
		EstimatedReadTime string   `json:"estimated_read_time"`
		TargetAudience    string   `json:"target_audience"`
		RelevanceScore    float64  `json:"relevance_score"`
		Tags              []string `json:"tags"`
		Note              string   `json:"note,omitempty"`
	}

	Extractor struct {
		provider Provider
	}
)

func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract produces the metadata for the URL. It does not fail: if the shortcode
// cannot be found or the provider cannot fetch the post, a fallback result built
// from the URL alone is returned with Success false.
func (extractor *Extractor) Extract(ctx context.Context, rawURL string) *Result {
	log.Emit(logger.INFO, "Extracting Instagram metadata from %s\n", rawURL)

	shortcode := lastPathSegment(rawURL)
	if shortcode == "" {
		log.Emit(logger.WARNING, "Could not extract shortcode from %s\n", rawURL)
		return Fallback(rawURL)
	}
	log.Emit(logger.DEBUG, "Extracted shortcode %s\n", shortcode)

	post, err := extractor.provider.FetchPost(ctx, shortcode)
	if err != nil {
		log.Emit(logger.WARNING, "Provider failed for %s: %v\n", shortcode, err)
		return Fallback(rawURL)
	}

	result := fromPost(rawURL, post)
	log.Emit(logger.SUCCESS, "Extracted @%s %s (%d hashtags)\n", result.Username, result.Type, len(result.Hashtags))
	return result
}

func fromPost(rawURL string, post *Post) *Result {
	username := UnknownUsername
	if post.OwnerUsername != nil && *post.OwnerUsername != "" {
		username = *post.OwnerUsername
	}

	caption := ""
	if post.Caption != nil {
		caption = *post.Caption
	}

	hashtags := []string{}
	if post.CaptionHashtags != nil {
		hashtags = post.CaptionHashtags
	}

	postType := postTypeOf(rawURL)
	title := fmt.Sprintf("Instagram %s by @%s", titleCase(postType), username)
	if caption != "" {
		title = truncateRunes(strings.SplitN(caption, "\n", 2)[0], maxTitleRunes)
	}

	caption = truncateRunes(strings.Join(strings.Fields(caption), " "), maxCaptionRunes)
	description := lo.Ternary(caption != "", caption, fmt.Sprintf("Instagram %s by @%s", postType, username))

	result := baseResult(rawURL, postType, username)
	result.Success = true
	result.Title = title
	result.Caption = caption
	result.Description = description
	result.Hashtags = hashtags
	result.RelevanceScore = successRelevance
	result.Tags = append(result.Tags, hashtags[:min(len(hashtags), maxHashtagTags)]...)

	return result
}

// Fallback builds a result from the URL alone.
func Fallback(rawURL string) *Result {
	info := ParseURL(rawURL)
	postType := postTypeOf(rawURL)

	result := baseResult(rawURL, postType, info.Username)
	result.Title = fmt.Sprintf("Instagram %s by @%s", titleCase(postType), info.Username)
	result.Description = fmt.Sprintf("Instagram %s by @%s (limited data available)", postType, info.Username)
	result.RelevanceScore = fallbackRelevance
	result.Note = FallbackNote

	return result
}

func baseResult(rawURL string, postType string, username string) *Result {
	return &Result{
		Platform:          "instagram",
		URL:               rawURL,
		Username:          username,
		Hashtags:          []string{},
		Type:              postType,
		Domain:            "instagram.com",
		ContentType:       "social_media",
		Category:          "social_media",
		EstimatedReadTime: "1-2 minutes",
		TargetAudience:    "general",
		Tags:              []string{"instagram", postType},
	}
}

func postTypeOf(rawURL string) string {
	switch {
	case strings.Contains(rawURL, "/reel/"):
		return PostTypeReel
	case strings.Contains(rawURL, "/stories/"):
		return PostTypeStory
	default:
		return PostTypePost
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
