package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/keepr/mediakit/pkg/logger"
	"github.com/mitchellh/mapstructure"
)

const postPathTemplate = "%s/p/%s/"

type (
	// Provider retrieves the metadata for a single post. Implementations perform
	// exactly one blocking fetch per call and never retry.
	Provider interface {
		FetchPost(ctx context.Context, shortcode string) (*Post, error)
	}

	// HTTPProvider fetches the public post page with a plain GET and reads the
	// structured data Instagram embeds for link previews and crawlers.
	HTTPProvider struct {
		config Config
		client *http.Client
	}

	ldPosting struct {
		Type        string      `mapstructure:"@type"`
		ArticleBody string      `mapstructure:"articleBody"`
		Caption     string      `mapstructure:"caption"`
		Author      interface{} `mapstructure:"author"`
	}

	ldAuthor struct {
		AlternateName string `mapstructure:"alternateName"`
		Identifier    string `mapstructure:"identifier"`
		Name          string `mapstructure:"name"`
	}
)

var (
	// og:description looks like `12 likes, 3 comments - someuser on June 1, 2024: "caption"`
	ogDescriptionPattern = regexp.MustCompile(`(?s)^.*?-\s+([A-Za-z0-9._]+)\s+on\s+[^:]+:\s+"(.*)"\.?\s*$`)
	// og:title looks like `Display Name on Instagram: "caption"`
	ogTitlePattern = regexp.MustCompile(`(?s)^.*?\s+on\s+Instagram:\s+"(.*)"\s*$`)
)

// NewProvider returns the provider selected by the configured renderer.
func NewProvider(config Config) Provider {
	if config.Renderer == RendererBrowser {
		return NewBrowserProvider(config)
	}

	return NewHTTPProvider(config)
}

func NewHTTPProvider(config Config) *HTTPProvider {
	return &HTTPProvider{config: config, client: &http.Client{Timeout: config.Timeout}}
}

func (provider *HTTPProvider) FetchPost(ctx context.Context, shortcode string) (*Post, error) {
	path := postURL(provider.config.BaseURL, shortcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "could not construct request", err: err}
	}
	req.Header.Set("User-Agent", provider.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := provider.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: fmt.Sprintf("GET(%s) failed", path), err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Shortcode: shortcode, StatusCode: resp.StatusCode, reason: "non-OK response from post page"}
	}

	return parsePostPage(shortcode, resp.Body)
}

func postURL(baseURL string, shortcode string) string {
	return fmt.Sprintf(postPathTemplate, strings.TrimRight(baseURL, "/"), shortcode)
}

// parsePostPage extracts post metadata from a rendered post page. JSON-LD
// blocks are preferred; the OpenGraph meta tags are used for whatever the
// JSON-LD did not provide.
func parsePostPage(shortcode string, page io.Reader) (*Post, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "page could not be parsed as HTML", err: err}
	}

	post := &Post{Shortcode: shortcode}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		applyLinkedData(post, sel.Text())
		return post.OwnerUsername == nil || post.Caption == nil
	})

	if post.OwnerUsername == nil || post.Caption == nil {
		applyOpenGraph(post, doc)
	}

	if post.OwnerUsername == nil && post.Caption == nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "no post metadata found in page"}
	}

	if post.Caption != nil {
		post.CaptionHashtags = ExtractHashtags(*post.Caption)
	}

	return post, nil
}

func applyLinkedData(post *Post, raw string) {
	var payload interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Emit(logger.DEBUG, "Ignoring malformed ld+json block: %v\n", err)
		return
	}

	candidates, ok := payload.([]interface{})
	if !ok {
		candidates = []interface{}{payload}
	}

	for _, candidate := range candidates {
		var posting ldPosting
		if err := mapstructure.Decode(candidate, &posting); err != nil {
			continue
		}

		if post.Caption == nil {
			if body := strings.TrimSpace(posting.ArticleBody); body != "" {
				post.Caption = stringPtr(posting.ArticleBody)
			} else if caption := strings.TrimSpace(posting.Caption); caption != "" {
				post.Caption = stringPtr(posting.Caption)
			}
		}

		if post.OwnerUsername == nil {
			if username := authorUsername(posting.Author); username != "" {
				post.OwnerUsername = stringPtr(username)
			}
		}
	}
}

// authorUsername accepts either a single author object or a list of them, as
// both appear in the wild.
func authorUsername(author interface{}) string {
	authors, ok := author.([]interface{})
	if !ok {
		authors = []interface{}{author}
	}

	for _, candidate := range authors {
		var decoded ldAuthor
		if err := mapstructure.Decode(candidate, &decoded); err != nil {
			continue
		}

		if name := strings.TrimPrefix(strings.TrimSpace(decoded.AlternateName), "@"); name != "" {
			return name
		}
	}

	return ""
}

func applyOpenGraph(post *Post, doc *goquery.Document) {
	description := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	if matches := ogDescriptionPattern.FindStringSubmatch(description); matches != nil {
		if post.OwnerUsername == nil {
			post.OwnerUsername = stringPtr(matches[1])
		}
		if post.Caption == nil {
			post.Caption = stringPtr(matches[2])
		}
	}

	if post.Caption == nil {
		title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
		if matches := ogTitlePattern.FindStringSubmatch(title); matches != nil {
			post.Caption = stringPtr(matches[1])
		}
	}
}
