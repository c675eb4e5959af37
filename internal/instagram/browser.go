package instagram

import (
	"context"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserProvider renders the post page in a headless Chromium before parsing
// it, for pages whose metadata is only present after scripts have run. A
// browser is launched for each fetch and torn down before returning.
type BrowserProvider struct {
	config Config
}

func NewBrowserProvider(config Config) *BrowserProvider {
	return &BrowserProvider{config: config}
}

func (provider *BrowserProvider) FetchPost(ctx context.Context, shortcode string) (*Post, error) {
	l := launcher.New().Headless(true)
	if provider.config.BrowserBinPath != "" {
		l = l.Bin(provider.config.BrowserBinPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "failed to launch browser", err: err}
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "failed to connect to browser", err: err}
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "failed to open page", err: err}
	}
	if provider.config.Timeout > 0 {
		page = page.Timeout(provider.config.Timeout)
	}

	if provider.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: provider.config.UserAgent}); err != nil {
			return nil, &ProviderError{Shortcode: shortcode, reason: "failed to set user agent", err: err}
		}
	}

	path := postURL(provider.config.BaseURL, shortcode)
	if err := page.Navigate(path); err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "failed to navigate to " + path, err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "page did not finish loading", err: err}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &ProviderError{Shortcode: shortcode, reason: "failed to read rendered page", err: err}
	}

	return parsePostPage(shortcode, strings.NewReader(html))
}
