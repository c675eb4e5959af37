package instagram

import "time"

const (
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// Config controls how post metadata is fetched. The download flags exist so
// that a configuration can state explicitly that no media is ever fetched;
// any of them being true fails validation.
type Config struct {
	BaseURL   string        `yaml:"base_url" env:"INSTAGRAM_BASE_URL" env-default:"https://www.instagram.com" validate:"required,url"`
	UserAgent string        `yaml:"user_agent" env:"INSTAGRAM_USER_AGENT" env-default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
	Timeout   time.Duration `yaml:"timeout" env:"INSTAGRAM_TIMEOUT" env-default:"15s" validate:"gt=0"`
	Renderer  string        `yaml:"renderer" env:"INSTAGRAM_RENDERER" env-default:"http" validate:"oneof=http browser"`

	// BrowserBinPath optionally points the browser renderer at a specific
	// Chromium binary. Empty lets rod locate (or download) one.
	BrowserBinPath string `yaml:"browser_bin_path" env:"INSTAGRAM_BROWSER_BIN_PATH"`

	DownloadVideos          bool `yaml:"download_videos" env:"INSTAGRAM_DOWNLOAD_VIDEOS" env-default:"false" validate:"eq=false"`
	DownloadPictures        bool `yaml:"download_pictures" env:"INSTAGRAM_DOWNLOAD_PICTURES" env-default:"false" validate:"eq=false"`
	DownloadVideoThumbnails bool `yaml:"download_video_thumbnails" env:"INSTAGRAM_DOWNLOAD_VIDEO_THUMBNAILS" env-default:"false" validate:"eq=false"`
	SaveMetadata            bool `yaml:"save_metadata" env:"INSTAGRAM_SAVE_METADATA" env-default:"false"`

	// Verbose keeps extraction diagnostics at the configured log level. By
	// default the instagram command only reports warnings and errors.
	Verbose bool `yaml:"verbose" env:"INSTAGRAM_VERBOSE"`
}

// DefaultConfig mirrors the env-default values above, for callers which
// construct an extractor without going through the config loader.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://www.instagram.com",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		Timeout:   15 * time.Second,
		Renderer:  RendererHTTP,
	}
}
