package speed

// Config controls how the transformer encodes and places its output.
type Config struct {
	VideoCodec  string `yaml:"video_codec" env:"RENDER_VIDEO_CODEC" env-default:"libx264" validate:"required"`
	AudioCodec  string `yaml:"audio_codec" env:"RENDER_AUDIO_CODEC" env-default:"aac" validate:"required"`
	Preset      string `yaml:"preset" env:"RENDER_PRESET" env-default:"medium"`
	PixelFormat string `yaml:"pixel_format" env:"RENDER_PIXEL_FORMAT" env-default:"yuv420p"`

	// Overwrite controls whether an existing file at the output path
	// is replaced. When false, the transform fails before encoding.
	Overwrite bool `yaml:"-"`

	// TempDir is where partial output is written before being moved in to
	// place. Empty means the output's own directory, which keeps the
	// final rename atomic.
	TempDir string `yaml:"temp_dir" env:"RENDER_TEMP_DIR"`
}
