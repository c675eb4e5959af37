package ffmpeg

type Config struct {
	FfmpegBinPath  string `yaml:"ffmpeg_binary_path" env:"RENDER_FFMPEG_BINARY_PATH" env-default:"/usr/bin/ffmpeg" validate:"required"`
	FfprobeBinPath string `yaml:"ffprobe_binary_path" env:"RENDER_FFPROBE_BINARY_PATH" env-default:"/usr/bin/ffprobe" validate:"required"`
}
