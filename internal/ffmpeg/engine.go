package ffmpeg

import (
	"context"
	"fmt"

	"github.com/keepr/mediakit/pkg/logger"
	"github.com/samber/lo"
)

// Engine opens and renders media using the ffmpeg and ffprobe
// binaries found at the configured paths.
type Engine struct {
	config Config
}

func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Open probes the file at path and returns a Source handle for it.
func (engine *Engine) Open(ctx context.Context, path string) (*Source, error) {
	source, err := ProbeFile(ctx, path, engine.config)
	if err != nil {
		return nil, err
	}

	log.Emit(logger.DEBUG, "Opened %s (duration=%.3fs audio=%v %dx%d)\n", path, source.Duration, source.HasAudio, source.Width, source.Height)
	return source, nil
}

// Render encodes the clips, in order, to outputPath. The file at outputPath
// is overwritten if present.
func (engine *Engine) Render(ctx context.Context, source *Source, clips []Clip, outputPath string, opts RenderOptions) error {
	args, err := BuildArgs(source, clips, outputPath, opts)
	if err != nil {
		return fmt.Errorf("failed to compose ffmpeg command: %w", err)
	}

	expectedLength := lo.SumBy(clips, func(clip Clip) float64 { return clip.OutputDuration() })
	cmd := NewCmd(engine.config.FfmpegBinPath, args, expectedLength)
	if err := cmd.Run(ctx, opts.Progress); err != nil {
		return err
	}

	log.Emit(logger.SUCCESS, "Rendered %d clips from %s to %s\n", len(clips), source.Path, outputPath)
	return nil
}
