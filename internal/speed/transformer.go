// Package speed implements the segment speed transform: a video is re-encoded such
// that a set of time ranges play at a given speed while everything else plays
// unchanged.
package speed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/keepr/mediakit/internal/ffmpeg"
	"github.com/keepr/mediakit/internal/segment"
	"github.com/keepr/mediakit/internal/timestamp"
	"github.com/keepr/mediakit/pkg/logger"
	"github.com/mitchellh/go-homedir"
)

var log = logger.Get("Speed")

type (
	// Engine is the media decode/encode engine used by the transformer. A
	// Source returned from Open is used for exactly one Render.
	Engine interface {
		Open(ctx context.Context, path string) (*ffmpeg.Source, error)
		Render(ctx context.Context, source *ffmpeg.Source, clips []ffmpeg.Clip, outputPath string, opts ffmpeg.RenderOptions) error
	}

	Request struct {
		InputPath  string
		OutputPath string
		Timestamps []string
		Speed      float64

		// VideoCodec overrides the configured codec when non-empty
		VideoCodec string
	}

	Result struct {
		OutputPath     string
		SourceDuration float64
		OutputDuration float64
		Segments       []segment.Segment
	}

	Transformer struct {
		config   Config
		engine   Engine
		progress ffmpeg.ProgressCallback
	}
)

func New(config Config, engine Engine) *Transformer {
	return &Transformer{config: config, engine: engine}
}

// OnProgress registers a callback to receive render progress updates.
func (transformer *Transformer) OnProgress(callback ffmpeg.ProgressCallback) {
	transformer.progress = callback
}

// Run executes the transform described by the request: the timestamps are parsed, the
// source is opened and planned against, and the planned segments are rendered to a
// temporary file which is renamed on to the output path only once encoding succeeds.
// The context is checked between each stage and between segment operations.
func (transformer *Transformer) Run(ctx context.Context, request Request) (*Result, error) {
	request, err := transformer.normalizeRequest(request)
	if err != nil {
		return nil, err
	}

	ranges, err := timestamp.Parse(request.Timestamps)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamps: %w", err)
	}

	if !transformer.config.Overwrite {
		if _, err := os.Stat(request.OutputPath); err == nil {
			return nil, &RenderError{Stage: "output check", Path: request.OutputPath, err: ErrOutputExists}
		}
	}

	source, err := transformer.engine.Open(ctx, request.InputPath)
	if err != nil {
		return nil, &RenderError{Stage: "open", Path: request.InputPath, err: err}
	}

	segments, err := segment.Plan(source.Duration, ranges)
	if err != nil {
		return nil, fmt.Errorf("failed to plan segments for %s: %w", request.InputPath, err)
	}
	log.Emit(logger.INFO, "Planned %d segments for %s (duration=%.3fs)\n", len(segments), request.InputPath, source.Duration)

	clips := make([]ffmpeg.Clip, 0, len(segments))
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clips = append(clips, clipForSegment(seg, request.Speed))
		log.Emit(logger.VERBOSE, "Segment %s -> clip at %vx\n", seg, clips[len(clips)-1].Speed)
	}

	if err := transformer.render(ctx, source, clips, request); err != nil {
		return nil, err
	}

	return &Result{
		OutputPath:     request.OutputPath,
		SourceDuration: source.Duration,
		OutputDuration: segment.OutputDuration(segments, request.Speed),
		Segments:       segments,
	}, nil
}

// render encodes to a temporary path and atomically moves the result in to place. The
// temporary file is removed on any failure so no partial output survives.
func (transformer *Transformer) render(ctx context.Context, source *ffmpeg.Source, clips []ffmpeg.Clip, request Request) error {
	tempPath := transformer.tempPathFor(request.OutputPath)
	if err := os.MkdirAll(filepath.Dir(tempPath), os.ModePerm); err != nil {
		return &RenderError{Stage: "prepare", Path: tempPath, err: err}
	}
	if err := os.MkdirAll(filepath.Dir(request.OutputPath), os.ModePerm); err != nil {
		return &RenderError{Stage: "prepare", Path: request.OutputPath, err: err}
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Emit(logger.WARNING, "Failed to clean up temporary output %s: %v\n", tempPath, err)
		}
	}()

	opts := ffmpeg.RenderOptions{
		VideoCodec:  request.VideoCodec,
		AudioCodec:  transformer.config.AudioCodec,
		Preset:      transformer.config.Preset,
		PixelFormat: transformer.config.PixelFormat,
		Progress:    transformer.progress,
	}

	log.Emit(logger.NEW, "Rendering %d clips to %s\n", len(clips), tempPath)
	if err := transformer.engine.Render(ctx, source, clips, tempPath, opts); err != nil {
		return &RenderError{Stage: "encode", Path: request.OutputPath, err: err}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tempPath, request.OutputPath); err != nil {
		return &RenderError{Stage: "rename", Path: request.OutputPath, err: err}
	}

	log.Emit(logger.SUCCESS, "Wrote %s\n", request.OutputPath)
	return nil
}

func (transformer *Transformer) normalizeRequest(request Request) (Request, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return request, &RequestError{"input path is required"}
	}
	if strings.TrimSpace(request.OutputPath) == "" {
		return request, &RequestError{"output path is required"}
	}
	if !ffmpeg.ValidSpeed(request.Speed) {
		return request, &RequestError{fmt.Sprintf("speed must be a finite number greater than zero, got %v", request.Speed)}
	}

	var err error
	if request.InputPath, err = homedir.Expand(request.InputPath); err != nil {
		return request, &RequestError{fmt.Sprintf("cannot expand input path: %s", err.Error())}
	}
	if request.OutputPath, err = homedir.Expand(request.OutputPath); err != nil {
		return request, &RequestError{fmt.Sprintf("cannot expand output path: %s", err.Error())}
	}

	if filepath.Clean(request.InputPath) == filepath.Clean(request.OutputPath) {
		return request, &RequestError{"output path must differ from the input path"}
	}

	if request.VideoCodec == "" {
		request.VideoCodec = transformer.config.VideoCodec
	}

	return request, nil
}

// tempPathFor returns a unique hidden path alongside the output (or inside
// the configured temp dir) that keeps the output's extension, as ffmpeg
// picks the container format from it.
func (transformer *Transformer) tempPathFor(outputPath string) string {
	dir := filepath.Dir(outputPath)
	if transformer.config.TempDir != "" {
		dir = transformer.config.TempDir
	}

	name := fmt.Sprintf(".%s.partial-%s%s", strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath)), uuid.NewString(), filepath.Ext(outputPath))
	return filepath.Join(dir, name)
}

func clipForSegment(seg segment.Segment, speed float64) ffmpeg.Clip {
	clip := ffmpeg.Clip{Start: seg.Start, End: seg.End, Speed: 1}
	if seg.Kind == segment.SpedUp {
		clip.Speed = speed
	}

	return clip
}
