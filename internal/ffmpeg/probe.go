package ffmpeg

import (
	"context"
	"fmt"
	"strconv"

	"github.com/floostack/transcoder"
	"github.com/floostack/transcoder/ffmpeg"
)

// Source is an opened media file. It is a handle only; no frames are decoded
// until a render consumes it.
type Source struct {
	Path     string
	Duration float64
	HasAudio bool
	HasVideo bool
	Width    int
	Height   int
}

// ProbeFile uses ffprobe to extract the information required to
// plan and render a transform of the file at the path provided.
func ProbeFile(ctx context.Context, path string, config Config) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := ffmpeg.Config{
		FfmpegBinPath:  config.FfmpegBinPath,
		FfprobeBinPath: config.FfprobeBinPath,
	}
	metadata, err := ffmpeg.New(&cfg).Input(path).GetMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to extract file metadata information using ffprobe: %s", err.Error())
	}

	return sourceFromMetadata(path, metadata)
}

func sourceFromMetadata(path string, metadata transcoder.Metadata) (*Source, error) {
	durationString := metadata.GetFormat().GetDuration()
	duration, err := strconv.ParseFloat(durationString, 64)
	if err != nil {
		return nil, fmt.Errorf("ffprobe reported unusable duration %q for %s", durationString, path)
	}

	source := &Source{Path: path, Duration: duration}
	for _, stream := range metadata.GetStreams() {
		switch stream.GetCodecType() {
		case "video":
			if !source.HasVideo {
				source.HasVideo = true
				source.Width = stream.GetWidth()
				source.Height = stream.GetHeight()
			}
		case "audio":
			source.HasAudio = true
		}
	}

	if !source.HasVideo {
		return nil, fmt.Errorf("no video stream found in %s", path)
	}

	return source, nil
}
