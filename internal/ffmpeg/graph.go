package ffmpeg

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/samber/lo"
	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

const (
	// atempo only accepts factors within this range, so larger changes
	// are expressed as a chain of filters.
	minAtempoFactor = 0.5
	maxAtempoFactor = 2.0

	DefaultVideoCodec  = "libx264"
	DefaultAudioCodec  = "aac"
	DefaultPreset      = "medium"
	DefaultPixelFormat = "yuv420p"
)

var (
	ErrNoClips      = errors.New("no clips to render")
	ErrInvalidClip  = errors.New("clip has an invalid time range")
	ErrInvalidSpeed = errors.New("clip speed must be a finite number greater than zero")
)

// Clip is a slice of a Source, played back at Speed. A Speed
// of 1 leaves the slice untouched.
type Clip struct {
	Start float64
	End   float64
	Speed float64
}

// OutputDuration returns how long this clip lasts once speed is applied.
func (clip Clip) OutputDuration() float64 { return (clip.End - clip.Start) / clip.Speed }

// ValidSpeed reports whether speed can be applied to a clip: it must be
// finite and greater than zero.
func ValidSpeed(speed float64) bool {
	return !math.IsNaN(speed) && !math.IsInf(speed, 0) && speed > 0
}

func (clip Clip) validate(source *Source) error {
	if !ValidSpeed(clip.Speed) {
		return ErrInvalidSpeed
	}
	if !(clip.Start >= 0 && clip.End > clip.Start && clip.End <= source.Duration) {
		return fmt.Errorf("%w: [%s, %s) of %s", ErrInvalidClip, formatSeconds(clip.Start), formatSeconds(clip.End), formatSeconds(source.Duration))
	}

	return nil
}

// RenderOptions controls the encode of the final output container.
type RenderOptions struct {
	VideoCodec  string
	AudioCodec  string
	Preset      string
	PixelFormat string

	// Progress, if non-nil, receives progress updates parsed
	// from the running ffmpeg command.
	Progress ProgressCallback
}

func (opts RenderOptions) withDefaults() RenderOptions {
	opts.VideoCodec = lo.Ternary(opts.VideoCodec == "", DefaultVideoCodec, opts.VideoCodec)
	opts.AudioCodec = lo.Ternary(opts.AudioCodec == "", DefaultAudioCodec, opts.AudioCodec)
	opts.Preset = lo.Ternary(opts.Preset == "", DefaultPreset, opts.Preset)
	opts.PixelFormat = lo.Ternary(opts.PixelFormat == "", DefaultPixelFormat, opts.PixelFormat)
	return opts
}

// BuildArgs composes the ffmpeg arguments required to slice the source in to the clips
// provided, apply each clip's speed, concatenate the results in order and encode them
// to outputPath. Video and audio are trimmed and re-timed independently so that the
// two remain in sync after concatenation.
func BuildArgs(source *Source, clips []Clip, outputPath string, opts RenderOptions) ([]string, error) {
	if len(clips) == 0 {
		return nil, ErrNoClips
	}

	for _, clip := range clips {
		if err := clip.validate(source); err != nil {
			return nil, err
		}
	}

	opts = opts.withDefaults()
	input := ffmpeggo.Input(source.Path)
	videoStreams := lo.Map(clips, func(clip Clip, _ int) *ffmpeggo.Stream {
		return input.Video().
			Filter("trim", ffmpeggo.Args{}, ffmpeggo.KwArgs{"start": formatSeconds(clip.Start), "end": formatSeconds(clip.End)}).
			Filter("setpts", ffmpeggo.Args{ptsExpression(clip.Speed)})
	})

	outputStreams := []*ffmpeggo.Stream{
		ffmpeggo.Concat(videoStreams, ffmpeggo.KwArgs{"v": 1, "a": 0}),
	}
	outputArgs := ffmpeggo.KwArgs{
		"c:v":     opts.VideoCodec,
		"preset":  opts.Preset,
		"pix_fmt": opts.PixelFormat,
	}

	if source.HasAudio {
		audioStreams := lo.Map(clips, func(clip Clip, _ int) *ffmpeggo.Stream {
			stream := input.Audio().
				Filter("atrim", ffmpeggo.Args{}, ffmpeggo.KwArgs{"start": formatSeconds(clip.Start), "end": formatSeconds(clip.End)}).
				Filter("asetpts", ffmpeggo.Args{"PTS-STARTPTS"})
			for _, factor := range AtempoChain(clip.Speed) {
				stream = stream.Filter("atempo", ffmpeggo.Args{formatFactor(factor)})
			}

			return stream
		})

		outputStreams = append(outputStreams, ffmpeggo.Concat(audioStreams, ffmpeggo.KwArgs{"v": 0, "a": 1}))
		outputArgs["c:a"] = opts.AudioCodec
	}

	args := ffmpeggo.Output(outputStreams, outputPath, outputArgs).OverWriteOutput().GetArgs()
	return append([]string{"-hide_banner", "-nostats", "-progress", "pipe:1"}, args...), nil
}

// AtempoChain returns the atempo factors which, applied in sequence,
// change audio tempo by the speed given. A speed of exactly 1 requires
// no filters.
func AtempoChain(speed float64) []float64 {
	chain := make([]float64, 0)
	if !ValidSpeed(speed) || speed == 1 {
		return chain
	}

	remaining := speed
	for remaining > maxAtempoFactor {
		chain = append(chain, maxAtempoFactor)
		remaining /= maxAtempoFactor
	}
	for remaining < minAtempoFactor {
		chain = append(chain, minAtempoFactor)
		remaining /= minAtempoFactor
	}

	if remaining != 1 {
		chain = append(chain, remaining)
	}

	return chain
}

func ptsExpression(speed float64) string {
	if speed == 1 {
		return "PTS-STARTPTS"
	}

	return fmt.Sprintf("(PTS-STARTPTS)/%s", formatFactor(speed))
}

func formatSeconds(seconds float64) string { return strconv.FormatFloat(seconds, 'f', 3, 64) }
func formatFactor(factor float64) string   { return strconv.FormatFloat(factor, 'f', -1, 64) }
