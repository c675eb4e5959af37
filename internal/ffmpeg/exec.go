package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/keepr/mediakit/pkg/logger"
)

var log = logger.Get("FFmpeg")

// Progress is a single update parsed from ffmpeg's -progress output.
type Progress struct {
	OutTime  float64
	Progress float64
	Speed    string
	Done     bool
}

type ProgressCallback func(*Progress)

// TranscodeCommand runs a single ffmpeg invocation on the host, forwarding
// progress to a callback and translating failures in to a short message.
type TranscodeCommand struct {
	binPath        string
	args           []string
	expectedLength float64
	runningCommand *exec.Cmd
}

func NewCmd(binPath string, args []string, expectedLength float64) *TranscodeCommand {
	return &TranscodeCommand{binPath: binPath, args: args, expectedLength: expectedLength}
}

// Run starts the command and blocks until it exits. Cancelling the context
// kills the underlying ffmpeg process.
func (cmd *TranscodeCommand) Run(ctx context.Context, updateHandler ProgressCallback) error {
	command := exec.CommandContext(ctx, cmd.binPath, cmd.args...)
	stderr := &bytes.Buffer{}
	command.Stderr = stderr

	stdout, err := command.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to ffmpeg output: %w", err)
	}

	log.Emit(logger.DEBUG, "Starting %s %s\n", cmd.binPath, strings.Join(cmd.args, " "))
	if err := command.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	cmd.runningCommand = command
	readProgress(stdout, cmd.expectedLength, func(prog *Progress) {
		log.Emit(logger.VERBOSE, "Progress %s: %.1f%% (speed=%s)\n", cmd, prog.Progress, prog.Speed)
		if updateHandler != nil {
			updateHandler(prog)
		}
	})

	if err := command.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return parseFfmpegError(err, stderr.String())
	}

	return nil
}

func (cmd *TranscodeCommand) String() string {
	var pid int = -1
	if cmd.runningCommand != nil && cmd.runningCommand.Process != nil {
		pid = cmd.runningCommand.Process.Pid
	}

	return fmt.Sprintf("{ffmpeg pid=%d}", pid)
}

// readProgress consumes key=value lines written by ffmpeg's -progress option. Each
// block of lines ends with a 'progress' key, at which point an update is emitted.
func readProgress(reader io.Reader, expectedLength float64, emit func(*Progress)) {
	scanner := bufio.NewScanner(reader)
	current := &Progress{}
	for scanner.Scan() {
		key, value, found := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !found {
			continue
		}

		switch key {
		case "out_time_us", "out_time_ms":
			// Both keys are reported in microseconds
			if micros, err := strconv.ParseInt(value, 10, 64); err == nil && micros >= 0 {
				current.OutTime = float64(micros) / 1e6
			}
		case "speed":
			current.Speed = value
		case "progress":
			current.Done = value == "end"
			if expectedLength > 0 {
				current.Progress = min(100, current.OutTime/expectedLength*100)
			}
			if current.Done {
				current.Progress = 100
			}

			emit(current)
			current = &Progress{OutTime: current.OutTime, Speed: current.Speed}
		}
	}
}

var ffmpegErrorMatcher = regexp.MustCompile(`(?mi)^.*(error|invalid|no such file|not found|unknown encoder|does not contain|failed).*$`)

// parseFfmpegError tries to pick out some relevant information from the HUGE
// output log from ffmpeg. Most of it is banner and stream information which is
// useless to the user; the lines describing the failure are what we want.
func parseFfmpegError(err error, stderr string) error {
	matches := ffmpegErrorMatcher.FindAllString(stderr, -1)
	if len(matches) == 0 {
		lines := strings.Split(strings.TrimSpace(stderr), "\n")
		if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
			return fmt.Errorf("%w: %s", err, last)
		}

		return err
	}

	// Keep the final few matching lines, which describe the eventual failure
	if len(matches) > 3 {
		matches = matches[len(matches)-3:]
	}

	for i, m := range matches {
		matches[i] = strings.TrimSpace(m)
	}

	return errors.Join(err, errors.New(strings.Join(matches, "; ")))
}
