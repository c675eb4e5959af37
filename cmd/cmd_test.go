package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/keepr/mediakit/internal/api/links"
	"github.com/keepr/mediakit/internal/instagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	calls []string
	fn    func(url string) *instagram.Result
}

func (stub *stubExtractor) Extract(_ context.Context, url string) *instagram.Result {
	stub.calls = append(stub.calls, url)
	return stub.fn(url)
}

func runWithExtractor(t *testing.T, extractor *stubExtractor, args ...string) (string, error) {
	t.Setenv("INSTAGRAM_VERBOSE", "true")

	app := newApplication()
	app.newExtractor = func(instagram.Config) links.Extractor { return extractor }

	out := &bytes.Buffer{}
	root := newRootCmd(app)
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr), "expected an exit error, got %v", err)
	return exitErr.code
}

func TestInstagramCmd_PrintsResult(t *testing.T) {
	url := "https://www.instagram.com/someuser/p/ABC123/"
	extractor := &stubExtractor{fn: instagram.Fallback}

	out, err := runWithExtractor(t, extractor, "instagram", url)
	require.Nil(t, err)
	assert.Equal(t, []string{url}, extractor.calls)

	var decoded map[string]interface{}
	require.Nil(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "someuser", decoded["username"])
	assert.Equal(t, instagram.FallbackNote, decoded["note"])
	assert.Contains(t, out, "\n  \"", "output should be indented")
}

func TestInstagramCmd_UsageErrors(t *testing.T) {
	tests := []struct {
		summary string
		args    []string
		message string
	}{
		{summary: "no url", args: []string{"instagram"}, message: "Usage: keepr instagram <instagram_url>"},
		{summary: "too many urls", args: []string{"instagram", "https://instagram.com/p/A/", "https://instagram.com/p/B/"}, message: "Usage: keepr instagram <instagram_url>"},
		{summary: "not instagram", args: []string{"instagram", "https://www.youtube.com/watch?v=abc"}, message: "Not a valid Instagram URL"},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			extractor := &stubExtractor{fn: instagram.Fallback}

			out, err := runWithExtractor(t, extractor, tt.args...)
			assert.Equal(t, 1, exitCode(t, err))
			assert.Empty(t, extractor.calls)

			var decoded map[string]string
			require.Nil(t, json.Unmarshal([]byte(out), &decoded))
			assert.Equal(t, map[string]string{"error": tt.message}, decoded)
		})
	}
}

func TestInstagramCmd_UnexpectedFailure(t *testing.T) {
	url := "https://www.instagram.com/p/ABC123/"
	extractor := &stubExtractor{fn: func(string) *instagram.Result { panic("provider exploded") }}

	out, err := runWithExtractor(t, extractor, "instagram", url)
	assert.Equal(t, 1, exitCode(t, err))

	var decoded map[string]interface{}
	require.Nil(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, map[string]interface{}{
		"error":    "provider exploded",
		"success":  false,
		"platform": "instagram",
		"url":      url,
	}, decoded)
}

func TestSmokeCmd_DefaultURLs(t *testing.T) {
	extractor := &stubExtractor{fn: instagram.Fallback}

	out, err := runWithExtractor(t, extractor, "smoke")
	require.Nil(t, err)
	assert.Equal(t, defaultSmokeURLs, extractor.calls)
	assert.Contains(t, out, "Testing: https://www.instagram.com/reel/XYZ789/")
	assert.Contains(t, out, "type:     reel")
}

func TestSpeedCmd_RequiresInputAndOutput(t *testing.T) {
	_, err := runWithExtractor(t, &stubExtractor{}, "speed", "-r", "00:02-00:54")
	assert.ErrorContains(t, err, "required flag")
}

func TestRootCmd_InvalidConfigFile(t *testing.T) {
	_, err := runWithExtractor(t, &stubExtractor{}, "--config", "/does/not/exist.yaml", "smoke")
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestInstagramCmd_InvalidConfigFile(t *testing.T) {
	extractor := &stubExtractor{fn: instagram.Fallback}

	out, err := runWithExtractor(t, extractor, "--config", "/does/not/exist.yaml", "instagram", "https://www.instagram.com/p/ABC123/")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Empty(t, extractor.calls)

	var decoded map[string]string
	require.Nil(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded["error"], "failed to load configuration")
}
