package internal_test

import (
	"testing"
	"time"

	"github.com/keepr/mediakit/internal"
	"github.com/keepr/mediakit/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := internal.LoadConfig("")
	require.Nil(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "/usr/bin/ffmpeg", config.Render.Engine.FfmpegBinPath)
	assert.Equal(t, "/usr/bin/ffprobe", config.Render.Engine.FfprobeBinPath)
	assert.Equal(t, "libx264", config.Render.Transform.VideoCodec)
	assert.Equal(t, "aac", config.Render.Transform.AudioCodec)
	assert.True(t, config.Render.SpeedConfig().Overwrite)
	assert.Equal(t, "https://www.instagram.com", config.Instagram.BaseURL)
	assert.Equal(t, 15*time.Second, config.Instagram.Timeout)
	assert.Equal(t, "http", config.Instagram.Renderer)
	assert.False(t, config.Instagram.DownloadVideos)
	assert.False(t, config.Instagram.Verbose)
	assert.Equal(t, "0.0.0.0:8080", config.API.HostAddr)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := helpers.WriteFile(t, dir, "config.yaml", []byte(`
log_level: debug
render:
  engine:
    ffmpeg_binary_path: /opt/ffmpeg/bin/ffmpeg
  transform:
    video_codec: libx265
    preset: fast
  keep_existing: true
instagram:
  renderer: browser
  timeout: 3s
  verbose: true
api:
  host_address: 127.0.0.1:9090
`))

	t.Setenv("RENDER_FFPROBE_BINARY_PATH", "/opt/ffmpeg/bin/ffprobe")
	t.Setenv("API_HOST_ADDR", "127.0.0.1:9191")

	config, err := internal.LoadConfig(path)
	require.Nil(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", config.Render.Engine.FfmpegBinPath)
	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", config.Render.Engine.FfprobeBinPath)
	assert.Equal(t, "libx265", config.Render.Transform.VideoCodec)
	assert.Equal(t, "fast", config.Render.Transform.Preset)
	assert.Equal(t, "aac", config.Render.Transform.AudioCodec)
	assert.False(t, config.Render.SpeedConfig().Overwrite)
	assert.Equal(t, "browser", config.Instagram.Renderer)
	assert.Equal(t, 3*time.Second, config.Instagram.Timeout)
	assert.True(t, config.Instagram.Verbose)
	assert.Equal(t, "127.0.0.1:9191", config.API.HostAddr, "environment should take precedence over the file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		summary string
		env     map[string]string
	}{
		{summary: "unknown renderer", env: map[string]string{"INSTAGRAM_RENDERER": "selenium"}},
		{summary: "media download enabled", env: map[string]string{"INSTAGRAM_DOWNLOAD_VIDEOS": "true"}},
		{summary: "unknown log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
		{summary: "bad host address", env: map[string]string{"API_HOST_ADDR": "not-an-address"}},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config, err := internal.LoadConfig("")
			assert.Nil(t, config)
			assert.ErrorContains(t, err, "configuration is invalid")
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := internal.LoadConfig(t.TempDir() + "/missing.yaml")
	assert.NotNil(t, err)
}
