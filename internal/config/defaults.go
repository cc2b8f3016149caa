package config

import "storyboard/internal/project"

const (
	defaultDataDir              = "~/.local/share/storyboard"
	defaultLogDir               = "~/.local/share/storyboard/logs"
	defaultAPIBind              = "127.0.0.1:8750"
	defaultGeminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiTextModel      = "gemini-2.5-flash"
	defaultGeminiImageModel     = "gemini-2.5-flash-image"
	defaultGeminiTimeoutSeconds = 120
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultProjectID            = project.DefaultProjectID
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			TextModel:      defaultGeminiTextModel,
			ImageModel:     defaultGeminiImageModel,
			TimeoutSeconds: defaultGeminiTimeoutSeconds,
		},
		Workflow: Workflow{
			ProjectID: defaultProjectID,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
