package config

const (
	defaultDataDir                = "~/.local/share/zovida"
	defaultLogDir                 = "~/.local/share/zovida/logs"
	defaultBackendBaseURL         = "http://localhost:8000"
	defaultBackendRequestTimeout  = 30
	defaultAnonymousUserID        = "1"
	defaultAssistantBaseURL       = "https://api.groq.com/openai/v1/chat/completions"
	defaultAssistantModel         = "llama-3.3-70b-versatile"
	defaultAssistantTitle         = "Zovida Assistant"
	defaultAssistantTimeoutSecs   = 30
	defaultNotifyRequestTimeout   = 10
	defaultSchedulerCheckInterval = 60
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Backend: Backend{
			BaseURL:         defaultBackendBaseURL,
			RequestTimeout:  defaultBackendRequestTimeout,
			AnonymousUserID: defaultAnonymousUserID,
		},
		Assistant: Assistant{
			BaseURL:        defaultAssistantBaseURL,
			Model:          defaultAssistantModel,
			Title:          defaultAssistantTitle,
			TimeoutSeconds: defaultAssistantTimeoutSecs,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Reminders:      true,
			Scans:          true,
			Errors:         true,
		},
		Scheduler: Scheduler{
			CheckInterval: defaultSchedulerCheckInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
