package config

import (
	"os"
	"strings"
)

// AssistantAPIKeyEnv overrides assistant.api_key when set.
const AssistantAPIKeyEnv = "ZOVIDA_ASSISTANT_API_KEY"

func (c *Config) normalize() error {
	var err error

	if c.Paths.DataDir, err = expandPath(valueOr(c.Paths.DataDir, defaultDataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}

	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	c.Backend.AnonymousUserID = valueOr(c.Backend.AnonymousUserID, defaultAnonymousUserID)
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = defaultBackendRequestTimeout
	}

	if key := strings.TrimSpace(os.Getenv(AssistantAPIKeyEnv)); key != "" {
		c.Assistant.APIKey = key
	}
	c.Assistant.APIKey = strings.TrimSpace(c.Assistant.APIKey)
	c.Assistant.BaseURL = valueOr(c.Assistant.BaseURL, defaultAssistantBaseURL)
	c.Assistant.Model = valueOr(c.Assistant.Model, defaultAssistantModel)
	c.Assistant.Referer = strings.TrimSpace(c.Assistant.Referer)
	c.Assistant.Title = valueOr(c.Assistant.Title, defaultAssistantTitle)
	if c.Assistant.TimeoutSeconds == 0 {
		c.Assistant.TimeoutSeconds = defaultAssistantTimeoutSecs
	}

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}

	if c.Scheduler.CheckInterval == 0 {
		c.Scheduler.CheckInterval = defaultSchedulerCheckInterval
	}

	c.Logging.Format = strings.ToLower(valueOr(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(valueOr(c.Logging.Level, defaultLogLevel))

	return nil
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
