package config

const (
	defaultRegion               = "us-east-1"
	defaultPollInitialSeconds   = 2
	defaultPollIncrementSeconds = 2
	defaultPollMaxSeconds       = 10
	defaultJobOutcomePolicy     = JobOutcomeAbsorb
	defaultLanguageCode         = "en-US"
	defaultProvider             = ProviderBedrock
	defaultModelID              = "anthropic.claude-3-sonnet-20240229-v1:0"
	defaultMaxTokens            = 2000
	defaultTemperature          = 0
	defaultTopP                 = 0.999
	defaultTopK                 = 250
	defaultAnthropicVersion     = "bedrock-2023-05-31"
	defaultSystemPrompt         = "You are a helpful assistant that summarizes meeting transcripts."
	defaultPromptTemplate       = "Summarize the following transcript. Start with a short overview, then list the key points, decisions, and action items with owners where mentioned."
	defaultOpenRouterBaseURL    = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterReferer    = "https://github.com/distill-cli/distill"
	defaultOpenRouterTitle      = "Distill"
	defaultLLMTimeoutSeconds    = 0
	defaultCardTitle            = "A meeting from today..."
	defaultIconName             = "Flash"
	defaultIconSize             = "Large"
	defaultIconStyle            = "Filled"
	defaultIconColor            = "Accent"
	defaultRequestTimeout       = 0
	defaultStateDir             = "~/.local/share/distill"
	defaultLogDir               = "~/.local/share/distill/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Summarization providers accepted in model.provider.
const (
	ProviderBedrock    = "bedrock"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Job outcome policies accepted in transcribe.job_outcome_policy.
const (
	JobOutcomeAbsorb = "absorb"
	JobOutcomeAbort  = "abort"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		AWS: AWS{
			Region: defaultRegion,
		},
		Transcribe: Transcribe{
			PollInitialSeconds:   defaultPollInitialSeconds,
			PollIncrementSeconds: defaultPollIncrementSeconds,
			PollMaxSeconds:       defaultPollMaxSeconds,
			JobOutcomePolicy:     defaultJobOutcomePolicy,
			LanguageCode:         defaultLanguageCode,
		},
		Model: Model{
			Provider:    defaultProvider,
			ModelID:     defaultModelID,
			MaxTokens:   defaultMaxTokens,
			Temperature: defaultTemperature,
			TopP:        defaultTopP,
			TopK:        defaultTopK,
		},
		Anthropic: Anthropic{
			Version: defaultAnthropicVersion,
			System:  defaultSystemPrompt,
		},
		Prompt: Prompt{
			Template: defaultPromptTemplate,
		},
		LLM: LLM{
			BaseURL:        defaultOpenRouterBaseURL,
			Referer:        defaultOpenRouterReferer,
			Title:          defaultOpenRouterTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Teams: Teams{
			CardTitle: defaultCardTitle,
			IconName:  defaultIconName,
			IconSize:  defaultIconSize,
			IconStyle: defaultIconStyle,
			IconColor: defaultIconColor,
		},
		Notifications: Notifications{
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
