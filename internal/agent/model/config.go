package model

// ================ Config ================

type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"20"`
	}
}

// RouterModelConfig configures the low-temperature model used for route and
// tool-intent classification.
type RouterModelConfig struct {
	Model       string  `envconfig:"ROUTER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"ROUTER_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"ROUTER_TEMPERATURE" default:"0.1"`
}

// ResponseModelConfig configures the model used for final answer synthesis.
// Temperature sits slightly above the router's to favour fluent answers.
type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.2"`
}

// PromptConfig parameterises the prompt templates.
type PromptConfig struct {
	CompanyName string `envconfig:"PROMPT_COMPANY_NAME" default:"the company"`
}

// IndexConfig configures the policy document index built at startup.
type IndexConfig struct {
	DocsDir      string `envconfig:"INDEX_DOCS_DIR" default:"docs"`
	ChunkSize    int    `envconfig:"INDEX_CHUNK_SIZE" default:"800"`
	ChunkOverlap int    `envconfig:"INDEX_CHUNK_OVERLAP" default:"150"`
	CacheSize    int    `envconfig:"INDEX_QUERY_CACHE_SIZE" default:"256"`
}
