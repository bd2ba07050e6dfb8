package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Records    RecordsConfig    `yaml:"records" mapstructure:"records"`
	Airtable   AirtableConfig   `yaml:"airtable" mapstructure:"airtable"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Email      EmailConfig      `yaml:"email" mapstructure:"email"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects the language model provider.
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// RecordsConfig selects the record store backend.
type RecordsConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
}

// AirtableConfig holds Airtable credentials and table identifiers.
type AirtableConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseID  string `yaml:"base_id" mapstructure:"base_id"`
	TableID string `yaml:"table_id" mapstructure:"table_id"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// NotionConfig holds the Notion integration token and deal-flow database.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	DatabaseID string `yaml:"database_id" mapstructure:"database_id"`
}

// SalesforceConfig holds Salesforce JWT auth settings and the record mapping.
type SalesforceConfig struct {
	ClientID        string            `yaml:"client_id" mapstructure:"client_id"`
	Username        string            `yaml:"username" mapstructure:"username"`
	KeyPath         string            `yaml:"key_path" mapstructure:"key_path"`
	LoginURL        string            `yaml:"login_url" mapstructure:"login_url"`
	SObject         string            `yaml:"sobject" mapstructure:"sobject"`
	ExternalIDField string            `yaml:"external_id_field" mapstructure:"external_id_field"`
	FieldMap        map[string]string `yaml:"field_map" mapstructure:"field_map"`
}

// EmailConfig holds SMTP settings for report delivery.
type EmailConfig struct {
	Host       string   `yaml:"host" mapstructure:"host"`
	Port       int      `yaml:"port" mapstructure:"port"`
	Username   string   `yaml:"username" mapstructure:"username"`
	Password   string   `yaml:"password" mapstructure:"password"`
	From       string   `yaml:"from" mapstructure:"from"`
	Recipients []string `yaml:"recipients" mapstructure:"recipients"`
}

// Enabled reports whether enough is configured to send mail.
func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.From != "" && len(e.Recipients) > 0
}

// ScrapeConfig configures the website probe.
type ScrapeConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// AnalysisConfig configures the Web3 domain analysis.
type AnalysisConfig struct {
	FrameworkPath string `yaml:"framework_path" mapstructure:"framework_path"`
}

// ReportConfig configures report artifacts.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// ServerConfig configures the trigger server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DILIGENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults must be bound explicitly for env-only setups.
	for _, key := range []string{
		"anthropic.key", "openai.key", "openai.base_url",
		"airtable.key", "airtable.base_id", "airtable.table_id",
		"notion.token", "notion.database_id",
		"salesforce.client_id", "salesforce.username", "salesforce.key_path",
		"email.username", "email.password", "email.from", "email.recipients",
	} {
		_ = v.BindEnv(key)
	}

	// Defaults
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("records.backend", "airtable")
	v.SetDefault("airtable.base_url", "https://api.airtable.com/v0")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.sobject", "Account")
	v.SetDefault("salesforce.external_id_field", "External_ID__c")
	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("analysis.framework_path", "templates/web3_framework.txt")
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Comma-separated env values arrive as a single element.
	cfg.Email.Recipients = splitList(cfg.Email.Recipients)
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Salesforce.FieldMap = mergeFieldMap(cfg.Salesforce.FieldMap)

	return &cfg, nil
}

// Validate checks that the credentials needed by the selected LLM provider
// and record backend are present, plus basic server sanity.
func (c *Config) Validate() error {
	var errs []string
	require := func(value, key string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, key+" is required")
		}
	}

	switch c.LLM.Provider {
	case "anthropic":
		require(c.Anthropic.Key, "anthropic.key")
	case "openai":
		require(c.OpenAI.Key, "openai.key")
	default:
		errs = append(errs, fmt.Sprintf("llm.provider %q is not supported", c.LLM.Provider))
	}

	switch c.Records.Backend {
	case "airtable":
		require(c.Airtable.Key, "airtable.key")
		require(c.Airtable.BaseID, "airtable.base_id")
		require(c.Airtable.TableID, "airtable.table_id")
	case "notion":
		require(c.Notion.Token, "notion.token")
		require(c.Notion.DatabaseID, "notion.database_id")
	case "salesforce":
		require(c.Salesforce.ClientID, "salesforce.client_id")
		require(c.Salesforce.Username, "salesforce.username")
		require(c.Salesforce.KeyPath, "salesforce.key_path")
	default:
		errs = append(errs, fmt.Sprintf("records.backend %q is not supported", c.Records.Backend))
	}

	if c.Email.Username != "" && c.Email.Password == "" {
		errs = append(errs, "email.password is required when email.username is set")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// defaultFieldMap maps record columns to Salesforce API names. Keys are
// lowercase because viper lowercases map keys read from files and env.
var defaultFieldMap = map[string]string{
	"company name":      "Name",
	"stage":             "Diligence_Stage__c",
	"diligence status":  "Diligence_Status__c",
	"ai recommendation": "AI_Recommendation__c",
	"last updated":      "Diligence_Last_Updated__c",
}

// mergeFieldMap overlays configured entries on the defaults, keyed by
// lowercased column name.
func mergeFieldMap(configured map[string]string) map[string]string {
	out := make(map[string]string, len(defaultFieldMap)+len(configured))
	for k, v := range defaultFieldMap {
		out[k] = v
	}
	for k, v := range configured {
		if v = strings.TrimSpace(v); v != "" {
			out[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
	return out
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
