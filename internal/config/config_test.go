package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, "gpt-4", cfg.OpenAI.Model)
	assert.Equal(t, "airtable", cfg.Records.Backend)
	assert.Equal(t, "https://api.airtable.com/v0", cfg.Airtable.BaseURL)
	assert.Equal(t, "Account", cfg.Salesforce.SObject)
	assert.Equal(t, "External_ID__c", cfg.Salesforce.ExternalIDField)
	assert.Equal(t, "Diligence_Status__c", cfg.Salesforce.FieldMap["diligence status"])
	assert.Equal(t, "smtp.gmail.com", cfg.Email.Host)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, 10, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, "templates/web3_framework.txt", cfg.Analysis.FrameworkPath)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
llm:
  provider: openai
records:
  backend: notion
notion:
  token: ntn_token
  database_id: db-1
email:
  recipients:
    - partners@example.com
    - deals@example.com
server:
  port: 9090
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "notion", cfg.Records.Backend)
	assert.Equal(t, "ntn_token", cfg.Notion.Token)
	assert.Equal(t, "db-1", cfg.Notion.DatabaseID)
	assert.Equal(t, []string{"partners@example.com", "deals@example.com"}, cfg.Email.Recipients)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, "reports", cfg.Report.OutputDir)
}

func TestLoadSalesforceFieldMapFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
records:
  backend: salesforce
salesforce:
  sobject: Opportunity
  field_map:
    Diligence Status: Deal_Status__c
    AI Recommendation: ""
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Opportunity", cfg.Salesforce.SObject)
	assert.Equal(t, map[string]string{
		"company name":      "Name",
		"stage":             "Diligence_Stage__c",
		"diligence status":  "Deal_Status__c",
		"ai recommendation": "AI_Recommendation__c",
		"last updated":      "Diligence_Last_Updated__c",
	}, cfg.Salesforce.FieldMap)
}

func TestMergeFieldMap(t *testing.T) {
	got := mergeFieldMap(map[string]string{" Stage ": "Stage__c", "Owner": "OwnerId"})

	assert.Equal(t, "Stage__c", got["stage"])
	assert.Equal(t, "OwnerId", got["owner"])
	assert.Equal(t, "Name", got["company name"])
	assert.Len(t, defaultFieldMap, 5, "defaults must not be mutated")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
records:
  backend: notion
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DILIGENCE_LOG_LEVEL", "warn")
	t.Setenv("DILIGENCE_RECORDS_BACKEND", "salesforce")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "salesforce", cfg.Records.Backend)
}

func TestLoadEnvCredentials(t *testing.T) {
	chdirTemp(t)

	t.Setenv("DILIGENCE_ANTHROPIC_KEY", "sk-ant-key")
	t.Setenv("DILIGENCE_AIRTABLE_KEY", "pat123")
	t.Setenv("DILIGENCE_AIRTABLE_BASE_ID", "appBase")
	t.Setenv("DILIGENCE_AIRTABLE_TABLE_ID", "tblTable")
	t.Setenv("DILIGENCE_EMAIL_RECIPIENTS", "a@example.com, b@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-key", cfg.Anthropic.Key)
	assert.Equal(t, "pat123", cfg.Airtable.Key)
	assert.Equal(t, "appBase", cfg.Airtable.BaseID)
	assert.Equal(t, "tblTable", cfg.Airtable.TableID)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.Recipients)
	assert.NoError(t, cfg.Validate())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config that passes validation with the airtable backend.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.LLM.Provider = "anthropic"
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Records.Backend = "airtable"
	cfg.Airtable.Key = "pat123"
	cfg.Airtable.BaseID = "appBase"
	cfg.Airtable.TableID = "tblTable"
	cfg.Server.Port = 8000
	return cfg
}

func TestValidate_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_MissingLLMKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")
}

func TestValidate_OpenAI(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = "openai"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai.key is required")

	cfg.OpenAI.Key = "sk-openai"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = "cohere"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `llm.provider "cohere" is not supported`)
}

func TestValidate_Backends(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:    "airtable_missing",
			mutate:  func(c *Config) { c.Airtable = AirtableConfig{} },
			wantErr: []string{"airtable.key is required", "airtable.base_id is required", "airtable.table_id is required"},
		},
		{
			name:    "notion_missing",
			mutate:  func(c *Config) { c.Records.Backend = "notion" },
			wantErr: []string{"notion.token is required", "notion.database_id is required"},
		},
		{
			name:    "salesforce_missing",
			mutate:  func(c *Config) { c.Records.Backend = "salesforce" },
			wantErr: []string{"salesforce.client_id is required", "salesforce.key_path is required"},
		},
		{
			name:    "unknown_backend",
			mutate:  func(c *Config) { c.Records.Backend = "hubspot" },
			wantErr: []string{`records.backend "hubspot" is not supported`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestValidate_EmailPassword(t *testing.T) {
	cfg := validDefaults()
	cfg.Email.Username = "robot@example.com"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email.password is required")
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port 0 is out of range")
}

func TestEmailEnabled(t *testing.T) {
	assert.False(t, EmailConfig{}.Enabled())
	assert.False(t, EmailConfig{Host: "smtp.example.com", From: "a@example.com"}.Enabled())
	assert.True(t, EmailConfig{Host: "smtp.example.com", From: "a@example.com", Recipients: []string{"b@example.com"}}.Enabled())
}
