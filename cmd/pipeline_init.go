package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/analysis"
	"github.com/sells-group/diligence-cli/internal/config"
	"github.com/sells-group/diligence-cli/internal/enrich"
	"github.com/sells-group/diligence-cli/internal/notify"
	"github.com/sells-group/diligence-cli/internal/pipeline"
	"github.com/sells-group/diligence-cli/internal/records"
	"github.com/sells-group/diligence-cli/internal/report"
	"github.com/sells-group/diligence-cli/internal/research"
	"github.com/sells-group/diligence-cli/internal/scrape"
	anthropicpkg "github.com/sells-group/diligence-cli/pkg/anthropic"
	"github.com/sells-group/diligence-cli/pkg/airtable"
	"github.com/sells-group/diligence-cli/pkg/notion"
	sfpkg "github.com/sells-group/diligence-cli/pkg/salesforce"
)

// pipelineEnv holds the shared clients and the pipeline used by the run and
// serve commands. Everything is built once and reused across runs.
type pipelineEnv struct {
	Store    records.Store
	Sink     notify.Sink
	Pipeline *pipeline.Pipeline
}

// initPipeline validates configuration and builds every collaborator.
func initPipeline(c *config.Config) (*pipelineEnv, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	oracle, err := initOracle(c)
	if err != nil {
		return nil, err
	}

	st, err := initStore(c)
	if err != nil {
		return nil, err
	}

	sink, err := initSink(c)
	if err != nil {
		return nil, err
	}

	framework, err := analysis.LoadFramework(c.Analysis.FrameworkPath)
	if err != nil {
		return nil, eris.Wrap(err, "load investment framework")
	}

	prober := scrape.NewProber(
		time.Duration(c.Scrape.TimeoutSecs)*time.Second,
		scrape.WithUserAgent(c.Scrape.UserAgent),
	)

	p := pipeline.New(
		research.New(prober, oracle),
		analysis.New(oracle, framework),
		report.New(oracle, report.PDFRenderer{}, c.Report.OutputDir),
		st,
		sink,
	)

	zap.L().Info("pipeline initialized",
		zap.String("llm_provider", c.LLM.Provider),
		zap.String("records_backend", c.Records.Backend),
		zap.Bool("email_enabled", c.Email.Enabled()),
	)

	return &pipelineEnv{Store: st, Sink: sink, Pipeline: p}, nil
}

// initOracle builds the enrichment oracle for the configured provider.
func initOracle(c *config.Config) (enrich.Oracle, error) {
	switch c.LLM.Provider {
	case "anthropic":
		return enrich.NewAnthropic(anthropicpkg.NewClient(c.Anthropic.Key), c.Anthropic.Model), nil
	case "openai":
		o, err := enrich.NewOpenAIFromKey(c.OpenAI.Key, c.OpenAI.Model, c.OpenAI.BaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "init openai")
		}
		return o, nil
	default:
		return nil, eris.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
}

// initStore builds the record store for the configured backend.
func initStore(c *config.Config) (records.Store, error) {
	switch c.Records.Backend {
	case "airtable":
		client := airtable.NewClient(c.Airtable.Key, c.Airtable.BaseID, c.Airtable.TableID,
			airtable.WithBaseURL(c.Airtable.BaseURL))
		return records.NewAirtable(client), nil
	case "notion":
		return records.NewNotion(notion.NewClient(c.Notion.Token), c.Notion.DatabaseID), nil
	case "salesforce":
		client, err := sfpkg.Connect(sfpkg.JWTConfig{
			ClientID: c.Salesforce.ClientID,
			Username: c.Salesforce.Username,
			KeyPath:  c.Salesforce.KeyPath,
			LoginURL: c.Salesforce.LoginURL,
		})
		if err != nil {
			return nil, eris.Wrap(err, "init salesforce")
		}
		return records.NewSalesforce(client, records.SalesforceOptions{
			SObject:         c.Salesforce.SObject,
			ExternalIDField: c.Salesforce.ExternalIDField,
			FieldMap:        c.Salesforce.FieldMap,
		}), nil
	default:
		return nil, eris.Errorf("unsupported records backend %q", c.Records.Backend)
	}
}

// initSink returns the SMTP sink, or a logging no-op when email is not
// configured.
func initSink(c *config.Config) (notify.Sink, error) {
	if !c.Email.Enabled() {
		zap.L().Warn("email not configured, reports will not be sent")
		return notify.NopSink{}, nil
	}
	sink, err := notify.NewEmail(notify.EmailOptions{
		Host:       c.Email.Host,
		Port:       c.Email.Port,
		Username:   c.Email.Username,
		Password:   c.Email.Password,
		From:       c.Email.From,
		Recipients: c.Email.Recipients,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init email")
	}
	return sink, nil
}
