package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/agent"
	"github.com/sells-group/outreach-cli/internal/channel"
	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/reply"
	"github.com/sells-group/outreach-cli/internal/resilience"
	anthropicpkg "github.com/sells-group/outreach-cli/pkg/anthropic"
	"github.com/sells-group/outreach-cli/pkg/twilio"
)

// outreachEnv holds the clients and services shared by the campaign, serve
// and replies commands.
type outreachEnv struct {
	Agent    *agent.Agent
	Runner   *outreach.Runner
	Replies  *reply.Handler
	Twilio   twilio.Client // nil when Twilio is not configured
	Breakers *resilience.Breakers
	Defaults model.OutreachConfig
}

// initOutreach validates cfg for mode and wires every provider it has
// credentials for.
func initOutreach(c *config.Config, mode string) (*outreachEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	anthropicClient := anthropicpkg.NewClient(c.Anthropic.Key)
	ag := agent.New(anthropicClient,
		agent.WithModel(c.Anthropic.Model),
		agent.WithRetry(resilience.FromRetryConfig(
			c.Anthropic.MaxAttempts,
			c.Anthropic.InitialBackoffMs,
			c.Anthropic.MaxBackoffMs,
		)),
	)

	breakerCfg := resilience.FromCircuitConfig(c.Resilience.FailureThreshold, c.Resilience.ResetTimeoutSecs)
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		zap.L().Warn("circuit breaker state change",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	breakers := resilience.NewBreakers(breakerCfg)

	env := &outreachEnv{
		Agent:    ag,
		Replies:  reply.NewHandler(ag),
		Breakers: breakers,
		Defaults: campaignDefaults(c.Campaign),
	}

	var senders outreach.Senders
	if c.Twilio.Configured() {
		env.Twilio = twilio.NewClient(c.Twilio.AccountSID, c.Twilio.AuthToken, c.Twilio.FromNumber,
			twilio.WithRateLimit(c.Twilio.RateLimit))
		senders.SMS = channel.NewSMSSender(env.Twilio, breakers.Get(channel.BreakerSMS))
		senders.Call = channel.NewCallSender(env.Twilio, breakers.Get(channel.BreakerCall), c.Server.PublicURL)
	}

	if c.EmailConfigured() {
		mailer, err := newMailer(c)
		if err != nil {
			return nil, err
		}
		senders.Email = channel.NewEmailSender(mailer, c.Email.From, breakers.Get(channel.BreakerEmail))
	}

	orch := outreach.NewOrchestrator(ag, senders)
	env.Runner = outreach.NewRunner(orch, time.Duration(c.Campaign.PacingMs)*time.Millisecond)

	zap.L().Debug("outreach initialized",
		zap.Bool("sms_call", senders.SMS != nil),
		zap.Bool("email", senders.Email != nil),
		zap.String("model", c.Anthropic.Model),
	)
	return env, nil
}

func newMailer(c *config.Config) (channel.Mailer, error) {
	switch c.Email.Provider {
	case "smtp":
		return channel.NewSMTPMailer(channel.SMTPConfig{
			Host:     c.SMTP.Host,
			Port:     c.SMTP.Port,
			Username: c.SMTP.Username,
			Password: c.SMTP.Password,
		}), nil
	case "mailgun":
		return channel.NewMailgunMailer(c.Mailgun.APIKey, c.Mailgun.Domain), nil
	default:
		return nil, eris.Errorf("unknown email provider %q", c.Email.Provider)
	}
}

func campaignDefaults(c config.CampaignConfig) model.OutreachConfig {
	return model.OutreachConfig{
		Tone:                model.Tone(c.Tone),
		Language:            c.Language,
		RespectTimezones:    c.RespectTimezones,
		RespectDoNotContact: c.RespectDoNotContact,
	}
}
