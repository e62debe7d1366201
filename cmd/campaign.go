package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/ingest"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
)

var (
	campaignConfigPath   string
	campaignContactsPath string
	campaignResultsPath  string
)

// campaignReport is what the campaign command prints and saves.
type campaignReport struct {
	CampaignID string                 `json:"campaignId"`
	Name       string                 `json:"name,omitempty"`
	Summary    outreach.Summary       `json:"summary"`
	Skipped    skippedRows            `json:"skipped"`
	Results    []model.OutreachResult `json:"results"`
}

type skippedRows struct {
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
}

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Run an outreach campaign over a contact sheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initOutreach(cfg, "campaign")
		if err != nil {
			return err
		}

		file, err := loadCampaignFile(campaignConfigPath)
		if err != nil {
			return err
		}
		outreachCfg, err := file.outreachConfig(env.Defaults)
		if err != nil {
			return err
		}

		contactsPath := campaignContactsPath
		if contactsPath == "" {
			contactsPath = file.Contacts
		}
		if contactsPath == "" {
			return eris.New("campaign: no contacts file (use --contacts or set contacts in the campaign file)")
		}

		data, err := os.ReadFile(contactsPath)
		if err != nil {
			return eris.Wrap(err, "campaign: read contacts")
		}
		parsed, err := ingest.ParseFile(ctx, contactsPath, data)
		if err != nil {
			return err
		}

		campaignID := uuid.NewString()
		log := zap.L().With(zap.String("campaign_id", campaignID), zap.String("campaign", file.Name))
		log.Info("campaign starting",
			zap.Int("contacts", len(parsed.Valid)),
			zap.Int("invalid", len(parsed.Invalid)),
			zap.Int("duplicates", len(parsed.Duplicates)),
			zap.String("tone", string(outreachCfg.Tone)),
		)

		results, runErr := env.Runner.Run(ctx, parsed.Valid, outreachCfg, func(completed, total int) {
			log.Info("campaign progress", zap.Int("completed", completed), zap.Int("total", total))
		})

		report := campaignReport{
			CampaignID: campaignID,
			Name:       file.Name,
			Summary:    outreach.Summarize(results),
			Skipped:    skippedRows{Invalid: len(parsed.Invalid), Duplicates: len(parsed.Duplicates)},
			Results:    results,
		}
		if err := writeReport(cmd, report); err != nil {
			return err
		}

		log.Info("campaign finished",
			zap.Int("succeeded", report.Summary.Succeeded),
			zap.Int("failed", report.Summary.Failed),
		)
		return runErr
	},
}

func writeReport(cmd *cobra.Command, report campaignReport) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "campaign: encode report")
	}

	if campaignResultsPath != "" {
		if err := os.WriteFile(campaignResultsPath, out, 0o644); err != nil {
			return eris.Wrap(err, "campaign: write results")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "campaign %s: %d sent, %d failed of %d (%d invalid, %d duplicate rows skipped)\n",
		report.CampaignID,
		report.Summary.Succeeded,
		report.Summary.Failed,
		report.Summary.Total,
		report.Skipped.Invalid,
		report.Skipped.Duplicates,
	)
	return nil
}

func init() {
	campaignCmd.Flags().StringVar(&campaignConfigPath, "config", "", "campaign YAML file (required)")
	campaignCmd.Flags().StringVar(&campaignContactsPath, "contacts", "", "contact sheet (XLSX, CSV or TSV); overrides the campaign file")
	campaignCmd.Flags().StringVar(&campaignResultsPath, "results", "", "write the full JSON report to this path")
	_ = campaignCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(campaignCmd)
}
