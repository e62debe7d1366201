package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/ingest"
)

var (
	importFilePath string
	importOutPath  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse, validate and deduplicate a contact sheet",
	Long:  "Reads an XLSX, CSV or TSV contact sheet and prints the valid, invalid and duplicate rows as JSON. With --out the valid contacts are also written to a clean workbook.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		data, err := os.ReadFile(importFilePath)
		if err != nil {
			return eris.Wrap(err, "import: read file")
		}

		result, err := ingest.ParseFile(cmd.Context(), importFilePath, data)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.String("file", importFilePath),
			zap.Int("valid", len(result.Valid)),
			zap.Int("invalid", len(result.Invalid)),
			zap.Int("duplicates", len(result.Duplicates)),
		)

		if importOutPath != "" {
			out, err := ingest.ExportXLSX(result.Valid)
			if err != nil {
				return err
			}
			if err := os.WriteFile(importOutPath, out, 0o644); err != nil {
				return eris.Wrap(err, "import: write workbook")
			}
			zap.L().Info("valid contacts exported", zap.String("path", importOutPath))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "import: encode result")
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "contact sheet to parse (required)")
	importCmd.Flags().StringVar(&importOutPath, "out", "", "write valid contacts to this XLSX file")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
