package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/reply"
)

var (
	repliesLimit     int
	repliesEmailPath string
)

var repliesCmd = &cobra.Command{
	Use:   "replies",
	Short: "Inspect and classify inbound replies",
}

// classifiedReply pairs an inbound message with its analysis.
type classifiedReply struct {
	Message  model.InboundMessage `json:"message"`
	Analysis *model.ReplyAnalysis `json:"analysis,omitempty"`
	Error    string               `json:"error,omitempty"`
}

var repliesSMSCmd = &cobra.Command{
	Use:   "sms",
	Short: "Fetch recent inbound SMS and classify each one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initOutreach(cfg, "replies")
		if err != nil {
			return err
		}
		if env.Twilio == nil {
			return eris.New("replies: twilio is not configured")
		}

		ctx := cmd.Context()
		msgs, err := env.Twilio.ListInbound(ctx, repliesLimit)
		if err != nil {
			return eris.Wrap(err, "replies: list inbound sms")
		}

		out := make([]classifiedReply, 0, len(msgs))
		for _, m := range msgs {
			in := model.InboundMessage{
				From:      m.From,
				Body:      m.Body,
				MessageID: m.SID,
				Timestamp: m.DateCreated,
			}
			cr := classifiedReply{Message: in}
			analysis, err := env.Replies.SMS(ctx, in)
			if err != nil {
				zap.L().Warn("replies: classify sms", zap.String("sid", m.SID), zap.Error(err))
				cr.Error = err.Error()
			} else {
				cr.Analysis = analysis
			}
			out = append(out, cr)
		}

		zap.L().Info("sms replies classified", zap.Int("count", len(out)))
		return printJSON(cmd, out)
	},
}

var repliesCallCmd = &cobra.Command{
	Use:   "call <call-sid>",
	Short: "Show the status and recording of an outbound call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initOutreach(cfg, "replies")
		if err != nil {
			return err
		}
		if env.Twilio == nil {
			return eris.New("replies: twilio is not configured")
		}

		ctx := cmd.Context()
		call, err := env.Twilio.FetchCall(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "replies: fetch call")
		}

		out := map[string]any{"call": call}
		recording, err := env.Twilio.RecordingURL(ctx, args[0])
		if err != nil {
			zap.L().Warn("replies: recording lookup failed", zap.String("call_sid", args[0]), zap.Error(err))
		}
		if recording != "" {
			out["recordingUrl"] = recording
		}
		return printJSON(cmd, out)
	},
}

var repliesEmailCmd = &cobra.Command{
	Use:   "email",
	Short: "Classify a raw email reply (RFC 5322) read from a file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initOutreach(cfg, "classify")
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(repliesEmailPath)
		if err != nil {
			return eris.Wrap(err, "replies: read email")
		}

		msg, err := reply.ParseEmail(string(raw), time.Now())
		if err != nil {
			return err
		}

		analysis, err := env.Replies.Email(cmd.Context(), *msg)
		if err != nil {
			return eris.Wrap(err, "replies: classify email")
		}
		return printJSON(cmd, classifiedReply{Message: *msg, Analysis: analysis})
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func init() {
	repliesSMSCmd.Flags().IntVar(&repliesLimit, "limit", 20, "number of recent inbound messages to fetch")
	repliesEmailCmd.Flags().StringVar(&repliesEmailPath, "file", "", "raw email file (required)")
	_ = repliesEmailCmd.MarkFlagRequired("file")

	repliesCmd.AddCommand(repliesSMSCmd, repliesCallCmd, repliesEmailCmd)
	rootCmd.AddCommand(repliesCmd)
}
