package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/channel"
	"github.com/sells-group/outreach-cli/internal/ingest"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/reply"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

// campaignStreamer runs a campaign as an event stream.
type campaignStreamer interface {
	Stream(ctx context.Context, contacts []model.Contact, cfg model.OutreachConfig, emit func(outreach.Event)) error
}

// server holds the dependencies of the HTTP API.
type server struct {
	runner         campaignStreamer
	replies        *reply.Handler
	breakers       *resilience.Breakers
	defaults       model.OutreachConfig
	allowedOrigins []string
	maxUploadBytes int64
	now            func() time.Time
}

// launchRequest is the body of POST /api/launch-campaign.
type launchRequest struct {
	Contacts []model.Contact `json:"contacts"`
	Config   struct {
		Template            string `json:"template"`
		Tone                string `json:"tone"`
		Language            string `json:"language"`
		RespectTimezones    *bool  `json:"respectTimezones"`
		RespectDoNotContact *bool  `json:"respectDoNotContact"`
	} `json:"config"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/parse-contacts", s.handleParseContacts)
		r.Post("/launch-campaign", s.handleLaunchCampaign)
		r.Get("/twiml", s.handleTwiML)
		r.Post("/call-response", s.handleCallResponse)
		r.Post("/webhooks/sms-reply", s.handleSMSReply)
		r.Post("/webhooks/email-reply", s.handleEmailReply)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	states := map[string]string{}
	if s.breakers != nil {
		states = s.breakers.States()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"circuits": states,
	})
}

func (s *server) handleParseContacts(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	result, err := ingest.ParseFile(r.Context(), header.Filename, data)
	if err != nil {
		zap.L().Error("parse contacts failed", zap.String("file", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to parse file")
		return
	}

	zap.L().Info("contacts parsed",
		zap.String("file", header.Filename),
		zap.Int("valid", len(result.Valid)),
		zap.Int("invalid", len(result.Invalid)),
		zap.Int("duplicates", len(result.Duplicates)),
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleLaunchCampaign(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg, err := mergeConfig(s.defaults, req.Config.Template, req.Config.Tone, req.Config.Language,
		req.Config.RespectTimezones, req.Config.RespectDoNotContact)
	if err != nil && len(req.Contacts) > 0 {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	emit := func(ev outreach.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	if err := s.runner.Stream(r.Context(), req.Contacts, cfg, emit); err != nil {
		zap.L().Warn("campaign stream ended early", zap.Error(err))
	}
}

func (s *server) handleTwiML(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("script")
	if raw == "" {
		http.Error(w, "Script parameter required", http.StatusBadRequest)
		return
	}

	var script model.CallScript
	if err := json.Unmarshal([]byte(raw), &script); err != nil {
		http.Error(w, "Invalid script format", http.StatusBadRequest)
		return
	}

	doc, err := channel.ScriptTwiML(&script, channel.ResponsePath)
	if err != nil {
		http.Error(w, "Invalid script format", http.StatusBadRequest)
		return
	}
	writeXML(w, doc)
}

func (s *server) handleCallResponse(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	doc := s.replies.Voice(r.Context(), r.PostFormValue("SpeechResult"), r.PostFormValue("CallSid"))
	writeXML(w, doc)
}

func (s *server) handleSMSReply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	msg := model.InboundMessage{
		From:      r.PostFormValue("From"),
		Body:      r.PostFormValue("Body"),
		MessageID: r.PostFormValue("MessageSid"),
		Timestamp: s.now(),
	}

	analysis, err := s.replies.SMS(r.Context(), msg)
	if err != nil {
		zap.L().Error("sms reply failed", zap.String("from", msg.From), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process SMS reply")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": analysis})
}

func (s *server) handleEmailReply(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil || len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "Email body required")
		return
	}

	msg, err := reply.ParseEmail(string(raw), s.now())
	if err != nil {
		zap.L().Warn("email reply parse failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	analysis, err := s.replies.Email(r.Context(), *msg)
	if err != nil {
		zap.L().Error("email reply failed", zap.String("from", msg.From), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process email reply")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg, "analysis": analysis})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeXML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}
