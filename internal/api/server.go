package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adam/adam/internal/history"
	"github.com/adam/adam/internal/manager"
	"github.com/adam/adam/internal/types"
	"github.com/adam/adam/internal/webui"
	"github.com/rs/zerolog"
)

// defaultCleanupDays is the cleanup threshold when days_old is not given.
const defaultCleanupDays = 7

// Server provides the HTTP API endpoints and the web UI
type Server struct {
	manager         *manager.Manager
	history         *history.History
	logger          zerolog.Logger
	port            string
	logBuffer       *webui.LogBuffer
	alertmanagerURL string
	startTime       time.Time
	version         string
}

// NewServer creates a new API server
func NewServer(mgr *manager.Manager, hist *history.History, alertmanagerURL string, logger zerolog.Logger, port string) *Server {
	return &Server{
		manager:         mgr,
		history:         hist,
		logger:          logger.With().Str("component", "api").Logger(),
		port:            port,
		alertmanagerURL: alertmanagerURL,
		startTime:       time.Now(),
	}
}

// SetLogBuffer sets the log buffer for the web UI
func (s *Server) SetLogBuffer(lb *webui.LogBuffer) {
	s.logBuffer = lb
}

// SetVersion sets the version information
func (s *Server) SetVersion(version string) {
	s.version = version
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// JSON endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/alerts/status", s.handleAlertsStatus)
	mux.HandleFunc("/resolve-alert/", s.handleResolveAlert)
	mux.HandleFunc("/close-all-alerts", s.handleCloseAll)
	mux.HandleFunc("/cleanup-old-alerts", s.handleCleanup)
	mux.HandleFunc("/api/logs", s.handleLogsAPI)

	// Web UI
	mux.HandleFunc("/alerts-ui", s.handleAlertsPage)
	mux.HandleFunc("/bulk-generate", s.handleBulkGenerate)
	mux.HandleFunc("/", s.handleIndex)

	return mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := ":" + s.port
	s.logger.Info().
		Str("address", addr).
		Msg("Starting API server with Web UI")

	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth returns service health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus returns a service summary
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	alerts, err := s.manager.ListAlerts()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list alerts")
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"active_alerts": len(alerts),
		"time":          time.Now().UTC().Format(time.RFC3339),
		"uptime":        time.Since(s.startTime).String(),
		"version":       s.version,
	})
}

// handleAlertsStatus returns all tracked alerts
func (s *Server) handleAlertsStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	alerts, err := s.manager.ListAlerts()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_alerts":     len(alerts),
		"alerts":           alerts,
		"alerts_directory": s.manager.AlertsDir(),
	})
}

// handleResolveAlert resolves a single tracked alert by id
func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	// Extract alert id from path: /resolve-alert/{id}
	id := strings.TrimPrefix(r.URL.Path, "/resolve-alert/")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Alert id required",
		})
		return
	}

	result := s.manager.ResolveOne(r.Context(), id)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": result.OK,
		"message": result.Message,
	})
}

// handleCloseAll resolves every tracked alert
func (s *Server) handleCloseAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	result := s.manager.CloseAll(r.Context())
	message := "All alerts closed"
	if len(result.Errors) > 0 {
		message = "Some alerts could not be closed"
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      len(result.Errors) == 0,
		"closed_count": result.Closed,
		"errors":       result.Errors,
		"message":      message,
	})
}

// handleCleanup removes tracked records older than days_old (default 7)
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	days := defaultCleanupDays
	if v := r.URL.Query().Get("days_old"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}

	result, err := s.manager.Cleanup(days)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"removed_count": result.Removed,
		"message":       "Cleanup finished",
	})
}

// handleLogsAPI returns recent log entries as JSON
func (s *Server) handleLogsAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var entries []webui.LogEntry
	if s.logBuffer != nil {
		entries = s.logBuffer.GetRecentEntries(200)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// Pair is a key/value row echoed back into the form
type Pair struct {
	Key   string
	Value string
}

// FormData holds the submitted form values for re-rendering
type FormData struct {
	Summary         string
	Description     string
	Severity        string
	Duration        string
	Service         string
	LabelPairs      []Pair
	AnnotationPairs []Pair
}

// PageData holds all data for the form page template
type PageData struct {
	History         history.Fields
	Message         string
	MessageType     string
	Form            FormData
	AlertmanagerURL string
	Version         string
}

// AlertsPageData holds data for the tracked-alerts page
type AlertsPageData struct {
	Total       int
	Alerts      []types.AlertRecord
	AlertsDir   string
	Message     string
	MessageType string
}

// handleIndex renders and handles the alert form
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderForm(w, PageData{Form: FormData{}})
	case http.MethodPost:
		s.handleFireForm(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleFireForm fires one alert from the submitted form
func (s *Server) handleFireForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := FormData{
		Summary:         r.PostForm.Get("summary"),
		Description:     r.PostForm.Get("description"),
		Severity:        r.PostForm.Get("severity"),
		Duration:        r.PostForm.Get("duration"),
		Service:         r.PostForm.Get("service"),
		LabelPairs:      zipPairs(r.PostForm["label_keys"], r.PostForm["label_values"]),
		AnnotationPairs: zipPairs(r.PostForm["annotation_keys"], r.PostForm["annotation_values"]),
	}

	intent := types.AlertIntent{
		Summary:     form.Summary,
		Description: form.Description,
		Severity:    form.Severity,
		Duration:    form.Duration,
		Service:     form.Service,
		Labels:      pairsToMap(form.LabelPairs),
		Annotations: pairsToMap(form.AnnotationPairs),
	}

	result, err := s.manager.Fire(r.Context(), intent)
	if err != nil {
		// Re-render with the submitted input echoed back unchanged.
		s.renderForm(w, PageData{
			Message:     result.Message,
			MessageType: "error",
			Form:        form,
		})
		return
	}

	s.history.Record(
		strings.TrimSpace(form.Summary),
		strings.TrimSpace(form.Description),
		strings.TrimSpace(form.Service),
		strings.TrimSpace(form.Severity),
		strings.TrimSpace(form.Duration),
	)

	// Success clears the form.
	s.renderForm(w, PageData{
		Message:     result.Message,
		MessageType: "success",
		Form:        FormData{},
	})
}

// handleAlertsPage renders the tracked-alerts page
func (s *Server) handleAlertsPage(w http.ResponseWriter, r *http.Request) {
	s.renderAlerts(w, "", "")
}

// handleBulkGenerate fires count synthetic alerts and re-renders the
// tracked-alerts page with a summary message
func (s *Server) handleBulkGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	count := 10
	if v := r.PostForm.Get("count"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			count = parsed
		}
	}
	duration := r.PostForm.Get("duration")
	if duration == "" {
		duration = "5m"
	}

	result := s.manager.BulkGenerate(r.Context(), count, duration)

	message := strconv.Itoa(result.Generated) + " alerts generated"
	messageType := "success"
	if len(result.Errors) > 0 {
		message += ", " + strconv.Itoa(len(result.Errors)) + " failed"
		messageType = "error"
	}
	s.renderAlerts(w, message, messageType)
}

func (s *Server) renderForm(w http.ResponseWriter, data PageData) {
	data.History = s.history.Load()
	data.AlertmanagerURL = s.alertmanagerURL
	data.Version = s.version

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.Templates.ExecuteTemplate(w, "index", data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render form template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) renderAlerts(w http.ResponseWriter, message, messageType string) {
	alerts, err := s.manager.ListAlerts()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list alerts")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := AlertsPageData{
		Total:       len(alerts),
		Alerts:      alerts,
		AlertsDir:   s.manager.AlertsDir(),
		Message:     message,
		MessageType: messageType,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webui.Templates.ExecuteTemplate(w, "alerts", data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render alerts template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// zipPairs joins parallel key/value form fields, dropping rows where
// either side is blank
func zipPairs(keys, values []string) []Pair {
	pairs := make([]Pair, 0, len(keys))
	for i, key := range keys {
		if i >= len(values) {
			break
		}
		key = strings.TrimSpace(key)
		value := strings.TrimSpace(values[i])
		if key == "" || value == "" {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}

func pairsToMap(pairs []Pair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}
