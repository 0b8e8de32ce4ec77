/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/friendsincode/vidar_rotation/internal/board"
	"github.com/friendsincode/vidar_rotation/internal/logbuffer"
	"github.com/friendsincode/vidar_rotation/internal/report"
	"github.com/friendsincode/vidar_rotation/internal/rotation"
	"github.com/friendsincode/vidar_rotation/internal/telemetry"
	"github.com/friendsincode/vidar_rotation/internal/version"
)

// API exposes HTTP handlers for the rotation board.
type API struct {
	board     *board.Service
	renderer  *report.Renderer
	logBuffer *logbuffer.Buffer
	logger    zerolog.Logger
}

// New creates the API router wrapper. logBuf may be nil; the log
// endpoints report unavailable in that case.
func New(boardSvc *board.Service, renderer *report.Renderer, logBuf *logbuffer.Buffer, logger zerolog.Logger) *API {
	return &API{
		board:     boardSvc,
		renderer:  renderer,
		logBuffer: logBuf,
		logger:    logger,
	}
}

// Routes registers all API routes on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", a.handleVersion)
		r.Get("/layout", a.handleLayout)
		r.Get("/config", a.handleConfigGet)
		r.Put("/config", a.handleConfigPut)
		r.Get("/lines/{line}/operable", a.handleOperable)
		r.Post("/schedule", a.handleScheduleGenerate)
		r.Get("/schedule/export", a.handleScheduleExport)
		r.Get("/logs", a.handleLogs)
		r.Get("/logs/stats", a.handleLogStats)
		r.Delete("/logs", a.handleLogsClear)
	})
}

func (a *API) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.Version})
}

func (a *API) handleLayout(w http.ResponseWriter, r *http.Request) {
	layout := a.board.Layout()
	writeJSON(w, http.StatusOK, map[string]any{
		"lines":         layout.Lines,
		"first_station": layout.FirstStation,
		"last_station":  layout.LastStation,
	})
}

func (a *API) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.board.Current())
}

func (a *API) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	var input board.ConfigInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	cfg, err := a.board.Apply(input)
	if err != nil {
		var conflict *rotation.ConflictError
		if errors.As(err, &conflict) {
			a.logger.Warn().
				Str("line", conflict.Line).
				Ints("stations", conflict.Stations).
				Msg("day configuration rejected")
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":    "configuration_conflict",
				"line":     conflict.Line,
				"stations": conflict.Stations,
				"message":  conflict.Error(),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_config",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

func (a *API) handleOperable(w http.ResponseWriter, r *http.Request) {
	line := chi.URLParam(r, "line")
	stations, err := a.board.OperableStations(line)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_line")
		return
	}
	if stations == nil {
		stations = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"line":     line,
		"operable": stations,
	})
}

type scheduleResponse struct {
	ID          string              `json:"id"`
	Date        string              `json:"date"`
	Pairs       map[string][]string `json:"pairs"`
	Unavailable map[string][]int    `json:"unavailable"`
}

func (a *API) handleScheduleGenerate(w http.ResponseWriter, r *http.Request) {
	result, err := a.board.Generate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}

	resp := scheduleResponse{
		ID:          result.Schedule.ID,
		Date:        result.Schedule.Date,
		Pairs:       make(map[string][]string, len(result.Schedule.Pairs)),
		Unavailable: result.Unavailable,
	}
	for line, pairs := range result.Schedule.Pairs {
		resp.Pairs[line] = rotation.Labels(pairs)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleScheduleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}

	result, err := a.board.Generate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}

	// A report with no pairs and no down stations carries no information;
	// surface that instead of serving an empty document.
	if !result.HasPairs() && !result.HasDownStations() {
		writeError(w, http.StatusUnprocessableEntity, "nothing_to_report")
		return
	}

	var out *report.ExportResult
	switch format {
	case "html":
		out, err = a.renderer.RenderHTML(result)
	case "xlsx":
		out, err = a.renderer.RenderXLSX(result)
	default:
		writeError(w, http.StatusBadRequest, "unsupported_format")
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Str("format", format).Msg("report rendering failed")
		writeError(w, http.StatusInternalServerError, "render_failed")
		return
	}

	telemetry.ReportExportsTotal.WithLabelValues(format).Inc()

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

func (a *API) handleLogs(w http.ResponseWriter, r *http.Request) {
	if a.logBuffer == nil {
		writeError(w, http.StatusServiceUnavailable, "log_buffer_unavailable")
		return
	}

	params := logbuffer.QueryParams{
		Level:     r.URL.Query().Get("level"),
		Component: r.URL.Query().Get("component"),
		Search:    r.URL.Query().Get("search"),
		Limit:     500,
	}
	if since := r.URL.Query().Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			params.Since = t
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			params.Limit = n
		}
	}

	entries := a.logBuffer.Query(params)
	if entries == nil {
		entries = []logbuffer.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (a *API) handleLogStats(w http.ResponseWriter, r *http.Request) {
	if a.logBuffer == nil {
		writeError(w, http.StatusServiceUnavailable, "log_buffer_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, a.logBuffer.Stats())
}

func (a *API) handleLogsClear(w http.ResponseWriter, r *http.Request) {
	if a.logBuffer == nil {
		writeError(w, http.StatusServiceUnavailable, "log_buffer_unavailable")
		return
	}
	a.logBuffer.Clear()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
