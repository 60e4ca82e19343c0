package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/util"
)

// Handlers holds the shared dependencies for all HTTP handlers.
type Handlers struct {
	store     *Store
	jsonlPath string
	timezone  string
}

// NewHandlers creates the handler set backed by store, reloading from
// jsonlPath on refresh and resolving default date windows in timezone.
func NewHandlers(store *Store, jsonlPath, timezone string) *Handlers {
	return &Handlers{store: store, jsonlPath: jsonlPath, timezone: timezone}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"entries":    h.store.Count(),
		"lastLoaded": h.store.LastLoaded().Format(time.RFC3339),
	})
}

// Refresh handles POST /refresh, reloading the JSONL file immediately.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.store.Load(h.jsonlPath); err != nil {
		util.LogErrorf("refresh: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"entries": h.store.Count(),
	})
}

// Entries handles GET /api/entries, returning raw filtered entries.
func (h *Handlers) Entries(w http.ResponseWriter, r *http.Request) {
	from, to, errMsg := h.parseDateRange(r)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}
	entries := filterByRange(h.store.Entries(), from, to)
	if entries == nil {
		entries = []model.TimeLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Projects handles GET /api/projects.
func (h *Handlers) Projects(w http.ResponseWriter, r *http.Request) {
	from, to, errMsg := h.parseDateRange(r)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}
	stats := aggregateByProject(filterByRange(h.store.Entries(), from, to))
	if stats == nil {
		stats = []ProjectStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// Days handles GET /api/days.
func (h *Handlers) Days(w http.ResponseWriter, r *http.Request) {
	from, to, errMsg := h.parseDateRange(r)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}
	stats := aggregateByDay(filterByRange(h.store.Entries(), from, to), from, to)
	if stats == nil {
		stats = []DayStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// Weeks handles GET /api/weeks.
func (h *Handlers) Weeks(w http.ResponseWriter, r *http.Request) {
	from, to, errMsg := h.parseDateRange(r)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}
	stats := aggregateByWeek(filterByRange(h.store.Entries(), from, to))
	if stats == nil {
		stats = []WeekStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// parseDateRange reads the "from" and "to" query params. Defaults: to=today,
// from=today-30 in the configured timezone. Returns a non-empty errMsg on failure.
func (h *Handlers) parseDateRange(r *http.Request) (from, to, errMsg string) {
	loc, err := time.LoadLocation(h.timezone)
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	defaultTo := now.Format("2006-01-02")
	defaultFrom := now.AddDate(0, 0, -30).Format("2006-01-02")

	from = r.URL.Query().Get("from")
	to = r.URL.Query().Get("to")

	if from == "" {
		from = defaultFrom
	}
	if to == "" {
		to = defaultTo
	}

	if !dateutil.IsValidISODate(from) {
		return "", "", fmt.Sprintf("invalid from date %q: must be YYYY-MM-DD", from)
	}
	if !dateutil.IsValidISODate(to) {
		return "", "", fmt.Sprintf("invalid to date %q: must be YYYY-MM-DD", to)
	}
	if from > to {
		return "", "", fmt.Sprintf("from (%s) must not be after to (%s)", from, to)
	}

	return from, to, ""
}

// writeJSON marshals v as JSON and writes it with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, err := sonic.Marshal(v)
	if err != nil {
		util.LogErrorf("writeJSON encode error: %v", err)
		return
	}
	w.Write(data)
}
