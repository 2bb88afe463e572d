package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"ghost-server/internal/domain"
	"ghost-server/internal/engine"
)

// DebugHandler предоставляет доступ к состоянию хоста
type DebugHandler struct {
	Host *engine.Host
}

func NewDebugHandler(h *engine.Host) *DebugHandler {
	return &DebugHandler{Host: h}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/session", h.handleSession)
	mux.HandleFunc("/debug/ghost", h.handleGhostFile)
}

// /debug/session - последний разосланный снимок сессии
func (h *DebugHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Host.Snapshot())
}

// /debug/ghost - сводка по сохраненному файлу.
// Файл сам не читаем: сводку готовит цикл хоста после каждого сохранения.
func (h *DebugHandler) handleGhostFile(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Host.SavedSummary()
	switch {
	case errors.Is(err, domain.ErrNoSavedData):
		http.Error(w, "No saved ghost", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, sum)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(data)
}
