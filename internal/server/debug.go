package server

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"

	"shooter-server/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/arenas", h.handleListArenas)
	mux.HandleFunc("/debug/sessions", h.handleListSessions)
}

// /debug/arenas - выделенные арены с участниками и сущностями
func (h *DebugHandler) handleListArenas(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, r, h.Service.Arenas.Snapshot())
}

// /debug/sessions - занятые слоты сессий
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, r, h.Service.Sessions.Snapshot())
}

// writeSnapshot отдает JSON, а с ?format=msgpack - компактный msgpack.
func writeSnapshot(w http.ResponseWriter, r *http.Request, data interface{}) {
	if r.URL.Query().Get("format") == "msgpack" {
		buf, err := msgpack.Marshal(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/msgpack")
		w.Write(buf)
		return
	}
	writeJSON(w, data)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, пустой список), возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
