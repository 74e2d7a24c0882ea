package handlers

import (
	"net/http"
)

func (h *Handler) GetTimer(w http.ResponseWriter, r *http.Request) {
	timer, err := h.timerService.GetTimer(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timer)
}

func (h *Handler) CreateTimer(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTimerInput(w, r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	timer, err := h.timerService.CreateTimer(r.Context(), in)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timer)
}

func (h *Handler) UpdateTimer(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTimerInput(w, r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	timer, err := h.timerService.UpdateTimer(r.Context(), in)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timer)
}

func (h *Handler) DeleteTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.timerService.DeleteTimer(r.Context()); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
