package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"mindcare/internal/chart"
	"mindcare/internal/service"

	"go.uber.org/zap"
)

// ClinicHandler serves clients, sessions and the records attached to them.
type ClinicHandler struct {
	clinic service.ClinicService
	logger *zap.Logger
}

func NewClinicHandler(clinic service.ClinicService, logger *zap.Logger) *ClinicHandler {
	return &ClinicHandler{clinic: clinic, logger: logger}
}

// changed answers a delete or status change. Unknown ids are not an error.
type changed struct {
	Found bool `json:"found"`
}

func (h *ClinicHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	switch r.URL.Path {
	case "/api/v1/dashboard":
		writeJSON(w, http.StatusOK, Ok(h.clinic.Dashboard(r.Context())))
	case "/api/v1/calendar":
		days, err := h.clinic.Calendar(r.Context(), r.URL.Query().Get("month"))
		if err != nil {
			writeError(w, h.logger, "calendar", err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(days))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Clients routes /api/v1/clients and everything nested under a client.
func (h *ClinicHandler) Clients(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/v1/clients")
	switch {
	case len(parts) == 0:
		switch r.Method {
		case http.MethodGet:
			h.ListClients(w, r)
		case http.MethodPost:
			h.CreateClient(w, r)
		default:
			methodNotAllowed(w)
		}
	case len(parts) == 1 && parts[0] == "export":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ExportClients(w, r)
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.GetClient(w, r, parts[0])
		case http.MethodDelete:
			h.DeleteClient(w, r, parts[0])
		default:
			methodNotAllowed(w)
		}
	case len(parts) == 2:
		h.clientRecords(w, r, parts[0], parts[1])
	case len(parts) == 3 && parts[1] == "evolution" && (parts[2] == "chart" || parts[2] == "chart.svg"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.EvolutionChart(w, r, parts[0], parts[2] == "chart.svg")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ClinicHandler) clientRecords(w http.ResponseWriter, r *http.Request, clientID, kind string) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	list := r.Method == http.MethodGet
	switch kind {
	case "notes":
		if list {
			writeJSON(w, http.StatusOK, Ok(h.clinic.ListNotes(r.Context(), clientID)))
			return
		}
		h.CreateNote(w, r, clientID)
	case "forms":
		if list {
			writeJSON(w, http.StatusOK, Ok(h.clinic.ListForms(r.Context(), clientID)))
			return
		}
		h.CreateForm(w, r, clientID)
	case "evolution":
		if list {
			writeJSON(w, http.StatusOK, Ok(h.clinic.ListEvolution(r.Context(), clientID)))
			return
		}
		h.CreateEvolutionEntry(w, r, clientID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ClinicHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := h.clinic.ListClients(r.Context(), service.ListClientsRequest{
		Search:    q.Get("search"),
		Page:      parseInt(q.Get("page"), 1),
		Size:      parseInt(q.Get("size"), 0),
		Sort:      q.Get("sort"),
		Direction: parseInt(q.Get("direction"), 1),
	})
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ClinicHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req service.CreateClientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.clinic.CreateClient(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "client_add", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(c))
}

func (h *ClinicHandler) GetClient(w http.ResponseWriter, r *http.Request, id string) {
	d, ok := h.clinic.GetClient(r.Context(), id)
	if !ok {
		writeJSON(w, http.StatusOK, Fail("client not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}

func (h *ClinicHandler) DeleteClient(w http.ResponseWriter, r *http.Request, id string) {
	found, err := h.clinic.DeleteClient(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "client_delete", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(changed{Found: found}))
}

func (h *ClinicHandler) ExportClients(w http.ResponseWriter, r *http.Request) {
	data, err := GenerateClientExport(h.clinic.ExportClients(r.Context()))
	if err != nil {
		h.logger.Error("GenerateClientExport failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to generate export: %v", err)))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=clients-export.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ClinicHandler) CreateNote(w http.ResponseWriter, r *http.Request, clientID string) {
	var req service.CreateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ClientID = clientID
	n, err := h.clinic.CreateNote(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "note_add", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(n))
}

func (h *ClinicHandler) CreateForm(w http.ResponseWriter, r *http.Request, clientID string) {
	var req service.CreateFormRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ClientID = clientID
	f, err := h.clinic.CreateForm(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "form_add", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *ClinicHandler) CreateEvolutionEntry(w http.ResponseWriter, r *http.Request, clientID string) {
	var req service.CreateEvolutionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ClientID = clientID
	e, err := h.clinic.CreateEvolutionEntry(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "evolution_add", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(e))
}

// EvolutionChart answers with the chart primitives, or an SVG document when asSVG is set.
func (h *ClinicHandler) EvolutionChart(w http.ResponseWriter, r *http.Request, clientID string, asSVG bool) {
	resp, err := h.clinic.EvolutionChart(r.Context(), clientID)
	if err != nil {
		writeError(w, h.logger, "evolution_chart", err)
		return
	}
	if !asSVG {
		writeJSON(w, http.StatusOK, Ok(resp))
		return
	}
	var buf bytes.Buffer
	if err := chart.WriteSVG(&buf, resp.Chart); err != nil {
		h.logger.Error("WriteSVG failed", zap.String("client_id", clientID), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail("failed to render chart"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Sessions routes /api/v1/sessions and /api/v1/sessions/{id}[/action].
func (h *ClinicHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/v1/sessions")
	switch len(parts) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, Ok(h.clinic.ListSessions(r.Context(), r.URL.Query().Get("clientId"))))
		case http.MethodPost:
			h.CreateSession(w, r)
		default:
			methodNotAllowed(w)
		}
	case 1:
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		h.change(w, r, "session_cancel", h.clinic.CancelSession, parts[0])
	case 2:
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		switch parts[1] {
		case "confirm":
			h.change(w, r, "session_confirm", h.clinic.ConfirmSession, parts[0])
		case "no-show":
			h.change(w, r, "session_no_show", h.clinic.MarkNoShow, parts[0])
		case "remind":
			h.SendReminder(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ClinicHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s, err := h.clinic.CreateSession(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "session_add", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(s))
}

func (h *ClinicHandler) SendReminder(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.clinic.SendReminder(r.Context(), id); err != nil {
		writeError(w, h.logger, "session_remind", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"sessionId": id}))
}

// change runs a status change or delete identified by id.
func (h *ClinicHandler) change(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, string) (bool, error), id string) {
	found, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(changed{Found: found}))
}

// Notes serves PUT and DELETE on /api/v1/notes/{id}.
func (h *ClinicHandler) Notes(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/v1/notes")
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id := parts[0]
	switch r.Method {
	case http.MethodPut:
		var req service.UpdateNoteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		n, err := h.clinic.UpdateNote(r.Context(), id, req)
		if err != nil {
			writeError(w, h.logger, "note_edit", err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(n))
	case http.MethodDelete:
		h.change(w, r, "note_delete", h.clinic.DeleteNote, id)
	default:
		methodNotAllowed(w)
	}
}

// Forms serves PUT and DELETE on /api/v1/forms/{id}.
func (h *ClinicHandler) Forms(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/v1/forms")
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id := parts[0]
	switch r.Method {
	case http.MethodPut:
		var req service.UpdateFormRequest
		if !decodeBody(w, r, &req) {
			return
		}
		f, err := h.clinic.UpdateForm(r.Context(), id, req)
		if err != nil {
			writeError(w, h.logger, "form_edit", err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(f))
	case http.MethodDelete:
		h.change(w, r, "form_delete", h.clinic.DeleteForm, id)
	default:
		methodNotAllowed(w)
	}
}

// Evolution serves DELETE on /api/v1/evolution/{id}.
func (h *ClinicHandler) Evolution(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/v1/evolution")
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	h.change(w, r, "evolution_delete", h.clinic.DeleteEvolutionEntry, parts[0])
}
