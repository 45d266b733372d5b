package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"leadmail/clipboard"
	"leadmail/logger"
	"leadmail/models"
	"leadmail/service"
	"leadmail/session"
	"leadmail/views"
)

// Handler regroupe les handlers HTTP du formulaire
type Handler struct {
	views *views.Renderer
	log   *slog.Logger
}

// New crée les handlers
func New(renderer *views.Renderer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{views: renderer, log: log.With(logger.Component("http"))}
}

// Page affiche la page principale (GET /)
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, views.Page, h.templateData(r, form.Snapshot()))
}

// Generate traite le formulaire (POST /generate)
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	if err := h.applyFields(r, form); err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := form.Generate(r.Context())
	status := http.StatusOK
	if errors.Is(err, service.ErrInFlight) {
		status = http.StatusConflict
	}

	if wantsJSON(r) {
		writeJSON(w, status, models.GenerateResponse{GenerationState: state, Copied: form.Copied()})
		return
	}

	name := views.Page
	if IsHTMX(r) {
		name = views.Panel
	}
	h.render(w, r, status, name, h.templateData(r, form.Snapshot()))
}

// applyFields copie les champs postés dans le formulaire de la session.
// Un corps JSON est décodé comme un LeadInput complet.
func (h *Handler) applyFields(r *http.Request, form *service.Form) error {
	if sendsJSON(r) {
		var lead models.LeadInput
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			return errors.New("invalid JSON payload")
		}
		for _, f := range models.Fields {
			if err := form.UpdateField(f.Name, lead.Get(f.Name)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return errors.New("invalid form")
	}
	for _, f := range models.Fields {
		if _, posted := r.PostForm[f.Name]; !posted {
			continue
		}
		if err := form.UpdateField(f.Name, r.PostForm.Get(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// UpdateField met à jour un seul champ (POST /fields/{name})
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	var value string
	if sendsJSON(r) {
		var body struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.fail(w, r, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		value = body.Value
	} else {
		value = r.PostFormValue(name)
	}

	if err := form.UpdateField(name, value); err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Copy copie l'email généré dans le presse-papiers (POST /copy)
func (h *Handler) Copy(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	err := form.Copy(r.Context())
	switch {
	case errors.Is(err, service.ErrNothingToCopy):
		h.fail(w, r, http.StatusNotFound, err.Error())
		return
	case err != nil && !errors.Is(err, clipboard.ErrCopyFailed):
		h.log.ErrorContext(r.Context(), "copy failed", logger.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "copy failed")
		return
	}

	snap := form.Snapshot()
	switch {
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, map[string]any{"copied": snap.Copied, "warning": snap.CopyWarning})
	case IsHTMX(r) && err != nil:
		// l'avertissement s'affiche dans le panneau de résultat, pas dans le bouton
		w.Header().Set(HXRetarget, "#panel")
		w.Header().Set(HXReswap, "innerHTML")
		h.render(w, r, http.StatusOK, views.Panel, h.templateData(r, snap))
	case IsHTMX(r):
		h.render(w, r, http.StatusOK, views.CopyButton, h.templateData(r, snap))
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// CopyState renvoie le bouton Copy dans son état courant (GET /copy)
func (h *Handler) CopyState(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	snap := form.Snapshot()
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]bool{"copied": snap.Copied})
		return
	}
	h.render(w, r, http.StatusOK, views.CopyButton, h.templateData(r, snap))
}

// Health répond aux sondes de disponibilité (GET /healthz)
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) (*service.Form, bool) {
	form, ok := session.FromContext(r.Context())
	if !ok {
		h.log.ErrorContext(r.Context(), "no session form in request context")
		http.Error(w, "Session error", http.StatusInternalServerError)
		return nil, false
	}
	return form, true
}

func (h *Handler) templateData(r *http.Request, snap service.Snapshot) models.TemplateData {
	data := snap.TemplateData()
	data.CSRFField = csrf.TemplateField(r)
	data.CSRFToken = csrf.Token(r)
	return data
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data models.TemplateData) {
	var buf bytes.Buffer
	if err := h.views.Render(&buf, name, data); err != nil {
		h.log.ErrorContext(r.Context(), "error executing template", slog.String("template", name), logger.Error(err))
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// fail répond en JSON aux clients JSON, en texte sinon
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if wantsJSON(r) || sendsJSON(r) {
		writeJSONError(w, status, message)
		return
	}
	http.Error(w, message, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
