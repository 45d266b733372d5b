package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadmail/clipboard"
	"leadmail/controllers"
	"leadmail/logger"
	"leadmail/models"
	"leadmail/service"
	"leadmail/session"
	"leadmail/views"
)

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Generate(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func reply(text string) completerFunc {
	return func(context.Context, string, string) (string, error) { return text, nil }
}

func newHandler() *controllers.Handler {
	return controllers.New(views.MustNew(), logger.Discard())
}

func newForm(t *testing.T, c service.Completer, w clipboard.Writer) *service.Form {
	t.Helper()
	if w == nil {
		w = clipboard.WriterFunc(func(string) error { return nil })
	}
	f := service.NewForm(c, clipboard.NewCopier(w), logger.Discard())
	t.Cleanup(f.Close)
	return f
}

func request(form *service.Form, method, target, contentType, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r.WithContext(session.WithForm(r.Context(), form))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func fillRequired(t *testing.T, f *service.Form) {
	t.Helper()
	require.NoError(t, f.UpdateField(models.FieldName, "Sarah"))
	require.NoError(t, f.UpdateField(models.FieldCompany, "Acme"))
	require.NoError(t, f.UpdateField(models.FieldRole, "CMO"))
}

func TestPage(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("x"), nil)

	w := httptest.NewRecorder()
	newHandler().Page(w, request(form, http.MethodGet, "/", "", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Generate Cold Email")
	assert.NotContains(t, w.Body.String(), `id="result"`)
}

func TestPageWithoutSession(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	newHandler().Page(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerateHTMX(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("Subject: Hello <team>"), nil)

	body := url.Values{"name": {"Sarah"}, "company": {"Acme"}, "role": {"CMO"}}.Encode()
	r := request(form, http.MethodPost, "/generate", "application/x-www-form-urlencoded", body)
	r.Header.Set(controllers.HXRequest, "true")
	w := httptest.NewRecorder()
	newHandler().Generate(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.NotContains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Subject: Hello &lt;team&gt;")
	assert.Equal(t, models.StatusSuccess, form.Snapshot().State.Status)
}

func TestGenerateKeepsUnpostedFields(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("ok"), nil)
	fillRequired(t, form)
	require.NoError(t, form.UpdateField(models.FieldIndustry, "Retail"))

	r := request(form, http.MethodPost, "/generate", "application/x-www-form-urlencoded", "role=VP")
	r.Header.Set(controllers.HXRequest, "true")
	newHandler().Generate(httptest.NewRecorder(), r)

	lead := form.Snapshot().Lead
	assert.Equal(t, "VP", lead.Role)
	assert.Equal(t, "Retail", lead.Industry)
	assert.Equal(t, "Sarah", lead.Name)
}

func TestGenerateJSONFailure(t *testing.T) {
	t.Parallel()
	form := newForm(t, completerFunc(func(context.Context, string, string) (string, error) {
		return "", &service.NetworkError{Err: errors.New("dial tcp: connection refused")}
	}), nil)

	r := request(form, http.MethodPost, "/generate", "application/json", `{"name":"Sarah","company":"Acme","role":"CMO"}`)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	newHandler().Generate(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, "Error: dial tcp: connection refused", got.Error)
	assert.Empty(t, got.Email)
}

func TestGenerateIgnoresClientDisconnect(t *testing.T) {
	t.Parallel()
	form := newForm(t, completerFunc(func(ctx context.Context, _, _ string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", &service.NetworkError{Err: err}
		}
		return "Subject: Hi", nil
	}), nil)

	body := url.Values{"name": {"Sarah"}, "company": {"Acme"}, "role": {"CMO"}}.Encode()
	r := request(form, http.MethodPost, "/generate", "application/x-www-form-urlencoded", body)
	ctx, cancel := context.WithCancel(r.Context())
	cancel()
	r = r.WithContext(ctx)
	r.Header.Set(controllers.HXRequest, "true")
	newHandler().Generate(httptest.NewRecorder(), r)

	assert.Equal(t, models.Success("Subject: Hi"), form.Snapshot().State)
}

func TestGenerateInvalidJSON(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("x"), nil)

	r := request(form, http.MethodPost, "/generate", "application/json", `{`)
	w := httptest.NewRecorder()
	newHandler().Generate(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid JSON payload"}`, w.Body.String())
}

func TestGenerateInFlight(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	release := make(chan struct{})
	form := newForm(t, completerFunc(func(context.Context, string, string) (string, error) {
		close(started)
		<-release
		return "late", nil
	}), nil)
	fillRequired(t, form)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = form.Generate(context.Background())
	}()
	<-started

	r := request(form, http.MethodPost, "/generate", "application/json", `{"name":"Sarah","company":"Acme","role":"CMO"}`)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	newHandler().Generate(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	var got models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StatusLoading, got.Status)

	close(release)
	<-done
	assert.Equal(t, "late", form.Snapshot().State.Email)
}

func TestUpdateField(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("x"), nil)
	h := newHandler()

	r := request(form, http.MethodPost, "/fields/company", "application/x-www-form-urlencoded", "company=Acme")
	w := httptest.NewRecorder()
	h.UpdateField(w, withURLParam(r, "name", "company"))
	assert.Equal(t, http.StatusNoContent, w.Code)

	r = request(form, http.MethodPost, "/fields/pain", "application/json", `{"value":"churn"}`)
	w = httptest.NewRecorder()
	h.UpdateField(w, withURLParam(r, "name", "pain"))
	assert.Equal(t, http.StatusNoContent, w.Code)

	lead := form.Snapshot().Lead
	assert.Equal(t, "Acme", lead.Company)
	assert.Equal(t, "churn", lead.Pain)
	assert.Equal(t, models.StatusIdle, form.Snapshot().State.Status)
}

func TestUpdateUnknownField(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("x"), nil)

	r := request(form, http.MethodPost, "/fields/phone", "application/x-www-form-urlencoded", "phone=1")
	w := httptest.NewRecorder()
	newHandler().UpdateField(w, withURLParam(r, "name", "phone"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `unknown lead field: "phone"`)
}

func TestCopy(t *testing.T) {
	t.Parallel()
	var copied string
	form := newForm(t, reply("the email"), clipboard.WriterFunc(func(s string) error {
		copied = s
		return nil
	}))
	fillRequired(t, form)
	_, err := form.Generate(context.Background())
	require.NoError(t, err)

	r := request(form, http.MethodPost, "/copy", "", "")
	r.Header.Set(controllers.HXRequest, "true")
	w := httptest.NewRecorder()
	newHandler().Copy(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Copied!")
	assert.Contains(t, w.Body.String(), `hx-trigger="load delay:2s"`)
	assert.Equal(t, "the email", copied)
	assert.True(t, form.Copied())
}

func TestCopyFailureRetargetsPanel(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("the email"), clipboard.WriterFunc(func(string) error {
		return errors.New("no clipboard utility")
	}))
	fillRequired(t, form)
	_, err := form.Generate(context.Background())
	require.NoError(t, err)

	r := request(form, http.MethodPost, "/copy", "", "")
	r.Header.Set(controllers.HXRequest, "true")
	w := httptest.NewRecorder()
	newHandler().Copy(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#panel", w.Header().Get(controllers.HXRetarget))
	out := w.Body.String()
	assert.Contains(t, out, "no clipboard utility")
	assert.Contains(t, out, "the email")
	assert.False(t, form.Copied())
}

func TestCopyNothing(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("x"), nil)

	w := httptest.NewRecorder()
	newHandler().Copy(w, request(form, http.MethodPost, "/copy", "", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCopyRedirectsPlainPost(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("x"), nil)
	fillRequired(t, form)
	_, err := form.Generate(context.Background())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newHandler().Copy(w, request(form, http.MethodPost, "/copy", "", ""))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCopyState(t *testing.T) {
	t.Parallel()
	form := newForm(t, reply("x"), nil)

	w := httptest.NewRecorder()
	newHandler().CopyState(w, request(form, http.MethodGet, "/copy", "", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hx-post="/copy"`)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	controllers.Health(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
