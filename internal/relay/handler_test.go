package relay

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pgn-chatbot/internal/nonce"
)

const testSecret = "relay-test-secret-0123456789"

type fixture struct {
	router  http.Handler
	issuer  *nonce.Issuer
	hits    *atomic.Int32
	lastMsg *atomic.Value
}

func newFixture(t *testing.T, upstream http.HandlerFunc, timeout time.Duration) *fixture {
	t.Helper()

	hits := &atomic.Int32{}
	lastMsg := &atomic.Value{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		lastMsg.Store(body["mensaje"])
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	issuer := nonce.NewIssuer(testSecret, time.Hour)
	svc := NewService(issuer, NewHTTPUpstream(srv.URL, timeout), zap.NewNop())

	r := chi.NewRouter()
	RegisterRoutes(r, "/ajax", NewHandler(svc, zap.NewNop()))

	return &fixture{router: r, issuer: issuer, hits: hits, lastMsg: lastMsg}
}

func (f *fixture) post(t *testing.T, sid string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ajax", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: nonce.CookieName, Value: sid})
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) validForm(t *testing.T, sid, msg string) url.Values {
	t.Helper()
	tok, err := f.issuer.Issue(sid)
	require.NoError(t, err)
	return url.Values{
		"action":      {ActionChat},
		"mensaje":     {msg},
		"_ajax_nonce": {tok},
	}
}

func replyWith(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func decodeFailure(t *testing.T, rr *httptest.ResponseRecorder) failure {
	t.Helper()
	var f failure
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&f))
	assert.False(t, f.Success)
	return f
}

func TestHandleAjax_Success(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusOK, `{"respuesta":"Hello"}`), time.Second)
	sid := uuid.NewString()

	rr := f.post(t, sid, f.validForm(t, sid, "  Hola PGN  "))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":200,"data":{"respuesta":"Hello"}}`, rr.Body.String())
	assert.EqualValues(t, 1, f.hits.Load())
	assert.Equal(t, "Hola PGN", f.lastMsg.Load())
}

func TestHandleAjax_MissingToken(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusOK, `{}`), time.Second)
	sid := uuid.NewString()
	form := f.validForm(t, sid, "hola")
	form.Del("_ajax_nonce")

	rr := f.post(t, sid, form)

	require.Equal(t, http.StatusForbidden, rr.Code)
	decodeFailure(t, rr)
	assert.Zero(t, f.hits.Load())
}

func TestHandleAjax_InvalidToken(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusOK, `{}`), time.Second)
	sid := uuid.NewString()

	cases := map[string]func() (string, url.Values){
		"forged": func() (string, url.Values) {
			form := f.validForm(t, sid, "hola")
			form.Set("_ajax_nonce", "eyJhbGciOiJIUzI1NiJ9.e30.c2lnbmF0dXJl")
			return sid, form
		},
		"other session": func() (string, url.Values) {
			return uuid.NewString(), f.validForm(t, sid, "hola")
		},
		"no cookie": func() (string, url.Values) {
			return "", f.validForm(t, sid, "hola")
		},
	}

	for name, mk := range cases {
		t.Run(name, func(t *testing.T) {
			cookie, form := mk()
			rr := f.post(t, cookie, form)
			require.Equal(t, http.StatusForbidden, rr.Code)
			decodeFailure(t, rr)
		})
	}
	assert.Zero(t, f.hits.Load())
}

func TestHandleAjax_EmptyMessage(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusOK, `{}`), time.Second)
	sid := uuid.NewString()

	for _, msg := range []string{"", "   ", "<script>x()</script>"} {
		rr := f.post(t, sid, f.validForm(t, sid, msg))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Mensaje vacío", decodeFailure(t, rr).Data.Error)
	}
	assert.Zero(t, f.hits.Load())
}

func TestHandleAjax_UpstreamTimeout(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}
	f := newFixture(t, slow, 50*time.Millisecond)
	sid := uuid.NewString()

	rr := f.post(t, sid, f.validForm(t, sid, "hola"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	fail := decodeFailure(t, rr)
	assert.NotEmpty(t, fail.Data.Error)
	assert.Contains(t, fail.Data.Error, "Client.Timeout")
}

func TestHandleAjax_UpstreamErrorPassthrough(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusServiceUnavailable, `{"detail":"mantenimiento"}`), time.Second)
	sid := uuid.NewString()

	rr := f.post(t, sid, f.validForm(t, sid, "hola"))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":503,"data":{"detail":"mantenimiento"}}`, rr.Body.String())
}

func TestHandleAjax_NonJSONUpstream(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}, time.Second)
	sid := uuid.NewString()

	rr := f.post(t, sid, f.validForm(t, sid, "hola"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":200,"data":null}`, rr.Body.String())
}

func TestHandleAjax_UnknownAction(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusOK, `{}`), time.Second)
	sid := uuid.NewString()
	form := f.validForm(t, sid, "hola")
	form.Set("action", "heartbeat")

	rr := f.post(t, sid, form)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	decodeFailure(t, rr)
	assert.Zero(t, f.hits.Load())
}

func TestHandleAjax_Multipart(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusOK, `{"respuesta":"ok"}`), time.Second)
	sid := uuid.NewString()
	tok, err := f.issuer.Issue(sid)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("action", ActionChat))
	require.NoError(t, mw.WriteField("mensaje", "sedes"))
	require.NoError(t, mw.WriteField("_ajax_nonce", tok))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ajax", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: nonce.CookieName, Value: sid})
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sedes", f.lastMsg.Load())
}

func TestHandleAjax_OversizedBody(t *testing.T) {
	f := newFixture(t, replyWith(http.StatusOK, `{}`), time.Second)
	sid := uuid.NewString()
	form := f.validForm(t, sid, strings.Repeat("a", maxFormBody+1))

	rr := f.post(t, sid, form)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, f.hits.Load())
}
