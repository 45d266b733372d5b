// Package session keeps one lead form per browser, identified by a cookie.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadmail/logger"
	"leadmail/service"
)

const (
	DefaultCookieName  = "leadmail_sid"
	DefaultIdleTimeout = 30 * time.Minute
)

// FormFactory builds the form of a new session.
type FormFactory func() *service.Form

type entry struct {
	form     *service.Form
	lastSeen time.Time
}

// Store is an in-memory registry of forms keyed by session id.
type Store struct {
	newForm     FormFactory
	cookieName  string
	idleTimeout time.Duration
	secure      bool
	log         *slog.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// Option configures a Store.
type Option func(*Store)

func WithCookieName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.cookieName = name
		}
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Store) { s.secure = secure }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(newForm FormFactory, opts ...Option) *Store {
	s := &Store{
		newForm:     newForm,
		cookieName:  DefaultCookieName,
		idleTimeout: DefaultIdleTimeout,
		log:         slog.Default(),
		now:         time.Now,
		sessions:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("session"))
	return s
}

// Get returns the form for id, creating a session when id is unknown or
// empty. The returned id is the one the caller must keep.
func (s *Store) Get(id string) (*service.Form, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
		return e.form, id
	}

	id = uuid.NewString()
	s.sessions[id] = &entry{form: s.newForm(), lastSeen: s.now()}
	s.log.Debug("session created", logger.SessionID(id))
	return s.sessions[id].form, id
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and returns how
// many were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	var expired []*service.Form
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.form)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, f := range expired {
		f.Close()
	}
	if len(expired) > 0 {
		s.log.Debug("sessions expired", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done, then closes
// every remaining form.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.idleTimeout / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) closeAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range sessions {
		e.form.Close()
	}
}

type ctxKey struct{}

// Middleware resolves the session cookie, sets it when new and puts the
// session form in the request context.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cookieName); err == nil {
			id = c.Value
		}

		form, sid := s.Get(id)
		if sid != id {
			http.SetCookie(w, &http.Cookie{
				Name:     s.cookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, form)))
	})
}

// FromContext returns the form put there by Middleware.
func FromContext(ctx context.Context) (*service.Form, bool) {
	f, ok := ctx.Value(ctxKey{}).(*service.Form)
	return f, ok
}

// WithForm returns a copy of ctx carrying f.
func WithForm(ctx context.Context, f *service.Form) context.Context {
	return context.WithValue(ctx, ctxKey{}, f)
}
