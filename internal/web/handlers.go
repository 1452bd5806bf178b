package web

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdash/internal/aggregate"
	"taskdash/internal/apperr"
	"taskdash/internal/guard"
	"taskdash/internal/session"
	"taskdash/internal/store"
	"taskdash/internal/task"
)

type authView struct {
	Name  string
	Email string
	Error string
}

type taskView struct {
	ID        string
	Heading   string
	Content   string
	Priority  string
	Deadline  string
	Completed bool
}

type bucketView struct {
	Label string
	Tasks []taskView
}

type homeView struct {
	Name           string
	Error          string
	Today          string
	Priorities     []string
	Summary        aggregate.Summary
	Todo           []bucketView
	Completed      []bucketView
	TodoCount      int
	CompletedCount int
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render failed", "template", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login", authView{})
}

func (s *Server) signupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "signup", authView{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	v := authView{Email: strings.TrimSpace(r.PostFormValue("email"))}
	tok, err := s.backend.Login(r.Context(), v.Email, r.PostFormValue("password"))
	if err != nil {
		v.Error = apperr.UserMessage(err)
		s.render(w, authStatus(err), "login", v)
		return
	}
	s.setSession(w, tok)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	v := authView{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
	}
	tok, err := s.backend.Register(r.Context(), v.Name, v.Email, r.PostFormValue("password"))
	if err != nil {
		v.Error = apperr.UserMessage(err)
		s.render(w, authStatus(err), "signup", v)
		return
	}
	s.setSession(w, tok)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func authStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNetwork:
		return http.StatusBadGateway
	case apperr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusUnauthorized
	}
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) setSession(w http.ResponseWriter, tok session.Token) {
	c := &http.Cookie{
		Name:     session.CookieName,
		Value:    string(tok),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if claims, err := session.ParseClaims(tok); err == nil && claims.ExpiresAt != nil {
		c.Expires = claims.ExpiresAt.Time
	}
	http.SetCookie(w, c)
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	tok := guard.TokenFrom(r)
	v := homeView{
		Error:      r.URL.Query().Get("error"),
		Today:      s.now().UTC().Format(task.DateLayout),
		Priorities: []string{string(task.PriorityHigh), string(task.PriorityMedium), string(task.PriorityLow)},
	}
	if claims, ok := guard.ClaimsFrom(r.Context()); ok {
		v.Name = claims.Name
	}

	st := store.New()
	if err := st.Refresh(r.Context(), s.backend, tok); err != nil {
		if apperr.KindOf(err) == apperr.KindAuth {
			s.clearSession(w)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.log.Warn("fetch tasks failed", "kind", apperr.KindOf(err).String(), "err", err)
		v.Error = apperr.UserMessage(err)
	}

	tasks := st.Snapshot()
	buckets := aggregate.GroupByDeadline(tasks)
	v.Summary = aggregate.Summarize(tasks)
	v.TodoCount = aggregate.TodoCount(buckets)
	v.CompletedCount = aggregate.CompletedCount(buckets)
	for _, b := range buckets {
		if len(b.Todo) > 0 {
			v.Todo = append(v.Todo, bucketView{Label: b.Label, Tasks: taskViews(b.Todo)})
		}
		if len(b.Completed) > 0 {
			v.Completed = append(v.Completed, bucketView{Label: b.Label, Tasks: taskViews(b.Completed)})
		}
	}
	s.render(w, http.StatusOK, "home", v)
}

func taskViews(ts []task.Task) []taskView {
	out := make([]taskView, len(ts))
	for i, t := range ts {
		out[i] = taskView{
			ID:        t.ID,
			Heading:   t.Heading,
			Content:   t.Content,
			Priority:  string(t.Priority),
			Deadline:  t.Deadline.UTC().Format(task.DateLayout),
			Completed: t.Completed,
		}
	}
	return out
}

// mutate runs fn under the session's in-flight guard and redirects to /home.
// A second submission while one is running gets 409.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(tok session.Token) error) {
	tok := guard.TokenFrom(r)
	if tok.Empty() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	release, ok := s.busy.TryAcquire(string(tok))
	if !ok {
		http.Error(w, "another change is still in progress", http.StatusConflict)
		return
	}
	err := fn(tok)
	release()

	if err != nil {
		s.log.Warn("task change failed", "op", op, "kind", apperr.KindOf(err).String(), "err", err)
		if apperr.KindOf(err) == apperr.KindAuth {
			s.clearSession(w)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/home?error="+url.QueryEscape(apperr.UserMessage(err)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// draftFrom reads the add and edit form fields.
func draftFrom(r *http.Request) (task.Draft, error) {
	d := task.Draft{
		Heading: strings.TrimSpace(r.PostFormValue("heading")),
		Content: strings.TrimSpace(r.PostFormValue("content")),
	}
	var fields []apperr.FieldError
	if p, err := task.ParsePriority(r.PostFormValue("priority")); err != nil {
		fields = append(fields, apperr.FieldError{Field: "priority", Reason: "must be high, medium or low"})
	} else {
		d.Priority = p
	}
	if raw := strings.TrimSpace(r.PostFormValue("deadline")); raw == "" {
		fields = append(fields, apperr.FieldError{Field: "deadline", Reason: "required"})
	} else if dl, err := time.Parse(task.DateLayout, raw); err != nil {
		fields = append(fields, apperr.FieldError{Field: "deadline", Reason: "want YYYY-MM-DD"})
	} else {
		d.Deadline = dl
	}
	if len(fields) > 0 {
		return task.Draft{}, apperr.Validation("read form", fields...)
	}
	return d, d.Validate()
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "add task", func(tok session.Token) error {
		d, err := draftFrom(r)
		if err != nil {
			return err
		}
		_, err = s.backend.AddTask(r.Context(), tok, d)
		return err
	})
}

// current re-reads the task id from the backend; mutations never patch a local copy.
func (s *Server) current(r *http.Request, tok session.Token, id string) (task.Task, error) {
	st := store.New()
	if err := st.Refresh(r.Context(), s.backend, tok); err != nil {
		return task.Task{}, err
	}
	t, ok := st.Find(id)
	if !ok {
		return task.Task{}, apperr.Backend("find task", http.StatusNotFound, "Task not found")
	}
	return t, nil
}

func (s *Server) editTask(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "edit task", func(tok session.Token) error {
		d, err := draftFrom(r)
		if err != nil {
			return err
		}
		t, err := s.current(r, tok, r.PathValue("id"))
		if err != nil {
			return err
		}
		d.Completed = t.Completed
		_, err = s.backend.EditTask(r.Context(), tok, t.WithDraft(d))
		return err
	})
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "toggle task", func(tok session.Token) error {
		t, err := s.current(r, tok, r.PathValue("id"))
		if err != nil {
			return err
		}
		_, err = s.backend.EditTask(r.Context(), tok, t.Toggled())
		return err
	})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "delete task", func(tok session.Token) error {
		return s.backend.DeleteTask(r.Context(), tok, r.PathValue("id"))
	})
}
