// Package server is the HTTP facade the UI layer talks to. It adapts the
// editor and store operations to REST; it holds no scheduling logic itself.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"pawplanner/internal/editor"
	"pawplanner/internal/model"
	"pawplanner/internal/store"
)

type Server struct {
	validate *validator.Validate
	store    *store.Store
	editor   *editor.Editor
	logger   *zerolog.Logger

	Mux *chi.Mux
}

func New(st *store.Store, ed *editor.Editor, logger *zerolog.Logger) *Server {
	s := &Server{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		store:    st,
		editor:   ed,
		logger:   logger,
		Mux:      chi.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Mux.Use(s.requestLogger)
	s.Mux.Use(s.recoverer)

	s.Mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.Mux.Route("/api/v1", func(r chi.Router) {
		r.Route("/employees/{employeeID}", func(r chi.Router) {
			r.Get("/window", s.getWindow)
			r.Route("/days/{date}", func(r chi.Router) {
				r.Get("/", s.getDay)
				r.Post("/session", s.openDay)
				r.Delete("/", s.deleteDay)
			})
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Patch("/", s.updateSession)
			r.Post("/submit", s.submit)
			r.Post("/confirm", s.confirm)
			r.Post("/decline", s.decline)
			r.Delete("/", s.cancelSession)
		})
	})
}

// getWindow loads the month window for ?month=YYYY-MM (default: current
// month) and returns it together with the derived aggregates.
func (s *Server) getWindow(w http.ResponseWriter, r *http.Request) {
	employeeID, err := s.employeeID(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	anchor := time.Now()
	if month := r.URL.Query().Get("month"); month != "" {
		anchor, err = time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			s.badRequest(w, r, err)
			return
		}
	}

	window, err := s.store.LoadWindow(r.Context(), employeeID, anchor)
	if err != nil {
		s.remoteError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, struct {
		Window *model.ScheduleWindow `json:"window"`
		Stats  store.MonthStats      `json:"stats"`
	}{window, s.store.Stats()})
}

// getDay returns the cached schedule for the date, or the synthesized
// default entry when no record exists.
func (s *Server) getDay(w http.ResponseWriter, r *http.Request) {
	employeeID, err := s.employeeID(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	date, err := s.datePathParam(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	if sched := s.store.ScheduleForDate(date); sched != nil {
		s.writeJSON(w, r, http.StatusOK, sched)
		return
	}
	s.writeJSON(w, r, http.StatusOK, model.DefaultDaySchedule(employeeID, date, s.defaultHours()))
}

func (s *Server) openDay(w http.ResponseWriter, r *http.Request) {
	employeeID, err := s.employeeID(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	date, err := s.datePathParam(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	session, err := s.editor.OpenDay(employeeID, date)
	if err != nil {
		s.conflictOrBadRequest(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session := s.editor.Session()
	if session == nil {
		s.errorJSON(w, r, http.StatusNotFound, editor.ErrNoSession.Error())
		return
	}
	s.writeJSON(w, r, http.StatusOK, session)
}

type timeRangePayload struct {
	Start string `json:"start" validate:"required,len=5"`
	End   string `json:"end" validate:"required,len=5"`
}

type updateSessionRequest struct {
	IsWorking *bool              `json:"isWorking"`
	WorkHours *[]timeRangePayload `json:"workHours" validate:"omitempty,dive"`
	Note      *string            `json:"note"`
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := s.readJSON(r, &req); err != nil {
		s.badRequest(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.badRequest(w, r, err)
		return
	}

	if req.IsWorking != nil {
		if err := s.editor.SetWorking(*req.IsWorking); err != nil {
			s.conflictOrBadRequest(w, r, err)
			return
		}
	}
	if req.WorkHours != nil {
		ranges := make([]model.TimeRange, len(*req.WorkHours))
		for i, p := range *req.WorkHours {
			ranges[i] = model.TimeRange{Start: p.Start, End: p.End}
		}
		if err := s.editor.SetWorkHours(ranges); err != nil {
			s.conflictOrBadRequest(w, r, err)
			return
		}
	}
	if req.Note != nil {
		if err := s.editor.SetNote(*req.Note); err != nil {
			s.conflictOrBadRequest(w, r, err)
			return
		}
	}

	s.writeJSON(w, r, http.StatusOK, struct {
		Session *editor.Session             `json:"session"`
		Reasons []schedValidationReasonJSON `json:"liveValidation"`
	}{s.editor.Session(), reasonsJSON(s.editor.Preview())})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.editor.Submit(r.Context())
	s.writeOutcome(w, r, outcome, err)
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.editor.Confirm(r.Context())
	s.writeOutcome(w, r, outcome, err)
}

func (s *Server) decline(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Decline(); err != nil {
		s.conflictOrBadRequest(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.editor.Session())
}

func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	s.editor.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteDay(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteDay(r.Context()); err != nil {
		s.conflictOrBadRequest(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, outcome editor.Outcome, err error) {
	if err != nil {
		s.conflictOrBadRequest(w, r, err)
		return
	}

	session := s.editor.Session()
	resp := struct {
		Outcome editor.Outcome              `json:"outcome"`
		Session *editor.Session             `json:"session,omitempty"`
		Reasons []schedValidationReasonJSON `json:"reasons,omitempty"`
	}{Outcome: outcome, Session: session}
	if outcome == editor.OutcomeInvalid && session != nil {
		resp.Reasons = reasonsJSON(session.Reasons)
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) employeeID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
}

func (s *Server) datePathParam(r *http.Request) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", chi.URLParam(r, "date"), time.Local)
}

func (s *Server) defaultHours() model.TimeRange {
	// The editor owns the configured defaults; the facade mirrors them for
	// the read-only day view.
	return s.editor.DefaultHours()
}
