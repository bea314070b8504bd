package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/davidhull/crewdesk/internal/auth"
	"github.com/davidhull/crewdesk/internal/department"
	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/leave"
	"github.com/davidhull/crewdesk/internal/metrics"
	"github.com/davidhull/crewdesk/internal/ratelimit"
	"github.com/davidhull/crewdesk/internal/shift"
	"github.com/davidhull/crewdesk/internal/team"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Users        *directory.Store
	Teams        *team.Store
	Shifts       *shift.Store
	Departments  *department.Store
	Leave        *leave.Store
	Sessions     auth.SessionLookup
	LoginLimiter *ratelimit.Limiter
	Metrics      *metrics.Metrics
	DBPing       func(context.Context) error

	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	r.Use(metricsMiddleware(deps.Metrics))

	// Handlers.
	authh := newAuthHandler(deps.Users, deps.Metrics)
	users := newUsersHandler(deps.Users, deps.Metrics)
	departments := newDepartmentsHandler(deps.Departments)
	teams := newTeamsHandler(deps.Teams, deps.Users, deps.Metrics)
	shifts := newShiftsHandler(deps.Shifts)
	assignments := newAssignmentsHandler(deps.Shifts, deps.Users, deps.Metrics)
	leaves := newLeaveHandler(deps.Leave, deps.Metrics)
	profile := newProfileHandler(deps.Users, deps.Teams, deps.Shifts)

	// Health check.
	r.Get("/health", healthHandler(deps.DBPing))

	// Auth. Login is throttled per client IP to slow credential guessing.
	r.Route("/api/v1/auth", func(ar chi.Router) {
		login := http.HandlerFunc(authh.Login)
		if deps.LoginLimiter != nil {
			onReject := func() {}
			if deps.Metrics != nil {
				onReject = deps.Metrics.IncLoginRejection
			}
			ar.With(ratelimit.Middleware(deps.LoginLimiter, onReject)).Post("/login", login)
		} else {
			ar.Post("/login", login)
		}

		ar.Post("/logout", authh.Logout)

		ar.Group(func(gr chi.Router) {
			gr.Use(auth.MemberMiddleware(deps.Sessions))
			gr.Get("/me", authh.Me)
		})
	})

	// Admin routes.
	r.Route("/api/v1/admin", func(ar chi.Router) {
		ar.Use(auth.AdminMiddleware(deps.Sessions))

		// Directory.
		ar.Post("/users", users.CreateUser)
		ar.Get("/users", users.ListUsers)
		ar.Get("/users/candidates", users.Candidates)
		ar.Get("/users/{id}", users.GetUser)
		ar.Put("/users/{id}", users.UpdateUser)
		ar.Delete("/users/{id}", users.DeleteUser)
		ar.Post("/directory/sync", users.SyncDirectory)

		// Departments.
		ar.Post("/departments", departments.CreateDepartment)
		ar.Get("/departments", departments.ListDepartments)
		ar.Put("/departments/{id}", departments.RenameDepartment)
		ar.Delete("/departments/{id}", departments.DeleteDepartment)

		// Teams.
		ar.Get("/teams", teams.ListTeams)
		ar.Post("/teams", teams.CreateTeam)
		ar.Get("/teams/{id}", teams.GetTeam)
		ar.Put("/teams/{id}", teams.UpdateTeam)
		ar.Delete("/teams/{id}", teams.DeleteTeam)
		ar.Put("/teams/{id}/leader", teams.SetLeader)
		ar.Delete("/teams/{id}/leader", teams.RemoveLeader)
		ar.Post("/teams/{id}/members/toggle", teams.ToggleMember)

		// Shifts.
		ar.Post("/shifts", shifts.CreateShift)
		ar.Get("/shifts", shifts.ListShifts)
		ar.Get("/shifts/{id}", shifts.GetShift)
		ar.Put("/shifts/{id}", shifts.UpdateShift)
		ar.Delete("/shifts/{id}", shifts.DeleteShift)
		ar.Post("/shifts/{id}/restore", shifts.RestoreShift)

		// Assignments.
		ar.Post("/shifts/{id}/assignments", assignments.CreateAssignments)
		ar.Get("/shifts/{id}/assignments", assignments.ListAssignments)
		ar.Get("/shifts/{id}/candidates", assignments.Candidates)
		ar.Delete("/assignments/{id}", assignments.DeleteAssignment)

		// Leave decisions.
		ar.Get("/leave/pending", leaves.ListPending)
		ar.Post("/leave/{id}/approve", leaves.Approve)
		ar.Post("/leave/{id}/reject", leaves.Reject)

		// Metrics summary.
		if deps.Metrics != nil {
			ar.Get("/metrics", deps.Metrics.Handler())
		}
	})

	// Member self-service routes.
	r.Route("/api/v1/member", func(mr chi.Router) {
		mr.Use(auth.MemberMiddleware(deps.Sessions))

		mr.Get("/me", profile.GetProfile)
		mr.Put("/me", profile.UpdateProfile)
		mr.Get("/teams", profile.MyTeams)
		mr.Get("/assignments", profile.MyAssignments)

		mr.Post("/leave", leaves.CreateRequest)
		mr.Get("/leave", leaves.ListOwn)
	})

	return r
}

// healthHandler reports server and database health. With no ping function
// wired (tests), the database is reported as connected.
func healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		database := "connected"
		code := http.StatusOK

		if ping != nil {
			if err := ping(r.Context()); err != nil {
				status = "degraded"
				database = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, code, map[string]string{
			"status":   status,
			"database": database,
		})
	}
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// metricsMiddleware records request counts and latencies labeled by the chi
// route pattern rather than the raw path, keeping label cardinality bounded.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					pattern = p
				}
			}
			m.ObserveHTTPRequest(r.Method, pattern, ww.Status(), time.Since(start).Seconds())
		})
	}
}
