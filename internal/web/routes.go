package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/attendance-gate/internal/match"
	"github.com/kozaktomas/attendance-gate/internal/web/handlers"
)

func (s *Server) setupRoutes(matcher match.Engine, stores Stores) {
	// Create handlers
	dim := s.config.Match.Dim
	studentsHandler := handlers.NewStudentsHandler(stores.Gallery, matcher, dim, s.log)
	identifyHandler := handlers.NewIdentifyHandler(stores.Gallery, matcher, dim)
	attendanceHandler := handlers.NewAttendanceHandler(
		stores.Gallery, stores.Attendance, matcher, dim, s.config.Statuses.Present, s.log)
	reportsHandler := handlers.NewReportsHandler(stores.Reporter)
	groupsHandler := handlers.NewGroupsHandler(stores.Groups)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Gallery
		r.Get("/students", studentsHandler.List)
		r.Post("/students", studentsHandler.Enroll)
		r.Get("/students/{id}", studentsHandler.Get)
		r.Put("/students/{id}", studentsHandler.Update)
		r.Delete("/students/{id}", studentsHandler.Delete)

		// Matching
		r.Post("/identify", identifyHandler.Identify)
		r.Post("/check-duplicate", identifyHandler.CheckDuplicate)

		// Attendance
		r.Post("/attendance/check-in", attendanceHandler.CheckIn)
		r.Post("/attendance/manual", attendanceHandler.Manual)
		r.Get("/attendance/daily", reportsHandler.Daily)

		// Reports
		r.Get("/reports/range", reportsHandler.Range)

		// Groups
		r.Get("/groups", groupsHandler.List)
		r.Post("/groups", groupsHandler.Create)
	})
}
