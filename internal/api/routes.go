package api

import (
	"github.com/go-chi/chi/v5"
)

func (s *Server) setupRoutes(r *chi.Mux) {
	h := s.handlers

	r.Get("/healthcheck", registerHandler(h.HealthCheck))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/locks", registerHandler(h.CreateLock))
		r.Route("/locks/{id}", func(r chi.Router) {
			r.Get("/", registerHandler(h.GetLock))
			r.Get("/status", registerHandler(h.GetLockStatus))
			r.Post("/increase-amount", registerHandler(h.IncreaseAmount))
			r.Post("/increase-duration", registerHandler(h.IncreaseDuration))
			r.Post("/transfer", registerHandler(h.TransferLock))
			r.Get("/queue-eligibility", registerHandler(h.GetQueueEligibility))
			r.Post("/queue", registerHandler(h.EnterQueue))
			r.Get("/exit-eligibility", registerHandler(h.GetExitEligibility))
			r.Post("/exit", registerHandler(h.ExitFromQueue))
			r.Post("/cancel-exit", registerHandler(h.CancelExit))
		})

		r.Post("/queue/info", registerHandler(h.GetQueueInfo))
		r.Get("/queue/stats", registerHandler(h.GetQueueStats))

		r.Get("/owners/{owner}/voting-power", registerHandler(h.GetVotingPower))
		r.Get("/owners/{owner}/locks", registerHandler(h.GetLocksByOwner))
	})
}
