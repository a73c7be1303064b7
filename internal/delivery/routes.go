package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/vetwriter/vetwriter/internal/ports"
)

func RegisterRoutes(
	r chi.Router,
	hVisit *VisitHandler,
	hNote *NoteHandler,
	hAuth *AuthHandler,
	authSvc ports.AuthService,
) {
	// --- auth ---
	r.With(httputil.RecoverMiddleware).Post("/register", hAuth.Register)
	r.With(httputil.RecoverMiddleware).Post("/login", hAuth.Login)

	// --- protected ---
	r.Route("/", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			SessionMiddleware(authSvc),
			RequireUser,
		)

		pr.Post("/logout", hAuth.Logout)

		// intake is rate-limited: uploads are heavy
		pr.With(httprate.LimitByIP(10, time.Minute)).
			Post("/whisper/asr", hVisit.Intake)

		pr.Get("/notes", hNote.List)
		pr.Get("/notes/{id}", hNote.Get)
	})
}
