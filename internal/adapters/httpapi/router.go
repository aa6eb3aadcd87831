package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
)

type Server struct {
	logger   zerolog.Logger
	library  *app.LibraryService
	settings *app.SettingsService
	transfer *app.TransferService
	search   *app.CatalogSearchService
	aichat   *app.AIChatService
	bus      ports.EventBus
	notifier ports.Notifier

	// Callbacks optionnels, appelés après chaque sauvegarde de settings:
	// c'est par là que le reminder et le reconciler se ré-arment.
	onAppSettingsUpdated          func(domain.AppSettings)
	onNotificationSettingsUpdated func(domain.NotificationSettings)
}

func NewServer(
	logger zerolog.Logger,
	library *app.LibraryService,
	settings *app.SettingsService,
	transfer *app.TransferService,
	search *app.CatalogSearchService,
	aichat *app.AIChatService,
	bus ports.EventBus,
	notifier ports.Notifier,
	onAppSettingsUpdated func(domain.AppSettings),
	onNotificationSettingsUpdated func(domain.NotificationSettings),
) *Server {
	return &Server{
		logger:                        logger,
		library:                       library,
		settings:                      settings,
		transfer:                      transfer,
		search:                        search,
		aichat:                        aichat,
		bus:                           bus,
		notifier:                      notifier,
		onAppSettingsUpdated:          onAppSettingsUpdated,
		onNotificationSettingsUpdated: onNotificationSettingsUpdated,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/version", s.handleVersion)
		r.Get("/events", s.handleEvents)

		if s.library != nil {
			NewLibraryHandler(s.library).Routes(r)
		}
		if s.settings != nil {
			NewSettingsHandler(s.settings, s.notifier, s.onAppSettingsUpdated, s.onNotificationSettingsUpdated).Routes(r)
		}
		if s.transfer != nil {
			NewTransferHandler(s.transfer).Routes(r)
		}
		if s.search != nil {
			NewSearchHandler(s.search, s.settings).Routes(r)
		}
		if s.aichat != nil {
			NewAIChatHandler(s.aichat).Routes(r)
		}
	})

	return r
}
