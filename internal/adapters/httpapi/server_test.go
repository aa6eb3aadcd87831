package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
)

type serverFixture struct {
	router   http.Handler
	library  *app.LibraryService
	settings *app.SettingsService
	notifier *fakeNotifier

	appUpdates   []domain.AppSettings
	notifUpdates []domain.NotificationSettings
}

type fakeNotifier struct {
	testPushes int
	fail       bool
}

func (n *fakeNotifier) NotifyReminder(context.Context, int) error      { return nil }
func (n *fakeNotifier) NotifyCompletion(context.Context, string) error { return nil }

func (n *fakeNotifier) TestNotification(context.Context) error {
	if n.fail {
		return errors.New("topic rejected")
	}
	n.testPushes++
	return nil
}

// newServerFixture monte le serveur complet sur une base :memory:, avec un
// registre de providers fourni par le test.
func newServerFixture(t *testing.T, providers ...ports.CatalogProvider) *serverFixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	bus := memorybus.New()
	libraryRepo := sqlite.NewLibraryRepository(db.SQL)
	settingsRepo := sqlite.NewSettingsRepository(db.SQL, zerolog.Nop())
	cacheRepo := sqlite.NewCacheRepository(db.SQL)

	f := &serverFixture{}
	f.library = app.NewLibraryService(libraryRepo, bus)
	f.settings = app.NewSettingsService(settingsRepo, bus)
	transfer := app.NewTransferService(zerolog.Nop(), libraryRepo, settingsRepo)
	search := app.NewCatalogSearchService(zerolog.Nop(), cacheRepo, providers...)
	aichat := app.NewAIChatService(f.settings.GetApp, "")
	f.notifier = &fakeNotifier{}

	srv := NewServer(
		zerolog.Nop(),
		f.library,
		f.settings,
		transfer,
		search,
		aichat,
		bus,
		f.notifier,
		func(s domain.AppSettings) { f.appUpdates = append(f.appUpdates, s) },
		func(s domain.NotificationSettings) { f.notifUpdates = append(f.notifUpdates, s) },
	)
	f.router = srv.Router()
	return f
}
