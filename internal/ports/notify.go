package ports

import "context"

// Notifier est la surface de notification locale. L'envoi peut échouer
// (topic non configuré, refus du service distant): l'appelant loggue et
// continue, il ne bloque jamais la planification.
type Notifier interface {
	NotifyReminder(ctx context.Context, ongoingCount int) error
	NotifyCompletion(ctx context.Context, title string) error
	TestNotification(ctx context.Context) error
}
