// Package notify est la surface de notification locale, portée par ntfy
// quand un topic est configuré, noop sinon (équivalent d'une permission
// refusée: tout dégrade silencieusement).
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
)

const userAgent = "omni-reader-server"

// New renvoie un notifier ntfy si un topic est configuré, sinon un noop.
func New(topicURL string) ports.Notifier {
	topicURL = strings.TrimSpace(topicURL)
	if topicURL == "" {
		return noopNotifier{}
	}
	return &ntfyNotifier{
		endpoint: topicURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type ntfyNotifier struct {
	endpoint string
	client   *http.Client
}

type payload struct {
	title   string
	message string
	tags    []string
}

func (n *ntfyNotifier) NotifyReminder(ctx context.Context, ongoingCount int) error {
	return n.send(ctx, payload{
		title:   "OmniReader Reminder",
		message: fmt.Sprintf("You have %d ongoing manga waiting for updates! Time to catch up on your reading.", ongoingCount),
		tags:    []string{"books", "reminder"},
	})
}

func (n *ntfyNotifier) NotifyCompletion(ctx context.Context, title string) error {
	return n.send(ctx, payload{
		title:   "Manga Completed!",
		message: fmt.Sprintf("Congratulations! You've finished reading %s", title),
		tags:    []string{"white_check_mark", "completion"},
	})
}

func (n *ntfyNotifier) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "OmniReader",
		message: "Test notification: everything is wired up.",
		tags:    []string{"bell"},
	})
}

func (n *ntfyNotifier) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Title", data.title)
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ntfy returned %s", resp.Status)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyReminder(context.Context, int) error      { return nil }
func (noopNotifier) NotifyCompletion(context.Context, string) error { return nil }
func (noopNotifier) TestNotification(context.Context) error         { return nil }
