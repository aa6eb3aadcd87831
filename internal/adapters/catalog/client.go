// Package catalog regroupe les connecteurs de recherche externes: trois
// catalogues fixes (Jikan, Kitsu, AniList) et un endpoint custom configuré
// par l'utilisateur. Chaque connecteur a sa propre table de correspondance
// statut/type et normalise la note sur une échelle 0-5.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

const userAgent = "omni-reader-server"

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("catalog http error: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// roundedScale ramène un score natif sur 0-5: score/divisor arrondi au plus
// proche (8/10 → 4, 73/100 → 4).
func roundedScale(score, divisor float64) int {
	if score <= 0 {
		return 0
	}
	return int(math.Round(score / divisor))
}
