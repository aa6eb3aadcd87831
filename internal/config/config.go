// Package config charge la configuration du serveur: défauts, puis un
// fichier TOML optionnel, puis les variables d'environnement (qui gagnent).
// Un .env à côté du binaire est chargé au démarrage via godotenv.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Addr      string `toml:"addr"`
	DBPath    string `toml:"db_path"`
	NtfyTopic string `toml:"ntfy_topic"`

	// Clé d'amorçage pour le proxy IA; celle des settings la remplace
	// dès qu'elle est renseignée.
	AIAPIKey string `toml:"-"`
}

func Default() Config {
	return Config{
		Addr:   "127.0.0.1:8080",
		DBPath: "omni-reader.db",
	}
}

// Load construit la config effective. path peut être vide; un fichier
// absent n'est pas une erreur, un fichier illisible ou mal formé l'est.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
			// pas de fichier, on reste sur les défauts
		default:
			return Config{}, err
		}
	}

	cfg.Addr = envOr("OMNI_ADDR", cfg.Addr)
	cfg.DBPath = envOr("OMNI_DB_PATH", cfg.DBPath)
	cfg.NtfyTopic = envOr("OMNI_NTFY_TOPIC", cfg.NtfyTopic)
	cfg.AIAPIKey = envOr("OPENAI_API_KEY", cfg.AIAPIKey)

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
