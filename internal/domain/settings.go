package domain

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type NotificationSettings struct {
	Enabled   bool      `json:"enabled"`
	Frequency Frequency `json:"frequency"`

	// CustomDays: jours de semaine (0=dimanche..6=samedi), utilisé
	// uniquement en fréquence weekly.
	CustomDays []int `json:"customDays,omitempty"`

	// Time au format HH:MM, horloge locale.
	Time string `json:"time"`

	Types         []Type `json:"types"`
	OnlyFavorites bool   `json:"onlyFavorites"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:       false,
		Frequency:     FrequencyWeekly,
		Time:          "18:00",
		Types:         Types(),
		OnlyFavorites: false,
	}
}

type AppSettings struct {
	Theme        string `json:"theme"`
	DefaultView  string `json:"defaultView"`
	ItemsPerPage int    `json:"itemsPerPage"`
	AutoBackup   bool   `json:"autoBackup"`
	CustomTheme  string `json:"customTheme"`

	// Reconciler de statuts.
	AutoUpdateStatus    bool `json:"autoUpdateStatus"`
	AutoUpdateFrequency int  `json:"autoUpdateFrequency"` // heures

	// Provider de recherche catalogue: jikan | kitsu | anilist | custom.
	APIProvider string `json:"apiProvider"`

	// Assistant IA.
	AIAPIKey   string `json:"aiApiKey,omitempty"`
	AIProvider string `json:"aiProvider,omitempty"`
	AIModel    string `json:"aiModel,omitempty"`

	// Provider custom.
	CustomAPIURL string `json:"customApiUrl,omitempty"`
	CustomAPIKey string `json:"customApiKey,omitempty"`
}

func DefaultAppSettings() AppSettings {
	return AppSettings{
		Theme:               "system",
		DefaultView:         "grid",
		ItemsPerPage:        20,
		AutoBackup:          false,
		CustomTheme:         "default",
		AutoUpdateStatus:    false,
		AutoUpdateFrequency: 24,
		APIProvider:         "jikan",
		AIProvider:          "openai",
		AIModel:             "gpt-3.5-turbo",
	}
}
