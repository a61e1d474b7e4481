// Package config loads the server configuration from config.yaml.
//
// Config fields:
//   - Server.HTTPPort        — port for the REST API, WebSocket stream and /metrics (default 8080)
//   - Server.Auth.Mode       — "apikey" or "none"
//   - Server.Auth.KeyEnv     — environment variable holding the expected API key
//   - Server.Auth.Header     — HTTP header name (default "X-API-Key")
//   - Server.Stream.Interval — WebSocket summary broadcast period (default 5s)
//   - Dataset.Path           — spreadsheet to load (default "AS2 5001.xlsx")
//   - Dataset.Sheet          — worksheet name; empty selects the first sheet
//   - Dataset.Delimiter      — CSV separator (default ",")
//   - Dataset.Workers        — metric computation goroutines (0 = GOMAXPROCS)
//   - Dataset.Watch          — log when the dataset file changes on disk
//   - Targets                — KPI goals (OEE 0.85, availability 0.90,
//     performance 0.95, quality 0.99, max waste 5%)
//   - Alerts.Rules           — per-step conditions, e.g. "oee < 0.6"
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) reloads on file change via fsnotify.
package config
