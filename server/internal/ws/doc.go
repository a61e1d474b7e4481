// Package ws pushes the dashboard snapshot to browsers over WebSocket.
//
// Hub manages a set of connected clients. New(provider, targets, interval)
// creates a Hub; Hub.Run(ctx) polls the dataset provider every interval and
// broadcasts only when the dataset state changes (first successful load, or
// a load failure). Run blocks until ctx is cancelled, then closes all
// active connections. Hub.ServeHTTP upgrades a connection and sends the
// current state immediately.
//
// Messages sent to clients:
//
//	{"event": "snapshot",    "data": { /* same schema as GET /api/v1/snapshot */ }}
//	{"event": "unavailable", "error": "loader: ..."}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/stream by the server.
package ws
