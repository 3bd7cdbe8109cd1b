// Package websocket pushes rule-grid state updates to browser clients.
//
// A central Hub owns every connection. Clients attach to one session with
// the ?session= query parameter and receive a JSON Message after each state
// change in that session: the full GameState under the state_update event,
// plus victory and reset events. Clients never send commands over the
// socket; they use the REST API for that.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Broadcasts are queued and never block the caller. When the queue is full
// the message is dropped and logged. A client whose own send buffer fills
// up is disconnected.
package websocket
