// Package session provides in-memory session management for rule-grid levels.
//
// Manager stores sessions keyed by a case-insensitive ID. Each session owns
// its own engine, so moves in one session never touch another. Generated IDs
// are 4 lowercase hex characters drawn from crypto/rand and retried on
// collision.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions are never written to disk. Idle ones are dropped by
// CleanupExpiredSessions, which the server calls on a timer.
package session
