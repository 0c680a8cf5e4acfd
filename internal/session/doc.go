// Package session resolves which chat session the widget is bound to.
//
// # Resolution
//
// A session id supplied by the host always wins and is used verbatim; it is
// never written to storage. Otherwise the id persisted under the storage key
// (chatbot_session_id by default) is reused, so reopening the widget resumes
// the previous conversation. When nothing is stored a random UUID is created
// and persisted.
//
// # Switching
//
// CreateNew starts a fresh conversation and Select adopts one picked from the
// sidebar. Both persist the id so the choice survives a restart.
//
// Storage failures never reach the UI. They are logged and the in-memory id
// is used for the rest of the run.
package session
