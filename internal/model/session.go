package model

// Session is the authenticated identity resolved from the session cookie,
// threaded into handlers via the request context.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
