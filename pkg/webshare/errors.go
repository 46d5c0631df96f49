package webshare

import "errors"

var (
	// ErrAuthFailed indicates login exhausted its retry budget. Nothing
	// downstream can proceed without a session, so callers abort the run.
	ErrAuthFailed = errors.New("webshare login failed")

	// ErrNotLoggedIn indicates a request was attempted without a session
	// token after a terminal login failure.
	ErrNotLoggedIn = errors.New("webshare session not established")

	// ErrNotFound indicates the requested file does not exist.
	ErrNotFound = errors.New("webshare file not found")

	// ErrNoIdent indicates no file identifier could be extracted from a link.
	ErrNoIdent = errors.New("no file identifier in link")
)
