package session

import "errors"

// ErrNoSession is returned by Store.Update for a user without a session.
var ErrNoSession = errors.New("no active session")
