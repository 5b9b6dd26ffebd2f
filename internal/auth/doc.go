// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
Package auth resolves an optional caller identity from an HS256 bearer token.

Identity is owned by an external collaborator; this package only verifies
tokens it signed with the shared secret and exposes the token subject as the
caller's user ID. Requests without an Authorization header stay anonymous.
A header that is present but malformed, expired or wrongly signed is
rejected with 401.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager, nil)
	r.Use(api.Adapt(mw.Identify))

	func handler(w http.ResponseWriter, r *http.Request) {
	    userID, ok := auth.UserIDFromContext(r.Context())
	    ...
	}
*/
package auth
