// Package auth implements the credential and session core of tradepost:
// bcrypt password verification, stateless HS256 bearer tokens, and the user
// repository the two lean on.
//
// The server keeps no session table. A token is minted on login or
// registration, carried by the client, and re-verified on every protected
// request by middleware/jwtware.
package auth
