// Package token inspects access tokens on the client side.
//
// The brand API issues opaque-to-the-client bearer strings that are in
// practice JWTs. The client never verifies them (it holds no keys and the
// server is the authority); it only reads the exp claim so the persisted
// session record never outlives the token itself. A token that does not parse
// as a JWT is still used as-is — inspection is best effort.
package token
