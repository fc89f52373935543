package auth

import "time"

// Claims are the caller attributes a token vouches for. Subject is the
// identity provider id; Email is the address the provider verified.
type Claims struct {
	Subject string
	Email   string
}

// Strategy issues and verifies caller tokens.
type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (Claims, error)
}

type Options struct {
	TTL time.Duration
}
