// Command pocha-token signs a caller token with the shared auth secret. The
// identity provider bridge runs it after sign-in; locally it mints tokens for
// manual testing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	pkgAuth "github.com/polkiloo/pocha/internal/pkg/auth"
)

func main() {
	if err := issue(os.Args[1:], os.LookupEnv, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pocha-token: %v\n", err)
		os.Exit(1)
	}
}

func issue(args []string, lookup func(string) (string, bool), out io.Writer) error {
	secret, _ := lookup("AUTH_SECRET")

	fs := flag.NewFlagSet("pocha-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		claims pkgAuth.Claims
		ttl    time.Duration
	)
	fs.StringVar(&secret, "auth-secret", secret, "Secret shared with the API")
	fs.StringVar(&claims.Subject, "subject", "", "Identity provider subject")
	fs.StringVar(&claims.Email, "email", "", "Email verified by the identity provider")
	fs.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("auth secret must be provided")
	}

	token, err := pkgAuth.NewHMACStrategy(secret, pkgAuth.Options{TTL: ttl}).IssueToken(claims)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
