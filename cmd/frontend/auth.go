package main

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/pkg/errors"
	"github.com/urfave/negroni"
)

// newAuthMiddleware verifies Cognito-issued bearer tokens against the pool's
// JWKS document. The key set is fetched once at startup; tokens must carry a
// kid header resolving into it.
func newAuthMiddleware(jwksURL string) (negroni.HandlerFunc, error) {
	keySet, err := jwk.Fetch(jwksURL)
	if err != nil {
		return nil, errors.Wrapf(err, "can't fetch key set from '%s'", jwksURL)
	}
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("kid header not found")
		}
		keys := keySet.LookupKeyID(kid)
		if len(keys) == 0 {
			return nil, errors.Errorf("key %v not found", kid)
		}
		var raw interface{}
		if err := keys[0].Raw(&raw); err != nil {
			return nil, errors.Wrap(err, "can't materialize key")
		}
		return raw, nil
	}
	return func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		if r.URL.Path == "/ping" {
			next(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			http.Error(w, "no bearer token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(raw, keyFunc)
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}, nil
}
