package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationTypeBearer = "bearer"
	authorizationClientKey  = "client"

	prefixLength = 8
	prefixChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateKey creates an API key of the form <prefix>.<secret> and its bcrypt hash.
// The server keeps only the prefix and the hash.
func GenerateKey(cost int) (prefix, key, hash string, err error) {
	buf := make([]byte, prefixLength+18)
	if _, err = rand.Read(buf); err != nil {
		return "", "", "", err
	}
	p := make([]byte, prefixLength)
	for i := range p {
		p[i] = prefixChars[int(buf[i])%len(prefixChars)]
	}
	prefix = string(p)
	key = prefix + "." + base64.RawURLEncoding.EncodeToString(buf[prefixLength:])

	h, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", "", "", err
	}
	return prefix, key, string(h), nil
}

// ParseKeyHashes reads "prefix:hash" pairs separated by commas.
func ParseKeyHashes(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		prefix, hash, ok := strings.Cut(pair, ":")
		if !ok || len(prefix) != prefixLength || hash == "" {
			return nil, fmt.Errorf("invalid api key entry %q", pair)
		}
		out[prefix] = hash
	}
	return out, nil
}

// authentication checks the bearer API key against the configured hashes.
// It is a no-op when no keys are configured.
func (server *Server) authentication(c *gin.Context) {
	if len(server.config.KeyHashes) == 0 {
		c.Next()
		return
	}

	authorizationHeader := c.GetHeader(authorizationHeaderKey)
	if len(authorizationHeader) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("authorization header is not provided")))
		return
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("invalid authorization header format")))
		return
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != authorizationTypeBearer {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(fmt.Errorf("unsupported authorization type: %s", authorizationType)))
		return
	}

	apiKey := fields[1]
	prefix, _, _ := strings.Cut(apiKey, ".")
	hash, ok := server.config.KeyHashes[prefix]
	if len(prefix) != prefixLength || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey)); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	c.Set(authorizationClientKey, prefix)
	c.Next()
}
