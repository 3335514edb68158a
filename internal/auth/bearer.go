package auth

import "strings"

// ExtractBearer returns the token from an "Authorization: Bearer <token>" header.
// A missing or malformed header yields ("", false); deciding whether that is an error is up to the caller.
func ExtractBearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
