package model

import "strings"

type SecurityScheme struct {
	Name         string
	Type         SecuritySchemeType
	Description  string
	In           string
	Scheme       string
	BearerFormat string
}

// IsBearer reports whether the scheme is HTTP bearer authentication.
func (s SecurityScheme) IsBearer() bool {
	return s.Type == SecurityTypeHTTP && strings.EqualFold(s.Scheme, "bearer")
}

type SecuritySchemeType string

const (
	SecurityTypeAPIKey        SecuritySchemeType = "apiKey"
	SecurityTypeHTTP          SecuritySchemeType = "http"
	SecurityTypeOAuth2        SecuritySchemeType = "oauth2"
	SecurityTypeOpenIDConnect SecuritySchemeType = "openIdConnect"
	SecurityTypeMutualTLS     SecuritySchemeType = "mutualTLS"
)
