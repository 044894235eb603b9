package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Customer access token required
)

// RouteSecurityConfig maps named HTTP routes to their required security level.
// Routes missing from the map require an access token.
var RouteSecurityConfig = map[string]SecurityLevel{
	"healthz":           SecurityPublic,
	"metrics":           SecurityPublic,
	"register-customer": SecurityPublic,
	"list-bike-types":   SecurityPublic,
	"list-providers":    SecurityPublic,

	"search-quotes":  SecurityAccess,
	"create-booking": SecurityAccess,
	"list-bookings":  SecurityAccess,
	"return-order":   SecurityAccess,
}

// GetSecurityLevel returns the security level for a route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, ok := RouteSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
