package token

import "school_chat_service/pkg/config"

// Overridable in tests
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper issue a credential for this service, mockable in tests
func GenerateJWTWrapper(userID, role string) (string, error) {
	return GenerateJWTFunc(userID, role, config.EnvConfig.ChatService)
}

// ParseJWTWrapper parse a credential, mockable in tests
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
