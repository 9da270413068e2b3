package llm

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ppiankov/legalese/internal/util"
)

// APIError is a non-200 answer from a provider's HTTP API
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("API error (%d): %s - %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request later may succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func newHTTPClient(config Config) *http.Client {
	return util.NewHTTPClient(config.RequestTimeout(), config.HTTPProxy, config.HTTPSProxy, config.NoProxy)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
