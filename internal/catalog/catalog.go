// Package catalog wraps the platform's one-shot inventory calls: SKU
// categories, sub-categories, groups, SKUs, materials, brands, tags and
// renders. Every function is a single request through transport.Caller.
package catalog

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vin-jex/design-platform-client/internal/transport"
)

type Service struct {
	caller  transport.Caller
	storeID string
	logger  *slog.Logger
}

func NewService(caller transport.Caller, storeID string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		caller:  caller,
		storeID: storeID,
		logger:  logger,
	}
}

// call issues one request and decodes the data field into out, which may
// be nil when the response body is not needed.
func (s *Service) call(ctx context.Context, endpoint string, body any, out any) error {
	data, err := s.caller.Call(ctx, endpoint, body)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("catalog: decode %s response: %w", endpoint, err)
	}

	return nil
}

// GenerateID returns 16 random hex characters, the format the platform
// uses for client-chosen identifiers.
func GenerateID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// identifiers encodes ids the way the remove_from_store endpoints expect:
// a JSON string holding {"id": [...]}.
func identifiers(ids []string) (string, error) {
	encoded, err := json.Marshal(map[string][]string{"id": ids})
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
