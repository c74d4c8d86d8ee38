// Package tokenloader reads the static token catalog consumed at startup.
package tokenloader

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadTokens reads the token catalog JSON file. Tokens are never created or
// destroyed at runtime; this list is the full set for the process lifetime.
func LoadTokens(path string) ([]entity.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens file %s: %w", path, err)
	}

	var tokens []entity.Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens file %s: %w", path, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("tokens file %s contains no tokens", path)
	}

	seen := make(map[string]bool, len(tokens))
	for i, t := range tokens {
		if t.ID == "" {
			return nil, fmt.Errorf("token at index %d in %s has no id", i, path)
		}
		if t.FeedAddress == "" {
			return nil, fmt.Errorf("token %q in %s has no feedAddress", t.ID, path)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate token id %q in %s", t.ID, path)
		}
		seen[t.ID] = true
	}

	logrus.Infof("Loaded %d tokens from %s", len(tokens), path)
	return tokens, nil
}
