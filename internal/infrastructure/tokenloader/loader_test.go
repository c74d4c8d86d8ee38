package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTokens(t *testing.T) {
	path := writeCatalog(t, `[
		{"id": "bitcoin", "label": "Bitcoin", "symbol": "BTC", "feedAddress": "0x31CF013A08c6Ac228C94551d535d5BAfE19c602a"},
		{"id": "ethereum", "label": "Ethereum", "symbol": "ETH", "feedAddress": "0x86d67c3D38D2bCeE722E601025C25a575021c6EA"}
	]`)

	tokens, err := LoadTokens(path)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "bitcoin", tokens[0].ID)
	assert.Equal(t, "BTC", tokens[0].Symbol)
	assert.Nil(t, tokens[0].Price, "catalog carries no prices")
}

func TestLoadTokensMissingFile(t *testing.T) {
	_, err := LoadTokens(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadTokensValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{`},
		{"empty list", `[]`},
		{"missing id", `[{"feedAddress": "0xaaa"}]`},
		{"missing feed address", `[{"id": "bitcoin"}]`},
		{"duplicate id", `[{"id": "bitcoin", "feedAddress": "0xaaa"}, {"id": "bitcoin", "feedAddress": "0xbbb"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTokens(writeCatalog(t, tt.content))
			assert.Error(t, err)
		})
	}
}
