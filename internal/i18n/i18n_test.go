package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "No token provided", T("en", KeyAuthNoToken))
	assert.Equal(t, "Low stock: Chainsaw Man Vol. 1 (3 left)", T("en", KeyProductLowStock, "Chainsaw Man Vol. 1", 3))
	assert.NotEqual(t, T("en", KeyAuthNoToken), T("bn", KeyAuthNoToken))

	// unknown language falls back to English, unknown key to itself
	assert.Equal(t, "Token expired", T("fr", KeyAuthTokenExpired))
	assert.Equal(t, "missing.key", T("en", "missing.key"))
	assert.ElementsMatch(t, []string{"en", "bn"}, GetSupportedLanguages())
}

func TestLocalesHaveSameKeys(t *testing.T) {
	require.NoError(t, Initialize())

	en := instance.messages["en"]
	bn := instance.messages["bn"]
	for key := range en {
		assert.Contains(t, bn, key)
	}
	assert.Len(t, bn, len(en))
}
