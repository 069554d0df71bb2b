package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "robes-d-ete", Slugify("Robes d'été"))
	assert.Equal(t, "chaussures-homme", Slugify("  Chaussures   HOMME!! "))
	assert.Equal(t, "", Slugify("---"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+22507000000", NormalizePhone(" +225 07-00.00 00 "))
	assert.True(t, IsPhone("07000000"))
	assert.False(t, IsPhone("07abc000"))
	assert.False(t, IsPhone("+1234"))
}

func TestJSONMapRoundTrip(t *testing.T) {
	data, err := MapToJSON(map[string]interface{}{"source": "whatsapp"})
	require.NoError(t, err)

	out, err := JSONToMap(data)
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", out["source"])

	empty, err := JSONToMap(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
