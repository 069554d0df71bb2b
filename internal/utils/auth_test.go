package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, 5, 6} {
		hash, err := HashPassword("correct horse battery", cost)
		require.NoError(t, err)

		assert.True(t, VerifyPassword("correct horse battery", hash))
		assert.False(t, VerifyPassword("wrong horse battery", hash))

		got, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, cost, got)
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("secret", 1)
	require.NoError(t, err)

	got, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, got)
}

func TestVerifyPasswordRejectsMissingOrMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("secret", ""))
	assert.False(t, VerifyPassword("secret", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("", "$2a$10$short"))
}

func TestClassifyLogin(t *testing.T) {
	cases := []struct {
		raw  string
		want LoginKey
	}{
		{"Jane@Example.com", LoginKey{Kind: LoginByEmail, Value: "jane@example.com"}},
		{"  admin@shop.ci ", LoginKey{Kind: LoginByEmail, Value: "admin@shop.ci"}},
		{"07000000", LoginKey{Kind: LoginByPhone, Value: "07000000"}},
		{"+225 07 00-00.00", LoginKey{Kind: LoginByPhone, Value: "+22507000000"}},
		{"(01) 23 45 67", LoginKey{Kind: LoginByPhone, Value: "01234567"}},
		{"jane@", LoginKey{Kind: LoginInvalid}},
		{"12345", LoginKey{Kind: LoginInvalid}},
		{"jane", LoginKey{Kind: LoginInvalid}},
		{"", LoginKey{Kind: LoginInvalid}},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyLogin(tc.raw))
		})
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Regexp(t, `^[0-9]{6}$`, code)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(20)
	require.NoError(t, err)
	assert.Len(t, a, 20)
	assert.Regexp(t, `^[a-zA-Z0-9]+$`, a)

	b, err := GenerateRandomString(20)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
