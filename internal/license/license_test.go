package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Pinned against keys issued by the original generator. If any of these
// break, previously sold keys stop validating.
var issuedKeys = map[string]string{
	"ABCD": "PRO-2025-ABCD-HDOZ",
	"TEST": "PRO-2025-TEST-9W3H",
	"A1B2": "PRO-2025-A1B2-FTCL",
	"0000": "PRO-2025-0000-TILN",
	"ZZZZ": "PRO-2025-ZZZZ-XXCL",
}

func TestGenerateKeyMatchesIssuedKeys(t *testing.T) {
	for code, key := range issuedKeys {
		assert.Equal(t, key, GenerateKey(code), "code %s", code)
	}
}

func TestValidateIssuedKeys(t *testing.T) {
	for _, key := range issuedKeys {
		assert.True(t, ValidateKey(key), "key %s", key)
	}
}

func TestValidateGeneratedKeys(t *testing.T) {
	codes := []string{"AAAA", "Z9Z9", "1234", "QWER", "M0M0"}
	for _, code := range codes {
		key := GenerateKey(code)
		assert.True(t, ValidateKey(key), "key %s", key)
	}
}

func TestValidateKeyNormalizesInput(t *testing.T) {
	assert.True(t, ValidateKey("  pro-2025-abcd-hdoz  "))
	assert.True(t, ValidateKey("Pro-2025-AbCd-HdOz"))
}

func TestValidateKeyRejectsMalformedKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"garbage", "not-a-key"},
		{"three segments", "PRO-2025-ABCD"},
		{"five segments", "PRO-2025-ABCD-HDOZ-EXTRA"},
		{"wrong tag", "FREE-2025-ABCD-HDOZ"},
		{"wrong year", "PRO-2024-ABCD-HDOZ"},
		{"short code", "PRO-2025-ABC-HDOZ"},
		{"long code", "PRO-2025-ABCDE-HDOZ"},
		{"short checksum", "PRO-2025-ABCD-HDO"},
		{"long checksum", "PRO-2025-ABCD-HDOZZ"},
		{"wrong checksum", "PRO-2025-ABCD-0000"},
		{"checksum from other code", "PRO-2025-ABCD-9W3H"},
		{"no separators", "PRO2025ABCDHDOZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ValidateKey(tt.key))
		})
	}
}

func TestGenerateKeyNormalizesCode(t *testing.T) {
	// Short codes are right-padded with '0', long ones truncated
	assert.Equal(t, "PRO-2025-AB00-FS8C", GenerateKey("ab"))
	assert.Equal(t, GenerateKey("ABCD"), GenerateKey("ABCDEFGH"))
	assert.Equal(t, GenerateKey("abcd"), GenerateKey("ABCD"))
}

func TestChecksumIsDeterministic(t *testing.T) {
	first := GenerateKey("ABCD")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, GenerateKey("ABCD"))
	}
}

func TestTrialDaysRemaining(t *testing.T) {
	now := time.Now()

	assert.Equal(t, TrialDays, TrialDaysRemaining(now))
	assert.Equal(t, 9, TrialDaysRemaining(now.Add(-25*time.Hour)))
	assert.Equal(t, 5, TrialDaysRemaining(now.Add(-5*24*time.Hour-time.Minute)))
	assert.Equal(t, 0, TrialDaysRemaining(now.Add(-10*24*time.Hour)))
	assert.Equal(t, 0, TrialDaysRemaining(now.Add(-15*24*time.Hour)))

	// An anchor in the future rounds down to a negative elapsed day
	assert.Equal(t, 11, TrialDaysRemaining(now.Add(12*time.Hour)))
}

func TestTrialExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, TrialExpired(now))
	assert.False(t, TrialExpired(now.Add(-9*24*time.Hour)))
	assert.True(t, TrialExpired(now.Add(-10*24*time.Hour)))
	assert.True(t, TrialExpired(now.Add(-100*24*time.Hour)))
}

func TestDeriveStatusWithValidKey(t *testing.T) {
	status := DeriveStatus("PRO-2025-ABCD-HDOZ", time.Now().Add(-30*24*time.Hour), true)

	assert.Equal(t, Status{
		HasLicense: true,
		IsValid:    true,
		IsPro:      true,
	}, status)
}

func TestDeriveStatusWithInvalidKeyFallsBackToTrial(t *testing.T) {
	status := DeriveStatus("PRO-2025-ABCD-0000", time.Now(), true)

	assert.False(t, status.IsPro)
	assert.True(t, status.IsTrial)
	assert.False(t, status.IsExpired)
	assert.Equal(t, TrialDays, status.DaysRemaining)
}

func TestDeriveStatusActiveTrial(t *testing.T) {
	status := DeriveStatus("", time.Now().Add(-3*24*time.Hour-time.Hour), true)

	assert.False(t, status.HasLicense)
	assert.True(t, status.IsTrial)
	assert.False(t, status.IsExpired)
	assert.Equal(t, 6, status.DaysRemaining)
}

func TestDeriveStatusExpiredTrial(t *testing.T) {
	status := DeriveStatus("", time.Now().Add(-11*24*time.Hour), true)

	assert.False(t, status.IsTrial)
	assert.True(t, status.IsExpired)
	assert.Equal(t, 0, status.DaysRemaining)
}

func TestDeriveStatusWithoutFirstLaunchDate(t *testing.T) {
	// Defensive: no trial anchor means no trial
	status := DeriveStatus("", time.Time{}, false)

	assert.False(t, status.IsTrial)
	assert.True(t, status.IsExpired)
	assert.Equal(t, 0, status.DaysRemaining)
}
