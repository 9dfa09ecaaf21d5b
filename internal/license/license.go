package license

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	productTag = "PRO"
	yearTag    = "2025"
	secretSalt = "PhotoFrame-PRO-v1-2025-Marius"

	// TrialDays is the length of the free trial, counted from first launch
	TrialDays = 10

	checksumLen = 4
	codeLen     = 4
)

// Status is the derived license state returned to API consumers. It is
// recomputed on every query from the stored key and first-launch date.
type Status struct {
	HasLicense    bool `json:"hasLicense"`
	IsValid       bool `json:"isValid"`
	IsPro         bool `json:"isPro"`
	IsTrial       bool `json:"isTrial"`
	IsExpired     bool `json:"isExpired"`
	DaysRemaining int  `json:"daysRemaining"`
}

// checksum derives the 4-character MAC for a license code. The rolling hash
// must wrap at 32 bits or keys issued by the original generator stop
// validating, hence the int32 accumulator.
func checksum(code string) string {
	var hash int32
	for _, ch := range code + secretSalt {
		hash = hash*31 + int32(ch)
	}

	v := int64(hash)
	if v < 0 {
		v = -v
	}

	enc := strings.ToUpper(strconv.FormatInt(v, 36))
	if len(enc) < checksumLen {
		enc = strings.Repeat("0", checksumLen-len(enc)) + enc
	}
	return enc[len(enc)-checksumLen:]
}

// ValidateKey reports whether key is a well-formed PRO license key with a
// matching checksum. Malformed input never produces an error, just false.
func ValidateKey(key string) bool {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(key)), "-")

	if len(parts) != 4 {
		return false
	}
	if parts[0] != productTag {
		return false
	}
	if parts[1] != yearTag {
		return false
	}
	if len(parts[2]) != codeLen {
		return false
	}
	if len(parts[3]) != checksumLen {
		return false
	}

	return checksum(parts[2]) == parts[3]
}

// GenerateKey builds a valid license key from a code. The code is uppercased
// and normalized to exactly 4 characters, padding with '0' when short.
func GenerateKey(code string) string {
	clean := strings.ToUpper(code)
	if len(clean) > codeLen {
		clean = clean[:codeLen]
	}
	for len(clean) < codeLen {
		clean += "0"
	}
	return fmt.Sprintf("%s-%s-%s-%s", productTag, yearTag, clean, checksum(clean))
}

// TrialDaysRemaining returns how many whole trial days are left, never
// negative. Elapsed days floor toward negative infinity, so a first-launch
// date in the future rounds down rather than toward zero.
func TrialDaysRemaining(firstLaunch time.Time) int {
	elapsedDays := int(math.Floor(time.Since(firstLaunch).Hours() / 24))
	remaining := TrialDays - elapsedDays
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TrialExpired reports whether the trial window has fully elapsed.
func TrialExpired(firstLaunch time.Time) bool {
	return TrialDaysRemaining(firstLaunch) == 0
}

// DeriveStatus combines the two persisted license facts into one status
// value. A valid stored key wins outright; otherwise the trial clock decides.
// A missing first-launch date is treated as an expired trial.
func DeriveStatus(key string, firstLaunch time.Time, hasFirstLaunch bool) Status {
	if key != "" && ValidateKey(key) {
		return Status{
			HasLicense: true,
			IsValid:    true,
			IsPro:      true,
		}
	}

	if !hasFirstLaunch {
		return Status{IsExpired: true}
	}

	expired := TrialExpired(firstLaunch)
	return Status{
		IsTrial:       !expired,
		IsExpired:     expired,
		DaysRemaining: TrialDaysRemaining(firstLaunch),
	}
}
