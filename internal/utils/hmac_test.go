package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyHMACRoundTrip(t *testing.T) {
	sig := SignHMAC("PAY_20260115_AB12CD34|gw_12345", "secret")
	assert.True(t, VerifyHMAC("PAY_20260115_AB12CD34|gw_12345", sig, "secret"))
	assert.False(t, VerifyHMAC("PAY_20260115_AB12CD34|gw_99999", sig, "secret"))
	assert.False(t, VerifyHMAC("PAY_20260115_AB12CD34|gw_12345", sig, "other-secret"))
	assert.False(t, VerifyHMAC("PAY_20260115_AB12CD34|gw_12345", "garbage", "secret"))
}

func TestGenerateReferenceShape(t *testing.T) {
	ref := GenerateReference("VA")
	parts := strings.Split(ref, "_")
	assert.Len(t, parts, 3)
	assert.Equal(t, "VA", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 8)

	// two back-to-back references should not collide
	assert.NotEqual(t, ref, GenerateReference("VA"))
}
