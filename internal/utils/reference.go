package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReference generates a unique reference of the form
// PREFIX_YYYYMMDD_XXXXXXXX. Used for application numbers (VA) and
// payment order references (PAY). The random suffix comes from
// crypto/rand so concurrent requests cannot collide the way a plain
// timestamp scheme does.
func GenerateReference(prefix string) string {
	result := make([]byte, 8)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceCharset))))
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; fall back to a time-derived index.
			n = big.NewInt(time.Now().UnixNano() % int64(len(referenceCharset)))
		}
		result[i] = referenceCharset[n.Int64()]
	}

	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s_%s", prefix, timestamp, string(result))
}
