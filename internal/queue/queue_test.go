package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsAndCaps(t *testing.T) {
	q := &Queue{retry: DefaultRetryConfig()}

	assert.Equal(t, 30*time.Second, q.backoff(1))
	assert.Equal(t, 1*time.Minute, q.backoff(2))
	assert.Equal(t, 2*time.Minute, q.backoff(3))
	assert.Equal(t, 4*time.Minute, q.backoff(4))

	// far past the cap
	assert.Equal(t, time.Hour, q.backoff(10))
}
