package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNeedsExpire(t *testing.T) {
	cases := []struct {
		name  string
		count int64
		ttl   time.Duration
		want  bool
	}{
		{"chave nova", 1, -1, true},
		{"chave nova com ttl", 1, time.Minute, true},
		{"contador sem expiração", 7, -1, true},
		{"contador com ttl", 7, 30 * time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, needsExpire(tc.count, tc.ttl))
		})
	}
}
