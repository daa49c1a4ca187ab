package db

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHitMemberIsUniqueWithinANanosecond(t *testing.T) {
	now := time.Now().UnixNano()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		member := hitMember(now)
		assert.True(t, strings.HasPrefix(member, fmt.Sprintf("%d-", now)), member)
		seen[member] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
