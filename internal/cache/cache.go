package cache

import (
	"strconv"
	"strings"
	"time"
)

// Cache defines the interface for memoizing lookup results
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
	Len() int
}

// LookupKey builds the memo key for a name lookup. Year 0 means "any year".
func LookupKey(dataset, normalizedName string, year int) string {
	var b strings.Builder
	b.Grow(len(dataset) + len(normalizedName) + 16)
	b.WriteString("matchup:v1:")
	b.WriteString(dataset)
	b.WriteByte('|')
	b.WriteString(normalizedName)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(year))
	return b.String()
}
