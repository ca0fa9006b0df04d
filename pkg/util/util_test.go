package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemoveDuplicateStrings(t *testing.T) {
	t.Run("keeps first occurrence order", func(t *testing.T) {
		assert.Equal(t, []string{"52A", "4", "B"}, RemoveDuplicateStrings([]string{"52A", "4", "52A", "", "B", "4"}, nil))
	})

	t.Run("skips ignored values", func(t *testing.T) {
		assert.Equal(t, []string{"4"}, RemoveDuplicateStrings([]string{"52A", "4"}, []string{"52A"}))
	})
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "abc", TrimString("abcdef", 3))
	assert.Equal(t, "ab", TrimString("ab", 3))
	assert.Equal(t, "zgł", TrimString("zgłoszone", 3))
}

func TestFilters(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}

	even := Filter(values, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, values)

	InPlaceFilter(&values, func(v int) bool { return v > 3 })
	assert.Equal(t, []int{4, 5}, values)
}

func TestEnvHelpers(t *testing.T) {
	env := map[string]string{"TTL": "90s", "COUNT": "12", "BROKEN": "soon"}

	d, err := EnvDuration(env, "TTL", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = EnvDuration(env, "MISSING", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	_, err = EnvDuration(env, "BROKEN", time.Minute)
	assert.Error(t, err)

	n, err := EnvInt(env, "COUNT", 3)
	assert.NoError(t, err)
	assert.Equal(t, 12, n)
}
