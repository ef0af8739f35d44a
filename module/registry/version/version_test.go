package version

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortNumericNotLexicographic(t *testing.T) {
	got := Sort([]string{"1.2.0", "1.10.0", "1.2.1"})
	assert.Equal(t, []string{"1.10.0", "1.2.1", "1.2.0"}, got)
	assert.Less(t, Compare("1.2.1", "1.10.0"), 0)
	assert.Greater(t, Compare("1.10.0", "1.2.1"), 0)
}

func TestSortMixedComponentCounts(t *testing.T) {
	got := Sort([]string{"2.12.7", "2.12.7.1", "2.13.0", "2.0.0"})
	assert.Equal(t, []string{"2.13.0", "2.12.7.1", "2.12.7", "2.0.0"}, got)

	got = Sort([]string{"1.0-5", "1.0.0", "0.9-12", "1.0"})
	assert.Equal(t, []string{"1.0-5", "1.0.0", "1.0", "0.9-12"}, got)

	assert.Equal(t, "2.12.7.1", Latest([]string{"2.0.0", "2.12.7.1", "2.12.7"}))
}

func TestSortDedupesAndTrims(t *testing.T) {
	got := Sort([]string{" 1.0.0", "1.0.0", "", "  ", "2.0.0", "2.0.0\n"})
	assert.Equal(t, []string{"2.0.0", "1.0.0"}, got)
}

func TestSortIsPermutationInvariant(t *testing.T) {
	input := []string{
		"1.0.0", "1.0.0-beta.2", "1.0.0-beta.10", "v1.0.0", "0.9",
		"2023.01.15", "1.2.3.4", "1.2.3.10", "r2", "r10", "latest",
		"3.4-0", "3.4-1", "1.0.0+build.1", "10.0.0", "1.0.0-alpha",
	}
	want := Sort(input)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]string(nil), input...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		shuffled = append(shuffled, shuffled[:3]...) // duplicates must not change the result
		assert.Equal(t, want, Sort(shuffled))
	}
	assert.Len(t, want, len(input))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0-beta.2", "1.0.0-beta.10", -1},
		{"2.0", "1.99.99", 1},
		{"1.2.3.4", "1.2.3.10", -1},
		{"r2", "r10", -1},
		{"1.0.1", "1.0.beta", 1},
		{"0.0.1", "1.2.3.4", -1},
		{"2.12.7.1", "2.0.0", 1},
		{"2.12.7.1", "2.12.7", 1},
		{"2.13.0", "2.12.7.1", 1},
		{"1.0-5", "1.0", 1},
		{"1.0-5", "1.0.0", 1},
		{"0.9-12", "1.0", -1},
		{"1.0.0-rc.1", "1.0.0-rc.final", -1},
		{"1.0.0.0-beta", "1.0.0", -1},
		{"v2.0.0", "1.99", 1},
		{"1.0", "latest", 1},
		{"99999999999999999999999.0.0.0", "1.0.0.0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestCompareEqualPrecedenceIsStillOrdered(t *testing.T) {
	// same semver precedence, different spelling
	assert.NotEqual(t, 0, Compare("1.0.0", "v1.0.0"))
	assert.NotEqual(t, 0, Compare("1.0.0+a", "1.0.0+b"))
	assert.Equal(t, -Compare("1.0.0", "v1.0.0"), Compare("v1.0.0", "1.0.0"))
}

func TestSortNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Sort([]string{"..", "--", "+", "v", "vv1", "1..2", "\x00", "é.1", "1.0.0-", "1.0.0+"})
	})
	assert.Empty(t, Sort(nil))
}

func TestLatest(t *testing.T) {
	assert.Equal(t, "1.10.0", Latest([]string{"1.2.0", "1.10.0", "1.9.9"}))
	assert.Equal(t, "", Latest([]string{"", " "}))
}
