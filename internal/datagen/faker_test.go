package datagen

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURLProducesASCIIOnlyHostnames(t *testing.T) {
	f := NewFaker(rand.New(rand.NewSource(1)))
	for i := 0; i < 50; i++ {
		u := f.URL()
		require.True(t, strings.HasPrefix(u, "https://"))
		for _, r := range u {
			require.Less(t, int(r), 128, "url %q contains a non-ASCII byte after idna normalization", u)
		}
	}
}
