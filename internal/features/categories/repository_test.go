package categories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	require.Equal(t, "home-cleaning", Slugify("Home Cleaning"))
	require.Equal(t, "it-support-24-7", Slugify("IT Support (24/7)"))
	require.Equal(t, "plumbing", Slugify("  Plumbing  "))
	require.Equal(t, "", Slugify("***"))
}
