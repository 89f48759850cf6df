package imageurl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAddsFilesPrefixAndHost(t *testing.T) {
	f := Formatter{Host: "https://hospital.example"}

	in := "photo.jpg"
	out := f.Format(&in)
	require.NotNil(t, out)
	assert.True(t, strings.HasPrefix(*out, "https://hospital.example/files/photo.jpg?v="))
}

func TestFormatKeepsExistingFilesPrefix(t *testing.T) {
	f := Formatter{Host: "https://hospital.example/"}

	in := "/files/photo.jpg"
	out := f.Format(&in)
	require.NotNil(t, out)
	assert.True(t, strings.HasPrefix(*out, "https://hospital.example/files/photo.jpg?v="))
	assert.False(t, strings.Contains(*out, "/files//files/"))
}

func TestFormatNilAndEmpty(t *testing.T) {
	f := Formatter{Host: "https://hospital.example"}

	assert.Nil(t, f.Format(nil))

	empty := ""
	assert.Nil(t, f.Format(&empty))
}
