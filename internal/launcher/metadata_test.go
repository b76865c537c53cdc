package launcher

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataGenerator_RandomNameAndSymbol(t *testing.T) {
	g := NewMetadataGenerator(MetadataOptions{}).withRand(rand.New(rand.NewSource(42)))

	meta := g.Generate()

	assert.NotEmpty(t, meta.Name)
	assert.NotEmpty(t, meta.Symbol)
	assert.LessOrEqual(t, len(meta.Symbol), 6)
	assert.Equal(t, strings.ToUpper(meta.Symbol), meta.Symbol)
}

func TestMetadataGenerator_FixedOverrides(t *testing.T) {
	g := NewMetadataGenerator(MetadataOptions{
		FixedName:   "My Token",
		FixedSymbol: "MYT",
		Description: "launched on trigger",
		Twitter:     "https://x.com/mytoken",
	})

	meta := g.Generate()

	assert.Equal(t, "My Token", meta.Name)
	assert.Equal(t, "MYT", meta.Symbol)
	assert.Equal(t, "launched on trigger", meta.Description)
	assert.Equal(t, "https://x.com/mytoken", meta.Twitter)
}

func TestMetadataGenerator_ImagePassthrough(t *testing.T) {
	img := []byte{0x89, 0x50, 0x4e, 0x47}
	g := NewMetadataGenerator(MetadataOptions{Image: img, ImageName: "art.png"})

	meta := g.Generate()

	assert.Equal(t, img, meta.Image)
	assert.Equal(t, "art.png", meta.ImageName)
}
