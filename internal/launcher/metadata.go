package launcher

import (
	"math/rand"
	"strings"

	"solana-launch-trigger/internal/platform"
)

var nameAdjectives = []string{
	"Turbo", "Giga", "Quantum", "Cosmic", "Degen", "Hyper", "Mega",
	"Atomic", "Stealth", "Golden", "Frozen", "Feral", "Solar", "Lunar",
}

var nameNouns = []string{
	"Capy", "Falcon", "Otter", "Badger", "Wizard", "Pepe", "Samurai",
	"Reactor", "Whale", "Goblin", "Mammoth", "Comet", "Yeti", "Raccoon",
}

// MetadataOptions controls token metadata generation. Fixed fields
// override the random generator; empty fields fall through to it.
type MetadataOptions struct {
	FixedName   string
	FixedSymbol string
	Description string
	Twitter     string
	Telegram    string
	Website     string
	Image       []byte
	ImageName   string
}

// MetadataGenerator produces metadata for each launched token.
type MetadataGenerator struct {
	opts MetadataOptions
	rand *rand.Rand
}

func NewMetadataGenerator(opts MetadataOptions) *MetadataGenerator {
	return &MetadataGenerator{opts: opts}
}

// withRand fixes the random source. Used by tests.
func (g *MetadataGenerator) withRand(r *rand.Rand) *MetadataGenerator {
	g.rand = r
	return g
}

func (g *MetadataGenerator) intn(n int) int {
	if g.rand != nil {
		return g.rand.Intn(n)
	}
	return rand.Intn(n)
}

// Generate returns metadata for the next token. Name and symbol are
// random unless fixed by options; the remaining fields pass through.
func (g *MetadataGenerator) Generate() *platform.TokenMetadata {
	adjective := nameAdjectives[g.intn(len(nameAdjectives))]
	noun := nameNouns[g.intn(len(nameNouns))]

	name := g.opts.FixedName
	if name == "" {
		name = adjective + " " + noun
	}

	symbol := g.opts.FixedSymbol
	if symbol == "" {
		symbol = strings.ToUpper(adjective[:1] + noun)
		if len(symbol) > 6 {
			symbol = symbol[:6]
		}
	}

	return &platform.TokenMetadata{
		Name:        name,
		Symbol:      symbol,
		Description: g.opts.Description,
		Twitter:     g.opts.Twitter,
		Telegram:    g.opts.Telegram,
		Website:     g.opts.Website,
		Image:       g.opts.Image,
		ImageName:   g.opts.ImageName,
	}
}
