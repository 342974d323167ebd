package changeset

import (
	"math/rand/v2"
	"strings"
)

// Namer produces base names (without extension) for new changeset records.
type Namer interface {
	Name() string
}

// NamerFunc adapts a plain function to the Namer interface.
type NamerFunc func() string

// Name calls f.
func (f NamerFunc) Name() string { return f() }

var words = []string{
	"dog", "arnold", "cat", "kitten", "puppy", "armadillo", "giraffe", "happy",
	"sad", "emotional", "earth", "mars", "car", "robot", "whale", "python",
	"snake", "lizard", "bird", "eagle", "hawk", "falcon", "owl", "parrot",
	"penguin", "dolphin", "shark", "fish", "octopus", "squid", "jellyfish",
	"starfish", "seahorse", "seal", "otter", "beaver", "squirrel", "chipmunk",
}

// nameParts is the number of distinct words joined into a record name.
const nameParts = 3

// WordNamer builds names like "otter-mars-falcon" from a fixed word list.
type WordNamer struct {
	rng *rand.Rand
}

// NewWordNamer returns a WordNamer drawing from rng. Pass a seeded source
// for reproducible names.
func NewWordNamer(rng *rand.Rand) *WordNamer {
	return &WordNamer{rng: rng}
}

// Name returns three distinct words joined by dashes.
func (n *WordNamer) Name() string {
	perm := n.rng.Perm(len(words))
	parts := make([]string, 0, nameParts)
	for _, i := range perm[:nameParts] {
		parts = append(parts, words[i])
	}
	return strings.Join(parts, "-")
}
