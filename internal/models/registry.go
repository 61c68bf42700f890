package models

import (
	"fmt"
	"sort"

	"github.com/san-kum/springbone/internal/bone"
)

// Builder creates a rig from options and a chain template.
type Builder func(opts Options, tmpl bone.ChainConfig) *Rig

var builders = map[string]Builder{
	"hair":  Hair,
	"tail":  Tail,
	"skirt": Skirt,
	"crowd": Crowd,
}

var descriptions = map[string]string{
	"hair":  "strands hanging from the back of the head, head collider",
	"tail":  "one long tail from the hips, hip and leg colliders",
	"skirt": "ring of short panels around the hips, leg colliders",
	"crowd": "grid of hair characters, one collider identity each",
}

func Get(name string) (Builder, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return b, nil
}

func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Describe(name string) string { return descriptions[name] }
