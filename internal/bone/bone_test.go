package bone

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/springbone/internal/dynamo"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

func TestNormalizedClamps(t *testing.T) {
	cfg := ChainConfig{
		Stiffness:    9,
		GravityPower: -1,
		DragForce:    1.5,
		HitRadius:    0.7,
	}.Normalized()

	want := ChainConfig{Stiffness: 4, GravityPower: 0, DragForce: 1, HitRadius: 0.5}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Normalized mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultChainConfig(t *testing.T) {
	cfg := DefaultChainConfig()
	if cfg.Stiffness != 1 || cfg.GravityPower != 0 || cfg.DragForce != 0.4 || cfg.HitRadius != 0.02 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.GravityDir != vmath.Down {
		t.Errorf("gravity dir = %v", cfg.GravityDir)
	}
	if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("Validate without roots = %v", err)
	}
}

func straightChain(t *testing.T) (*scene.Tree, scene.NodeID, scene.NodeID, scene.NodeID) {
	t.Helper()
	tree := scene.NewTree()
	hips := tree.Add(scene.NoNode, "hips", vmath.Vec3{}, vmath.Ident())
	a := tree.Add(hips, "a", vmath.Vec3{0, -1, 0}, vmath.Ident())
	b := tree.Add(a, "b", vmath.Vec3{0, -1, 0}, vmath.Ident())
	return tree, hips, a, b
}

func TestBuildTopologyStraightChain(t *testing.T) {
	tree, _, a, b := straightChain(t)

	specs, err := BuildTopology(tree, a)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}

	root := specs[0]
	if root.Node != a || root.Parent != -1 {
		t.Errorf("root spec = %+v", root)
	}
	if math.Abs(float64(root.RestLength-1)) > 1e-6 {
		t.Errorf("internal rest length = %v, want 1", root.RestLength)
	}
	if !vmath.ApproxEqual(root.RestAxis, vmath.Down, 1e-6) {
		t.Errorf("internal rest axis = %v", root.RestAxis)
	}
	if !vmath.ApproxEqual(root.InitialTail, vmath.Vec3{0, -2, 0}, 1e-6) {
		t.Errorf("internal initial tail = %v", root.InitialTail)
	}

	leaf := specs[1]
	if leaf.Node != b || leaf.Parent != 0 {
		t.Errorf("leaf spec = %+v", leaf)
	}
	if math.Abs(float64(leaf.RestLength-LeafExtension)) > 1e-6 {
		t.Errorf("leaf rest length = %v, want %v", leaf.RestLength, LeafExtension)
	}
	if !vmath.ApproxEqual(leaf.InitialTail, vmath.Vec3{0, -2.07, 0}, 1e-5) {
		t.Errorf("leaf initial tail = %v", leaf.InitialTail)
	}
}

func TestBuildTopologyRotatedLeaf(t *testing.T) {
	tree := scene.NewTree()
	hips := tree.Add(scene.NoNode, "hips", vmath.Vec3{}, vmath.Ident())
	// leaf frame rotated so that its local axis differs from the world one
	leaf := tree.Add(hips, "leaf", vmath.Vec3{1, 0, 0}, mgl32.QuatRotate(math.Pi/2, vmath.Vec3{0, 0, 1}))

	specs, err := BuildTopology(tree, leaf)
	if err != nil {
		t.Fatal(err)
	}
	s := specs[0]
	if !vmath.ApproxEqual(s.InitialTail, vmath.Vec3{1.07, 0, 0}, 1e-5) {
		t.Errorf("initial tail = %v", s.InitialTail)
	}
	// world +x is local -y after a quarter turn about z
	if !vmath.ApproxEqual(s.RestAxis, vmath.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("rest axis = %v", s.RestAxis)
	}
	if s.SceneParent != hips {
		t.Errorf("scene parent = %d, want %d", s.SceneParent, hips)
	}
}

func TestBuildTopologyUsesFirstChild(t *testing.T) {
	tree := scene.NewTree()
	root := tree.Add(scene.NoNode, "root", vmath.Vec3{}, vmath.Ident())
	tree.Add(root, "first", vmath.Vec3{0, 0, 2}, vmath.Ident())
	tree.Add(root, "second", vmath.Vec3{3, 0, 0}, vmath.Ident())

	specs, err := BuildTopology(tree, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 3 {
		t.Fatalf("got %d specs", len(specs))
	}
	if specs[0].RestLength != 2 {
		t.Errorf("rest length = %v, want 2", specs[0].RestLength)
	}
	if specs[1].Parent != 0 || specs[2].Parent != 0 {
		t.Errorf("children parents = %d, %d", specs[1].Parent, specs[2].Parent)
	}
}

func TestBuildTopologyErrors(t *testing.T) {
	tree := scene.NewTree()
	lone := tree.Add(scene.NoNode, "lone", vmath.Vec3{}, vmath.Ident())
	hips := tree.Add(scene.NoNode, "hips", vmath.Vec3{}, vmath.Ident())
	stacked := tree.Add(hips, "stacked", vmath.Vec3{}, vmath.Ident())

	tests := []struct {
		name string
		root scene.NodeID
		want error
	}{
		{"missing", 999, dynamo.ErrMissingNode},
		{"parentless leaf", lone, dynamo.ErrDegenerateRestPose},
		{"coincident leaf", stacked, dynamo.ErrDegenerateRestPose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTopology(tree, tt.root)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildChainRebasesParents(t *testing.T) {
	tree, hips, a, _ := straightChain(t)
	other := tree.Add(hips, "other", vmath.Vec3{1, 0, 0}, vmath.Ident())

	specs, err := BuildChain(tree, []scene.NodeID{a, other})
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 3 {
		t.Fatalf("got %d specs", len(specs))
	}
	if specs[2].Node != other || specs[2].Parent != -1 {
		t.Errorf("second root = %+v", specs[2])
	}
	if specs[1].Parent != 0 {
		t.Errorf("first leaf parent = %d", specs[1].Parent)
	}

	_, err = BuildChain(tree, []scene.NodeID{a, 999})
	var aerr *dynamo.ActivationError
	if !errors.As(err, &aerr) || aerr.Root != 999 {
		t.Errorf("err = %v", err)
	}
}
