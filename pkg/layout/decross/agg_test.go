package decross

import (
	"testing"

	"github.com/matzehuels/strata/pkg/dag"
)

func TestAgg_MeanOrdering(t *testing.T) {
	// Means: b1 -> 0, b2 -> 1.5, b0 -> 2.
	g, top, bottom := bipartite(t, 3, 3, [][2]int{
		{2, 0}, {0, 1}, {1, 2}, {2, 2},
	})

	if err := (Agg{}).Apply(g, top, bottom, true); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := dag.NodeIDs(bottom); got[0] != "b1" || got[1] != "b2" || got[2] != "b0" {
		t.Errorf("bottom = %v, want [b1 b2 b0]", got)
	}
}

func TestAgg_MedianDiffersFromMean(t *testing.T) {
	// b0 links to t0, t1, t4: median 1, mean 5/3.
	// b1 links to t1, t2: median and mean both 1.5.
	links := [][2]int{{0, 0}, {1, 0}, {4, 0}, {1, 1}, {2, 1}}

	g, top, bottom := bipartite(t, 5, 2, links)
	if err := (Agg{Median: true}).Apply(g, top, bottom, true); err != nil {
		t.Fatalf("Apply(median) error = %v", err)
	}
	if got := dag.NodeIDs(bottom); got[0] != "b0" {
		t.Errorf("median ordering = %v, want b0 first", got)
	}

	g2, top2, bottom2 := bipartite(t, 5, 2, links)
	if err := (Agg{}).Apply(g2, top2, bottom2, true); err != nil {
		t.Fatalf("Apply(mean) error = %v", err)
	}
	if got := dag.NodeIDs(bottom2); got[0] != "b1" {
		t.Errorf("mean ordering = %v, want b1 first", got)
	}
}

func TestAgg_StableOnTies(t *testing.T) {
	// Both free nodes aggregate to the same position; their original
	// relative order must survive.
	g, top, bottom := bipartite(t, 1, 2, [][2]int{{0, 0}, {0, 1}})

	if err := (Agg{}).Apply(g, top, bottom, true); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := dag.NodeIDs(bottom); got[0] != "b0" || got[1] != "b1" {
		t.Errorf("bottom = %v, want original order [b0 b1]", got)
	}
}

func TestAgg_UnconstrainedKeepSlots(t *testing.T) {
	// b0 has no links and must stay in slot 0 while b1, b2 reorder.
	g, top, bottom := bipartite(t, 2, 3, [][2]int{{1, 1}, {0, 2}})

	if err := (Agg{}).Apply(g, top, bottom, true); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if bottom[0].ID != "b0" {
		t.Errorf("unconstrained b0 moved: %v", dag.NodeIDs(bottom))
	}
	if bottom[1].ID != "b2" || bottom[2].ID != "b1" {
		t.Errorf("constrained order = %v, want [b2 b1] in slots 1, 2", dag.NodeIDs(bottom))
	}
}

func TestAgg_NeverBeatsOpt(t *testing.T) {
	rng := uint64(0xDEADBEEFCAFEF00D)
	next := func(n int) int {
		rng ^= rng << 13
		rng ^= rng >> 7
		rng ^= rng << 17
		return int(rng % uint64(n))
	}

	for trial := 0; trial < 20; trial++ {
		nTop, nBottom := 2+next(4), 2+next(5)
		var links [][2]int
		nLinks := 1 + next(nTop*nBottom)
		for i := 0; i < nLinks; i++ {
			links = append(links, [2]int{next(nTop), next(nBottom)})
		}

		gOpt, topOpt, botOpt := bipartite(t, nTop, nBottom, links)
		if err := (Opt{}).Apply(gOpt, topOpt, botOpt, true); err != nil {
			t.Fatal(err)
		}
		gAgg, topAgg, botAgg := bipartite(t, nTop, nBottom, links)
		if err := (Agg{}).Apply(gAgg, topAgg, botAgg, true); err != nil {
			t.Fatal(err)
		}

		co := layerCrossings(gOpt, topOpt, botOpt)
		ca := layerCrossings(gAgg, topAgg, botAgg)
		if co > ca {
			t.Errorf("trial %d: exact operator produced %d crossings, heuristic %d (links %v)",
				trial, co, ca, links)
		}
	}
}
