package server

import (
	"strconv"
	"time"

	"github.com/loomworks/loom/lattice"
)

// View is the full lattice snapshot pushed to clients. Nodes follow engine
// insertion order and links follow node order, so two snapshots of the same
// repository are byte-identical.
type View struct {
	Nodes []ViewNode `json:"nodes"`
	Links []ViewLink `json:"links"`
	Meta  ViewMeta   `json:"meta"`
}

// ViewNode is one node record prepared for display.
type ViewNode struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"` // "atom" or "fragment"
	Label  string `json:"label"`
	Level  int    `json:"level"`
	Height int    `json:"height"`
	Width  int    `json:"width,omitempty"` // content length, fragments only
}

// ViewLink is a directed edge. Content edges point from a fragment to each
// of its content entries; constituent edges point to the drop-last and
// drop-first sub-fragments.
type ViewLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"` // "content", "constituent-left", "constituent-right"
	Weight float64 `json:"value"`
}

// ViewMeta carries snapshot statistics.
type ViewMeta struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Stats       ViewStats         `json:"stats"`
	Config      map[string]string `json:"config,omitempty"`
}

type ViewStats struct {
	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`
}

const (
	linkTypeContent          = "content"
	linkTypeConstituentLeft  = "constituent-left"
	linkTypeConstituentRight = "constituent-right"

	contentLinkWeight     = 1.0
	constituentLinkWeight = 2.0
)

// BuildView snapshots the engine into a View. Edges whose target no longer
// exists are dropped from the snapshot; the engine keeps the dangling
// reference, the display just has nothing to draw it to.
func BuildView(engine *lattice.Engine) *View {
	nodes := engine.AllNodes()

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.URI] = true
	}

	view := &View{
		Nodes: make([]ViewNode, 0, len(nodes)),
		Links: make([]ViewLink, 0, len(nodes)*2),
	}

	for _, n := range nodes {
		vn := ViewNode{
			ID:     n.URI,
			Kind:   string(n.Kind),
			Label:  engine.ResolveContentString(n.URI),
			Level:  n.Level,
			Height: n.Height,
		}
		if n.Kind == lattice.KindFragment {
			vn.Width = len(n.Content)
		}
		view.Nodes = append(view.Nodes, vn)

		for _, childID := range n.Content {
			if !present[childID] {
				continue
			}
			view.Links = append(view.Links, ViewLink{
				Source: n.URI,
				Target: childID,
				Type:   linkTypeContent,
				Weight: contentLinkWeight,
			})
		}

		if n.Constituents != nil {
			if present[n.Constituents.Left] {
				view.Links = append(view.Links, ViewLink{
					Source: n.URI,
					Target: n.Constituents.Left,
					Type:   linkTypeConstituentLeft,
					Weight: constituentLinkWeight,
				})
			}
			if present[n.Constituents.Right] {
				view.Links = append(view.Links, ViewLink{
					Source: n.URI,
					Target: n.Constituents.Right,
					Type:   linkTypeConstituentRight,
					Weight: constituentLinkWeight,
				})
			}
		}
	}

	atoms, fragments := engine.Stats()
	view.Meta = ViewMeta{
		GeneratedAt: time.Now(),
		Stats: ViewStats{
			TotalNodes: len(view.Nodes),
			TotalEdges: len(view.Links),
		},
		Config: map[string]string{
			"atoms":     strconv.Itoa(atoms),
			"fragments": strconv.Itoa(fragments),
		},
	}
	return view
}

// emptyView is what clients get after a reset or before any ingest.
func emptyView() *View {
	return &View{
		Nodes: []ViewNode{},
		Links: []ViewLink{},
		Meta: ViewMeta{
			GeneratedAt: time.Now(),
			Stats:       ViewStats{},
		},
	}
}
