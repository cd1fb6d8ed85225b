package engine

// Cluster groups blockers whose ground positions are closer than threshold,
// transitively. With merge disabled every blocker is its own cluster.
//
// Components are found breadth-first in input order, so the result is
// deterministic: clusters are ordered by their first member's input index.
func Cluster(blockers []Blocker, threshold float64, merge bool) [][]Blocker {
	if !merge {
		out := make([][]Blocker, len(blockers))
		for i, b := range blockers {
			out[i] = []Blocker{b}
		}
		return out
	}

	adj := adjacency(blockers, threshold)
	visited := make([]bool, len(blockers))
	var out [][]Blocker
	for start := range blockers {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []int{start}
		var members []Blocker
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			members = append(members, blockers[i])
			for _, j := range adj[i] {
				if !visited[j] {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
		out = append(out, members)
	}
	return out
}

// adjacency lists, for each blocker, the indices of blockers strictly closer
// than threshold on the ground.
func adjacency(blockers []Blocker, threshold float64) [][]int {
	adj := make([][]int, len(blockers))
	for i := range blockers {
		for j := i + 1; j < len(blockers); j++ {
			if blockers[i].Pos.Sub(blockers[j].Pos).Len() < threshold {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj
}

// tightPair is two blockers close enough that a ball passing between them is
// still blocked.
type tightPair struct {
	a, b   int
	radius float64
	reach  float64
}

// tightPairs returns every blocker pair under threshold with the larger
// radius and the higher reach of the two.
func tightPairs(blockers []Blocker, threshold float64) []tightPair {
	var out []tightPair
	adj := adjacency(blockers, threshold)
	for i, ns := range adj {
		for _, j := range ns {
			if j <= i {
				continue
			}
			out = append(out, tightPair{
				a:      i,
				b:      j,
				radius: max(blockers[i].Radius, blockers[j].Radius),
				reach:  max(blockers[i].ReachHeight, blockers[j].ReachHeight),
			})
		}
	}
	return out
}
