package routing

import (
	"container/heap"
	"math"
)

// ShortestPath runs Dijkstra over the matrix treated as a complete
// weighted graph: any positive entry is an edge (zero entries other than
// the diagonal mean coincident points and are not traversable). It
// returns the distance and the node-index path from start to end,
// stopping as soon as end is settled. An unreachable end yields
// (+Inf, nil). ShortestPath(s, s) returns (0, []int{s}).
func (m Matrix) ShortestPath(start, end int) (float64, []int) {
	n := len(m)
	dist := make([]float64, n)
	prev := make([]int, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[start] = 0

	pq := &nodeHeap{{dist: 0, node: start}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(nodeDist)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == end {
			break
		}
		for nb := 0; nb < n; nb++ {
			if visited[nb] || m[cur.node][nb] <= 0 {
				continue
			}
			if d := cur.dist + m[cur.node][nb]; d < dist[nb] {
				dist[nb] = d
				prev[nb] = cur.node
				heap.Push(pq, nodeDist{dist: d, node: nb})
			}
		}
	}

	if math.IsInf(dist[end], 1) {
		return dist[end], nil
	}
	var path []int
	for at := end; at != -1; at = prev[at] {
		path = append(path, at)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return dist[end], path
}

type nodeDist struct {
	dist float64
	node int
}

type nodeHeap []nodeDist

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)         { *h = append(*h, x.(nodeDist)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
