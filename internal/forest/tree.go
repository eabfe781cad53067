package forest

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// treeNode is one node of a fitted decision tree. Fields are exported
// for gob; leaves carry the class distribution, internal nodes carry a
// threshold split (value <= Threshold goes left).
type treeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
	Samples   int
	Probas    []float64
	Class     int
}

type treeParams struct {
	maxDepth        int // 0 means unlimited
	minSamplesSplit int
	maxFeatures     int // features tried per split
}

// treeBuilder grows one CART tree over a bootstrap sample. All
// randomness comes from rnd, so a tree is fully determined by its seed.
type treeBuilder struct {
	x       *mat.Dense
	y       []int
	classes int
	params  treeParams
	rnd     *rand.Rand
}

func (b *treeBuilder) grow(rows []int, depth int) *treeNode {
	counts := b.classCounts(rows)
	node := &treeNode{Samples: len(rows)}

	stop := isPure(counts) ||
		len(rows) < b.params.minSamplesSplit ||
		(b.params.maxDepth > 0 && depth >= b.params.maxDepth)
	if !stop {
		feature, threshold, ok := b.bestSplit(rows, counts)
		if ok {
			left, right := b.partition(rows, feature, threshold)
			node.Feature = feature
			node.Threshold = threshold
			node.Left = b.grow(left, depth+1)
			node.Right = b.grow(right, depth+1)
			return node
		}
	}

	node.Leaf = true
	node.Probas = countsToProbas(counts)
	node.Class = argmaxCounts(counts)
	return node
}

// bestSplit scans candidate features in ascending index order and keeps
// the first split with the strictly highest gini gain, so results do not
// depend on goroutine scheduling or map iteration.
func (b *treeBuilder) bestSplit(rows []int, counts []int) (feature int, threshold float64, ok bool) {
	_, p := b.x.Dims()
	features := b.candidateFeatures(p)
	parent := giniFromCounts(counts)

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	total := float64(len(rows))
	ordered := make([]int, len(rows))
	leftCounts := make([]int, b.classes)
	rightCounts := make([]int, b.classes)

	for _, f := range features {
		copy(ordered, rows)
		sort.Slice(ordered, func(i, j int) bool {
			return b.x.At(ordered[i], f) < b.x.At(ordered[j], f)
		})

		for c := range leftCounts {
			leftCounts[c] = 0
		}
		copy(rightCounts, counts)

		for s := 1; s < len(ordered); s++ {
			c := b.y[ordered[s-1]]
			leftCounts[c]++
			rightCounts[c]--

			prev := b.x.At(ordered[s-1], f)
			cur := b.x.At(ordered[s], f)
			if prev == cur {
				continue
			}

			nl := float64(s)
			nr := total - nl
			weighted := (nl/total)*giniFromCounts(leftCounts) + (nr/total)*giniFromCounts(rightCounts)
			gain := parent - weighted
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (prev + cur) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateFeatures picks the feature subset for one split. The subset
// is sampled from the builder's rand and then sorted, so equal-gain ties
// always resolve to the lowest feature index.
func (b *treeBuilder) candidateFeatures(p int) []int {
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if b.params.maxFeatures <= 0 || b.params.maxFeatures >= p {
		return features
	}
	for i := 0; i < b.params.maxFeatures; i++ {
		j := i + b.rnd.Intn(p-i)
		features[i], features[j] = features[j], features[i]
	}
	features = features[:b.params.maxFeatures]
	sort.Ints(features)
	return features
}

func (b *treeBuilder) partition(rows []int, feature int, threshold float64) (left, right []int) {
	for _, r := range rows {
		if b.x.At(r, feature) <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}

func (b *treeBuilder) classCounts(rows []int) []int {
	counts := make([]int, b.classes)
	for _, r := range rows {
		counts[b.y[r]]++
	}
	return counts
}

// predictProba walks the tree to a leaf and returns its distribution
func (n *treeNode) predictProba(row []float64) []float64 {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Probas
}

// predict returns the leaf majority class, ties resolved to the lowest
// class index at fit time.
func (n *treeNode) predict(row []float64) int {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class
}

func giniFromCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	probas := make([]float64, len(counts))
	if total == 0 {
		return probas
	}
	for i, c := range counts {
		probas[i] = float64(c) / float64(total)
	}
	return probas
}

// argmaxCounts returns the first index with the highest count
func argmaxCounts(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
