// internal/model/tree.go
package model

import (
	"errors"
	"fmt"
)

// Node is one entry of a flattened binary decision tree. A node with no
// children is a leaf and carries Value. Children are stored after their
// parent, so walking a valid tree always terminates.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Value     []float64 `json:"value,omitempty"`
}

func (n *Node) isLeaf() bool { return n.Left == 0 && n.Right == 0 }

// Tree is a flattened decision tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// leaf walks the tree for row. Forest trees send x <= threshold left;
// boosted trees send x < threshold left.
func (t *Tree) leaf(row []float64, strict bool) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.isLeaf() {
			return n.Value
		}
		x := row[n.Feature]
		goLeft := x <= n.Threshold
		if strict {
			goLeft = x < n.Threshold
		}
		if goLeft {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func validateTrees(trees []Tree, width, valueLen int) error {
	if len(trees) == 0 {
		return errors.New("model has no trees")
	}
	for ti := range trees {
		nodes := trees[ti].Nodes
		if len(nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni := range nodes {
			n := &nodes[ni]
			if n.isLeaf() {
				if len(n.Value) != valueLen {
					return fmt.Errorf("tree %d node %d: leaf has %d values, want %d", ti, ni, len(n.Value), valueLen)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= width {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d of %d", ErrFeatureMismatch, ti, ni, n.Feature, width)
			}
			if n.Left <= ni || n.Right <= ni || n.Left >= len(nodes) || n.Right >= len(nodes) {
				return fmt.Errorf("tree %d node %d: invalid children %d/%d", ti, ni, n.Left, n.Right)
			}
		}
	}
	return nil
}

// RandomForest averages the class distributions of its trees.
type RandomForest struct {
	Trees []Tree
	Width int
}

func (f *RandomForest) PredictProba(rows [][]float64) ([][]float64, error) {
	if err := checkWidth(rows, f.Width); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		var legit, phish float64
		for ti := range f.Trees {
			v := f.Trees[ti].leaf(row, false)
			sum := v[0] + v[1]
			if sum <= 0 {
				return nil, fmt.Errorf("tree %d: leaf distribution sums to %v", ti, sum)
			}
			legit += v[0] / sum
			phish += v[1] / sum
		}
		n := float64(len(f.Trees))
		out[i] = []float64{legit / n, phish / n}
	}
	return out, nil
}

// GradientBoosting sums leaf margins on top of BaseScore and applies a
// sigmoid.
type GradientBoosting struct {
	Trees     []Tree
	BaseScore float64
	Width     int
}

func (g *GradientBoosting) PredictProba(rows [][]float64) ([][]float64, error) {
	if err := checkWidth(rows, g.Width); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		margin := g.BaseScore
		for ti := range g.Trees {
			margin += g.Trees[ti].leaf(row, true)[0]
		}
		p := sigmoid(margin)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}
