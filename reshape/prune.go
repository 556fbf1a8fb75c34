package reshape

import (
	"slices"

	"tree-reshaper/internal/common"
	"tree-reshaper/internal/schema"
	"tree-reshaper/internal/shapeerr"
	"tree-reshaper/tree"
)

// pruneTree removes every addressed location from a deep copy of root.
// Missing keys are skipped silently. List positions always refer to the
// copy as it was before pruning: they are collected during the pass and
// spliced out once every entry has run.
func pruneTree(s *schema.Schema, root tree.Value) (tree.Value, error) {
	p := &pruner{positions: map[*tree.List][]int{}}
	out := tree.Clone(root)

	for i := range s.Entries {
		if err := p.prune(out, s.Entries[i].Input.Path, nil); err != nil {
			return nil, err
		}
	}

	p.splice()

	return out, nil
}

type pruner struct {
	// positions holds the list positions to remove, per list.
	positions map[*tree.List][]int
	lists     []*tree.List
}

// prune applies prog below node. The last segment decides what goes: a
// literal removes one key, a capture empties the whole container.
func (p *pruner) prune(node tree.Value, prog schema.Program, keys []string) error {
	seg := prog[0]

	if seg.Kind == schema.SegmentCapture && !tree.IsContainer(node) {
		return &shapeerr.TypeMismatchError{Path: keys, Segment: seg.Text, Kind: tree.KindOf(node)}
	}

	if common.IsSingle(prog) {
		switch {
		case seg.Kind == schema.SegmentCapture:
			tree.Empty(node)
		case isList(node):
			p.mark(node.(*tree.List), seg.Text)
		default:
			tree.Remove(node, seg.Text)
		}

		return nil
	}

	if seg.Kind == schema.SegmentLiteral {
		key, child, ok := tree.Child(node, seg.Text)
		if !ok {
			return nil
		}

		return p.prune(child, prog[1:], append(keys, key.String()))
	}

	for key, child := range tree.Children(node) {
		if err := p.prune(child, prog[1:], append(keys[:len(keys):len(keys)], key.String())); err != nil {
			return err
		}
	}

	return nil
}

func (p *pruner) mark(l *tree.List, literal string) {
	key, _, ok := tree.Child(l, literal)
	if !ok {
		return
	}

	if _, seen := p.positions[l]; !seen {
		p.lists = append(p.lists, l)
	}

	p.positions[l] = append(p.positions[l], key.Index())
}

// splice removes the marked positions, highest first so that lower ones
// keep their meaning.
func (p *pruner) splice() {
	for _, l := range p.lists {
		positions := p.positions[l]
		slices.Sort(positions)

		for _, i := range slices.Backward(slices.Compact(positions)) {
			l.Delete(i)
		}
	}
}

func isList(v tree.Value) bool {
	_, ok := v.(*tree.List)
	return ok
}
