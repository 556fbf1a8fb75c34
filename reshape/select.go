package reshape

import (
	"tree-reshaper/internal/common"
	"tree-reshaper/internal/schema"
	"tree-reshaper/internal/walk"
	"tree-reshaper/tree"
)

// selectTree copies every matched node to the place it was found at. Keys
// captured from lists rebuild lists.
func selectTree(s *schema.Schema, root tree.Value, settings walk.Settings) (tree.Value, error) {
	reg := walk.NewRegistry(s, root, settings)
	b := tree.NewBuilder()

	for i := range s.Entries {
		cur := reg.Open(i)

		for cur.Next() {
			row := cur.Row()
			if row.Missing || common.IsEmpty(row.Keys) {
				continue
			}

			place(b, row)
		}

		if err := cur.Err(); err != nil {
			return nil, err
		}
	}

	return b.Root(), nil
}

func place(b *tree.Builder, row walk.Row) {
	pos := b.Start()
	last := len(row.Keys) - 1

	for i, key := range row.Keys[:last] {
		pos = pos.Enter(key, row.Keys[i+1].IsIndex())
	}

	if row.Partial {
		pos.Ensure(row.Keys[last])
		return
	}

	pos.Assign(row.Keys[last], tree.Clone(row.Value))
}
