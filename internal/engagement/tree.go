package engagement

import (
	"github.com/mirrelia/community-feed/backend/internal/models"
)

// CommentNode is one node of an assembled reply forest.
type CommentNode struct {
	Comment models.Comment `json:"comment"`
	Replies []CommentNode  `json:"replies"`
}

// Assemble reconstructs the nested reply forest from a flat, already-fetched
// comment slice in a single pass. The input is expected in chronological
// order (created_at ascending); that order is preserved among siblings at
// every depth. No storage is touched — children are resolved through an
// in-memory parent index, never a per-node query.
//
// A comment whose parent id is absent from the input (parent deleted, or
// outside the fetch batch) is kept as a top-level root rather than dropped.
// A parent-reference cycle would leave its members unreachable from any
// root; that case returns ErrCommentCycle instead of losing comments.
func Assemble(comments []models.Comment) ([]CommentNode, error) {
	present := make(map[int]bool, len(comments))
	for _, c := range comments {
		present[c.ID] = true
	}

	var roots []models.Comment
	byParent := make(map[int][]models.Comment)
	for _, c := range comments {
		if c.ParentID == nil || !present[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
	}

	visited := 0
	var build func(c models.Comment) CommentNode
	build = func(c models.Comment) CommentNode {
		visited++
		children := byParent[c.ID]
		node := CommentNode{Comment: c, Replies: make([]CommentNode, 0, len(children))}
		for _, child := range children {
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	forest := make([]CommentNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, build(root))
	}

	if visited != len(comments) {
		return nil, ErrCommentCycle
	}
	return forest, nil
}
