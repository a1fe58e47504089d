package queryir

import (
	"fmt"

	"github.com/roach88/ecsaccess/internal/ir"
)

// Lower converts a declared filter node into a typed Filter. A nil node
// lowers to a nil Filter (no filtering).
func Lower(n *ir.FilterNode) (Filter, error) {
	if n == nil {
		return nil, nil
	}
	return lowerNode(*n, "filter")
}

func lowerNode(n ir.FilterNode, path string) (Filter, error) {
	if n.IsLeaf() {
		if n.Component == "" {
			return nil, &LowerError{Path: path, Message: fmt.Sprintf("%q requires a component", n.Op)}
		}
		if len(n.Args) > 0 {
			return nil, &LowerError{Path: path, Message: fmt.Sprintf("%q takes no arguments", n.Op)}
		}
	} else if n.Component != "" {
		return nil, &LowerError{Path: path, Message: fmt.Sprintf("%q combines filters and names no component", n.Op)}
	}

	switch n.Op {
	case ir.FilterWith:
		return With{Component: n.Component}, nil
	case ir.FilterWithout:
		return Without{Component: n.Component}, nil
	case ir.FilterChanged:
		return Changed{Component: n.Component}, nil
	case ir.FilterAdded:
		return Added{Component: n.Component}, nil
	case ir.FilterAll, ir.FilterAny:
		children := make([]Filter, len(n.Args))
		for i, arg := range n.Args {
			c, err := lowerNode(arg, fmt.Sprintf("%s.%s[%d]", path, n.Op, i))
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		if n.Op == ir.FilterAll {
			return All{Filters: children}, nil
		}
		return Any{Filters: children}, nil
	default:
		return nil, &LowerError{Path: path, Message: fmt.Sprintf("unknown filter op %q", n.Op)}
	}
}
