package utils

type StringPrefixTreeNode struct {
	Label    string
	Terminal bool
	Children map[string]*StringPrefixTreeNode
}

// StringPrefixTree indexes multi-token terms by their token sequence.
type StringPrefixTree struct {
	Root StringPrefixTreeNode
}

func (pTree *StringPrefixTree) Add(tokens []string, label string) {
	if len(tokens) == 0 || len(label) == 0 {
		return
	}

	node := &pTree.Root
	for _, token := range tokens {
		childNode, isOk := node.Children[token]
		if isOk {
			node = childNode
			continue
		}

		newNode := &StringPrefixTreeNode{
			Children: make(map[string]*StringPrefixTreeNode),
		}

		if node.Children == nil {
			node.Children = make(map[string]*StringPrefixTreeNode)
		}
		node.Children[token] = newNode
		node = newNode
	}

	node.Label = label
	node.Terminal = true
}

// Match walks tokens from the first element and returns the longest indexed
// term together with its label. matched is 0 when no term starts here.
func (pTree *StringPrefixTree) Match(tokens []string) (matched int, label string) {
	node := &pTree.Root
	for i, token := range tokens {
		childNode, isOk := node.Children[token]
		if !isOk {
			break
		}
		node = childNode
		if node.Terminal {
			matched = i + 1
			label = node.Label
		}
	}
	return matched, label
}
