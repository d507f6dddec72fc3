// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import "strings"

// FindFirst resolves a slash-separated path of prefix:local steps against
// the fixed namespace table and returns the first match in document order,
// or nil. A double slash makes the following step match at any depth
// ("pi:Interactions//pi:Drug"). Unknown prefixes resolve to nothing rather
// than failing.
func FindFirst(n *Node, path string) *Node {
	matches := FindAll(n, path)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// FindAll resolves a path like FindFirst and returns every match in
// document order. The result is empty, never an error, when nothing matches.
func FindAll(n *Node, path string) []*Node {
	if n == nil || path == "" {
		return nil
	}

	current := []*Node{n}
	deep := false

	for _, step := range strings.Split(path, "/") {
		if step == "" {
			deep = true
			continue
		}
		space, local, ok := resolveStep(step)
		if !ok {
			return nil
		}

		var next []*Node
		for _, c := range current {
			for _, child := range c.Children {
				if deep {
					child.Walk(func(d *Node) bool {
						if d.Space == space && d.Local == local {
							next = append(next, d)
						}
						return true
					})
				} else if child.Space == space && child.Local == local {
					next = append(next, child)
				}
			}
		}

		current = next
		deep = false
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// FindByLocalName returns n and every descendant whose local tag name equals
// local, ignoring namespaces entirely. Section tags drift between namespaces
// across document revisions, so the namespace-bound path accessors cannot
// locate them reliably.
func FindByLocalName(n *Node, local string) []*Node {
	var hits []*Node
	if n == nil {
		return hits
	}
	n.Walk(func(d *Node) bool {
		if d.Local == local {
			hits = append(hits, d)
		}
		return true
	})
	return hits
}

// resolveStep splits a "prefix:local" path step. Steps without a prefix
// match unqualified elements.
func resolveStep(step string) (space, local string, ok bool) {
	prefix, local, found := strings.Cut(step, ":")
	if !found {
		return "", step, true
	}
	space, ok = Namespaces[prefix]
	return space, local, ok
}
