// Package markup parses HTML fragments into trees, walks their text leaves and
// answers the structural questions hanging punctuation needs.
//
// Parsing and serialisation are delegated to golang.org/x/net/html. A
// [Fragment] keeps the parsed top-level nodes attached to a synthetic root so
// that sibling links between them survive; [html.ParseFragment] alone returns
// detached nodes.
//
// # Walking
//
// [Walk] visits text leaves depth-first in document order. Elements accepted
// by the skip predicate are excluded together with their subtree. The
// predicate usually comes from an [IgnoreSpec]:
//
//	frag, err := markup.ParseFragment(`<p>Hi <code>"x"</code></p>`)
//	if err != nil {
//	    return err
//	}
//	markup.Walk(frag.Root, markup.DefaultIgnore().Skip, func(n *html.Node) {
//	    fmt.Println(n.Data) // "Hi " only
//	})
//
// # Adjacency
//
// [HasAdjacentText] tells whether rendered text sits immediately before a
// leaf in the tree even though the leaf starts a new node.
package markup
