package compose

import "github.com/gogpu/compose/internal/parallel"

// OptimizeTree applies Optimize to every context of the tree rooted at ctx,
// parents before children, and returns the rewritten tree.
//
// Contexts are copied only along paths that change; untouched subtrees are
// shared with the input, which is never modified. With WithWorkers(n) for
// n > 1 the child subtrees of the (optimized) root are processed
// concurrently, one subtree per worker. The result does not depend on the
// number of workers.
func OptimizeTree(ctx *Context, opts ...Option) *Context {
	return NewOptimizer(opts...).OptimizeTree(ctx)
}

// OptimizeTree is the method form of the package-level OptimizeTree.
func (o *Optimizer) OptimizeTree(ctx *Context) *Context {
	if ctx == nil {
		return nil
	}
	root := o.Optimize(ctx)
	if o.opts.workers < 2 || len(root.children) < 2 {
		return o.rebuild(root, ctx, o.optimizeSubtree)
	}

	pool := parallel.NewWorkerPool(min(o.opts.workers, len(root.children)))
	defer pool.Close()

	results := make([]*Context, len(root.children))
	pool.Run(len(root.children), func(i int) {
		results[i] = o.optimizeSubtree(root.children[i])
	})
	return o.replaceChildren(root, ctx, results)
}

func (o *Optimizer) optimizeSubtree(ctx *Context) *Context {
	return o.rebuild(o.Optimize(ctx), ctx, o.optimizeSubtree)
}

// rebuild maps visit over the children of node. orig is the context node
// was derived from; if node is still orig and any child changes, node is
// cloned before its child list is replaced.
func (o *Optimizer) rebuild(node, orig *Context, visit func(*Context) *Context) *Context {
	results := make([]*Context, len(node.children))
	for i, child := range node.children {
		results[i] = visit(child)
	}
	return o.replaceChildren(node, orig, results)
}

func (o *Optimizer) replaceChildren(node, orig *Context, results []*Context) *Context {
	changed := false
	for i, r := range results {
		if r != node.children[i] {
			changed = true
			break
		}
	}
	if !changed {
		return node
	}
	if node == orig {
		node = node.Clone()
	}
	copy(node.children, results)
	return node
}
