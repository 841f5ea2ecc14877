package expr

// Auto applies the explicit immediate-vs-deferred policy for arithmetic on
// mixed operands: when both operands are fully resolvable right now the
// operation is folded to a literal holding the numeric result, otherwise a
// deferred node is returned. Folding only happens on clean evaluation; any
// error (including a dimension mismatch) defers instead, so the error
// surfaces at Eval time where callers handle it.
func Auto(op string, l, r Node) Node {
	node := &Binary{Op: op, Left: l, Right: r}
	if !Resolvable(l) || !Resolvable(r) {
		return node
	}
	q, err := Eval(node)
	if err != nil {
		return node
	}
	return &Literal{Value: q}
}
