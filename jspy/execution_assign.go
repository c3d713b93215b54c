package jspy

// evalAssign writes into a variable or into the object named by every segment
// of a dot chain but the last. The assignment itself evaluates to null.
func (exec *Execution) evalAssign(node *AssignNode, scope *Scope) (Value, error) {
	switch target := node.Target.(type) {
	case *SetVarNode:
		return exec.assignVariable(target.Name, node.Source, scope)
	case *GetVarNode:
		return exec.assignVariable(target.Name, node.Source, scope)
	case *DotAccessNode:
		return exec.assignMember(target, node.Source, scope)
	default:
		return NewNull(), exec.errorAt(ErrUnsupportedAssignment, node.Pos(), "cannot assign to %s", describeTarget(node.Target))
	}
}

func (exec *Execution) assignVariable(name string, source Node, scope *Scope) (Value, error) {
	val, err := exec.evalExpression(source, scope)
	if err != nil {
		return NewNull(), err
	}
	scope.Set(name, val)
	return NewNull(), nil
}

func (exec *Execution) assignMember(target *DotAccessNode, source Node, scope *Scope) (Value, error) {
	if len(target.Props) < 2 {
		return NewNull(), exec.errorAt(ErrUnsupportedAssignment, target.Pos(), "cannot assign to an incomplete property chain")
	}
	leaf, ok := target.Props[len(target.Props)-1].(*GetVarNode)
	if !ok {
		return NewNull(), exec.errorAt(ErrUnsupportedAssignment, target.Pos(),
			"cannot assign to %s", describeTarget(target.Props[len(target.Props)-1]))
	}

	owner, err := exec.evalDotChain(&DotAccessNode{Props: target.Props[:len(target.Props)-1], position: target.position}, scope)
	if err != nil {
		return NewNull(), err
	}
	if owner.Kind() != KindObject {
		return NewNull(), exec.errorAt(ErrType, leaf.Pos(), "cannot set property %q on %s", leaf.Name, owner.Kind())
	}

	val, err := exec.evalExpression(source, scope)
	if err != nil {
		return NewNull(), err
	}
	owner.Object().Set(leaf.Name, val)
	return NewNull(), nil
}

func describeTarget(node Node) string {
	switch node.(type) {
	case *BracketAccessNode:
		return "an indexed element"
	case *FuncCallNode:
		return "a function call"
	case *ConstNode:
		return "a constant"
	default:
		return "this expression"
	}
}
