package jspy

import "math"

func (exec *Execution) evalBinaryOp(node *BinOpNode, scope *Scope) (Value, error) {
	left, err := exec.evalExpression(node.Left, scope)
	if err != nil {
		return NewNull(), err
	}
	right, err := exec.evalExpression(node.Right, scope)
	if err != nil {
		return NewNull(), err
	}
	return exec.binaryOp(node.Op, left, right, node.Pos())
}

func (exec *Execution) binaryOp(op string, left, right Value, pos Position) (Value, error) {
	switch op {
	case "+":
		if left.Kind() == KindNumber && right.Kind() == KindNumber {
			return NewNumber(left.Number() + right.Number()), nil
		}
		if left.Kind() == KindString || right.Kind() == KindString {
			return NewString(left.String() + right.String()), nil
		}
		return NewNull(), exec.operandError(op, left, right, pos)
	case "-", "*", "/", "%":
		if left.Kind() != KindNumber || right.Kind() != KindNumber {
			return NewNull(), exec.operandError(op, left, right, pos)
		}
		a, b := left.Number(), right.Number()
		switch op {
		case "-":
			return NewNumber(a - b), nil
		case "*":
			return NewNumber(a * b), nil
		case "/":
			return NewNumber(a / b), nil
		default:
			return NewNumber(math.Mod(a, b)), nil
		}
	case "==":
		return NewBool(left.Equal(right)), nil
	case "!=":
		return NewBool(!left.Equal(right)), nil
	case "<", "<=", ">", ">=":
		cmp, err := exec.compare(op, left, right, pos)
		if err != nil {
			return NewNull(), err
		}
		switch op {
		case "<":
			return NewBool(cmp < 0), nil
		case "<=":
			return NewBool(cmp <= 0), nil
		case ">":
			return NewBool(cmp > 0), nil
		default:
			return NewBool(cmp >= 0), nil
		}
	default:
		return NewNull(), exec.errorAt(ErrUnsupportedNode, pos, "unsupported operator %s", op)
	}
}

func (exec *Execution) compare(op string, left, right Value, pos Position) (int, error) {
	switch {
	case left.Kind() == KindNumber && right.Kind() == KindNumber:
		a, b := left.Number(), right.Number()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case left.Kind() == KindString && right.Kind() == KindString:
		a, b := left.data.(string), right.data.(string)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case left.Kind() == KindTime && right.Kind() == KindTime:
		return left.Time().Compare(right.Time()), nil
	}
	return 0, exec.operandError(op, left, right, pos)
}

func (exec *Execution) operandError(op string, left, right Value, pos Position) error {
	return exec.errorAt(ErrType, pos, "unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
}

// evalLogicalOp short-circuits and yields one of its operands.
func (exec *Execution) evalLogicalOp(node *LogicalOpNode, scope *Scope) (Value, error) {
	left, err := exec.evalExpression(node.Left, scope)
	if err != nil {
		return NewNull(), err
	}
	switch node.Op {
	case "and":
		if !left.Truthy() {
			return left, nil
		}
	case "or":
		if left.Truthy() {
			return left, nil
		}
	default:
		return NewNull(), exec.errorAt(ErrUnsupportedNode, node.Pos(), "unsupported operator %s", node.Op)
	}
	return exec.evalExpression(node.Right, scope)
}

func (exec *Execution) evalUnaryOp(node *UnaryOpNode, scope *Scope) (Value, error) {
	operand, err := exec.evalExpression(node.Operand, scope)
	if err != nil {
		return NewNull(), err
	}
	switch node.Op {
	case "not":
		return NewBool(!operand.Truthy()), nil
	case "-":
		if operand.Kind() != KindNumber {
			return NewNull(), exec.errorAt(ErrType, node.Pos(), "bad operand type for unary -: %s", operand.Kind())
		}
		return NewNumber(-operand.Number()), nil
	default:
		return NewNull(), exec.errorAt(ErrUnsupportedNode, node.Pos(), "unsupported operator %s", node.Op)
	}
}
