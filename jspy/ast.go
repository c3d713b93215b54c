package jspy

// Node is an immutable syntax tree node. The evaluator dispatches on the
// concrete node type and fails on types it does not recognise.
type Node interface {
	Pos() Position
	node()
}

// Block is a named statement sequence plus the function definitions that
// belong to it. Funcs are registered before the first statement runs.
type Block struct {
	Name  string
	Body  []Node
	Funcs []*FuncDefNode
}

// ConstNode is a literal constant.
type ConstNode struct {
	Value    Value
	position Position
}

// GetVarNode reads a variable, or a property when used as a dot-chain segment.
type GetVarNode struct {
	Name     string
	position Position
}

// SetVarNode is a variable write target.
type SetVarNode struct {
	Name     string
	position Position
}

type BinOpNode struct {
	Op       string
	Left     Node
	Right    Node
	position Position
}

// LogicalOpNode is a short-circuit "and"/"or".
type LogicalOpNode struct {
	Op       string
	Left     Node
	Right    Node
	position Position
}

type UnaryOpNode struct {
	Op       string
	Operand  Node
	position Position
}

type FuncDefNode struct {
	Name     string
	Params   []string
	Body     *Block
	position Position
}

type ArrowFuncDefNode struct {
	Params   []string
	Body     *Block
	position Position
}

// FuncCallNode calls Callee when set, otherwise the function bound to Name.
// As a dot-chain segment Name is the method looked up on the running value.
type FuncCallNode struct {
	Name     string
	Callee   Node
	Args     []Node
	position Position
}

type AssignNode struct {
	Target   Node
	Source   Node
	position Position
}

// DotAccessNode applies Props left to right to a running value.
type DotAccessNode struct {
	Props    []Node
	position Position
}

// BracketAccessNode reads PropertyName and then indexes it with Key. An empty
// PropertyName inside a dot chain indexes the running value itself.
type BracketAccessNode struct {
	PropertyName string
	Key          Node
	position     Position
}

type ObjectProp struct {
	Name  Node
	Value Node
}

type CreateObjectNode struct {
	Props    []ObjectProp
	position Position
}

type CreateArrayNode struct {
	Items    []Node
	position Position
}

type ReturnNode struct {
	Value    Node
	position Position
}

type IfNode struct {
	Condition Node
	Then      *Block
	Else      *Block
	position  Position
}

type ForNode struct {
	Iterator string
	Iterable Node
	Body     *Block
	position Position
}

type WhileNode struct {
	Condition Node
	Body      *Block
	position  Position
}

type BreakNode struct{ position Position }

type ContinueNode struct{ position Position }

func (n *ConstNode) Pos() Position         { return n.position }
func (n *GetVarNode) Pos() Position        { return n.position }
func (n *SetVarNode) Pos() Position        { return n.position }
func (n *BinOpNode) Pos() Position         { return n.position }
func (n *LogicalOpNode) Pos() Position     { return n.position }
func (n *UnaryOpNode) Pos() Position       { return n.position }
func (n *FuncDefNode) Pos() Position       { return n.position }
func (n *ArrowFuncDefNode) Pos() Position  { return n.position }
func (n *FuncCallNode) Pos() Position      { return n.position }
func (n *AssignNode) Pos() Position        { return n.position }
func (n *DotAccessNode) Pos() Position     { return n.position }
func (n *BracketAccessNode) Pos() Position { return n.position }
func (n *CreateObjectNode) Pos() Position  { return n.position }
func (n *CreateArrayNode) Pos() Position   { return n.position }
func (n *ReturnNode) Pos() Position        { return n.position }
func (n *IfNode) Pos() Position            { return n.position }
func (n *ForNode) Pos() Position           { return n.position }
func (n *WhileNode) Pos() Position         { return n.position }
func (n *BreakNode) Pos() Position         { return n.position }
func (n *ContinueNode) Pos() Position      { return n.position }

func (*ConstNode) node()         {}
func (*GetVarNode) node()        {}
func (*SetVarNode) node()        {}
func (*BinOpNode) node()         {}
func (*LogicalOpNode) node()     {}
func (*UnaryOpNode) node()       {}
func (*FuncDefNode) node()       {}
func (*ArrowFuncDefNode) node()  {}
func (*FuncCallNode) node()      {}
func (*AssignNode) node()        {}
func (*DotAccessNode) node()     {}
func (*BracketAccessNode) node() {}
func (*CreateObjectNode) node()  {}
func (*CreateArrayNode) node()   {}
func (*ReturnNode) node()        {}
func (*IfNode) node()            {}
func (*ForNode) node()           {}
func (*WhileNode) node()         {}
func (*BreakNode) node()         {}
func (*ContinueNode) node()      {}
