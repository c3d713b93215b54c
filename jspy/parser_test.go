package jspy

import (
	"errors"
	"testing"
)

func tokenTypes(t *testing.T, source string) []TokenType {
	t.Helper()
	tokens, err := tokenize(source)
	if err != nil {
		t.Fatalf("tokenize %q: %v", source, err)
	}
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizeIndentation(t *testing.T) {
	got := tokenTypes(t, "x = 1\nif x:\n  y\n")
	want := []TokenType{
		tokenIdent, tokenAssign, tokenNumber, tokenNewline,
		tokenIf, tokenIdent, tokenColon, tokenNewline, tokenIndent,
		tokenIdent, tokenNewline, tokenDedent, tokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestTokenizeIgnoresBreaksInsideBrackets(t *testing.T) {
	got := tokenTypes(t, "f(1,\n    2)\n# trailing comment\n")
	want := []TokenType{
		tokenIdent, tokenLParen, tokenNumber, tokenComma, tokenNumber, tokenRParen, tokenNewline, tokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestTokenizeLiterals(t *testing.T) {
	tokens, err := tokenize(`"a\"b" 'it''s' 3.25 True None and`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	tests := []struct {
		tt      TokenType
		literal string
	}{
		{tokenString, `a"b`},
		{tokenString, "it"},
		{tokenString, "s"},
		{tokenNumber, "3.25"},
		{tokenTrue, "True"},
		{tokenNull, "None"},
		{tokenAnd, "and"},
	}
	for i, tt := range tests {
		if tokens[i].Type != tt.tt || tokens[i].Literal != tt.literal {
			t.Fatalf("token %d: expected %s %q, got %s %q", i, tt.tt, tt.literal, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, source := range []string{
		"x = 1 $ 2",
		"if x:\n    a\n  b",
		"x = 'unterminated",
	} {
		if _, err := tokenize(source); !errors.Is(err, ErrParse) {
			t.Fatalf("%q: expected ErrParse, got %v", source, err)
		}
	}
}

func TestTokenizeTabsCountAsTwoSpaces(t *testing.T) {
	if _, err := parseSource("if True:\n\tx = 1\n  y = 2\n"); err != nil {
		t.Fatalf("tab and two spaces should share an indentation level: %v", err)
	}
}

func parseOne(t *testing.T, source string) Node {
	t.Helper()
	program, err := parseSource(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	if len(program.Body) != 1 {
		t.Fatalf("expected one statement, got %d", len(program.Body))
	}
	return program.Body[0]
}

func TestParsePrecedence(t *testing.T) {
	node := parseOne(t, "1 + 2 * 3 - 4")
	sub, ok := node.(*BinOpNode)
	if !ok || sub.Op != "-" {
		t.Fatalf("expected '-' at the root, got %#v", node)
	}
	add, ok := sub.Left.(*BinOpNode)
	if !ok || add.Op != "+" {
		t.Fatalf("expected '+' on the left, got %#v", sub.Left)
	}
	if mul, ok := add.Right.(*BinOpNode); !ok || mul.Op != "*" {
		t.Fatalf("expected '*' to bind tighter, got %#v", add.Right)
	}

	logical, ok := parseOne(t, "not a == b or c and d").(*LogicalOpNode)
	if !ok || logical.Op != "or" {
		t.Fatalf("expected 'or' at the root, got %#v", logical)
	}
	if not, ok := logical.Left.(*UnaryOpNode); !ok || not.Op != "not" {
		t.Fatalf("expected 'not' to wrap the comparison, got %#v", logical.Left)
	}
}

func TestParseDotChains(t *testing.T) {
	chain, ok := parseOne(t, "a.b.c").(*DotAccessNode)
	if !ok || len(chain.Props) != 3 {
		t.Fatalf("expected a three segment chain, got %#v", chain)
	}

	chain, ok = parseOne(t, "a[1].b(2)").(*DotAccessNode)
	if !ok || len(chain.Props) != 2 {
		t.Fatalf("expected a two segment chain, got %#v", chain)
	}
	if br, ok := chain.Props[0].(*BracketAccessNode); !ok || br.PropertyName != "a" {
		t.Fatalf("expected bracket access on a, got %#v", chain.Props[0])
	}
	if call, ok := chain.Props[1].(*FuncCallNode); !ok || call.Name != "b" || len(call.Args) != 1 {
		t.Fatalf("expected method call b(2), got %#v", chain.Props[1])
	}

	chain, ok = parseOne(t, "o.items['k']").(*DotAccessNode)
	if !ok || len(chain.Props) != 2 {
		t.Fatalf("expected a two segment chain, got %#v", chain)
	}
	if br, ok := chain.Props[1].(*BracketAccessNode); !ok || br.PropertyName != "items" {
		t.Fatalf("expected bracket access on items, got %#v", chain.Props[1])
	}
}

func TestParseStatements(t *testing.T) {
	program, err := parseSource(`def f(a, b):
  return a

if a:
  b
elif c:
  d
else:
  e
for x in xs:
  pass
while x:
  break
y = x => x + 1`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(program.Funcs) != 1 || program.Funcs[0].Name != "f" || len(program.Funcs[0].Params) != 2 {
		t.Fatalf("unexpected function definitions %#v", program.Funcs)
	}
	if len(program.Body) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(program.Body))
	}

	ifNode, ok := program.Body[0].(*IfNode)
	if !ok || ifNode.Else == nil || ifNode.Else.Name != "elif" {
		t.Fatalf("expected if with elif branch, got %#v", program.Body[0])
	}
	nested, ok := ifNode.Else.Body[0].(*IfNode)
	if !ok || nested.Else == nil || nested.Else.Name != "else" {
		t.Fatalf("expected nested if with else, got %#v", ifNode.Else.Body[0])
	}

	forNode, ok := program.Body[1].(*ForNode)
	if !ok || forNode.Iterator != "x" || len(forNode.Body.Body) != 0 {
		t.Fatalf("unexpected for statement %#v", program.Body[1])
	}
	if _, ok := program.Body[2].(*WhileNode); !ok {
		t.Fatalf("expected while statement, got %#v", program.Body[2])
	}

	assign, ok := program.Body[3].(*AssignNode)
	if !ok {
		t.Fatalf("expected assignment, got %#v", program.Body[3])
	}
	if target, ok := assign.Target.(*SetVarNode); !ok || target.Name != "y" {
		t.Fatalf("unexpected target %#v", assign.Target)
	}
	if arrow, ok := assign.Source.(*ArrowFuncDefNode); !ok || len(arrow.Params) != 1 {
		t.Fatalf("expected arrow function, got %#v", assign.Source)
	}
}

func TestParseObjectAndArrayLiterals(t *testing.T) {
	obj, ok := parseOne(t, `{a: 1, "b c": [1, 2,], 3: None,}`).(*CreateObjectNode)
	if !ok || len(obj.Props) != 3 {
		t.Fatalf("expected object with 3 properties, got %#v", obj)
	}
	arr, ok := obj.Props[1].Value.(*CreateArrayNode)
	if !ok || len(arr.Items) != 2 {
		t.Fatalf("expected array with 2 items, got %#v", obj.Props[1].Value)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		line   int
	}{
		{"x = (1 + 2", 1},
		{"a = 1\nb = ]", 2},
		{"5 = x", 1},
		{"a = 1\n\ndef f(:\n  pass", 3},
		{"x = 1 2", 1},
		{"if x\n  y", 1},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := parseSource(tt.source)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if pe.Pos.Line != tt.line {
				t.Fatalf("expected error on line %d, got %d (%v)", tt.line, pe.Pos.Line, err)
			}
		})
	}
}

func TestParseCollectsMultipleErrors(t *testing.T) {
	_, err := parseSource("a = ]\nb = 1\nc = )")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Fatalf("expected two errors, got %v", err)
	}
}
