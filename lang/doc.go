// Package lang implements blogmath, a small expression language with numeric
// variables, single-expression named functions and a print built-in.
//
// # Grammar
//
// Informal EBNF:
//
//	Program     → (Statement ';')*
//	Statement   → VarDecl | Lambda | FuncCall
//	VarDecl     → 'var' IDENT '=' Expression
//	Lambda      → 'lambda' IDENT '(' ParamList? ')' '=' Expression
//	ParamList   → IDENT (',' IDENT)*
//	Expression  → Term (('+' | '-') Expression)?
//	Term        → Power (('*' | '/') Expression)?
//	Power       → Factor ('^' Expression)?
//	Factor      → IDENT | FuncCall | NUMBER | '(' Expression ')'
//	FuncCall    → IDENT '(' ArgList? ')'
//	ArgList     → Expression (',' Expression)*
//
// The right operand of every binary operator is a full Expression, so
// operators bind everything to their right: 2*3+4 is 2*(3+4), which is 14.
//
// Numbers are unsigned decimals such as 5, 0.25 or 7. (no exponent form);
// write 0-5 for a negative value. Line comments start with //.
//
// # Example
//
//	// Pythagoras
//	lambda hyp(a, b) = ((a^2) + (b^2)) ^ 0.5;
//	var c = hyp(3, 4);
//	print(c);
//
// # Scoping
//
// Variables live in a stack of scopes. The global scope is always present;
// each lambda call pushes a scope holding its parameters and pops it when the
// call returns, successfully or not. A variable may not be declared if its
// name is visible in any scope, so parameters never shadow globals declared
// after them and globals can never be redefined.
//
// Functions live in one flat table that is separate from variables. A name
// can be both a variable and a function, and a function can never be
// redeclared.
//
// # Evaluation
//
// [Evaluate] parses the whole source before running anything. Lexical and
// syntax errors therefore prevent every statement from running. Statements
// then run one at a time as the returned sequence is pulled, and the first
// runtime error ends it. Declarations made before the failure remain in the
// [Context], which is meant to be reused across calls: a REPL evaluates each
// line against one Context, and a batch run evaluates each file against one
// Context.
//
// # Errors
//
// Every error unwraps to one of the sentinels [ErrLexical], [ErrSyntax],
// [ErrName], [ErrRedeclaration], [ErrArity] or [ErrRuntime], and carries the
// source position it refers to. [FormatError] renders an error with the
// offending source line.
package lang
