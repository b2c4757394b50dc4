package expr

import "github.com/forrestang/RenkoDiscovery/internal/errs"

// Predicate is a parsed, reusable row-mask expression. Building one via
// Parse validates every column reference against a Schema once; Eval then
// interprets the AST per row with no re-parsing.
type Predicate struct {
	root   node
	source string
}

// String returns the original predicate text.
func (p *Predicate) String() string { return p.source }

// Eval interprets the predicate against every row of schema's table,
// returning a boolean mask of matching rows. A row whose evaluation
// touches an undefined value (an out-of-range shift, or an indicator not
// yet warmed up) is false rather than erroring, mirroring how the source
// system's column-algebra treats missing values in comparisons.
func (p *Predicate) Eval(schema *Schema) []bool {
	mask := make([]bool, schema.rows)
	for i := 0; i < schema.rows; i++ {
		v, ok := evalBool(p.root, schema, i)
		mask[i] = ok && v
	}
	return mask
}

// MatchingIndices is a convenience wrapper returning the row indices where
// Eval's mask is true, the form the expression evaluator hands to the
// backtest evaluator.
func (p *Predicate) MatchingIndices(schema *Schema) []int {
	mask := p.Eval(schema)
	var idx []int
	for i, v := range mask {
		if v {
			idx = append(idx, i)
		}
	}
	return idx
}

// validate walks the parsed tree and rejects any column reference not
// present in schema, failing at the column's source position.
func validate(n node, schema *Schema) error {
	switch v := n.(type) {
	case *numberNode:
		return nil
	case *columnNode:
		if !schema.has(v.name) {
			return errs.New(errs.InvalidExpression, "at position %d: unknown column %q", v.pos, v.name)
		}
		return nil
	case *unaryNode:
		return validate(v.expr, schema)
	case *binaryNode:
		if err := validate(v.left, schema); err != nil {
			return err
		}
		return validate(v.right, schema)
	default:
		return errs.New(errs.InvalidExpression, "unrecognized expression node")
	}
}
