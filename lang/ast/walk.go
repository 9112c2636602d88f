package ast

// Walk traverses the tree rooted at n in depth-first preorder, calling fn
// for each node. If fn returns false for a node, its children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range children(n) {
		Walk(c, fn)
	}
}

func children(n Node) []Node {
	var out []Node

	add := func(ns ...Node) {
		for _, c := range ns {
			switch v := c.(type) {
			case nil:
			case *Ident:
				if v != nil {
					out = append(out, v)
				}
			case *Block:
				if v != nil {
					out = append(out, v)
				}
			default:
				out = append(out, c)
			}
		}
	}

	switch v := n.(type) {
	case *File:
		for _, s := range v.Stmts {
			add(s)
		}
	case *Block:
		for _, s := range v.Stmts {
			add(s)
		}
	case *InterpString:
		for _, p := range v.Parts {
			if p.Expr != nil {
				add(p.Expr)
			}
		}
	case *ArrayLit:
		for _, e := range v.Elems {
			add(e)
		}
	case *TupleLit:
		for _, e := range v.Elems {
			add(e)
		}
	case *Paren:
		add(v.X)
	case *Unary:
		add(v.X)
	case *Binary:
		add(v.X, v.Y)
	case *Range:
		add(v.Low, v.High)
	case *Try:
		add(v.X)
	case *Await:
		add(v.X)
	case *Member:
		add(v.X, v.Name)
	case *Index:
		add(v.X, v.Index)
	case *Call:
		add(v.Fn)
		for _, t := range v.TypeArgs {
			add(t)
		}
		for _, a := range v.Args {
			add(a)
		}
	case *Instantiate:
		add(v.X)
		for _, t := range v.TypeArgs {
			add(t)
		}
	case *Path:
		add(v.X, v.Name)
	case *If:
		add(v.Cond, v.Then)
		add(v.Else)
	case *Match:
		add(v.Subject)
		for _, arm := range v.Arms {
			add(arm.Pat, arm.Body)
		}
	case *MacroCall:
		add(v.Name)
	case *ExprStmt:
		add(v.X)
	case *Assign:
		add(v.Target, v.Value)
	case *While:
		add(v.Cond, v.Body)
	case *For:
		add(v.Pat, v.Iter, v.Body)
	case *Return:
		add(v.Value)
	case *Let:
		add(v.Name, v.Type, v.Value)
	case *Fn:
		add(v.Name)
		for _, tp := range v.TypeParams {
			add(tp)
		}
		for _, p := range v.Params {
			add(p.Name, p.Type)
		}
		add(v.Result, v.Body)
	case *Data:
		add(v.Name)
		for _, tp := range v.TypeParams {
			add(tp)
		}
		for _, f := range v.Fields {
			add(f.Name, f.Type)
		}
	case *Extern:
		for _, d := range v.Decls {
			add(d)
		}
	case *Module:
		add(v.Name, v.Body)
	case *Import:
		for _, p := range v.Path {
			add(p)
		}
		add(v.Alias)
	case *MacroDecl:
		add(v.Name)
	case *LitPat:
		add(v.Lit)
	case *BindPat:
		add(v.Name)
	case *DestructurePat:
		add(v.Name)
		for _, f := range v.Fields {
			add(f.Name, f.Pat)
		}
	case *NamedType:
		for _, p := range v.Path {
			add(p)
		}
		for _, a := range v.Args {
			add(a)
		}
	case *ArrayType:
		add(v.Elem)
	case *TupleType:
		for _, e := range v.Elems {
			add(e)
		}
	case *FnType:
		for _, p := range v.Params {
			add(p)
		}
		add(v.Result)
	}

	return out
}
