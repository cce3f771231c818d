package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/stackbox/pkg/params"
)

// kwPrefix marks the string literals that preprocessSource makes out of
// :keyword tokens.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys accepts:
//
//   - :keyword becomes the string "__kw_keyword", so keywords need no
//     global symbols that could clash with user definitions.
//   - kebab-case identifiers become snake_case (base-w -> base_w); zygomys
//     reads the hyphen as subtraction.
//   - ; and ;; line comments become //.
//
// String literals pass through untouched.
func preprocessSource(source string) string {
	pp := preprocessor{
		src: []byte(source),
		out: make([]byte, 0, len(source)+len(source)/4),
	}
	for pp.i < len(pp.src) {
		c := pp.src[pp.i]
		switch {
		case c == '"':
			pp.quoted('"', true)
		case c == '`':
			pp.quoted('`', false)
		case c == ';':
			pp.comment()
		case c == ':' && pp.at(pp.i+1, isLetter):
			pp.keyword()
		case c == '-' && pp.at(pp.i-1, isIdentChar) && pp.at(pp.i+1, isLetter):
			pp.emit('_')
		default:
			pp.emit(c)
		}
	}
	return string(pp.out)
}

type preprocessor struct {
	src []byte
	out []byte
	i   int
}

// at reports whether the byte at j exists and satisfies pred.
func (pp *preprocessor) at(j int, pred func(byte) bool) bool {
	return j >= 0 && j < len(pp.src) && pred(pp.src[j])
}

func (pp *preprocessor) emit(c byte) {
	pp.out = append(pp.out, c)
	pp.i++
}

// quoted copies a literal delimited by q. Backslash escapes are honoured
// when escapes is set.
func (pp *preprocessor) quoted(q byte, escapes bool) {
	pp.emit(q)
	for pp.i < len(pp.src) && pp.src[pp.i] != q {
		if escapes && pp.src[pp.i] == '\\' && pp.i+1 < len(pp.src) {
			pp.emit(pp.src[pp.i])
		}
		pp.emit(pp.src[pp.i])
	}
	if pp.i < len(pp.src) {
		pp.emit(q)
	}
}

func (pp *preprocessor) comment() {
	pp.out = append(pp.out, '/', '/')
	for pp.i < len(pp.src) && pp.src[pp.i] == ';' {
		pp.i++
	}
	for pp.i < len(pp.src) && pp.src[pp.i] != '\n' {
		pp.emit(pp.src[pp.i])
	}
}

func (pp *preprocessor) keyword() {
	start := pp.i + 1
	end := start
	for end < len(pp.src) && isKWChar(pp.src[end]) {
		end++
	}
	pp.out = append(pp.out, '"')
	pp.out = append(pp.out, kwPrefix...)
	pp.out = append(pp.out, pp.src[start:end]...)
	pp.out = append(pp.out, '"')
	pp.i = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

// keywordName returns the name of a preprocessed keyword literal.
func keywordName(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// keywordArgs pairs every keyword in args with the value after it. Any
// argument that is not part of a pair is returned as positional.
func keywordArgs(args []zygo.Sexp) (map[string]zygo.Sexp, []zygo.Sexp, error) {
	kw := make(map[string]zygo.Sexp)
	var positional []zygo.Sexp
	for i := 0; i < len(args); i++ {
		name, ok := keywordName(args[i])
		if !ok {
			positional = append(positional, args[i])
			continue
		}
		if i+1 == len(args) {
			return nil, nil, fmt.Errorf("keyword :%s has no value", name)
		}
		kw[name] = args[i+1]
		i++
	}
	return kw, positional, nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

// sexpBox is the value of a (box ...) call. It prints back as the call
// that made it, with parameters in declaration order.
type sexpBox struct {
	values map[string]float64
}

func (b *sexpBox) SexpString(ps *zygo.PrintState) string {
	var sb strings.Builder
	sb.WriteString("(box")
	for _, name := range params.Names {
		if v, ok := b.values[name]; ok {
			fmt.Fprintf(&sb, " :%s %g", strings.ReplaceAll(name, "_", "-"), v)
		}
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *sexpBox) Type() *zygo.RegisteredType { return nil }

// registerBuiltins installs (box ...) into env. A successful call records
// its parameters into s. Source must go through preprocessSource first.
func registerBuiltins(env *zygo.Zlisp, s *Script) {
	called := false

	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if called {
			return zygo.SexpNull, fmt.Errorf("box: called more than once")
		}
		called = true

		kw, positional, err := keywordArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		if len(positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("box: unexpected positional argument %s", positional[0].SexpString(nil))
		}

		var scratch params.Params
		values := make(map[string]float64, len(kw))
		for k, v := range kw {
			field := strings.ReplaceAll(k, "-", "_")
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %s: %w", k, err)
			}
			if err := scratch.Set(field, f); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			values[field] = f
		}

		for k, v := range values {
			s.Values[k] = v
		}
		return &sexpBox{values: values}, nil
	})
}
