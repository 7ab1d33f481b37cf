package expand

import (
	"os"
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// rewriteCfg implements cfg!(cond, then, else?). cond names one of
// three things: a compile-target literal (OS_<os> or
// ARCH_<arch>, compared against the OS/ARCH defines seeding the
// context), the literal "set" (installs a define parsed out of the
// then-block's "KEY = VALUE" text), or an arbitrary define name looked
// up in the context's Defines table and then the process environment.
// When the resolved value selects among a sequence of `Name { ... }`
// branches in the then-block, the branch whose name matches
// case-insensitively is emitted; with no match (or no defined value at
// all) the optional else-block is emitted, or nothing.
func rewriteCfg(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) < 2 {
		return "", newSyntaxError(call.Span(), ex.text, "cfg! expects a condition and a then-block")
	}

	name := strings.TrimSpace(render(args[0]))
	thenToks := stripOuterBraces(args[1])

	var selected []token.Token

	switch {
	case name == "OS_"+strings.ToUpper(ex.ctx.Defines["OS"]):
		selected = thenToks

	case name == "ARCH_"+ex.ctx.Defines["ARCH"]:
		selected = thenToks

	case name == "set":
		key, value, ok := strings.Cut(strings.TrimSpace(render(thenToks)), "=")
		if !ok {
			return "", ex.syntaxErrAt(thenToks, 0, "cfg!(set, ...) expects KEY = VALUE")
		}
		ex.ctx.Defines[strings.TrimSpace(key)] = strings.TrimSpace(value)
		return "", nil

	default:
		value, ok := ex.ctx.Defines[name]
		if !ok {
			value, ok = os.LookupEnv(name)
		}
		if !ok {
			selected = elseArg(args)
			break
		}

		branches, branched, err := parseCfgBranches(ex, thenToks)
		if err != nil {
			return "", err
		}

		if !branched {
			selected = thenToks
			break
		}

		current := strings.ToLower(value)
		selected = nil
		for _, b := range branches {
			if strings.ToLower(b.name) == current {
				selected = b.body
				break
			}
		}
		if selected == nil {
			selected = elseArg(args)
		}
	}

	return render(selected), nil
}

func elseArg(args [][]token.Token) []token.Token {
	if len(args) > 2 {
		return stripOuterBraces(args[2])
	}
	return nil
}

// cfgBranch is one `Name { body }` pair inside a branched cfg! then-block.
type cfgBranch struct {
	name string
	body []token.Token
}

// isBranchedCfgThen reports whether toks opens with an Identifier or
// String token immediately (or after one whitespace token) followed
// by '{' — the shape that tells a plain then-block from a sequence of
// Name{...} branches.
func isBranchedCfgThen(toks []token.Token) bool {
	i := 0
	if i >= len(toks) {
		return false
	}
	if toks[i].Kind() != token.KindIdentifier && toks[i].Kind() != token.KindString {
		return false
	}
	i++
	if i < len(toks) && toks[i].Kind() == token.KindWhitespace {
		i++
	}
	return i < len(toks) && toks[i].Kind() == token.KindLeftBrace
}

// parseCfgBranches parses a sequence of `Name { body }` pairs from
// toks.
func parseCfgBranches(ex *Expander, toks []token.Token) ([]cfgBranch, bool, error) {
	if !isBranchedCfgThen(toks) {
		return nil, false, nil
	}

	var branches []cfgBranch
	i := 0

	for i < len(toks) {
		if toks[i].Kind() == token.KindWhitespace {
			i++
			continue
		}

		if toks[i].Kind() != token.KindIdentifier && toks[i].Kind() != token.KindString {
			return nil, false, ex.syntaxErrAt(toks, i, "expected a branch name in cfg!")
		}
		name := toks[i].Text
		i++

		if i < len(toks) && toks[i].Kind() == token.KindWhitespace {
			i++
		}

		if i >= len(toks) || toks[i].Kind() != token.KindLeftBrace {
			return nil, false, ex.syntaxErrAt(toks, i, "expected '{' after cfg! branch name")
		}

		close := findMatchingBrace(toks, i)
		if close == -1 {
			return nil, false, ex.unbalancedErrAt(toks, i, "unterminated cfg! branch")
		}

		branches = append(branches, cfgBranch{name: name, body: toks[i+1 : close]})
		i = close + 1
	}

	return branches, true, nil
}
