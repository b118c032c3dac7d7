package preprocess

import (
	"strings"
)

// directiveKind distinguishes the directives this core actually executes
// from the ones it recognizes but leaves as stubs (§4.D).
type directiveKind int

const (
	dirUnknown directiveKind = iota
	dirInclude
	dirDefine
	dirSet
	dirUndef
	dirLine
	dirReservedStub // eval/if/ifdef/ifndef/elif/else/endif/macro/endm/while/endw
)

var directiveNames = map[string]directiveKind{
	"include": dirInclude,
	"define":  dirDefine,
	"set":     dirSet,
	"undef":   dirUndef,
	"line":    dirLine,
	"eval":    dirReservedStub,
	"if":      dirReservedStub,
	"ifdef":   dirReservedStub,
	"ifndef":  dirReservedStub,
	"elif":    dirReservedStub,
	"else":    dirReservedStub,
	"endif":   dirReservedStub,
	"macro":   dirReservedStub,
	"endm":    dirReservedStub,
	"while":   dirReservedStub,
	"endw":    dirReservedStub,
}

// handleDirective dispatches one `#...` line already positioned just
// past the leading '#' (and any intervening spaces). On return the
// engine's input is positioned at the start of the line following the
// directive, having consumed everything up to and including that line's
// terminating newline (or EOF).
func (p *Preprocessor) handleDirective(f *frame) {
	name, _, ok := f.readDirectiveName(p.syms)
	if !ok {
		p.err(f, ErrDirectiveNameNon, "directive name must be a letter-starting identifier")
		f.skipLine()
		return
	}
	kind, known := directiveNames[name]
	if !known {
		p.err(f, ErrDirectiveInvalid, "unrecognized directive #"+name)
		f.skipLine()
		return
	}

	switch kind {
	case dirInclude:
		p.doInclude(f)
	case dirDefine:
		p.doDefine(f, false)
	case dirSet:
		p.doDefine(f, true)
	case dirUndef:
		p.doUndef(f)
	case dirLine:
		p.warn(f, WarnDirectiveLineSkipped, "#line is reserved")
		f.skipLine()
	case dirReservedStub:
		// Conditional compilation and user #macro/#while blocks are
		// recognized but not processed by this core.
		f.skipLine()
	}
}

// doInclude implements `#include "path"` / `#include <path>` (§4.D).
func (p *Preprocessor) doInclude(f *frame) {
	f.skipSpaces()
	c := f.s.ReadChar()
	var closing rune
	var external bool
	switch c {
	case '"':
		closing = '"'
	case '<':
		closing = '>'
		external = true
	default:
		if c != eofRune {
			f.s.UnreadChar(c)
		}
		p.err(f, ErrIncludeExpectsFilename, "#include expects \"path\" or <path>")
		f.skipLine()
		return
	}

	var path strings.Builder
	terminated := false
	for {
		ch := f.s.ReadChar()
		if ch == eofRune || ch == '\n' {
			if ch == '\n' {
				f.tr.Advance('\n')
			}
			break
		}
		if ch == closing {
			terminated = true
			f.tr.Advance(ch)
			break
		}
		path.WriteRune(ch)
		f.tr.Advance(ch)
	}
	if !terminated {
		p.err(f, ErrIncludeExpectsFilename, "unterminated #include path")
		return
	}

	rest := f.restOfLineTrimmed()
	if rest != "" {
		p.warn(f, WarnDirectiveExtraTokens, "extra tokens after #include path")
	}

	if p.includeDepth >= maxIncludeDepth {
		p.err(f, ErrIncludeDepth, "include depth exceeds limit")
		return
	}

	var content []byte
	var resolvedName string
	var err error
	if p.Resolver != nil {
		if external {
			content, resolvedName, err = p.Resolver.ResolveExternal(path.String())
		} else {
			content, resolvedName, err = p.Resolver.ResolveInternal(path.String())
		}
	} else {
		err = errNoResolver
	}
	if err != nil {
		p.err(f, ErrIncludeNoSuchFile, "cannot open include file "+path.String())
		return
	}

	p.includeDepth++
	p.runIncluded(resolvedName, content, f)
	f.s.WriteByte('\n')
	p.includeDepth--
}

// doDefine implements `#define`/`#set` (§4.D). allowRedefine selects
// #set's looser redefinition rule.
func (p *Preprocessor) doDefine(f *frame, allowRedefine bool) {
	f.skipSpaces()
	name, h, ok := f.readDirectiveName(p.syms)
	if !ok {
		p.err(f, ErrMacroNameFirstCharacter, "macro name must start with a letter or underscore")
		f.skipLine()
		return
	}

	functionLike := false
	var params []string
	if c := f.s.ReadChar(); c == '(' {
		functionLike = true
		f.tr.Advance('(')
		var perr *Error
		params, perr = f.readParamList(p.syms)
		if perr != nil {
			p.errAt(f, perr.Kind, perr.Message)
			f.skipLine()
			return
		}
	} else if c != eofRune {
		f.s.UnreadChar(c)
	}

	body := f.readDirectiveBody()

	encoded, eerr := encodeBody(body, params)
	if eerr != nil {
		p.errAt(f, eerr.Kind, eerr.Message)
		return
	}

	m := &Macro{Name: name, FunctionLike: functionLike, Params: params, Body: encoded}
	p.refs = append(p.refs, MacroRef{Name: name, Loc: f.here(), Definition: true})
	hadPrevious := p.macros.define(h, m)
	if allowRedefine {
		p.syms.Redefine(h)
	}
	if hadPrevious && !allowRedefine {
		p.err(f, ErrMacroNameRedefine, "macro "+name+" redefined")
	} else if !hadPrevious && allowRedefine {
		p.warn(f, WarnDirectiveExtraTokens, "#set of previously undefined macro "+name)
	}
}

// doUndef implements `#undef NAME` (§4.D): silent if undefined.
func (p *Preprocessor) doUndef(f *frame) {
	f.skipSpaces()
	_, h, ok := f.readDirectiveName(p.syms)
	if !ok {
		p.err(f, ErrMacroNameFirstCharacter, "macro name must start with a letter or underscore")
		f.skipLine()
		return
	}
	p.macros.undefine(h)
	p.syms.Undefine(h)
	f.skipLine()
}

var errNoResolver = &Error{Kind: ErrIncludeNoSuchFile, Message: "no include resolver configured"}
