package codegen

import "github.com/ruc-toolchain/rucc/ast"

// preservedGPR, preservedFPR and preservedArgs list the registers the
// prologue spills and the epilogue restores, in frame order (§4.I): saved $ra, saved
// $sp, saved $s0-7, saved $fs0/2/4/6/8 (even-indexed single-precision),
// saved $a0-3.
var preservedGPR = []string{"$ra", "$sp", "$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7"}
var preservedFPR = []string{"$fs0", "$fs2", "$fs4", "$fs6", "$fs8"}
var preservedArgs = []string{"$a0", "$a1", "$a2", "$a3"}

// preservedWords is the total frame-top footprint (§4.I): $ra, $sp,
// 8 $s-registers, 5 $fs-registers, 4 $a-registers.
var preservedWords = len(preservedGPR) + len(preservedFPR) + len(preservedArgs)

// alignTo8 rounds n up to the next multiple of 8 bytes, per §4.I's
// "locals, aligned to 8".
func alignTo8(n int) int {
	return (n + 7) &^ 7
}

// emitFunc lowers one function definition: prologue, parameter/local
// displacement setup, body, FUNCEND epilogue (§4.I).
func (e *Emitter) emitFunc(fd *ast.FuncDecl) error {
	fi := e.funcs[fd.Name]
	funcLabel := Label{Kind: LabelFunc, Num: fi.Num}
	if err := e.Labels.Declare(funcLabel); err != nil {
		return err
	}
	funcEnd := Label{Kind: LabelFuncEnd, Num: fi.Num}
	if err := e.Labels.Declare(funcEnd); err != nil {
		return err
	}

	prevDisp, prevEnd := e.Disp, e.funcEnd
	e.Disp = NewDisplacementTable()
	e.funcEnd = funcEnd
	defer func() {
		e.archiveDisp(e.Disp)
		e.Disp, e.funcEnd = prevDisp, prevEnd
	}()

	for i, p := range fd.Params {
		e.Disp.DeclareParam(p.Name, p.Typ, i)
	}

	// The body is emitted to a scratch buffer first so that maxDispl
	// (known only once every local declaration inside has run) is
	// available before the prologue, which needs it, is written. The
	// Line records are swapped out the same way so line order matches
	// the text order once everything is reassembled below.
	savedOut := e.out
	savedLines := e.lines
	e.out.Reset()
	e.lines = nil

	for _, stmt := range fd.Body.Stmts {
		if err := e.EmitStmt(stmt); err != nil {
			return err
		}
	}
	bodyText := e.out.String()
	bodyLines := e.lines
	e.out = savedOut
	e.lines = savedLines

	e.label(funcLabel)
	e.emitPrologue()
	e.lines = append(e.lines, bodyLines...)
	e.raw(bodyText)
	e.label(funcEnd)
	e.emitEpilogue()

	return nil
}

// emitPrologue spills the preserved registers and establishes the new
// frame, per §4.I: "set $fp = old_fp - (max_displ + preserved + word),
// $sp = $fp, then nudge $fp down one more word so $fp != $sp".
func (e *Emitter) emitPrologue() {
	offset := 0
	for _, r := range preservedGPR {
		e.emit("sw %s, %d($fp)", r, -offset-wordSize)
		offset += wordSize
	}
	for _, r := range preservedFPR {
		e.emit("swc1 %s, %d($fp)", r, -offset-wordSize)
		offset += wordSize
	}
	for _, r := range preservedArgs {
		e.emit("sw %s, %d($fp)", r, -offset-wordSize)
		offset += wordSize
	}

	frameSize := alignTo8(e.Disp.MaxDispl()) + preservedWords*wordSize + wordSize
	e.emit("sub $fp, $fp, %d", frameSize)
	e.emit("move $sp, $fp")
	e.emit("sub $fp, $fp, %d", wordSize)
}

// emitEpilogue reverses the prologue's saves from the stored $sp,
// restores $fp, and returns (§4.I).
func (e *Emitter) emitEpilogue() {
	frameSize := alignTo8(e.Disp.MaxDispl()) + preservedWords*wordSize + wordSize
	e.emit("move $fp, $sp")
	e.emit("add $fp, $fp, %d", frameSize)
	offset := 0
	for _, r := range preservedGPR {
		e.emit("lw %s, %d($fp)", r, -offset-wordSize)
		offset += wordSize
	}
	for _, r := range preservedFPR {
		e.emit("lwc1 %s, %d($fp)", r, -offset-wordSize)
		offset += wordSize
	}
	for _, r := range preservedArgs {
		e.emit("lw %s, %d($fp)", r, -offset-wordSize)
		offset += wordSize
	}
	e.emit("jr $ra")
}
