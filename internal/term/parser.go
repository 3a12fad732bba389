package term

import "unicode/utf8"

// Action classifies a parsed event.
type Action uint8

const (
	// ActionPrint places a printable rune at the cursor.
	ActionPrint Action = iota
	// ActionExecute runs a C0 control function.
	ActionExecute
	// ActionCSI dispatches a control sequence.
	ActionCSI
	// ActionESC dispatches a plain escape sequence.
	ActionESC
	// ActionOSC delivers an operating system command payload.
	ActionOSC
)

// Event is one decoded unit of the output stream. CSI events carry
// parameter groups: groups split on ';', subparameters within a group on
// ':'. Code readers look at a group's first value; extended SGR colors
// consume following groups.
type Event struct {
	Action  Action
	Rune    rune    // ActionPrint
	Byte    byte    // ActionExecute control byte, ActionESC final byte
	Params  [][]int // ActionCSI parameter groups
	Inter   byte    // first intermediate byte, 0 when none
	Private byte    // CSI private marker ('?', '<', '=', '>'), 0 when none
	Final   byte    // ActionCSI final byte
	Text    string  // ActionOSC payload
}

type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape
	stateDiscard // DCS, SOS, PM and APC bodies
	stateDiscardEscape
)

const (
	maxCSIParams = 32
	maxCSIValue  = 65535
	maxOSCBytes  = 2048
)

// Parser is an incremental VT stream decoder. It never fails: unknown
// sequences are consumed and surfaced as events the screen ignores, and
// invalid UTF-8 decodes to the replacement character. Partial escape
// sequences and partial UTF-8 runes may span Advance calls.
type Parser struct {
	state parserState

	pending [4]byte // partial UTF-8 sequence
	npend   int

	groups  [][]int
	cur     []int
	sep     bool // a ';' closed the last group
	inter   byte
	private byte

	osc []byte

	events []Event
}

// NewParser returns a parser in the ground state.
func NewParser() *Parser { return &Parser{} }

// Advance consumes a chunk of output and returns the events it completed.
// The returned slice is only valid until the next call.
func (p *Parser) Advance(data []byte) []Event {
	p.events = p.events[:0]
	for _, b := range data {
		p.step(b)
	}
	return p.events
}

func (p *Parser) step(b byte) {
	switch p.state {
	case stateGround:
		p.ground(b)
	case stateEscape:
		p.escape(b)
	case stateCSI:
		p.csi(b)
	case stateOSC:
		p.oscByte(b)
	case stateOSCEscape:
		// Either the ST terminator or an escape cutting the string short.
		p.dispatchOSC()
		if b == '\\' {
			p.state = stateGround
		} else {
			p.enterEscape()
			p.escape(b)
		}
	case stateDiscard:
		switch b {
		case 0x1b:
			p.state = stateDiscardEscape
		case 0x18, 0x1a:
			p.state = stateGround
		}
	case stateDiscardEscape:
		if b == '\\' {
			p.state = stateGround
		} else {
			p.enterEscape()
			p.escape(b)
		}
	}
}

func (p *Parser) ground(b byte) {
	if p.npend > 0 && b < 0x80 {
		// Interrupted multi-byte sequence.
		p.emitPrint(utf8.RuneError)
		p.npend = 0
	}
	switch {
	case b == 0x1b:
		p.enterEscape()
	case b == 0x7f:
		// DEL is ignored.
	case b < 0x20:
		p.events = append(p.events, Event{Action: ActionExecute, Byte: b})
	case b < 0x80:
		p.emitPrint(rune(b))
	default:
		p.utf8Byte(b)
	}
}

// utf8Byte accumulates continuation bytes until a rune completes. Invalid
// prefixes decode as the replacement character; the remainder is retried.
func (p *Parser) utf8Byte(b byte) {
	p.pending[p.npend] = b
	p.npend++
	for p.npend > 0 && utf8.FullRune(p.pending[:p.npend]) {
		r, size := utf8.DecodeRune(p.pending[:p.npend])
		p.emitPrint(r)
		copy(p.pending[:], p.pending[size:p.npend])
		p.npend -= size
	}
	if p.npend == len(p.pending) {
		p.emitPrint(utf8.RuneError)
		p.npend = 0
	}
}

func (p *Parser) emitPrint(r rune) {
	p.events = append(p.events, Event{Action: ActionPrint, Rune: r})
}

func (p *Parser) enterEscape() {
	if p.npend > 0 {
		p.emitPrint(utf8.RuneError)
		p.npend = 0
	}
	p.state = stateEscape
	p.inter = 0
}

func (p *Parser) escape(b byte) {
	switch {
	case b == '[':
		p.state = stateCSI
		p.groups = p.groups[:0]
		p.cur = p.cur[:0]
		p.sep = false
		p.inter = 0
		p.private = 0
	case b == ']':
		p.state = stateOSC
		p.osc = p.osc[:0]
	case b == 'P' || b == 'X' || b == '^' || b == '_':
		p.state = stateDiscard
	case b == 0x1b:
		p.inter = 0 // restart
	case b == 0x18 || b == 0x1a:
		p.state = stateGround
	case b >= 0x20 && b <= 0x2f:
		if p.inter == 0 {
			p.inter = b
		}
	case b >= 0x30 && b <= 0x7e:
		p.events = append(p.events, Event{Action: ActionESC, Byte: b, Inter: p.inter})
		p.state = stateGround
	case b < 0x20:
		p.events = append(p.events, Event{Action: ActionExecute, Byte: b})
	default:
		p.state = stateGround
	}
}

func (p *Parser) csi(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.csiDigit(int(b - '0'))
	case b == ';':
		p.csiSep()
	case b == ':':
		p.csiSub()
	case b >= 0x3c && b <= 0x3f:
		if p.private == 0 {
			p.private = b
		}
	case b >= 0x20 && b <= 0x2f:
		if p.inter == 0 {
			p.inter = b
		}
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCSI(b)
		p.state = stateGround
	case b == 0x1b:
		p.enterEscape()
	case b == 0x18 || b == 0x1a:
		p.state = stateGround
	case b < 0x20:
		p.events = append(p.events, Event{Action: ActionExecute, Byte: b})
	default:
		// DEL and high bytes are ignored mid-sequence.
	}
}

func (p *Parser) csiDigit(d int) {
	p.sep = false
	if len(p.cur) == 0 {
		p.cur = append(p.cur, 0)
	}
	i := len(p.cur) - 1
	if v := p.cur[i]*10 + d; v <= maxCSIValue {
		p.cur[i] = v
	} else {
		p.cur[i] = maxCSIValue
	}
}

func (p *Parser) csiSep() {
	if len(p.cur) == 0 {
		p.pushGroup([]int{0})
	} else {
		p.flushGroup()
	}
	p.sep = true
}

func (p *Parser) csiSub() {
	p.sep = false
	if len(p.cur) == 0 {
		p.cur = append(p.cur, 0)
	}
	p.cur = append(p.cur, 0)
}

func (p *Parser) flushGroup() {
	group := make([]int, len(p.cur))
	copy(group, p.cur)
	p.pushGroup(group)
	p.cur = p.cur[:0]
	p.sep = false
}

func (p *Parser) pushGroup(group []int) {
	if len(p.groups) < maxCSIParams {
		p.groups = append(p.groups, group)
	}
}

func (p *Parser) dispatchCSI(final byte) {
	if len(p.cur) > 0 {
		p.flushGroup()
	} else if p.sep {
		p.pushGroup([]int{0})
	}
	var params [][]int
	if len(p.groups) > 0 {
		params = make([][]int, len(p.groups))
		copy(params, p.groups)
	}
	p.events = append(p.events, Event{
		Action:  ActionCSI,
		Params:  params,
		Final:   final,
		Inter:   p.inter,
		Private: p.private,
	})
}

func (p *Parser) oscByte(b byte) {
	switch b {
	case 0x07:
		p.dispatchOSC()
		p.state = stateGround
	case 0x1b:
		p.state = stateOSCEscape
	case 0x18, 0x1a:
		p.osc = p.osc[:0]
		p.state = stateGround
	default:
		if len(p.osc) < maxOSCBytes {
			p.osc = append(p.osc, b)
		}
	}
}

func (p *Parser) dispatchOSC() {
	p.events = append(p.events, Event{Action: ActionOSC, Text: string(p.osc)})
	p.osc = p.osc[:0]
}
