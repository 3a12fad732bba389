// Package input encodes caller intent (named keys, modifier combinations,
// literal text) into the byte sequences a terminal expects, following
// xterm conventions. Literal text may be wrapped in bracketed-paste
// markers so multi-line pastes are not interpreted line by line.
package input
