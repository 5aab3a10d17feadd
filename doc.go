/* Package main: gotape -- a byte tape machine you can watch

The machine has a tape of byte cells, all 0 at the start, and a data pointer
into it.  The program is a plain sequence of bytes, of which exactly eight
mean anything:

	>   move the data pointer one cell right
	<   move the data pointer one cell left
	+   add one to the current cell, 255 wraps around to 0
	-   subtract one from the current cell, 0 wraps around to 255
	[   if the current cell is 0, jump past the matching ]
	]   if the current cell is not 0, jump back to just after the matching [
	,   read one byte of input into the current cell
	.   write the current cell as one byte of output

Every other byte is a comment.  Moving the pointer off either end of the tape
stops the machine with a fault, as does reaching a bracket that has no
partner.  Brackets are paired when the program is loaded, but a program with
unpaired brackets still runs up to the point where one is reached, unless
-strict is given.

When input runs out, the current cell is left alone by default; -eof zero
stores 0 instead, and -eof max stores 255.

The machine itself (see internal/machine) is a synchronous state transition:
one Step executes one instruction.  The VM in this package owns everything
around it: the input and output streams, flushing output before any input is
read (and after every step when paced or watched), pacing execution with
-rate, tracing with -trace, and handing snapshots of every step to watchers,
like -watch, which dumps each state to stderr for following along by eye.

Usage:

	gotape [flags] program.b
	gotape [flags] -e '++++++++[>++++++<-]>.'

*/
package main
