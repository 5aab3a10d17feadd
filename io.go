package main

// promptingInput is the input side-channel handed to the machine: it flushes
// any pending output before every read, so that a prompt written just before
// a blocking read is visible.
type promptingInput struct{ *ioCore }

func (pi promptingInput) ReadByte() (byte, error) {
	if err := pi.out.Flush(); err != nil {
		return 0, err
	}
	return pi.in.ReadByte()
}
