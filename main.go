package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/jcorbin/gotape/internal/logio"
	"github.com/jcorbin/gotape/internal/machine"
	"github.com/jcorbin/gotape/internal/panicerr"
)

type inputFlags []string

func (fs *inputFlags) String() string     { return strings.Join(*fs, ",") }
func (fs *inputFlags) Set(s string) error { *fs = append(*fs, s); return nil }

func main() {
	ctx := context.Background()
	logger := logio.NewLogger(os.Stderr)

	var (
		timeout  time.Duration
		trace    bool
		tapeSize uint
		ops      float64
		eofName  string
		strict   bool
		dump     bool
		watch    bool
		expr     string
		inputs   inputFlags
	)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.UintVar(&tapeSize, "tape-size", machine.DefaultTapeSize, "number of tape cells")
	flag.Float64Var(&ops, "rate", 0, "limit execution to this many instructions per second; 0 is unthrottled")
	flag.StringVar(&eofName, "eof", machine.EOFKeep.String(), "end of input policy: keep, zero, or max")
	flag.BoolVar(&strict, "strict", false, "reject programs with unmatched brackets before running")
	flag.BoolVar(&dump, "dump", false, "dump the final machine state to stderr")
	flag.BoolVar(&watch, "watch", false, "dump the machine state to stderr after every step")
	flag.StringVar(&expr, "e", "", "program text to run, instead of a program file")
	flag.Var(&inputs, "input", "read input from this file before stdin; may be repeated")
	flag.Parse()

	program, err := readProgram(expr, flag.Args())
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(logger.ExitCode())
	}

	eof, err := ParseEOF(eofName)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(logger.ExitCode())
	}

	var opts = []VMOption{
		WithOutput(os.Stdout),
		WithTapeSize(tapeSize),
		WithRate(ops),
		WithEOF(eof),
		WithStrict(strict),
	}
	for _, name := range inputs {
		f, err := os.Open(name)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(logger.ExitCode())
		}
		opts = append(opts, WithInput(f))
	}
	opts = append(opts, WithInput(os.Stdin))
	if trace {
		opts = append(opts, WithLogf(logger.Leveledf("TRACE")))
	}

	vm, err := New(program, opts...)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(logger.ExitCode())
	}
	if watch {
		WithWatch(func(st machine.State) {
			vmDumper{out: os.Stderr, prog: vm.Program()}.dump(st)
		}).apply(vm)
	}

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	logRunError(logger, vm.Run(ctx))
	if dump {
		vm.Dump(os.Stderr)
	}
	logger.ErrorIf(vm.Close())
	os.Exit(logger.ExitCode())
}

// logRunError logs any error returned by VM.Run, along with the goroutine
// stack when the run panicked.
func logRunError(logger *logio.Logger, err error) {
	switch {
	case err == nil:
	case panicerr.IsPanic(err):
		logger.Errorf("%v", err)
		logger.Printf("STACK", "%s", panicerr.PanicStack(err))
	case panicerr.IsExit(err):
		logger.Errorf("vm aborted: %v", err)
	default:
		logger.Errorf("%v", err)
	}
}

func readProgram(expr string, args []string) ([]byte, error) {
	switch {
	case expr != "" && len(args) > 0:
		return nil, fmt.Errorf("given both -e and a program file %q", args[0])
	case expr != "":
		return []byte(expr), nil
	case len(args) == 0:
		return nil, fmt.Errorf("no program file given")
	case len(args) > 1:
		return nil, fmt.Errorf("too many arguments, expected one program file, got %q", args)
	}
	return ioutil.ReadFile(args[0])
}
