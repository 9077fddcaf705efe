package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/collatz/collatz"
	"github.com/ardanlabs/collatz/rpc"
)

const (
	defaultAddr   = "localhost:9999"
	remoteTimeout = 10 * time.Second
)

var (
	errArgs     = errors.New("wrong number of arguments")
	underscores = regexp.MustCompile(`^[+-]?[0-9]+(_[0-9]+)*$`)
)

type options struct {
	remote string
	trace  bool
}

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		name := path.Base(os.Args[0])
		fmt.Fprintf(os.Stderr, "usage: %s [options] [N]\n", name)
		flag.PrintDefaults()
	}
	var opts options
	flag.StringVar(&opts.remote, "remote", "", "compute using the server at `addr`")
	flag.BoolVar(&opts.trace, "trace", false, "print and verify the bit trace")
	serve := flag.Bool("serve", false, "run a server (address from $COLLATZ_ADDR)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	if *serve {
		err = serveCmd(ctx, flag.Args())
	} else {
		err = run(ctx, os.Stdout, flag.Args(), opts)
	}

	if err != nil {
		log.Fatalf("error: %s", err)
	}
}

func serverAddr() string {
	addr := os.Getenv("COLLATZ_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	return addr
}

func serveCmd(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: -serve takes none", errArgs)
	}
	return rpc.ListenAndServe(ctx, serverAddr())
}

// parseInt parses a base 10 integer. Surrounding space is ignored and single
// underscores may separate digits.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "_") {
		if !underscores.MatchString(s) {
			return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	return strconv.ParseInt(s, 10, 64)
}

// parseArgs returns the starting value from args, clamped to 1.
func parseArgs(args []string) (int64, error) {
	switch len(args) {
	case 0:
		return collatz.DefaultStart, nil
	case 1:
		n, err := parseInt(args[0])
		if err != nil {
			return 0, fmt.Errorf("bad value %q: %w", args[0], err)
		}
		return collatz.Clamp(n), nil
	}

	return 0, errArgs
}

func run(ctx context.Context, w io.Writer, args []string, opts options) error {
	n, err := parseArgs(args)
	if err != nil {
		return err
	}

	var seq []int64
	if opts.remote != "" {
		seq, err = remoteSequence(ctx, opts.remote, n)
	} else {
		seq, err = collatz.Generate(n)
	}
	if err != nil {
		return err
	}

	if err := report(w, n, seq); err != nil {
		return err
	}

	if !opts.trace {
		return nil
	}

	trace := collatz.NewTrace(seq)
	if _, err := fmt.Fprint(w, trace); err != nil {
		return err
	}
	return trace.Verify()
}

func remoteSequence(ctx context.Context, addr string, n int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	conn, err := rpc.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return rpc.NewClient(conn).Sequence(ctx, n)
}

// report writes the sequence and its statistics to w.
func report(w io.Writer, n int64, seq []int64) error {
	stats := collatz.NewStats(seq)

	members := make([]string, len(seq))
	for i, v := range seq {
		members[i] = strconv.FormatInt(v, 10)
	}

	_, err := fmt.Fprintf(w,
		"n = %d\n[%s]\nLength of sequence = %d\n"+
			"Number of bits required to represent largest sequence member = %d\n"+
			"Big-endian representation of initial sequence member n = %s\n",
		n,
		strings.Join(members, ", "),
		stats.Length,
		stats.BitWidth,
		collatz.BinaryDigits(n),
	)
	return err
}
