// Command qsum computes type-aware checksums for JSON documents and raw
// bytes, and inspects existing checksums.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"xdao.co/qsum/checksum"
	"xdao.co/qsum/cidutil"
	"xdao.co/qsum/digest"
	"xdao.co/qsum/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "sum":
		return cmdSum(args[1:], in, out, errOut)
	case "raw":
		return cmdRaw(args[1:], in, out, errOut)
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "combine":
		return cmdCombine(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "qsum: type-aware deterministic checksums")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  qsum sum [--algo <name>] [--depends-on <mod,...>] [--json] <file|->")
	fmt.Fprintln(w, "  qsum raw [--algo <name>] <file|->")
	fmt.Fprintln(w, "  qsum inspect <hex>")
	fmt.Fprintln(w, "  qsum combine <hex> <hex>")
	fmt.Fprintln(w, "  qsum cid [--algo <name>] <hex>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - sum reads a JSON document; objects checksum as maps, arrays as lists")
	fmt.Fprintln(w, "  - raw checksums file bytes as the bytes type")
	fmt.Fprintln(w, "  - pass - as the file to read stdin")
	fmt.Fprintf(w, "  - algorithms: %s (default %s)\n", algoNames(), digest.Default)
}

func algoNames() string {
	names := make([]string, 0)
	for _, a := range digest.Algorithms() {
		names = append(names, string(a))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func readInput(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(path)
}

func cmdSum(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sum", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var algo string
	var dependsOn string
	var asJSON bool
	fs.StringVar(&algo, "algo", "", "digest algorithm")
	fs.StringVar(&dependsOn, "depends-on", "", "comma-separated module paths to fold in")
	fs.BoolVar(&asJSON, "json", false, "emit a JSON record instead of bare hex")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: qsum sum [--algo <name>] [--depends-on <mod,...>] [--json] <file|->")
		return 2
	}

	data, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	v, err := decodeJSON(data)
	if err != nil {
		fmt.Fprintf(errOut, "parse json: %v\n", err)
		return 1
	}

	opts := checksum.Options{Algorithm: digest.Algorithm(algo)}
	if dependsOn != "" {
		for _, mod := range strings.Split(dependsOn, ",") {
			opts.DependsOn = append(opts.DependsOn, strings.TrimSpace(mod))
		}
	}
	c, err := checksum.SumWithOptions(v, opts)
	if err != nil {
		fmt.Fprintf(errOut, "checksum: %v\n", err)
		return 1
	}

	if asJSON {
		rec, err := model.NewChecksumRecord(c, digest.Algorithm(algo))
		if err != nil {
			fmt.Fprintf(errOut, "record: %v\n", err)
			return 1
		}
		enc := json.NewEncoder(out)
		if err := enc.Encode(rec); err != nil {
			fmt.Fprintf(errOut, "encode: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprintln(out, c.Hex())
	return 0
}

func cmdRaw(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("raw", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var algo string
	fs.StringVar(&algo, "algo", "", "digest algorithm")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: qsum raw [--algo <name>] <file|->")
		return 2
	}
	data, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	c, err := checksum.SumWithOptions(data, checksum.Options{Algorithm: digest.Algorithm(algo)})
	if err != nil {
		fmt.Fprintf(errOut, "checksum: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, c.Hex())
	return 0
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: qsum inspect <hex>")
		return 2
	}
	c, err := checksum.FromHex(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "invalid checksum: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, c.String())
	return 0
}

func cmdCombine(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "usage: qsum combine <hex> <hex>")
		return 2
	}
	a, err := checksum.FromHex(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "invalid first checksum: %v\n", err)
		return 1
	}
	b, err := checksum.FromHex(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "invalid second checksum: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, a.Combine(b).Hex())
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var algo string
	fs.StringVar(&algo, "algo", "", "digest algorithm that produced the checksum")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: qsum cid [--algo <name>] <hex>")
		return 2
	}
	c, err := checksum.FromHex(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid checksum: %v\n", err)
		return 1
	}
	s, err := cidutil.StringForChecksum(c, digest.Algorithm(algo))
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, s)
	return 0
}

// decodeJSON maps a JSON document onto checksummable values: objects become
// maps, arrays become lists, integral numbers become ints, other numbers
// floats.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return mapJSON(v), nil
}

func mapJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = mapJSON(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = mapJSON(val)
		}
		return s
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}
