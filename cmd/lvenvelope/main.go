// Package main provides the lvenvelope command-line tool for generating key
// material and packing or unpacking envelopes from a shell.
//
//	lvenvelope keygen [-signature dilithium3]
//	lvenvelope derive -private <hex> -peer <hex>
//	lvenvelope pack -context PREKEY_... -signing-key <hex> -key <hex> field1 field2
//	lvenvelope unpack -context PREKEY_... -verify-key <hex> -key <hex> <envelope>
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opd-ai/lvenvelope/config"
	"github.com/opd-ai/lvenvelope/crypto"
	"github.com/opd-ai/lvenvelope/envelope"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "keygen":
		err = runKeygen(args[1:], stdout, stderr)
	case "derive":
		err = runDerive(args[1:], stdout, stderr)
	case "pack":
		err = runPack(args[1:], stdout, stderr)
	case "unpack":
		err = runUnpack(args[1:], stdin, stdout, stderr)
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitUsage
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "lvenvelope - pack and unpack LV secure envelopes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lvenvelope keygen                     generate signing and exchange key pairs")
	fmt.Fprintln(w, "  lvenvelope derive [options]           derive a shared symmetric key")
	fmt.Fprintln(w, "  lvenvelope pack [options] fields...   pack fields into an envelope")
	fmt.Fprintln(w, "  lvenvelope unpack [options] envelope  unpack an envelope (- reads stdin)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'lvenvelope <command> -h' for command options.")
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func decodeHexFlag(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: -%s is required", errUsage, name)
	}
	b, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("-%s: %w", name, err)
	}
	return b, nil
}

// newSealer builds a Sealer from the config file, or from the defaults when
// path is empty.
func newSealer(path string, allowSkipVerify bool) (*envelope.Sealer, io.Closer, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if allowSkipVerify {
		cfg.AllowSkipVerify = true
	}
	opts, closer, err := cfg.Build(nil)
	if err != nil {
		return nil, nil, err
	}
	s, err := envelope.New(opts)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return s, closer, nil
}

func runKeygen(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("keygen", stderr)
	scheme := fs.String("signature", config.SignatureEd25519, "signature scheme (ed25519, dilithium3)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	signer, err := config.SignerByName(*scheme)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	signing, err := signer.GenerateKeyPair(nil)
	if err != nil {
		return fmt.Errorf("generate signing key: %w", err)
	}
	defer crypto.WipeKeyPair(signing)

	exchange, err := crypto.X25519{}.GenerateKeyPair(nil)
	if err != nil {
		return fmt.Errorf("generate exchange key: %w", err)
	}
	defer crypto.WipeKeyPair(exchange)

	prekey, err := crypto.NewPreKeyContext()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "signing_private=%x\n", signing.Private)
	fmt.Fprintf(stdout, "signing_public=%x\n", signing.Public)
	fmt.Fprintf(stdout, "exchange_private=%x\n", exchange.Private)
	fmt.Fprintf(stdout, "exchange_public=%x\n", exchange.Public)
	fmt.Fprintf(stdout, "prekey_context=%s\n", prekey)
	return nil
}

func runDerive(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("derive", stderr)
	private := fs.String("private", "", "own X25519 private key (hex)")
	peer := fs.String("peer", "", "peer X25519 public key (hex)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	priv, err := decodeHexFlag("private", *private)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(priv)
	pub, err := decodeHexFlag("peer", *peer)
	if err != nil {
		return err
	}

	secret, err := crypto.X25519{}.SharedSecret(priv, pub)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(secret)

	fmt.Fprintf(stdout, "%x\n", secret)
	return nil
}

func runPack(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("pack", stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	prekey := fs.String("context", "", "pre-key context identifier")
	signingKey := fs.String("signing-key", "", "signing private key (hex)")
	key := fs.String("key", "", "symmetric key (hex)")
	hexFields := fs.Bool("hex", false, "fields are hex encoded")
	if err := fs.Parse(args); err != nil {
		return err
	}

	signing, err := decodeHexFlag("signing-key", *signingKey)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(signing)
	symmetric, err := decodeHexFlag("key", *key)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(symmetric)

	fields := make([][]byte, 0, fs.NArg())
	for i, arg := range fs.Args() {
		if !*hexFields {
			fields = append(fields, []byte(arg))
			continue
		}
		b, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		fields = append(fields, b)
	}

	s, closer, err := newSealer(*configPath, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	out, err := s.Pack(*prekey, signing, symmetric, fields...)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}

func runUnpack(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("unpack", stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	prekey := fs.String("context", "", "expected pre-key context identifier")
	verifyKey := fs.String("verify-key", "", "peer signing public key (hex)")
	key := fs.String("key", "", "symmetric key (hex)")
	skipVerify := fs.Bool("skip-verify", false, "do not check the signature")
	hexFields := fs.Bool("hex", false, "print fields hex encoded")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: unpack takes exactly one envelope argument", errUsage)
	}

	input := fs.Arg(0)
	if input == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = line
	}
	input = strings.TrimSpace(input)

	symmetric, err := decodeHexFlag("key", *key)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(symmetric)

	s, closer, err := newSealer(*configPath, *skipVerify)
	if err != nil {
		return err
	}
	defer closer.Close()

	var fields [][]byte
	if *skipVerify {
		fields, err = s.UnpackSkipVerify(*prekey, symmetric, input)
	} else {
		verify, derr := decodeHexFlag("verify-key", *verifyKey)
		if derr != nil {
			return derr
		}
		fields, err = s.Unpack(*prekey, verify, symmetric, input)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", envelope.Code(err), err)
	}

	for _, f := range fields {
		if *hexFields {
			fmt.Fprintf(stdout, "%x\n", f)
		} else {
			fmt.Fprintf(stdout, "%s\n", f)
		}
	}
	return nil
}
