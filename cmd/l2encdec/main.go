package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/zoobzio/l2encdec"
)

const version = "0.1.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "l2encdec"
	app.Usage = "Encode and decode Lineage 2 client files"
	app.Version = version
	app.Flags = getFlags()
	app.Commands = []cli.Command{
		{
			Name:      "encode",
			Usage:     "encode a plain file",
			ArgsUsage: "<input_file>",
			Flags:     getCodecFlags(),
			Action: func(c *cli.Context) error {
				r, input, err := setup(c)
				if err != nil {
					return err
				}
				_, err = r.encode(context.Background(), input, c.String("output"))
				return err
			},
		},
		{
			Name:      "decode",
			Usage:     "decode an encoded file",
			ArgsUsage: "<input_file>",
			Flags:     getCodecFlags(),
			Action: func(c *cli.Context) error {
				r, input, err := setup(c)
				if err != nil {
					return err
				}
				_, err = r.decode(context.Background(), input, c.String("output"))
				return err
			},
		},
		{
			Name:      "verify",
			Usage:     "check the tail checksum of encoded files",
			ArgsUsage: "<input_file>...",
			Action: func(c *cli.Context) error {
				r, _, err := setup(c)
				if err != nil {
					return err
				}
				return r.verify(c.Args())
			},
		},
		{
			Name:      "inspect",
			Usage:     "print header, protocol and checksum details of encoded files",
			ArgsUsage: "<input_file>...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "format",
					Usage: "output format [json|yaml]",
				},
			},
			Action: func(c *cli.Context) error {
				r, _, err := setup(c)
				if err != nil {
					return err
				}
				return r.inspect(c.Args())
			},
		},
		{
			Name:  "protocols",
			Usage: "list supported protocol versions",
			Action: func(c *cli.Context) error {
				for _, p := range l2encdec.SupportedProtocols() {
					d, _ := l2encdec.Resolve(p)
					fmt.Fprintf(c.App.Writer, "%d\t%s\n", p, d.Variant)
				}
				return nil
			},
		},
	}
	return app
}

// setup loads config, applies command line overrides and builds a runner.
func setup(c *cli.Context) (*runner, string, error) {
	if c.NArg() == 0 {
		return nil, "", errors.New("input file required")
	}

	config, err := NewConfig(c.GlobalString("config"))
	if err != nil {
		return nil, "", err
	}
	if c.GlobalIsSet("level") {
		level, err := GetLogLevel(c.GlobalString("level"))
		if err != nil {
			return nil, "", err
		}
		config.LogLevel = level
	}
	applyFlags(c, config)

	return newRunner(config, NewLogger(config.LogLevel)), c.Args().First(), nil
}

func applyFlags(c *cli.Context, config *Config) {
	if c.IsSet("protocol") {
		config.Protocol = c.Int("protocol")
	}
	if c.IsSet("algorithm") {
		config.Algorithm = c.String("algorithm")
	}
	if c.IsSet("legacy") {
		config.Legacy = c.Bool("legacy")
	}
	if c.IsSet("skip-tail") {
		config.SkipTail = c.Bool("skip-tail")
	}
	if c.IsSet("key-file") {
		config.KeyFile = c.String("key-file")
	}
	if c.IsSet("filename") {
		config.Filename = c.String("filename")
	}
	if c.IsSet("header") {
		config.Header = c.String("header")
	}
	if c.IsSet("tail") {
		config.Tail = c.String("tail")
	}
	if c.IsSet("format") {
		config.Format = c.String("format")
	}
	if c.GlobalIsSet("output-dir") {
		config.OutputDir = c.GlobalString("output-dir")
	}
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "level",
			Usage: "logging level [debug|info|warn|error]",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "output-dir, d",
			Usage: "write default-named output files to `DIR` (default: next to the input)",
		},
	}
}

func getCodecFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "protocol, p",
			Usage: "protocol version [111|120|121|211|212|411-414] (default: from header or file name)",
		},
		cli.StringFlag{
			Name:  "algorithm, a",
			Usage: "run `ALGORITHM` under the protocol's header [xor|xor_position|xor_filename|blowfish|rsa]",
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write to `FILE` instead of enc-<name> / dec-<protocol>-<name>",
		},
		cli.BoolFlag{
			Name:  "skip-tail, t",
			Usage: "do not write or expect the 20-byte tail",
		},
		cli.BoolFlag{
			Name:  "legacy, l",
			Usage: "decode 411-414 with the original per-version RSA key",
		},
		cli.StringFlag{
			Name:  "key-file, k",
			Usage: "load key material from `FILE` (PEM, DER, key document, raw key or integer)",
		},
		cli.StringFlag{
			Name:  "filename, f",
			Usage: "file name protocol 121 derives its key from (default: input file name)",
		},
		cli.StringFlag{
			Name:  "header, w",
			Usage: "custom header text (default: Lineage2Ver<protocol>)",
		},
		cli.StringFlag{
			Name:  "tail, T",
			Usage: "explicit tail as `HEX`",
		},
	}
}
