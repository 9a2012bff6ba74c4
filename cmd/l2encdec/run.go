package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/l2encdec"
)

const (
	encodedPrefix = "enc-"
	decodedPrefix = "dec-"
)

// decodedName matches the names decode writes by default: dec-<protocol>-<name>.
var decodedName = regexp.MustCompile(`^dec-(\d{3})-(.+)$`)

// runner executes driver commands against a codec.
type runner struct {
	config *Config
	logger Logger
	codec  l2encdec.Codec
	out    io.Writer
}

func newRunner(config *Config, logger Logger) *runner {
	return &runner{
		config: config,
		logger: logger,
		codec:  l2encdec.Initialize(),
		out:    os.Stdout,
	}
}

// params builds codec params for one file from the config.
func (r *runner) params(protocol int, input string) (l2encdec.Params, error) {
	p := l2encdec.Params{
		Protocol:         protocol,
		LegacyDecryptRSA: r.config.Legacy,
		Filename:         r.config.Filename,
		Variant:          l2encdec.Variant(r.config.Algorithm),
		Header:           r.config.Header,
		SkipTail:         r.config.SkipTail,
	}
	if p.Filename == "" {
		p.Filename = baseName(input)
	}
	if r.config.KeyFile != "" {
		key, err := os.ReadFile(r.config.KeyFile)
		if err != nil {
			return p, errors.Wrap(err, "failed to read key file")
		}
		p.Key = l2encdec.Supplied(key)
	}
	if r.config.Tail != "" {
		tail, err := hex.DecodeString(r.config.Tail)
		if err != nil {
			return p, errors.Wrap(err, "failed to parse tail")
		}
		p.Tail = tail
	}
	return p, nil
}

// encode encodes input and writes enc-<name> unless an output path is given.
func (r *runner) encode(ctx context.Context, input, output string) (string, error) {
	plain, err := os.ReadFile(input)
	if err != nil {
		return "", errors.Wrap(err, "failed to read input file")
	}

	protocol := r.config.Protocol
	if protocol == 0 {
		protocol = protocolFromName(input)
	}
	if protocol == 0 {
		return "", errors.New("protocol required: use --protocol or a dec-<protocol>- file name")
	}

	p, err := r.params(protocol, input)
	if err != nil {
		return "", err
	}

	start := time.Now()
	wire, err := r.codec.Encode(ctx, plain, p)
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode %s", input)
	}

	if output == "" {
		output = r.outputPath(input, encodedPrefix+filepath.Base(input))
	}
	if err := os.WriteFile(output, wire, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to save output file")
	}

	r.logger.WithField("protocol", protocol).Infof("Encoded %s (%s) to %s (%s) in %s",
		input, humanize.IBytes(uint64(len(plain))), output, humanize.IBytes(uint64(len(wire))), time.Since(start))
	return output, nil
}

// decode decodes input and writes dec-<protocol>-<name> unless an output
// path is given.
func (r *runner) decode(ctx context.Context, input, output string) (string, error) {
	wire, err := os.ReadFile(input)
	if err != nil {
		return "", errors.Wrap(err, "failed to read input file")
	}

	protocol := r.config.Protocol
	if protocol == 0 {
		if protocol, err = l2encdec.DetectProtocol(wire); err != nil {
			return "", errors.Wrap(err, "protocol required: header does not name a supported protocol")
		}
		r.logger.Debugf("Detected protocol %d from header", protocol)
	}

	p, err := r.params(protocol, input)
	if err != nil {
		return "", err
	}

	start := time.Now()
	plain, err := r.codec.Decode(ctx, wire, p)
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode %s", input)
	}

	if output == "" {
		name := decodedPrefix + strconv.Itoa(protocol) + "-" + filepath.Base(input)
		output = r.outputPath(input, name)
	}
	if err := os.WriteFile(output, plain, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to save output file")
	}

	r.logger.WithField("protocol", protocol).Infof("Decoded %s (%s) to %s (%s) in %s",
		input, humanize.IBytes(uint64(len(wire))), output, humanize.IBytes(uint64(len(plain))), time.Since(start))
	return output, nil
}

// verify checks the tail checksum of each input.
func (r *runner) verify(inputs []string) error {
	failed := 0
	for _, input := range inputs {
		wire, err := os.ReadFile(input)
		if err != nil {
			return errors.Wrap(err, "failed to read input file")
		}
		if err := l2encdec.VerifyChecksum(wire); err != nil {
			failed++
			r.logger.Errorf("%s: %v", input, err)
			continue
		}
		r.logger.Infof("%s: checksum ok (%s)", input, humanize.IBytes(uint64(len(wire))))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", failed, len(inputs))
	}
	return nil
}

// inspected is one entry of the inspect report.
type inspected struct {
	File string `json:"file" yaml:"file"`

	l2encdec.Info `yaml:",inline"`
}

// inspect prints what can be read from each input without decoding it.
func (r *runner) inspect(inputs []string) error {
	report := make([]inspected, 0, len(inputs))
	for _, input := range inputs {
		wire, err := os.ReadFile(input)
		if err != nil {
			return errors.Wrap(err, "failed to read input file")
		}
		report = append(report, inspected{File: input, Info: l2encdec.Inspect(wire)})
	}

	switch r.config.Format {
	case "json":
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "":
		enc := yaml.NewEncoder(r.out)
		defer enc.Close()
		return enc.Encode(report)
	}
	return fmt.Errorf("unknown format %q, want json or yaml", r.config.Format)
}

func (r *runner) outputPath(input, name string) string {
	dir := r.config.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// protocolFromName reads the protocol from a dec-<protocol>-<name> file name.
func protocolFromName(path string) int {
	m := decodedName.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0
	}
	protocol, _ := strconv.Atoi(m[1])
	return protocol
}

// baseName strips the driver's own prefixes so filename-derived keys use the
// original client file name.
func baseName(path string) string {
	name := strings.TrimPrefix(filepath.Base(path), encodedPrefix)
	if m := decodedName.FindStringSubmatch(name); m != nil {
		return m[2]
	}
	if name == "" {
		return filepath.Base(path)
	}
	return name
}
