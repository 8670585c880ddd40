package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
	"github.com/poiesic/ensemble/search"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// runFile is the YAML form of a search invocation. Fields left out fall
// back to the flag defaults; flags given on the command line win.
type runFile struct {
	Names        []string  `yaml:"names"`
	Operators    []string  `yaml:"operators"`
	MaxOrder     *int      `yaml:"max_order"`
	MinIncrease  *float64  `yaml:"min_increase"`
	AllowOverlap *bool     `yaml:"allow_overlap"`
	Top          *int      `yaml:"top"`
	Multiway     *bool     `yaml:"multiway"`
	Judge        judgeFile `yaml:"judge"`
}

type judgeFile struct {
	Host       string            `yaml:"host"`
	Model      string            `yaml:"model"`
	Criteria   string            `yaml:"criteria"`
	Components map[string]string `yaml:"components"`
}

// loadRunFile reads a run file. An empty path yields an empty run file.
func loadRunFile(path string) (*runFile, error) {
	rf := &runFile{}
	if path == "" {
		return rf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load run file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(rf); err != nil {
		return nil, fmt.Errorf("parse run file %s: %w", path, err)
	}
	return rf, nil
}

// searchConfig merges the run file and the command line into a search
// configuration.
func searchConfig(c *cli.Context, rf *runFile) (*search.Config, error) {
	names := c.Args().Slice()
	if len(names) == 0 {
		names = rf.Names
	}

	symbols := strings.Split(c.String("ops"), ",")
	if !c.IsSet("ops") && len(rf.Operators) > 0 {
		symbols = rf.Operators
	}
	ops, err := core.ParseOperators(symbols...)
	if err != nil {
		return nil, err
	}

	return search.NewConfig(
		search.WithNames(names...),
		search.WithOperators(ops...),
		search.WithMaxOrder(pick(c, "max-order", rf.MaxOrder, c.Int)),
		search.WithMinimumIncrease(pick(c, "min-increase", rf.MinIncrease, c.Float64)),
		search.WithNoOverlap(!pick(c, "allow-overlap", rf.AllowOverlap, c.Bool)),
		search.WithNumberToRetrieve(pick(c, "top", rf.Top, c.Int)),
		search.WithMultiwayMerge(pick(c, "multiway", rf.Multiway, c.Bool)),
		search.WithResume(c.Bool("resume")),
	), nil
}

// judgeOptions returns the judge settings from the run file that no flag
// overrides. Component descriptions are merged; --describe wins per name.
func judgeOptions(c *cli.Context, jf judgeFile) []oracle.ConfigOption {
	var opts []oracle.ConfigOption
	if jf.Host != "" && !c.IsSet("judge-host") {
		opts = append(opts, oracle.WithHost(jf.Host))
	}
	if jf.Model != "" && !c.IsSet("judge-model") {
		opts = append(opts, oracle.WithModel(jf.Model))
	}
	if jf.Criteria != "" && !c.IsSet("criteria") {
		opts = append(opts, oracle.WithCriteria(jf.Criteria))
	}
	if len(jf.Components) > 0 {
		opts = append(opts, oracle.WithComponents(jf.Components))
	}
	return opts
}

// pick returns the flag value when it was given explicitly, else the run
// file value when present, else the flag default.
func pick[T any](c *cli.Context, flag string, file *T, get func(string) T) T {
	if file != nil && !c.IsSet(flag) {
		return *file
	}
	return get(flag)
}
