package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	gokumi "github.com/reoring/gokumi"
	"github.com/reoring/gokumi/schema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "build":
		buildCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "gokumi CLI\n\nUsage:\n  gokumi build -schema def.yaml -in fields.json [-stats]\n\nNotes:\n  - Loads a YAML schema definition, runs the builder over the JSON fields,\n    and prints the validated result.")
}

func buildCmd(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var schemaPath string
	var inPath string
	var stats bool
	fs.StringVar(&schemaPath, "schema", "", "path to a YAML schema definition")
	fs.StringVar(&inPath, "in", "", "path to a JSON object of field values")
	fs.BoolVar(&stats, "stats", false, "print pool stats after building")
	_ = fs.Parse(args)
	if schemaPath == "" || inPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(schemaPath)
	if err != nil {
		fatal(err)
	}
	s, err := schema.FromYAML(raw)
	if err != nil {
		fatal(err)
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		fatal(err)
	}

	f, err := gokumi.New(s)
	if err != nil {
		fatal(err)
	}
	b := f.Acquire()
	defer b.Release()
	for k, v := range fields {
		b.Set(k, v)
	}
	v, err := b.Build(context.Background())
	if err != nil {
		fatal(err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))

	if stats {
		ps, err := json.MarshalIndent(gokumi.GetPoolStats(), "", "  ")
		if err != nil {
			fatal(err)
		}
		fmt.Fprintln(os.Stderr, string(ps))
	}
}

func fatal(err error) {
	if iss, ok := gokumi.AsIssues(err); ok {
		for _, it := range iss {
			fmt.Fprintf(os.Stderr, "%s at %s: %s\n", it.Code, it.Path, it.Message)
		}
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
