// Command sepagen reads a JSON payment description and writes the rendered
// SEPA XML document.
//
// Usage:
//
//	sepagen -in payments.json -schema pain.001.001.03 -schema-dir ./schema -out message.xml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/amoniacou/sepa-king/internal/request"
	"github.com/amoniacou/sepa-king/pkg/sepa"
	"github.com/amoniacou/sepa-king/pkg/xsd"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sepagen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		in        = flag.String("in", "-", "input JSON file, - for stdin")
		out       = flag.String("out", "-", "output XML file, - for stdout")
		schema    = flag.String("schema", "", "target schema identifier (default: family default)")
		schemaDir = flag.String("schema-dir", os.Getenv("SEPA_SCHEMA_DIR"), "directory holding <schema>.xsd definitions; empty skips XSD validation")
	)
	flag.Parse()

	data, err := readInput(*in)
	if err != nil {
		return err
	}

	var doc request.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	var opts []sepa.Option
	if *schemaDir != "" {
		opts = append(opts, sepa.WithSchemaValidator(xsd.NewFileValidator(*schemaDir)))
	}

	msg, docSchema, err := request.Build(doc, opts...)
	if err != nil {
		return err
	}
	if *schema != "" {
		docSchema = sepa.Schema(*schema)
	}

	rendered, err := msg.ToXML(docSchema)
	if err != nil {
		return err
	}

	return writeOutput(*out, rendered)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
