package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/urfave/cli"

	"github.com/brunoga/jsonpatch"
)

var (
	patchFlag = cli.StringFlag{
		Name:  "patch",
		Usage: "(Required) Path to the patch document. Files ending in .yaml or .yml are read as YAML.",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Where to write the patched document. Defaults to stdout.",
	}
	yamlFlag = cli.BoolFlag{
		Name:  "yaml",
		Usage: "Read and write the target document as YAML. Implied by a .yaml or .yml extension.",
	}
)

// ApplyCommand returns the command that patches a document on disk.
func ApplyCommand() cli.Command {
	return cli.Command{
		Name:  "apply",
		Usage: "Apply a patch document to a JSON or YAML document.",
		Description: `Apply every operation of the patch to DOCUMENT and write the result. Either all operations
   succeed or nothing is written. Use - as DOCUMENT to read from stdin.`,
		ArgsUsage: "DOCUMENT",
		Action:    applyEntrypoint,
		Flags: []cli.Flag{
			patchFlag,
			outputFlag,
			yamlFlag,
		},
	}
}

func applyEntrypoint(cliContext *cli.Context) error {
	logger := getProjectLogger()

	patchPath := cliContext.String(patchFlag.Name)
	if patchPath == "" {
		return errors.WithStackTrace(MissingFlag{Name: patchFlag.Name})
	}
	if cliContext.NArg() != 1 {
		return errors.WithStackTrace(WrongArgCount{Command: "apply", Expected: "1", Actual: cliContext.NArg()})
	}
	docPath := cliContext.Args().First()
	asYAML := cliContext.Bool(yamlFlag.Name) || isYAML(docPath)

	patch, err := readPatch(patchPath)
	if err != nil {
		return err
	}

	data, err := readInput(docPath)
	if err != nil {
		return err
	}
	doc, err := decodeDocument(data, asYAML)
	if err != nil {
		return err
	}

	logger.Debugf("Applying %d operations to %s", len(patch), docPath)
	if err := jsonpatch.ApplyAtomic(patch, &doc, jsonpatch.WithLogger(logger)); err != nil {
		return errors.WithStackTrace(err)
	}

	out, err := encodeDocument(doc, asYAML)
	if err != nil {
		return err
	}

	outputPath := cliContext.String(outputFlag.Name)
	if outputPath == "" {
		_, err := cliContext.App.Writer.Write(out)
		return errors.WithStackTrace(err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return errors.WithStackTrace(err)
	}
	logger.Infof("Wrote patched document to %s", outputPath)
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func readInput(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	return data, errors.WithStackTrace(err)
}

// readPatch loads a patch document. YAML patches are converted to JSON first
// so both forms go through the same decoder.
func readPatch(path string) (jsonpatch.Document, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return nil, errors.WithStackTrace(err)
		}
	}
	patch, err := jsonpatch.DecodeBytes(data)
	return patch, errors.WithStackTrace(err)
}

func decodeDocument(data []byte, asYAML bool) (any, error) {
	if asYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}
		data = converted
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return doc, nil
}

func encodeDocument(doc any, asYAML bool) ([]byte, error) {
	if asYAML {
		out, err := yaml.Marshal(doc)
		return out, errors.WithStackTrace(err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return append(out, '\n'), nil
}
