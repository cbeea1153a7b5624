/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package publisher

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/glog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v2"
	"naive.systems/vetaction/annotation"
	"naive.systems/vetaction/atomic"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported results format %q, expected json or yaml", s)
}

func toValue(a annotation.Annotation) map[string]interface{} {
	v := map[string]interface{}{
		"path":         a.Path,
		"start_line":   a.StartLine,
		"end_line":     a.EndLine,
		"start_column": a.StartColumn,
		"level":        string(a.Level),
		"message":      a.Message,
		"title":        a.Title,
	}
	if a.EndColumn != nil {
		v["end_column"] = *a.EndColumn
	}
	if a.ID != "" {
		v["id"] = a.ID
	}
	return v
}

func marshalJSON(annotations []annotation.Annotation) ([]byte, error) {
	values := make([]interface{}, 0, len(annotations))
	for _, a := range annotations {
		values = append(values, toValue(a))
	}
	list, err := structpb.NewList(values)
	if err != nil {
		return nil, fmt.Errorf("structpb.NewList: %v", err)
	}
	data, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("protojson.Marshal: %v", err)
	}
	// protojson output is not stable across runs; reformat it.
	data, err = json.MarshalIndent(json.RawMessage(data), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent: %v", err)
	}
	return append(data, '\n'), nil
}

// Marshal serializes the annotations in the given format, keeping their order.
func Marshal(annotations []annotation.Annotation, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(annotations)
	case FormatYAML:
		if annotations == nil {
			annotations = []annotation.Annotation{}
		}
		data, err := yaml.Marshal(annotations)
		if err != nil {
			return nil, fmt.Errorf("yaml.Marshal: %v", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported results format %q", format)
}

// Dump writes the machine-readable form of the annotations to w.
func Dump(w io.Writer, annotations []annotation.Annotation, format Format) error {
	data, err := Marshal(annotations, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func WriteResults(path string, annotations []annotation.Annotation, format Format) error {
	data, err := Marshal(annotations, format)
	if err != nil {
		return err
	}
	if err := atomic.Write(path, data); err != nil {
		glog.Errorf("failed to write results to %s: %v", path, err)
		return err
	}
	return nil
}
