package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// document is one YAML document of a model file:
//
//	types:
//	  - name: com.acme.Base
//	    kind: class
//	    modifiers: [public, abstract]
//	    extends: java.lang.Object
//	    implements: [com.acme.Named]
//	    annotations:
//	      - com.acme.Entity
//	      - name: com.acme.Table
//	        values: {value: BASE}
//	    fields:
//	      - {name: id, type: long, modifiers: [private]}
//	    methods:
//	      - name: find
//	        returns: java.util.List<T>
//	        typeParameters: [{name: T, bounds: [Number]}]
//	        parameters:
//	          - {name: key, type: String, annotations: [com.acme.NotNull]}
//	    innerTypes:
//	      - {name: Builder, modifiers: [public, static]}
type document struct {
	Types []*typeDoc `yaml:"types"`
}

type typeDoc struct {
	Name           string          `yaml:"name"`
	Kind           string          `yaml:"kind"`
	Modifiers      stringList      `yaml:"modifiers"`
	Extends        stringList      `yaml:"extends"`
	Implements     stringList      `yaml:"implements"`
	TypeParameters []typeParamDoc  `yaml:"typeParameters"`
	Annotations    []annotationDoc `yaml:"annotations"`
	Fields         []fieldDoc      `yaml:"fields"`
	Methods        []methodDoc     `yaml:"methods"`
	InnerTypes     []*typeDoc      `yaml:"innerTypes"`
	line           int
}

func (d *typeDoc) UnmarshalYAML(value *yaml.Node) error {
	type plain typeDoc
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	d.line = value.Line
	return nil
}

type typeParamDoc struct {
	Name   string     `yaml:"name"`
	Bounds stringList `yaml:"bounds"`
}

type fieldDoc struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Modifiers   stringList      `yaml:"modifiers"`
	Annotations []annotationDoc `yaml:"annotations"`
	line        int
}

func (d *fieldDoc) UnmarshalYAML(value *yaml.Node) error {
	type plain fieldDoc
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	d.line = value.Line
	return nil
}

type methodDoc struct {
	Name           string          `yaml:"name"`
	Returns        string          `yaml:"returns"`
	Modifiers      stringList      `yaml:"modifiers"`
	TypeParameters []typeParamDoc  `yaml:"typeParameters"`
	Parameters     []parameterDoc  `yaml:"parameters"`
	Annotations    []annotationDoc `yaml:"annotations"`
	line           int
}

func (d *methodDoc) UnmarshalYAML(value *yaml.Node) error {
	type plain methodDoc
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	d.line = value.Line
	return nil
}

type parameterDoc struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Modifiers   stringList      `yaml:"modifiers"`
	Annotations []annotationDoc `yaml:"annotations"`
}

// annotationDoc accepts either a bare qualified name or a mapping with values
type annotationDoc struct {
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
}

func (d *annotationDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Name = value.Value
		return nil
	}
	type plain annotationDoc
	return value.Decode((*plain)(d))
}

// stringList accepts a scalar or a sequence of scalars
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != "" {
			*l = stringList{value.Value}
		}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a name or a list of names", value.Line)
	}
}
