package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGetFormatter(t *testing.T) {
	formatter, err := GetFormatter(FormatYAML)
	if err != nil {
		t.Fatalf("GetFormatter(FormatYAML) failed: %v", err)
	}
	if _, ok := formatter.(*YAMLFormatter); !ok {
		t.Errorf("expected *YAMLFormatter, got %T", formatter)
	}

	formatter, err = GetFormatter(FormatJSON)
	if err != nil {
		t.Fatalf("GetFormatter(FormatJSON) failed: %v", err)
	}
	if _, ok := formatter.(*JSONFormatter); !ok {
		t.Errorf("expected *JSONFormatter, got %T", formatter)
	}

	if _, err := GetFormatter(Format("cgf")); err == nil {
		t.Error("GetFormatter should return error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"yaml", FormatYAML, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"  json  ", FormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDensity(t *testing.T) {
	tests := []struct {
		input    string
		expected Density
		wantErr  bool
	}{
		{"sparse", DensitySparse, false},
		{"Medium", DensityMedium, false},
		{"DENSE", DensityDense, false},
		{"smart", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDensity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDensity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseDensity(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDensityLevels(t *testing.T) {
	tests := []struct {
		density Density
		types   bool
		layout  bool
		elided  bool
	}{
		{DensitySparse, false, false, false},
		{DensityMedium, true, false, false},
		{DensityDense, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.density.String(), func(t *testing.T) {
			if got := tt.density.IncludesTypes(); got != tt.types {
				t.Errorf("IncludesTypes() = %v, want %v", got, tt.types)
			}
			if got := tt.density.IncludesLayout(); got != tt.layout {
				t.Errorf("IncludesLayout() = %v, want %v", got, tt.layout)
			}
			if got := tt.density.IncludesElided(); got != tt.elided {
				t.Errorf("IncludesElided() = %v, want %v", got, tt.elided)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if !ValidateFormat(FormatJSON) || ValidateFormat(Format("cgf")) {
		t.Error("ValidateFormat accepted or rejected the wrong format")
	}
	if !ValidateDensity(DensityDense) || ValidateDensity(Density("smart")) {
		t.Error("ValidateDensity accepted or rejected the wrong density")
	}
	if DefaultFormat != FormatYAML {
		t.Errorf("DefaultFormat = %s, want yaml", DefaultFormat)
	}
	if DefaultDensity != DensityMedium {
		t.Errorf("DefaultDensity = %s, want medium", DefaultDensity)
	}
}

func TestFormattersAgree(t *testing.T) {
	size := int64(8)
	doc := &Document{
		File: "point.h",
		Declarations: []*Declaration{{
			ID:       2,
			Kind:     "Struct",
			Name:     "point",
			Location: "point.h:1",
			Size:     &size,
			Members: []*Member{
				{ID: 3, Name: "x", Type: &TypeOutput{Kind: "fundamental", Name: "int"}},
			},
		}},
		Summary: &Summary{Declarations: 1, ByKind: map[string]int{"Struct": 1}},
	}

	var yamlBuf bytes.Buffer
	if err := NewYAMLFormatter().FormatToWriter(&yamlBuf, doc); err != nil {
		t.Fatalf("YAML FormatToWriter failed: %v", err)
	}
	var fromYAML Document
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("YAML output does not parse: %v", err)
	}

	out, err := NewJSONFormatter().Format(doc)
	if err != nil {
		t.Fatalf("JSON Format failed: %v", err)
	}
	var fromJSON Document
	if err := json.Unmarshal([]byte(out), &fromJSON); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}

	for name, got := range map[string]Document{"yaml": fromYAML, "json": fromJSON} {
		if got.File != "point.h" || len(got.Declarations) != 1 {
			t.Fatalf("%s: unexpected document %+v", name, got)
		}
		d := got.Declarations[0]
		if d.Size == nil || *d.Size != 8 {
			t.Errorf("%s: size = %v, want 8", name, d.Size)
		}
		if d.Align != nil {
			t.Errorf("%s: align should be omitted", name)
		}
		if len(d.Members) != 1 || d.Members[0].Type.Name != "int" {
			t.Errorf("%s: members = %+v", name, d.Members)
		}
	}

	if strings.Contains(yamlBuf.String(), "align") {
		t.Errorf("YAML output should omit empty fields:\n%s", yamlBuf.String())
	}
}
