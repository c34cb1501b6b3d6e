package output

import (
	"bytes"
	"strings"
	"testing"
)

type summary struct {
	Folder string `json:"folder" yaml:"folder"`
	Rows   int    `json:"rows" yaml:"rows"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", YAML, false},
		{"json", JSON, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	data := summary{Folder: "A", Rows: 3}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, JSON, data); err != nil {
			t.Fatal(err)
		}
		want := "{\n  \"folder\": \"A\",\n  \"rows\": 3\n}\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, YAML, data); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "folder: A\nrows: 3\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		var buf bytes.Buffer
		err := Write(&buf, Format("toml"), data)
		if err == nil || !strings.Contains(err.Error(), "unknown output format") {
			t.Errorf("expected unknown format error, got %v", err)
		}
	})
}

func TestSetFormat(t *testing.T) {
	defer SetFormat(Current())
	SetFormat(JSON)
	if Current() != JSON {
		t.Errorf("Current() = %q, want json", Current())
	}
}
