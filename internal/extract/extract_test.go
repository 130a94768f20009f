package extract

import (
	"encoding/json"
	"testing"
)

func TestStructured_DirectParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object", `{"title":"Trees","pages":5}`, `{"pages":5,"title":"Trees"}`},
		{"array", `[{"a":1},{"b":2}]`, `[{"a":1},{"b":2}]`},
		{"whitespace", "  \n[1,2,3]\n  ", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Structured(tt.in)
			if !res.Structured {
				t.Fatalf("Structured(%q) did not parse", tt.in)
			}
			if string(res.Value) != tt.want {
				t.Errorf("Value = %s, want %s", res.Value, tt.want)
			}
		})
	}
}

func TestStructured_CodeFences(t *testing.T) {
	inner := `[{"title":"Chapter 1","pages":3}]`

	fenced := []string{
		"```json\n" + inner + "\n```",
		"```\n" + inner + "\n```",
	}

	want := Structured(inner)
	if !want.Structured {
		t.Fatal("unfenced input did not parse")
	}

	// Fenced input must yield the same value as the unwrapped interior.
	for _, in := range fenced {
		res := Structured(in)
		if !res.Structured {
			t.Fatalf("fenced input did not parse: %q", in)
		}
		if string(res.Value) != string(want.Value) {
			t.Errorf("fenced value = %s, want %s", res.Value, want.Value)
		}
	}
}

func TestStructured_TrailingCommas(t *testing.T) {
	in := "{\n  \"title\": \"Intro\",\n  \"pages\": 4,\n}"
	res := Structured(in)
	if !res.Structured {
		t.Fatalf("trailing comma input did not parse: raw=%q", res.Raw)
	}

	var got map[string]any
	if err := json.Unmarshal(res.Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["title"] != "Intro" {
		t.Errorf("title = %v", got["title"])
	}
}

func TestStructured_PrettyPrintedPassThrough(t *testing.T) {
	// Cleaning must be a no-op on valid pretty-printed JSON: line-ending
	// commas here are field and element separators, not artifacts.
	t.Run("object", func(t *testing.T) {
		in := "{\n  \"title\": \"Intro\",\n  \"pages\": 4\n}"
		res := Structured(in)
		if !res.Structured {
			t.Fatalf("pretty-printed object did not parse: raw=%q", res.Raw)
		}
		if string(res.Value) != `{"pages":4,"title":"Intro"}` {
			t.Errorf("Value = %s", res.Value)
		}
	})

	t.Run("array", func(t *testing.T) {
		in := "[\n  {\"title\": \"A\", \"pages\": 1},\n  {\"title\": \"B\", \"pages\": 2}\n]"
		res := Structured(in)
		if !res.Structured {
			t.Fatalf("pretty-printed array did not parse: raw=%q", res.Raw)
		}

		// The result must stay a flat two-element array, not get rewrapped.
		var got []map[string]any
		if err := json.Unmarshal(res.Value, &got); err != nil {
			t.Fatalf("unmarshal: %v (value=%s)", err, res.Value)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 elements, got %d (value=%s)", len(got), res.Value)
		}
		if got[0]["title"] != "A" || got[1]["title"] != "B" {
			t.Errorf("elements = %v", got)
		}
	})
}

func TestStructured_SurroundingCommentary(t *testing.T) {
	in := "Here is the outline you asked for:\n\n[{\"title\":\"Basics\",\"pages\":2}]\n\nLet me know if you need changes."
	res := Structured(in)
	if !res.Structured {
		t.Fatalf("did not recover JSON from commentary: raw=%q", res.Raw)
	}
	if string(res.Value) != `[{"pages":2,"title":"Basics"}]` {
		t.Errorf("Value = %s", res.Value)
	}
}

func TestStructured_StrayCloserInCommentary(t *testing.T) {
	// A stray closing bracket in trailing commentary must not extend the
	// extracted span past the first balanced value.
	in := "Sure! {\"title\": \"Graphs\", \"pages\": 3} (the } above closes the object)"
	res := Structured(in)
	if !res.Structured {
		t.Fatalf("did not recover JSON past stray closer: raw=%q", res.Raw)
	}
	if string(res.Value) != `{"pages":3,"title":"Graphs"}` {
		t.Errorf("Value = %s", res.Value)
	}
}

func TestStructured_BracketsInsideStrings(t *testing.T) {
	in := `Result: {"title": "Arrays [1] and {maps}", "pages": 2} done.`
	res := Structured(in)
	if !res.Structured {
		t.Fatalf("brackets inside strings skewed the span: raw=%q", res.Raw)
	}
	if string(res.Value) != `{"pages":2,"title":"Arrays [1] and {maps}"}` {
		t.Errorf("Value = %s", res.Value)
	}
}

func TestStructured_AdjacentObjects(t *testing.T) {
	res := Structured(`{"a":1}{"b":2}`)
	if !res.Structured {
		t.Fatalf("adjacent objects did not parse: raw=%q", res.Raw)
	}
	if string(res.Value) != `[{"a":1},{"b":2}]` {
		t.Errorf("Value = %s, want [{\"a\":1},{\"b\":2}]", res.Value)
	}

	// Whitespace between the objects is tolerated.
	res = Structured("{\"a\":1}\n{\"b\":2}")
	if !res.Structured || string(res.Value) != `[{"a":1},{"b":2}]` {
		t.Errorf("whitespace-separated objects: structured=%v value=%s", res.Structured, res.Value)
	}
}

func TestStructured_Unparseable(t *testing.T) {
	in := "I could not produce an outline for that topic."
	res := Structured(in)
	if res.Structured {
		t.Fatalf("expected fallback, got value %s", res.Value)
	}
	if res.Raw != in {
		t.Errorf("Raw = %q, want original text", res.Raw)
	}
	if res.Value != nil {
		t.Errorf("Value = %s, want nil", res.Value)
	}
}

func TestStructured_Empty(t *testing.T) {
	res := Structured("   \n ")
	if res.Structured {
		t.Fatal("empty input must not be structured")
	}
	if res.Raw != "" {
		t.Errorf("Raw = %q, want empty", res.Raw)
	}
}
