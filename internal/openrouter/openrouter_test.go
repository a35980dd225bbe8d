package openrouter

import "testing"

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"plain json",
			`{"context":"technology"}`,
			`{"context":"technology"}`,
		},
		{
			"fenced json",
			"```json\n{\"context\":\"technology\"}\n```",
			`{"context":"technology"}`,
		},
		{
			"bare fence",
			"```\n{\"a\":1}\n```",
			`{"a":1}`,
		},
		{
			"chatter around the object",
			`Sure, here is the extraction: {"context":"arts","confidence_score":2} Hope that helps!`,
			`{"context":"arts","confidence_score":2}`,
		},
		{
			"nested objects",
			`{"outer":{"inner":{"x":1}},"y":2} trailing`,
			`{"outer":{"inner":{"x":1}},"y":2}`,
		},
		{
			"braces inside strings",
			`{"text":"a { brace } inside"} extra`,
			`{"text":"a { brace } inside"}`,
		},
		{
			"escaped quotes inside strings",
			`{"text":"she said \"hi {\" there"} extra`,
			`{"text":"she said \"hi {\" there"}`,
		},
		{
			"no object at all",
			"no json here",
			"no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.in); got != tt.want {
				t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
