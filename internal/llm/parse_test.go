package llm

import "testing"

func TestDecodeCategory(t *testing.T) {
	tests := []struct {
		text    string
		want    string
		wantErr bool
	}{
		{text: `{"category":"Work"}`, want: "Work"},
		{text: `{"category": "promotion", "reason": "ad"}`, want: "promotion"},
		{text: `{"category": null}`, want: ""},
		{text: `{"category": 3}`, want: ""},
		{text: `{}`, want: ""},
		{text: `Sure! {"category":"Work"}`, wantErr: true},
		{text: ``, wantErr: true},
	}

	for _, tt := range tests {
		got, err := DecodeCategory(tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("DecodeCategory(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("DecodeCategory(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{text: `The answer is {"category":"Security"} because of the code.`, want: "Security", wantOK: true},
		{text: "{ \"category\" :\n \"Update\" }", want: "Update", wantOK: true},
		{text: `{"category":"Low Priority"}`, wantOK: false},
		{text: `category: Work`, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ExtractCategory(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractCategory(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "plain json", text: `{"category":"Work"}`, want: "Work"},
		{name: "padded json", text: "\n  {\"category\":\"Personal\"}  \n", want: "Personal"},
		{name: "json in prose", text: `Here you go: {"category":"Transaction"}`, want: "Transaction"},
		{name: "valid json without category skips the pattern", text: `{"label":"Work"}`, want: ""},
		{name: "garbage", text: "I cannot help with that", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCategory(tt.text); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
