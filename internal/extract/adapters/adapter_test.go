package adapters

import "testing"

func TestFindAdapter_ByKind(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		kind string
		want string
	}{
		{"deed", "deed"},
		{"escritura", "deed"},
		{"modelo600", "modelo600"},
		{"form", "modelo600"},
		{"autoliquidacion", "modelo600"},
		{"invoice", "generic"},
	}
	for _, tt := range tests {
		if got := r.FindAdapter(tt.kind, "").Name(); got != tt.want {
			t.Errorf("FindAdapter(kind=%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFindAdapter_ByText(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"deed vocabulary", "ESCRITURA DE COMPRAVENTA otorgada ante mí", "deed"},
		{"deed lowercase", "número de protocolo mil doscientos", "deed"},
		{"form vocabulary", "MODELO 600. AUTOLIQUIDACIÓN", "modelo600"},
		{"form sujeto pasivo", "datos del sujeto pasivo", "modelo600"},
		{"unrecognized", "lorem ipsum dolor sit amet", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.FindAdapter("", tt.text).Name(); got != tt.want {
				t.Errorf("FindAdapter(text) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdapterPrompts(t *testing.T) {
	r := NewRegistry()
	for _, kind := range []string{"deed", "modelo600", "other"} {
		a := r.FindAdapter(kind, "")
		if a.SystemPrompt() == "" {
			t.Errorf("%s adapter has empty system prompt", a.Name())
		}
		if a.Instruction() == "" {
			t.Errorf("%s adapter has empty instruction", a.Name())
		}
	}
}
