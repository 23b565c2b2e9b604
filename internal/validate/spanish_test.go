package validate

import "testing"

func TestValidDNI(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"12345678Z", true},
		{"12345678z", true},
		{" 12345678Z ", true},
		{"12345678A", false}, // wrong check letter
		{"1234567Z", false},  // too short
		{"123456789", false}, // no letter
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidDNI(tt.id); got != tt.want {
			t.Errorf("ValidDNI(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidNIE(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"X1234567L", true},
		{"Y1234567X", true},
		{"Z1234567R", true},
		{"X1234567T", false}, // wrong check letter
		{"A1234567L", false}, // not a NIE prefix
		{"X123456L", false},  // too short
	}
	for _, tt := range tests {
		if got := ValidNIE(tt.id); got != tt.want {
			t.Errorf("ValidNIE(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidCIF(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"B12345674", true},  // digit control
		{"A58818501", true},  // digit control
		{"Q2826000H", true},  // letter control
		{"B12345675", false}, // wrong control digit
		{"Q2826000I", false}, // wrong control letter
		{"A5881850H", false}, // A requires a digit control
		{"B1234567", false},  // too short
	}
	for _, tt := range tests {
		if got := ValidCIF(tt.id); got != tt.want {
			t.Errorf("ValidCIF(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidTaxID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"12345678Z", true},
		{"X1234567L", true},
		{"B12345674", true},
		{"12345678A", false},
		{"not-an-id", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidTaxID(tt.id); got != tt.want {
			t.Errorf("ValidTaxID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidCadastralRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"9872023VH5797S0001WX", true},
		{"9872023 VH5797S 0001 WX", true}, // registry separators
		{"9872023-VH5797S-0001-WX", true},
		{"9872023vh5797s0001wx", true},
		{"9872023VH5797S0001W", false}, // 19 chars
		{"9872023VH5797S0001WXX", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidCadastralRef(tt.ref); got != tt.want {
			t.Errorf("ValidCadastralRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
