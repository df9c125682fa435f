package decode

import (
	"fmt"
	"testing"
)

func TestDecodeGears(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		front   string
		rear    string
	}{
		{"vazio", nil, "Bad Gear", "Data"},
		{"um byte", []byte{0x01}, "Bad Gear", "Data"},
		{"dois bytes", []byte{0x01, 0x00}, "Bad Gear", "Data"},
		{"tres bytes", []byte{0x01, 0x00, 0x00}, "Bad Gear", "Data"},
		{"primeira marcha", []byte{0x00, 0x00, 0x00, 0x05}, "Front Gear: 1", "Rear Gear : 6"},
		{"marcha alta", []byte{0x01, 0x00, 0x01, 0x0A}, "Front Gear: 2", "Rear Gear : 11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, rear := DecodeGears(tt.payload)
			if front != tt.front || rear != tt.rear {
				t.Errorf("DecodeGears(%v) = (%q, %q), esperado (%q, %q)",
					tt.payload, front, rear, tt.front, tt.rear)
			}
		})
	}
}

func TestApplyLockOnly(t *testing.T) {
	var s GradeLockState

	label, ok := s.Apply([]byte{0xFD, 0x33, 0x01})
	if !ok || label != "L" {
		t.Fatalf("trava sem grade = (%q, %v), esperado (\"L\", true)", label, ok)
	}

	// Idempotência: repetir a mesma notificação não muda o rótulo.
	label, ok = s.Apply([]byte{0xFD, 0x33, 0x01})
	if !ok || label != "L" {
		t.Fatalf("segunda aplicação = (%q, %v), esperado (\"L\", true)", label, ok)
	}

	label, ok = s.Apply([]byte{0xFD, 0x33, 0x00})
	if !ok || label != "U" {
		t.Fatalf("destravado = (%q, %v), esperado (\"U\", true)", label, ok)
	}
}

func TestApplyGradePositive(t *testing.T) {
	var s GradeLockState
	s.Apply([]byte{0xFD, 0x33, 0x01})

	// raw = 0x0050 = 80 -> 80/100 = +0.8%
	label, ok := s.Apply([]byte{0xFD, 0x34, 0x50, 0x00})
	if !ok || label != "+0.8% (L)" {
		t.Fatalf("grade positiva = (%q, %v), esperado (\"+0.8%% (L)\", true)", label, ok)
	}
}

func TestApplyGradeNegative(t *testing.T) {
	var s GradeLockState
	s.Apply([]byte{0xFD, 0x33, 0x00})

	// raw = 0xFF00, tmp = 0xFFFF-0xFF00 = 255, 255/100 = 2.55.
	// O esperado é calculado pela mesma fórmula para não depender de
	// arredondamento manual.
	want := fmt.Sprintf("-%.1f%% (U)", float64(0xFFFF-0xFF00)/100.0)
	label, ok := s.Apply([]byte{0xFD, 0x34, 0x00, 0xFF})
	if !ok || label != want {
		t.Fatalf("grade negativa = (%q, %v), esperado (%q, true)", label, ok, want)
	}
}

func TestApplyGradeWithoutLock(t *testing.T) {
	var s GradeLockState

	// raw = 0x01F4 = 500 -> +5.0%, sem trava conhecida.
	label, ok := s.Apply([]byte{0xFD, 0x34, 0xF4, 0x01})
	if !ok || label != "+5.0%" {
		t.Fatalf("grade sem trava = (%q, %v), esperado (\"+5.0%%\", true)", label, ok)
	}
}

func TestApplyUnknownHeader(t *testing.T) {
	var s GradeLockState

	// Estado virgem: cabeçalho desconhecido não produz rótulo.
	if label, ok := s.Apply([]byte{0x00, 0x00}); ok {
		t.Fatalf("cabeçalho desconhecido em estado virgem = (%q, true), esperado nada", label)
	}

	// Com grade já conhecida, o cabeçalho desconhecido não muta nada,
	// mas ainda compõe o rótulo a partir do estado persistido.
	s.Apply([]byte{0xFD, 0x34, 0x50, 0x00})
	label, ok := s.Apply([]byte{0x00, 0x00})
	if !ok || label != "+0.8%" {
		t.Fatalf("cabeçalho desconhecido com grade = (%q, %v), esperado (\"+0.8%%\", true)", label, ok)
	}
}

func TestApplyShortPayloads(t *testing.T) {
	var s GradeLockState

	// Payloads curtos demais para o despacho não mutam o estado.
	if label, ok := s.Apply([]byte{0xFD, 0x33}); ok {
		t.Fatalf("trava curta = (%q, true), esperado nada", label)
	}
	if label, ok := s.Apply([]byte{0xFD, 0x34, 0x50}); ok {
		t.Fatalf("grade curta = (%q, true), esperado nada", label)
	}
}

func TestApplyCarryForward(t *testing.T) {
	var s GradeLockState

	s.Apply([]byte{0xFD, 0x34, 0x50, 0x00}) // +0.8%
	s.Apply([]byte{0xFD, 0x33, 0x01})       // trava

	// Uma nova grade mantém a trava conhecida.
	label, ok := s.Apply([]byte{0xFD, 0x34, 0xF4, 0x01})
	if !ok || label != "+5.0% (L)" {
		t.Fatalf("grade após trava = (%q, %v), esperado (\"+5.0%% (L)\", true)", label, ok)
	}

	// E um novo estado de trava mantém a última grade.
	label, ok = s.Apply([]byte{0xFD, 0x33, 0x00})
	if !ok || label != "+5.0% (U)" {
		t.Fatalf("trava após grade = (%q, %v), esperado (\"+5.0%% (U)\", true)", label, ok)
	}
}
