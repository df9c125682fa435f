package ble

import (
	"testing"

	"kickr-gears/pkg/decode"

	"github.com/go-ble/ble"
)

func TestFindCharacteristic(t *testing.T) {
	profile := &ble.Profile{
		Services: []*ble.Service{
			{
				UUID: WahooSvcUUID,
				Characteristics: []*ble.Characteristic{
					{UUID: GearCharUUID},
					{UUID: GradeCharUUID},
				},
			},
		},
	}

	if c := FindCharacteristic(profile, GearCharUUIDStr); c == nil {
		t.Fatal("característica de marchas não encontrada no perfil")
	}
	if c := FindCharacteristic(profile, GradeCharUUIDStr); c == nil {
		t.Fatal("característica de grade não encontrada no perfil")
	}
	if c := FindCharacteristic(profile, "00002a63-0000-1000-8000-00805f9b34fb"); c != nil {
		t.Fatal("característica de potência não deveria existir neste perfil")
	}
}

// Os payloads do simulador precisam ser aceitos pelo decodificador real,
// senão o modo de desenvolvimento não espelha o hardware.
func TestSimulatorPayloadsDecode(t *testing.T) {
	front, rear := decode.DecodeGears(encodeGears(2, 11))
	if front != "Front Gear: 2" || rear != "Rear Gear : 11" {
		t.Errorf("marchas simuladas = (%q, %q)", front, rear)
	}

	var s decode.GradeLockState
	if label, ok := s.Apply(encodeGrade(5.0)); !ok || label != "+5.0%" {
		t.Errorf("grade simulada +5.0 = (%q, %v)", label, ok)
	}
	if label, ok := s.Apply(encodeLock(true)); !ok || label != "+5.0% (L)" {
		t.Errorf("trava simulada = (%q, %v)", label, ok)
	}
	if label, ok := s.Apply(encodeGrade(-2.5)); !ok || label != "-2.5% (L)" {
		t.Errorf("grade simulada -2.5 = (%q, %v)", label, ok)
	}
}
