// Package ble contém toda a lógica Bluetooth Low Energy (BLE) do projeto.
package ble

import (
	"strings"
	"sync"

	"github.com/go-ble/ble"
)

// GearUpdate é a mensagem entregue ao consumidor do overlay: as duas linhas
// exibidas na janela. Os status de conexão reutilizam o mesmo formato de
// duas linhas, exatamente como as marchas.
type GearUpdate struct {
	Front string
	Rear  string
}

// UIState armazena os dados dinâmicos exibidos pelo overlay.
// 'sync.RWMutex' garante acesso seguro por múltiplas goroutines.
type UIState struct {
	sync.RWMutex
	FrontLabel string // Linha superior (marcha dianteira ou status).
	RearLabel  string // Linha inferior (marcha traseira ou status).
	GradeLabel string // Rótulo composto de grade/trava ("+5.0% (L)").
	Connected  bool   // Status da conexão com o KICKR real.
}

// --- CONSTANTES E UUIDs BLE ---
// UUIDs proprietários da Wahoo. As duas características notificam os
// payloads decodificados pelo pacote decode.
const (
	// Característica de seleção de marchas do KICKR Bike.
	GearCharUUIDStr = "a026e03a-0a7d-4ab3-97fa-f1500f9feb8b"
	// Característica de grade/trava da simulação de inclinação.
	GradeCharUUIDStr = "a026e037-0a7d-4ab3-97fa-f1500f9feb8b"
)

var (
	GearCharUUID  = ble.MustParse(GearCharUUIDStr)
	GradeCharUUID = ble.MustParse(GradeCharUUIDStr)

	// Serviço proprietário da Wahoo usado pelo simulador para agrupar as
	// duas características.
	WahooSvcUUID = ble.MustParse("a026ee0b-0a7d-4ab3-97fa-f1500f9feb8b")
)

// FindCharacteristic é uma função auxiliar para encontrar uma característica dentro de um perfil BLE.
func FindCharacteristic(p *ble.Profile, uuidStr string) *ble.Characteristic {
	targetUUID := strings.ToLower(strings.ReplaceAll(uuidStr, "-", ""))
	for _, s := range p.Services {
		for _, c := range s.Characteristics {
			foundUUID := strings.ToLower(strings.ReplaceAll(c.UUID.String(), "-", ""))
			if strings.Contains(targetUUID, foundUUID) {
				return c
			}
		}
	}
	return nil
}
