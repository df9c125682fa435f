package ble

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// SimulatorRoutine gerencia a simulação de um KICKR Bike virtual.
// Anuncia as duas características proprietárias e emite payloads sintéticos
// de marchas, grade e trava, para desenvolver o overlay sem o hardware.
func SimulatorRoutine(ctx context.Context, name string, adapterID int, wg *sync.WaitGroup) {
	defer wg.Done()
	fmt.Println("[SIM] Goroutine do simulador iniciada.")

	d, err := linux.NewDevice(ble.OptDeviceID(adapterID))
	if err != nil {
		log.Fatalf("[SIM] ❌ Falha ao selecionar adaptador hci%d: %s", adapterID, err)
	}
	ble.SetDefaultDevice(d)

	// --- Definição de Serviços e Características ---
	wahooSvc := ble.NewService(WahooSvcUUID)
	gearChar := wahooSvc.NewCharacteristic(GearCharUUID)
	gradeChar := wahooSvc.NewCharacteristic(GradeCharUUID)

	// Handler de Marchas: troca a marcha traseira a cada poucos segundos,
	// e de vez em quando a dianteira, como um ciclista de verdade.
	gearChar.HandleNotify(ble.NotifyHandlerFunc(func(req ble.Request, ntf ble.Notifier) {
		log.Printf("[SIM] ✅ App %s inscrito (MARCHAS)", req.Conn().RemoteAddr())
		defer log.Printf("[SIM] 🔌 App %s desinscrito (MARCHAS)", req.Conn().RemoteAddr())

		front, rear := 1, 5
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ntf.Context().Done():
				return
			case <-ticker.C:
				rear += rand.Intn(3) - 1
				if rear < 1 {
					rear = 1
				}
				if rear > 11 {
					rear = 11
				}
				if rand.Intn(10) == 0 {
					front = 3 - front // alterna entre 1 e 2
				}

				payload := encodeGears(front, rear)
				log.Printf("[SIM] Enviando marchas %dx%d, Payload: 0x%s",
					front, rear, hex.EncodeToString(payload))
				if _, err := ntf.Write(payload); err != nil {
					return
				}
			}
		}
	}))

	// Handler de Grade/Trava: a inclinação sobe e desce em rampa, e a trava
	// alterna de vez em quando, cada uma na sua própria notificação, como o
	// KICKR real faz.
	gradeChar.HandleNotify(ble.NotifyHandlerFunc(func(req ble.Request, ntf ble.Notifier) {
		log.Printf("[SIM] ✅ App %s inscrito (GRADE)", req.Conn().RemoteAddr())
		defer log.Printf("[SIM] 🔌 App %s desinscrito (GRADE)", req.Conn().RemoteAddr())

		grade := 0.0
		step := 0.4
		locked := true
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		tick := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ntf.Context().Done():
				return
			case <-ticker.C:
				tick++
				var payload []byte
				if tick%8 == 0 {
					locked = !locked
					payload = encodeLock(locked)
				} else {
					grade += step
					if grade >= 8.0 || grade <= -8.0 {
						step = -step
					}
					payload = encodeGrade(grade)
				}
				log.Printf("[SIM] Enviando grade/trava, Payload: 0x%s", hex.EncodeToString(payload))
				if _, err := ntf.Write(payload); err != nil {
					return
				}
			}
		}
	}))

	d.AddService(wahooSvc)

	for {
		if ctx.Err() != nil {
			break
		}
		fmt.Printf("[SIM] 📣 Anunciando como '%s'...\n", name)
		err = ble.AdvertiseNameAndServices(ctx, name, WahooSvcUUID)
		if err != nil {
			fmt.Printf("[SIM] Ciclo de anúncio terminado: %v. Reiniciando...\n", err)
		}
	}
	fmt.Println("[SIM] Encerrando a goroutine do simulador.")
}

// encodeGears monta o payload de marchas lido por DecodeGears: os bytes 2 e
// 3 carregam as marchas indexadas a partir de zero.
func encodeGears(front, rear int) []byte {
	return []byte{0x01, 0x00, byte(front - 1), byte(rear - 1)}
}

// encodeGrade monta o payload de grade na codificação proprietária:
// centésimos de porcento em little-endian, negativos como 0xFFFF-valor.
func encodeGrade(grade float64) []byte {
	var raw uint16
	if grade >= 0 {
		raw = uint16(grade * 100.0)
	} else {
		raw = 0xFFFF - uint16(-grade*100.0)
	}
	return []byte{0xFD, 0x34, byte(raw & 0xFF), byte(raw >> 8)}
}

// encodeLock monta o payload de trava/destrava.
func encodeLock(locked bool) []byte {
	flag := byte(0x00)
	if locked {
		flag = 0x01
	}
	return []byte{0xFD, 0x33, flag}
}
