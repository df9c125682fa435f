package ble

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"kickr-gears/pkg/config"
	"kickr-gears/pkg/decode"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// Janela de descoberta de cada tentativa de conexão e o atraso entre
// tentativas quando o rolo não é encontrado.
const (
	scanWindow = 10 * time.Second
	retryDelay = 1 * time.Second
)

// ClientRoutine gerencia a conexão com o KICKR físico.
// É um laço infinito: procura o dispositivo pelo nome, conecta, se inscreve
// nas duas características e espera a desconexão para recomeçar. O estado de
// grade/trava sobrevive às reconexões, igual ao restante do processo.
func ClientRoutine(ctx context.Context, cfg *config.Store, gears chan<- GearUpdate, grade chan<- string, uiState *UIState, wg *sync.WaitGroup) {

	// Garante que o WaitGroup seja notificado quando a goroutine terminar.
	defer wg.Done()
	fmt.Println("[BLE] Goroutine do cliente iniciada.")

	settings := cfg.Snapshot()

	// Configura qual adaptador Bluetooth físico usar (ex: hci0).
	d, err := linux.NewDevice(ble.OptDeviceID(settings.AdapterID))
	if err != nil {
		log.Printf("[BLE] ❌ Falha ao selecionar adaptador hci%d: %s", settings.AdapterID, err)
		return // Encerra a goroutine se o adaptador não for encontrado.
	}
	ble.SetDefaultDevice(d)

	// Estado persistido de grade/trava: um único escritor (o handler de
	// notificações de grade), vivo por todo o processo.
	var gradeState decode.GradeLockState

	// Laço infinito para garantir que o programa sempre tente se reconectar se a conexão cair.
	for {

		// Se o programa estiver sendo encerrado (Ctrl+C), sai do laço.
		if ctx.Err() != nil {
			return
		}

		gears <- GearUpdate{Front: "Scanning for", Rear: settings.TrainerName + "..."}
		fmt.Printf("[BLE] Procurando por '%s' via hci%d...\n", settings.TrainerName, settings.AdapterID)

		// Tenta se conectar a um dispositivo cujo nome anunciado contenha o
		// nome configurado (comparação sensível a maiúsculas, como o app
		// original). A janela de descoberta é limitada pelo contexto.
		scanCtx, scanCancel := context.WithTimeout(ctx, scanWindow)
		client, err := ble.Connect(scanCtx, func(a ble.Advertisement) bool {
			return strings.Contains(a.LocalName(), settings.TrainerName)
		})
		scanCancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			gears <- GearUpdate{Front: settings.TrainerName + " not found.", Rear: "Retrying..."}
			time.Sleep(retryDelay)
			continue
		}

		fmt.Println("[BLE] ✅ Conectado ao KICKR!")

		// Atualiza o estado compartilhado para informar o overlay.
		uiState.Lock()
		uiState.Connected = true
		uiState.Unlock()
		gears <- GearUpdate{Front: "Connected to:", Rear: settings.TrainerName}

		// Canal que será sinalizado pela biblioteca quando a conexão for perdida.
		disconnectedChan := client.Disconnected()
		time.Sleep(1 * time.Second)

		// Descobre todos os serviços e características do dispositivo.
		profile, err := client.DiscoverProfile(true)
		if err != nil {
			client.CancelConnection()
			dropConnection(uiState, gears, "Connection failed.", "Retrying...")
			time.Sleep(retryDelay)
			continue
		}

		gearChar := FindCharacteristic(profile, GearCharUUIDStr)
		gradeChar := FindCharacteristic(profile, GradeCharUUIDStr)
		if gearChar == nil {
			log.Println("[BLE] ❌ Característica de marchas não encontrada.")
			client.CancelConnection()
			dropConnection(uiState, gears, "Connection failed.", "Retrying...")
			time.Sleep(retryDelay)
			continue
		}

		gearHandler := func(data []byte) {
			front, rear := decode.DecodeGears(data)
			gears <- GearUpdate{Front: front, Rear: rear}
		}
		if err := client.Subscribe(gearChar, false, gearHandler); err != nil {
			log.Printf("[BLE] ❌ Falha ao se inscrever nas marchas: %s", err)
			client.CancelConnection()
			dropConnection(uiState, gears, "Connection failed.", "Retrying...")
			time.Sleep(retryDelay)
			continue
		}

		// A característica de grade é opcional: bicicletas antigas não a
		// expõem, e o app continua útil só com as marchas.
		if gradeChar != nil {
			gradeHandler := func(data []byte) {
				if label, ok := gradeState.Apply(data); ok {
					grade <- label
				}
			}
			if err := client.Subscribe(gradeChar, false, gradeHandler); err != nil {
				log.Printf("[BLE] ⚠️ Falha ao se inscrever na grade: %s", err)
			}
		} else {
			log.Println("[BLE] ⚠️ Característica de grade não encontrada.")
		}

		fmt.Println("[BLE] 🔔 Lendo marchas e grade do KICKR...")

		select {
		case <-disconnectedChan:
			dropConnection(uiState, gears, "Connection lost.", "Reconnecting...")
			fmt.Println("[BLE] 🔌 Desconectado do KICKR. Tentando reconectar...")

		case <-ctx.Done():
			fmt.Println("[BLE] Encerrando a goroutine do cliente.")
			client.CancelConnection()
			return
		}
	}
}

// dropConnection marca o overlay como desconectado e publica o status.
func dropConnection(uiState *UIState, gears chan<- GearUpdate, front, rear string) {
	uiState.Lock()
	uiState.Connected = false
	uiState.Unlock()
	gears <- GearUpdate{Front: front, Rear: rear}
}
