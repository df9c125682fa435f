package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"kickr-gears/pkg/ble"
	"kickr-gears/pkg/config"
	"kickr-gears/pkg/database"

	"github.com/gorilla/websocket"
)

// Intervalo de atualização do overlay, o mesmo da janela original.
const broadcastInterval = 100 * time.Millisecond

// HubRoutine gerencia o ciclo de vida do servidor do overlay.
func HubRoutine(ctx context.Context, cancel context.CancelFunc, store *config.Store, uiState *ble.UIState, gears <-chan ble.GearUpdate, grade <-chan string, addr, staticDir string, wg *sync.WaitGroup) {
	defer wg.Done()
	fmt.Println("[WEB] Goroutine do Hub Web iniciada.")

	var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	var clients = make(map[*websocket.Conn]bool)
	var clientsMutex sync.Mutex

	go consumeAndBroadcast(ctx, uiState, store, gears, grade, &clients, &clientsMutex)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, cancel, store, &upgrader, &clients, &clientsMutex)
	})
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		fmt.Printf("[WEB] Overlay disponível em http://localhost%s\n", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[WEB] ❌ Falha ao iniciar servidor web: %s", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("[WEB] Desligando o servidor web...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB] Erro no desligamento do servidor web: %s", err)
	}
	fmt.Println("[WEB] Servidor web desligado.")
}

// consumeAndBroadcast é o único consumidor dos canais de telemetria: aplica
// cada atualização ao estado na ordem de chegada e, no tique de 100ms, envia
// o retrato atual para todos os overlays conectados. Entre dois tiques, só a
// última leitura de cada tipo aparece, mas nenhuma muda de ordem.
func consumeAndBroadcast(ctx context.Context, uiState *ble.UIState, store *config.Store, gears <-chan ble.GearUpdate, grade <-chan string, clients *map[*websocket.Conn]bool, clientsMutex *sync.Mutex) {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case g := <-gears:
			uiState.Lock()
			uiState.FrontLabel = g.Front
			uiState.RearLabel = g.Rear
			uiState.Unlock()
			// Só leituras reais de marcha viram amostra, não os status.
			if strings.HasPrefix(g.Front, "Front Gear:") {
				go database.SaveGearSample(g.Front, g.Rear)
			}

		case label := <-grade:
			uiState.Lock()
			uiState.GradeLabel = label
			uiState.Unlock()
			go database.SaveGradeSample(label)

		case <-ticker.C:
			clientsMutex.Lock()
			uiState.RLock()
			cfg := store.Snapshot()
			msg, _ := json.Marshal(map[string]interface{}{
				"type":      "statusUpdate",
				"front":     uiState.FrontLabel,
				"rear":      uiState.RearLabel,
				"grade":     uiState.GradeLabel,
				"connected": uiState.Connected,
				"scale":     cfg.Scale,
				"windowX":   cfg.WindowX,
				"windowY":   cfg.WindowY,
			})
			uiState.RUnlock()

			for client := range *clients {
				if err := client.WriteMessage(websocket.TextMessage, msg); err != nil {
					client.Close()
					delete(*clients, client)
				}
			}
			clientsMutex.Unlock()
		}
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, cancel context.CancelFunc, store *config.Store, upgrader *websocket.Upgrader, clients *map[*websocket.Conn]bool, clientsMutex *sync.Mutex) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	clientsMutex.Lock()
	(*clients)[conn] = true
	clientsMutex.Unlock()
	fmt.Printf("[WEB] Novo overlay conectado: %s\n", conn.RemoteAddr())

	defer func() {
		clientsMutex.Lock()
		delete(*clients, conn)
		clientsMutex.Unlock()
		conn.Close()
		fmt.Printf("[WEB] Overlay desconectado: %s\n", conn.RemoteAddr())
	}()

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msgType, ok := msg["type"].(string); ok {
			switch msgType {
			case "setWindowPos":
				if payload, ok := msg["payload"].(map[string]interface{}); ok {
					x, okX := payload["x"].(float64)
					y, okY := payload["y"].(float64)
					if okX && okY {
						if err := store.SetWindowPos(int(x), int(y)); err != nil {
							log.Printf("[WEB] Erro ao salvar posição da janela: %v", err)
						}
					}
				}
			case "setDialogPos":
				if payload, ok := msg["payload"].(map[string]interface{}); ok {
					x, okX := payload["x"].(float64)
					y, okY := payload["y"].(float64)
					if okX && okY {
						if err := store.SetDialogPos(int(x), int(y)); err != nil {
							log.Printf("[WEB] Erro ao salvar posição do diálogo: %v", err)
						}
					}
				}
			case "setScale":
				if payload, ok := msg["payload"].(map[string]interface{}); ok {
					if scale, ok := payload["scale"].(float64); ok {
						if err := store.SetScale(scale); err != nil {
							log.Printf("[WEB] Erro ao salvar escala: %v", err)
						}
					}
				}
			case "shutdown":
				fmt.Println("[WEB] Comando de desligamento recebido!")
				cancel()
			}
		}
	}
}
