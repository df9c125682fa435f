package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"kickr-gears/internal/web"
	"kickr-gears/pkg/ble"
	"kickr-gears/pkg/config"
	"kickr-gears/pkg/database"
)

func main() {
	configPath := flag.String("config", "kickr_gears_config.json", "Caminho do arquivo de configuração")
	addr := flag.String("addr", ":8080", "Endereço do servidor do overlay")
	staticDir := flag.String("web", "./cmd/kickr-gears/web", "Diretório dos arquivos do overlay")
	flag.Parse()

	fmt.Println("Iniciando KICKR Gears...")

	// 1. Carrega a configuração persistida (posição, escala, nome do rolo).
	store, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Erro ao carregar %s: %v", *configPath, err)
	}

	// 2. Liga a gravação de amostras se MONGODB_URI estiver definida.
	database.InitDB()

	// 3. Cria um 'context' cancelado pelo Ctrl+C ou pelo comando de
	// desligamento do overlay.
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nSinal de interrupção recebido, encerrando...")
		cancel()
	}()

	// 4. Canais de entrega ordenada: um produtor em cada (os handlers de
	// notificação), um consumidor (o hub do overlay).
	var wg sync.WaitGroup
	gearChannel := make(chan ble.GearUpdate, 32)
	gradeChannel := make(chan string, 32)
	uiState := &ble.UIState{}

	wg.Add(2)
	go ble.ClientRoutine(ctx, store, gearChannel, gradeChannel, uiState, &wg)
	go web.HubRoutine(ctx, cancel, store, uiState, gearChannel, gradeChannel, *addr, *staticDir, &wg)

	fmt.Printf("✅ Aplicação rodando. Abra http://localhost%s para ver o overlay.\n", *addr)

	wg.Wait()
	fmt.Println("Aplicação encerrada.")
}
