// kickr-probe: ferramenta de diagnóstico para inspecionar as características
// proprietárias do KICKR Bike e acompanhar as notificações cruas ao vivo.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kickrble "kickr-gears/pkg/ble"
	"kickr-gears/pkg/decode"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

func main() {
	name := flag.String("name", "KICKR", "Filtra pelo nome anunciado (substring, sensível a maiúsculas)")
	mac := flag.String("mac", "", "Conecta pelo endereço MAC em vez do nome")
	adapterID := flag.Int("adapter", 0, "ID do adaptador HCI a ser usado (ex: 0 para hci0)")
	discoverMode := flag.Bool("discover", false, "Apenas descobre e lista todos os serviços e características")
	flag.Parse()

	fmt.Printf("🔎 Iniciando KICKR Probe...\n")

	d, err := linux.NewDevice(ble.OptDeviceID(*adapterID))
	if err != nil {
		log.Fatalf("❌ Falha ao selecionar adaptador hci%d: %s", *adapterID, err)
	}
	ble.SetDefaultDevice(d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	filter := func(a ble.Advertisement) bool {
		return strings.Contains(a.LocalName(), *name)
	}
	if *mac != "" {
		filter = func(a ble.Advertisement) bool {
			return strings.EqualFold(a.Addr().String(), *mac)
		}
		fmt.Printf("📡 Procurando por %s via hci%d...\n", *mac, *adapterID)
	} else {
		fmt.Printf("📡 Procurando por '%s' via hci%d...\n", *name, *adapterID)
	}

	client, err := ble.Connect(ctx, filter)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar: %s.", err)
	}
	fmt.Println("✅ Conectado ao dispositivo!")
	defer client.CancelConnection()

	fmt.Println("🔍 Descobrindo perfil do dispositivo...")
	profile, err := client.DiscoverProfile(true)
	if err != nil {
		log.Fatalf("❌ Falha ao descobrir perfil: %s", err)
	}

	if *discoverMode {
		fmt.Println("--- Modo de Descoberta ---")
		printProfile(profile)
		return
	}

	fmt.Println("--- Modo de Acompanhamento ---")
	gearChar := kickrble.FindCharacteristic(profile, kickrble.GearCharUUIDStr)
	gradeChar := kickrble.FindCharacteristic(profile, kickrble.GradeCharUUIDStr)
	if gearChar == nil && gradeChar == nil {
		log.Fatalf("❌ Nenhuma característica do KICKR encontrada. Tente o modo --discover para ver todas as disponíveis.")
	}

	var gradeState decode.GradeLockState

	if gearChar != nil {
		handler := func(data []byte) {
			front, rear := decode.DecodeGears(data)
			fmt.Printf("[MARCHAS] 0x%-16s -> %s | %s\n", hex.EncodeToString(data), front, rear)
		}
		if err := client.Subscribe(gearChar, false, handler); err != nil {
			log.Fatalf("❌ Falha ao se inscrever nas marchas: %s", err)
		}
		defer client.Unsubscribe(gearChar, false)
		fmt.Println("🔔 Inscrito na característica de marchas.")
	}

	if gradeChar != nil {
		handler := func(data []byte) {
			label, ok := gradeState.Apply(data)
			if !ok {
				label = "(estado ainda desconhecido)"
			}
			fmt.Printf("[GRADE]   0x%-16s -> %s\n", hex.EncodeToString(data), label)
		}
		if err := client.Subscribe(gradeChar, false, handler); err != nil {
			log.Fatalf("❌ Falha ao se inscrever na grade: %s", err)
		}
		defer client.Unsubscribe(gradeChar, false)
		fmt.Println("🔔 Inscrito na característica de grade.")
	}

	fmt.Println("Pressione Ctrl+C para encerrar.")
	select {
	case <-client.Disconnected():
		fmt.Println("\n🔌 Dispositivo desconectado.")
	case <-ctx.Done():
		fmt.Println("\n⚠️ Acompanhamento interrompido.")
	}
}

func printProfile(p *ble.Profile) {
	fmt.Println("-----------------------------------------")
	for _, s := range p.Services {
		fmt.Printf("Serviço: %s (%s)\n", s.UUID, ble.Name(s.UUID))
		for _, c := range s.Characteristics {
			fmt.Printf("  - Característica: %s (%s), Propriedades: %v\n", c.UUID, ble.Name(c.UUID), c.Property)
		}
	}
	fmt.Println("-----------------------------------------")
}
