// kickr-sim: um KICKR Bike virtual que emite marchas e grade sintéticas,
// para desenvolver o overlay sem o hardware por perto.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"kickr-gears/pkg/ble"
)

func main() {
	name := flag.String("name", "KICKR SIM 0001", "Nome anunciado pelo simulador")
	adapterID := flag.Int("adapter", 0, "ID do adaptador HCI (ex: 0 para hci0)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nEncerrando o simulador...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go ble.SimulatorRoutine(ctx, *name, *adapterID, &wg)
	wg.Wait()
}
