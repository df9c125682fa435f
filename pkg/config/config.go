// Package config gerencia o arquivo de configuração persistido do aplicativo.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// AppConfig define a estrutura do arquivo kickr_gears_config.json.
// Posição/escala da janela e do diálogo são reescritas pelo overlay durante
// a execução; os demais campos são lidos apenas na inicialização.
type AppConfig struct {
	WindowX     int     `json:"window_x"`
	WindowY     int     `json:"window_y"`
	Scale       float64 `json:"scale"`
	DialogX     *int    `json:"dialog_x,omitempty"`
	DialogY     *int    `json:"dialog_y,omitempty"`
	TrainerName string  `json:"trainer_name"`
	AdapterID   int     `json:"adapter_id"`
}

// Store é a configuração carregada mais o caminho do arquivo de origem,
// com as escritas serializadas por mutex.
type Store struct {
	mu   sync.Mutex
	path string
	cfg  AppConfig
}

// defaults replica os valores usados quando o arquivo ainda não existe.
func defaults() AppConfig {
	return AppConfig{
		WindowX:     100,
		WindowY:     100,
		Scale:       1.0,
		TrainerName: "KICKR",
		AdapterID:   0,
	}
}

// Load lê o arquivo de configuração do caminho fornecido. Arquivo ausente
// não é erro: o Store começa com os padrões e o arquivo é criado na
// primeira escrita.
func Load(path string) (*Store, error) {
	s := &Store{path: path, cfg: defaults()}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s.cfg); err != nil {
		return nil, err
	}
	if s.cfg.Scale == 0 {
		s.cfg.Scale = 1.0
	}
	if s.cfg.TrainerName == "" {
		s.cfg.TrainerName = "KICKR"
	}
	return s, nil
}

// Snapshot devolve uma cópia da configuração atual.
func (s *Store) Snapshot() AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetWindowPos persiste a posição da janela do overlay.
func (s *Store) SetWindowPos(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.WindowX = x
	s.cfg.WindowY = y
	return s.save()
}

// SetDialogPos persiste a posição do diálogo de escala.
func (s *Store) SetDialogPos(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.DialogX = &x
	s.cfg.DialogY = &y
	return s.save()
}

// SetScale persiste o fator de escala do overlay.
func (s *Store) SetScale(scale float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Scale = scale
	return s.save()
}

// save reescreve o arquivo inteiro. Chamar com o mutex já adquirido.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(data, '\n'), 0o644)
}
