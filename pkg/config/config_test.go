package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "kickr_gears_config.json"))
	if err != nil {
		t.Fatalf("Load com arquivo ausente: %v", err)
	}

	cfg := s.Snapshot()
	if cfg.WindowX != 100 || cfg.WindowY != 100 {
		t.Errorf("posição padrão = (%d, %d), esperado (100, 100)", cfg.WindowX, cfg.WindowY)
	}
	if cfg.Scale != 1.0 {
		t.Errorf("escala padrão = %v, esperado 1.0", cfg.Scale)
	}
	if cfg.DialogX != nil || cfg.DialogY != nil {
		t.Error("posição do diálogo deveria começar desconhecida")
	}
	if cfg.TrainerName != "KICKR" {
		t.Errorf("nome padrão = %q, esperado \"KICKR\"", cfg.TrainerName)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kickr_gears_config.json")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.SetWindowPos(640, 240); err != nil {
		t.Fatalf("SetWindowPos: %v", err)
	}
	if err := s.SetScale(0.75); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if err := s.SetDialogPos(300, 170); err != nil {
		t.Fatalf("SetDialogPos: %v", err)
	}

	// Recarrega do disco e confere que tudo sobreviveu.
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load após salvar: %v", err)
	}
	cfg := reloaded.Snapshot()
	if cfg.WindowX != 640 || cfg.WindowY != 240 {
		t.Errorf("posição = (%d, %d), esperado (640, 240)", cfg.WindowX, cfg.WindowY)
	}
	if cfg.Scale != 0.75 {
		t.Errorf("escala = %v, esperado 0.75", cfg.Scale)
	}
	if cfg.DialogX == nil || cfg.DialogY == nil || *cfg.DialogX != 300 || *cfg.DialogY != 170 {
		t.Errorf("posição do diálogo = (%v, %v), esperado (300, 170)", cfg.DialogX, cfg.DialogY)
	}
	if cfg.TrainerName != "KICKR" {
		t.Errorf("nome = %q, os padrões deveriam ser preservados ao salvar", cfg.TrainerName)
	}
}
