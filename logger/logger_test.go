package logger

import "testing"

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "json" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	bad := []Config{
		{Level: "loud", Format: "json", Output: "stderr"},
		{Level: "info", Format: "xml", Output: "stderr"},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}

	good := Config{Level: "debug", Format: "console", Output: "stdout"}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "nope"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNopAndComponent(t *testing.T) {
	l := Nop().WithComponent("transport")
	// Must not panic and must be usable.
	l.Debug().Str("k", "v").Msg("discarded")
	l.Error().Msg("discarded")
}
