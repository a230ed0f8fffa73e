package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected base URL %q", cfg.API.BaseURL)
	}
	if cfg.Checkout.DefaultCurrency != "KES" {
		t.Fatalf("unexpected default currency %q", cfg.Checkout.DefaultCurrency)
	}
}

func TestLoadTrimsBaseURL(t *testing.T) {
	t.Setenv("AMERIDUKA_API_BASE_URL", " https://shop.example.com/api/ ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://shop.example.com/api" {
		t.Fatalf("base URL not normalized: %q", cfg.API.BaseURL)
	}
}
