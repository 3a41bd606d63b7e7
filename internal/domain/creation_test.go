package domain

import (
	"errors"
	"strings"
	"testing"
)

func validRequest() TokenCreationRequest {
	return TokenCreationRequest{
		Name:        "Test",
		Symbol:      "tst",
		Decimals:    9,
		TotalSupply: "1000",
		Plan:        PlanBasic,
		MetadataSource: MetadataSource{
			Mode: MetadataURL,
			URI:  "https://example.com/m.json",
		},
	}
}

func TestTokenCreationRequest_Normalize(t *testing.T) {
	req := validRequest()
	req.Name = "  Test  "
	req.Symbol = " tst "

	got := req.Normalize()
	if got.Name != "Test" {
		t.Errorf("Name = %q, want Test", got.Name)
	}
	if got.Symbol != "TST" {
		t.Errorf("Symbol = %q, want TST", got.Symbol)
	}
	if req.Symbol != " tst " {
		t.Error("Normalize must not mutate the receiver")
	}
}

func TestTokenCreationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *TokenCreationRequest)
		wantErr bool
	}{
		{"valid", func(r *TokenCreationRequest) {}, false},
		{"valid upload mode", func(r *TokenCreationRequest) {
			r.MetadataSource = MetadataSource{Mode: MetadataUpload, Description: "d"}
		}, false},
		{"zero decimals", func(r *TokenCreationRequest) { r.Decimals = 0 }, false},
		{"empty name", func(r *TokenCreationRequest) { r.Name = "" }, true},
		{"long name", func(r *TokenCreationRequest) { r.Name = strings.Repeat("n", 33) }, true},
		{"long symbol", func(r *TokenCreationRequest) { r.Symbol = "ABCDEFGHIJK" }, true},
		{"multibyte name within 32 bytes", func(r *TokenCreationRequest) { r.Name = strings.Repeat("é", 16) }, false},
		{"multibyte name over 32 bytes", func(r *TokenCreationRequest) { r.Name = strings.Repeat("é", 30) }, true},
		{"multibyte symbol over 10 bytes", func(r *TokenCreationRequest) { r.Symbol = strings.Repeat("Ж", 10) }, true},
		{"multibyte symbol within 10 bytes", func(r *TokenCreationRequest) { r.Symbol = strings.Repeat("Ж", 5) }, false},
		{"negative decimals", func(r *TokenCreationRequest) { r.Decimals = -1 }, true},
		{"decimals above nine", func(r *TokenCreationRequest) { r.Decimals = 10 }, true},
		{"fractional supply", func(r *TokenCreationRequest) { r.TotalSupply = "1.5" }, true},
		{"negative supply", func(r *TokenCreationRequest) { r.TotalSupply = "-1" }, true},
		{"empty supply", func(r *TokenCreationRequest) { r.TotalSupply = "" }, true},
		{"exponent supply", func(r *TokenCreationRequest) { r.TotalSupply = "1e9" }, true},
		{"unknown plan", func(r *TokenCreationRequest) { r.Plan = "premium" }, true},
		{"ftp uri", func(r *TokenCreationRequest) { r.MetadataSource.URI = "ftp://example.com/x.json" }, true},
		{"missing uri", func(r *TokenCreationRequest) { r.MetadataSource.URI = "" }, true},
		{"uri without host", func(r *TokenCreationRequest) { r.MetadataSource.URI = "https:///m.json" }, true},
		{"unknown mode", func(r *TokenCreationRequest) { r.MetadataSource.Mode = "ipfs" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Normalize().Validate(MaxCreateDecimals)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTokenCreationRequest_ValidateDecimalsLimit(t *testing.T) {
	req := validRequest()
	req.Decimals = 6

	if err := req.Validate(4); !errors.Is(err, ErrValidation) {
		t.Errorf("expected decimals above configured limit to fail, got %v", err)
	}

	// Limits above nine fall back to nine for creation.
	req.Decimals = 12
	if err := req.Validate(MaxTokenDecimals); !errors.Is(err, ErrValidation) {
		t.Errorf("expected decimals 12 to fail for creation, got %v", err)
	}
}

func TestPlan(t *testing.T) {
	if !PlanBasic.RevokesAuthorities() || PlanBasic.MetadataMutable() {
		t.Error("basic plan must revoke authorities and lock metadata")
	}
	if PlanAdvanced.RevokesAuthorities() || !PlanAdvanced.MetadataMutable() {
		t.Error("advanced plan must keep authorities and mutable metadata")
	}

	p, err := ParsePlan(" Advanced ")
	if err != nil || p != PlanAdvanced {
		t.Errorf("ParsePlan = %q, %v", p, err)
	}
	if _, err := ParsePlan("gold"); err == nil {
		t.Error("expected error for unknown plan")
	}
}

func TestNetwork_ExplorerURL(t *testing.T) {
	got := NetworkDevnet.ExplorerURL("tx", "sig1")
	if got != "https://solscan.io/tx/sig1?cluster=devnet" {
		t.Errorf("devnet tx url = %s", got)
	}
	got = NetworkMainnet.ExplorerURL("token", "mint1")
	if got != "https://solscan.io/token/mint1" {
		t.Errorf("mainnet token url = %s", got)
	}
}
